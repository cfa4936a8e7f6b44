package zepstream

import (
	"context"
	"iter"

	"github.com/cockroachdb/errors"
)

// Stream wraps a Source, yielding its chunks unchanged, while accumulating
// the text they carry. Once the source is exhausted, or the stream is closed,
// the accumulated text is committed to the store as one message, exactly once.
//
// It can be used as a drop-in replacement for the wrapped source:
//
//	stream := zepstream.NewStream(ctx, source, threadId, store, extract)
//	defer stream.Close()
//
//	for stream.Next() {
//		chunk := stream.Current()
//		// ...
//	}
//
//	if err := stream.Err(); err != nil {
//		// ...
//	}
//
// A Stream, Close included, must be used from a single goroutine. Use
// AsyncStream to consume chunks from another goroutine.
type Stream[T any] struct {
	_ noCopy

	ctx       context.Context
	source    Source[T]
	extract   Extractor[T]
	collector *collector

	current T
	done    bool
	closed  bool
	err     error
}

// NewStream wraps a source to record its content on a thread of the store.
//
// The context is handed to the store when the message is committed. Its
// cancellation does not prevent the commit.
func NewStream[T any](ctx context.Context, source Source[T], threadId string, store Store, extract Extractor[T], opts ...Option) *Stream[T] {
	return &Stream[T]{
		ctx:       ctx,
		source:    source,
		extract:   extract,
		collector: newCollector(threadId, store, opts),
	}
}

// Next advances the stream to the next chunk, which will then be available
// through Current.
//
// When the underlying source has no more chunks, the stream is finalized
// before Next returns false. Any error, from the source or from committing
// the message, is then available through Err.
func (s *Stream[T]) Next() bool {
	if s.done {
		return false
	}

	if s.source.Next() {
		s.current = s.source.Current()

		observe(s.collector, s.current, s.extract)

		return true
	}

	s.done = true
	s.current = *new(T)

	if err := s.source.Err(); err != nil {
		s.err = errors.Wrap(err, "stream ended with an error")
	}

	if err := s.collector.finalize(s.ctx); err != nil {
		s.err = errors.CombineErrors(s.err, err)
	}

	return false
}

// Current returns the chunk the stream was advanced to by Next.
func (s *Stream[T]) Current() T {
	return s.current
}

// Err returns the error that ended the stream, if any.
func (s *Stream[T]) Err() error {
	return s.err
}

// Text returns the text accumulated so far.
func (s *Stream[T]) Text() string {
	return s.collector.text()
}

// Close finalizes the stream if it was not already, and closes the underlying
// source. Chunks that were not consumed are never pulled from the source, and
// are not part of the committed message. An error closing the source is also
// reported by Err.
//
// It is safe to call Close several times, or after the stream was exhausted.
// The source is only closed once.
func (s *Stream[T]) Close() error {
	err := s.collector.finalize(s.ctx)

	if !s.done {
		s.done = true

		if err != nil {
			s.err = errors.CombineErrors(s.err, err)
		}
	}

	if s.closed {
		return err
	}

	s.closed = true

	if closeErr := s.source.Close(); closeErr != nil {
		closeErr = errors.Wrap(closeErr, "could not close stream")

		s.err = errors.CombineErrors(s.err, closeErr)
		err = errors.CombineErrors(err, closeErr)
	}

	return err
}

// All returns an iterator over the chunks of the stream. The stream is
// closed, thus finalized, when the loop ends, whether it consumed all chunks
// or not. Errors are available through Err afterwards.
//
//	for chunk := range stream.All() {
//		// ...
//	}
func (s *Stream[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer s.Close()

		for s.Next() {
			if !yield(s.Current()) {
				return
			}
		}
	}
}
