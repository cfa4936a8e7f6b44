package zepstream

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
)

// AsyncStream is the channel-based counterpart of Stream. A background
// goroutine pulls chunks from the source and hands them over the channel
// returned by Chunks, accumulating the text of every chunk delivered to the
// consumer. The message is committed once, before the channel is closed.
//
//	stream := zepstream.NewAsyncStream(ctx, source, threadId, store, extract)
//	defer stream.Close()
//
//	for chunk := range stream.Chunks() {
//		// ...
//	}
//
//	if err := stream.Err(); err != nil {
//		// ...
//	}
//
// Cancelling the context, or calling Close, stops pulling from the source and
// commits what was delivered so far. A chunk pulled from the source but not
// yet delivered when that happens is dropped, and is not committed.
type AsyncStream[T any] struct {
	_ noCopy

	ctx    context.Context
	runCtx context.Context
	cancel context.CancelFunc

	source    Source[T]
	extract   Extractor[T]
	collector *collector

	start sync.Once
	out   chan T
	done  chan struct{}
	err   error
}

// NewAsyncStream wraps a source to record its content on a thread of the
// store. Nothing is pulled from the source until Chunks is called.
//
// The background goroutine pulls the next chunk before the consumer receives
// it. When the stream is closed early, one more chunk than was delivered may
// thus have been pulled from the source. That chunk is discarded and is not
// part of the committed message. Use Stream when no chunk may be pulled
// beyond what is consumed.
//
// The source should honor the context to be interrupted while waiting for
// the next chunk, as openai-go and genai streams do.
func NewAsyncStream[T any](ctx context.Context, source Source[T], threadId string, store Store, extract Extractor[T], opts ...Option) *AsyncStream[T] {
	runCtx, cancel := context.WithCancel(ctx)

	return &AsyncStream[T]{
		ctx:       ctx,
		runCtx:    runCtx,
		cancel:    cancel,
		source:    source,
		extract:   extract,
		collector: newCollector(threadId, store, opts),
		out:       make(chan T),
		done:      make(chan struct{}),
	}
}

// Chunks starts consuming the source, and returns the channel the chunks are
// delivered on, in order. The channel is closed after the stream was
// finalized. Calling it several times returns the same channel.
func (s *AsyncStream[T]) Chunks() <-chan T {
	s.start.Do(func() {
		go s.run()
	})

	return s.out
}

func (s *AsyncStream[T]) run() {
	defer s.cancel()

	var err error

Pump:
	for s.runCtx.Err() == nil && s.source.Next() {
		chunk := s.source.Current()

		select {
		case s.out <- chunk:
			observe(s.collector, chunk, s.extract)

		case <-s.runCtx.Done():
			break Pump
		}
	}

	if srcErr := s.source.Err(); srcErr != nil {
		if s.runCtx.Err() == nil || !errors.Is(srcErr, context.Canceled) {
			err = errors.Wrap(srcErr, "stream ended with an error")
		}
	}

	if finalizeErr := s.collector.finalize(s.ctx); finalizeErr != nil {
		err = errors.CombineErrors(err, finalizeErr)
	}

	if closeErr := s.source.Close(); closeErr != nil {
		err = errors.CombineErrors(err, errors.Wrap(closeErr, "could not close stream"))
	}

	s.err = err

	close(s.done)
	close(s.out)
}

// Wait blocks until the stream is finalized, which happens once its chunks
// were all consumed, or it was cancelled, and returns the same error as Err.
func (s *AsyncStream[T]) Wait() error {
	<-s.done

	return s.err
}

// Err returns the error that ended the stream, if any. It is only meaningful
// once the channel returned by Chunks was closed.
func (s *AsyncStream[T]) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Text returns the text accumulated so far.
func (s *AsyncStream[T]) Text() string {
	return s.collector.text()
}

// Close stops consuming the source, finalizes the stream if it was not
// already, and waits for it to be finished.
//
// It is safe to call Close several times, or after the stream was exhausted.
func (s *AsyncStream[T]) Close() error {
	s.cancel()

	s.start.Do(func() {
		go s.run()
	})

	return s.Wait()
}
