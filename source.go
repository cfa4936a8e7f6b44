package zepstream

import "iter"

// Source is a stream of chunks, as produced by an LLM API.
//
// It follows the shape of openai-go's ssestream.Stream, which can be used
// directly: Next advances to the next chunk and reports whether there is one,
// Current returns it, Err reports why the stream stopped early, and Close
// releases the underlying resources.
type Source[T any] interface {
	Next() bool
	Current() T
	Err() error
	Close() error
}

type sliceSource[T any] struct {
	chunks []T
	idx    int
}

// FromSlice creates a source emitting the given chunks in order.
func FromSlice[T any](chunks []T) Source[T] {
	return &sliceSource[T]{chunks: chunks, idx: -1}
}

func (s *sliceSource[T]) Next() bool {
	if s.idx+1 >= len(s.chunks) {
		s.idx = len(s.chunks)
		return false
	}

	s.idx++

	return true
}

func (s *sliceSource[T]) Current() T {
	if s.idx < 0 || s.idx >= len(s.chunks) {
		return *new(T)
	}

	return s.chunks[s.idx]
}

func (*sliceSource[T]) Err() error   { return nil }
func (*sliceSource[T]) Close() error { return nil }

type seqSource[T any] struct {
	next    func() (T, error, bool)
	stop    func()
	current T
	err     error
	done    bool
}

// FromSeq2 creates a source from a push iterator yielding chunks or errors,
// such as the ones returned by the genai SDK. The first error ends the
// source and is reported by Err.
func FromSeq2[T any](seq iter.Seq2[T, error]) Source[T] {
	next, stop := iter.Pull2(seq)

	return &seqSource[T]{next: next, stop: stop}
}

func (s *seqSource[T]) Next() bool {
	if s.done {
		return false
	}

	chunk, err, ok := s.next()

	switch {
	case !ok:
		s.done = true
		return false
	case err != nil:
		s.done = true
		s.err = err
		return false
	}

	s.current = chunk

	return true
}

func (s *seqSource[T]) Current() T {
	return s.current
}

func (s *seqSource[T]) Err() error {
	return s.err
}

func (s *seqSource[T]) Close() error {
	s.done = true
	s.stop()

	return nil
}
