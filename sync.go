package zepstream

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// Collect consumes a whole stream and returns its chunks.
//
// The stream is finalized and closed when Collect returns. The chunks
// consumed before an error are returned alongside it.
func Collect[T any](s *Stream[T]) ([]T, error) {
	chunks := make([]T, 0)

	for chunk := range s.All() {
		chunks = append(chunks, chunk)
	}

	return chunks, s.Err()
}

// DrainAll consumes several streams concurrently, for their side effect of
// committing their messages, and returns the error each of them ended with,
// in the same order.
func DrainAll[T any](streams ...*Stream[T]) []error {
	var wg sync.WaitGroup

	errs := make([]error, len(streams))

	for idx, stream := range streams {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if stream == nil {
				errs[idx] = errors.Newf("stream %d is nil", idx)
				return
			}

			_, errs[idx] = Collect(stream)
		}()
	}

	wg.Wait()

	return errs
}
