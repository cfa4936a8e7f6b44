package zepstream

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) AppendMessage(ctx context.Context, threadId string, role Role, content string) error {
	args := m.Called(ctx, threadId, role, content)

	return args.Error(0)
}

// countingSource records how many times the wrapped source was advanced.
type countingSource[T any] struct {
	Source[T]

	mu     sync.Mutex
	pulls  int
	closed bool
}

func newCountingSource[T any](chunks ...T) *countingSource[T] {
	return &countingSource[T]{Source: FromSlice(chunks)}
}

func (s *countingSource[T]) Next() bool {
	s.mu.Lock()
	s.pulls++
	s.mu.Unlock()

	return s.Source.Next()
}

func (s *countingSource[T]) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	return s.Source.Close()
}

func (s *countingSource[T]) Pulls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pulls
}

func (s *countingSource[T]) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

func textOf(chunk string) (string, error) {
	return chunk, nil
}
