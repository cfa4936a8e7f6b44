// Package memory is an in-process Store, recording thread messages in memory.
//
// It is meant for tests and short-lived programs: nothing survives the
// process.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/checkmarble/zepstream"
	"github.com/google/uuid"
)

const defaultContextSize = 20

var (
	_ zepstream.Store          = (*Memory)(nil)
	_ zepstream.ContextFetcher = (*Memory)(nil)
)

type Memory struct {
	mu      sync.Mutex
	threads map[string]*zepstream.History[zepstream.Message]

	contextSize int
	now         func() time.Time
}

type Opt func(*Memory)

// WithContextSize sets how many of the latest messages are returned as the
// context of a thread.
func WithContextSize(size int) Opt {
	return func(m *Memory) {
		m.contextSize = size
	}
}

// WithClock replaces the function used to timestamp recorded messages.
func WithClock(now func() time.Time) Opt {
	return func(m *Memory) {
		m.now = now
	}
}

func New(opts ...Opt) *Memory {
	m := Memory{
		threads:     make(map[string]*zepstream.History[zepstream.Message]),
		contextSize: defaultContextSize,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(&m)
	}

	return &m
}

func (m *Memory) thread(threadId string) *zepstream.History[zepstream.Message] {
	m.mu.Lock()
	defer m.mu.Unlock()

	history, ok := m.threads[threadId]
	if !ok {
		history = &zepstream.History[zepstream.Message]{}
		m.threads[threadId] = history
	}

	return history
}

// lookup returns the history of a thread without creating it.
func (m *Memory) lookup(threadId string) (*zepstream.History[zepstream.Message], bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	history, ok := m.threads[threadId]

	return history, ok
}

func (m *Memory) AppendMessage(ctx context.Context, threadId string, role zepstream.Role, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.thread(threadId).Save(zepstream.Message{
		Id:        uuid.NewString(),
		ThreadId:  threadId,
		Role:      role,
		Content:   content,
		CreatedAt: m.now(),
	})

	return nil
}

// Messages returns every message recorded on a thread, oldest first.
func (m *Memory) Messages(threadId string) []zepstream.Message {
	history, ok := m.lookup(threadId)
	if !ok {
		return []zepstream.Message{}
	}

	return history.Load()
}

func (m *Memory) ThreadContext(ctx context.Context, threadId string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	history, ok := m.lookup(threadId)
	if !ok {
		return "", nil
	}

	return zepstream.FormatContext(history.Last(m.contextSize)), nil
}

// Clear forgets a thread.
func (m *Memory) Clear(threadId string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.threads, threadId)
}
