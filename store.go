package zepstream

import (
	"context"
	"strings"

	"github.com/samber/lo"
)

// Store is the remote memory a stream commits its accumulated message to.
//
// Implementations must be safe for concurrent use: several streams may be
// finalized at the same time.
type Store interface {
	// AppendMessage records one message on a thread.
	AppendMessage(ctx context.Context, threadId string, role Role, content string) error
}

// StoreFunc adapts a plain function to a Store.
type StoreFunc func(ctx context.Context, threadId string, role Role, content string) error

func (f StoreFunc) AppendMessage(ctx context.Context, threadId string, role Role, content string) error {
	return f(ctx, threadId, role, content)
}

// ContextFetcher is implemented by stores able to give back the context of a
// thread, to be included in the next prompt.
type ContextFetcher interface {
	ThreadContext(ctx context.Context, threadId string) (string, error)
}

// FormatContext renders messages as a transcript, one "role: content" line
// per message.
func FormatContext(messages []Message) string {
	lines := lo.Map(messages, func(m Message, _ int) string {
		return m.Role.String() + ": " + m.Content
	})

	return strings.Join(lines, "\n")
}
