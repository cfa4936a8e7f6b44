// Package jsonl is a Store appending thread messages to a JSON lines file,
// one message per line.
package jsonl

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/checkmarble/zepstream"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/simonfrey/jsonl"
)

const defaultContextSize = 20

var (
	_ zepstream.Store          = (*Jsonl)(nil)
	_ zepstream.ContextFetcher = (*Jsonl)(nil)
)

type Jsonl struct {
	mu   sync.Mutex
	path string
	file *os.File

	contextSize int
	now         func() time.Time
}

type Opt func(*Jsonl)

// WithContextSize sets how many of the latest messages are returned as the
// context of a thread.
func WithContextSize(size int) Opt {
	return func(j *Jsonl) {
		j.contextSize = size
	}
}

// WithClock replaces the function used to timestamp recorded messages.
func WithClock(now func() time.Time) Opt {
	return func(j *Jsonl) {
		j.now = now
	}
}

// New opens, or creates, the transcript file at path. Existing messages are
// kept and new ones are appended.
func New(path string, opts ...Opt) (*Jsonl, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open transcript file '%s'", path)
	}

	j := Jsonl{
		path:        path,
		file:        file,
		contextSize: defaultContextSize,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(&j)
	}

	return &j, nil
}

func (j *Jsonl) AppendMessage(ctx context.Context, threadId string, role zepstream.Role, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := zepstream.Message{
		Id:        uuid.NewString(),
		ThreadId:  threadId,
		Role:      role,
		Content:   content,
		CreatedAt: j.now(),
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if err := jsonl.NewWriter(j.file).Write(msg); err != nil {
		return errors.Wrap(err, "could not write message to transcript")
	}

	return nil
}

// Messages reads back every message recorded on a thread, oldest first.
func (j *Jsonl) Messages(threadId string) ([]zepstream.Message, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	file, err := os.Open(j.path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open transcript file '%s'", j.path)
	}
	defer file.Close()

	messages := make([]zepstream.Message, 0)

	err = jsonl.NewReader(file).ReadLines(func(data []byte) error {
		var msg zepstream.Message

		if err := json.Unmarshal(data, &msg); err != nil {
			return errors.Wrap(err, "could not decode transcript line")
		}

		if msg.ThreadId == threadId {
			messages = append(messages, msg)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return messages, nil
}

func (j *Jsonl) ThreadContext(ctx context.Context, threadId string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	messages, err := j.Messages(threadId)
	if err != nil {
		return "", err
	}

	if j.contextSize > 0 && len(messages) > j.contextSize {
		messages = messages[len(messages)-j.contextSize:]
	}

	return zepstream.FormatContext(messages), nil
}

func (j *Jsonl) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.file.Close()
}
