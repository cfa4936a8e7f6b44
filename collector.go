package zepstream

import (
	"context"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// Extractor pulls the incremental text out of one chunk of a stream.
//
// Different LLM APIs produce different chunk shapes, so each of them comes
// with its own extractor (see the llms packages). An extractor returning an
// error, or panicking, contributes no text for that chunk and never
// interrupts the stream.
type Extractor[T any] func(chunk T) (string, error)

// collector accumulates the text of one stream and commits it once.
//
// It does not know how the stream is consumed: the sync and async wrappers
// feed it text and decide when to finalize it. Only one goroutine appends to
// a given collector, but finalize may race from different exit paths.
type collector struct {
	config

	threadId string
	store    Store

	mu     sync.Mutex
	buffer strings.Builder

	once sync.Once
}

func newCollector(threadId string, store Store, opts []Option) *collector {
	return &collector{
		config:   newConfig(opts),
		threadId: threadId,
		store:    store,
	}
}

func observe[T any](c *collector, chunk T, extract Extractor[T]) {
	text, err := extractText(extract, chunk)
	if err != nil {
		c.logger.Debug("could not extract text from chunk", "thread_id", c.threadId, "error", err)
		return
	}

	c.append(text)
}

func extractText[T any](extract Extractor[T], chunk T) (text string, err error) {
	if extract == nil {
		return "", nil
	}

	defer func() {
		if r := recover(); r != nil {
			text, err = "", errors.Newf("extractor panicked: %v", r)
		}
	}()

	return extract(chunk)
}

func (c *collector) append(text string) {
	if text == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.buffer.WriteString(text)
}

func (c *collector) text() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.buffer.String()
}

// finalize commits the accumulated text. Only the first call does anything,
// subsequent calls return nil.
func (c *collector) finalize(ctx context.Context) error {
	var err error

	c.once.Do(func() {
		err = c.commit(ctx)
	})

	return err
}

func (c *collector) commit(ctx context.Context) error {
	logger := c.logger.With("thread_id", c.threadId, "role", c.role)
	content := c.text()

	if strings.TrimSpace(content) == "" {
		logger.Debug("stream produced no content, nothing to record")
		return nil
	}

	if c.cache.IsMessageSeen(c.threadId, c.role, content, c.now()) {
		logger.Debug("message was already recorded, skipping")
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}

	ctx = context.WithoutCancel(ctx)

	if c.commitTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.commitTimeout)
		defer cancel()
	}

	err := ErrNoStore
	if c.store != nil {
		err = c.store.AppendMessage(ctx, c.threadId, c.role, content)
	}

	if err != nil {
		err = errors.Mark(errors.Wrapf(err, "could not append message to thread '%s'", c.threadId), ErrStoreIntegration)

		if c.skipOnError {
			logger.Warn("could not record streamed message", "error", err.Error())
			return nil
		}

		return err
	}

	logger.Debug("recorded streamed message", "length", len(content))

	return nil
}
