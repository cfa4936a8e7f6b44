package zepstream

import (
	"slices"
	"sync"
	"time"

	"github.com/checkmarble/zepstream/internal/fingerprint"
)

const (
	// DefaultThreadCapacity is the maximum number of records kept per thread.
	DefaultThreadCapacity = 1000
	// DefaultNearDuplicateWindow is how close two identical messages must be
	// for the second one to be considered a duplicate of the first.
	DefaultNearDuplicateWindow = time.Second
)

var (
	defaultCache     *Cache
	defaultCacheOnce sync.Once
)

type seenMessage struct {
	role        Role
	fingerprint uint64
	createdAt   time.Time
}

// Cache records which messages were already committed to a thread, so the
// same assistant response is not written twice when a stream is finalized
// through several code paths, or replayed by a caller.
//
// It is safe for concurrent use. All operations take a single lock for the
// whole cache, and are bounded by the per-thread capacity. The zero value is
// an empty cache using the default capacity and near-duplicate window.
type Cache struct {
	mu      sync.Mutex
	threads map[string][]seenMessage

	capacity int
	window   time.Duration
}

type CacheOption func(*Cache)

// WithThreadCapacity sets how many records are kept per thread. When a thread
// exceeds it, only the most recent records (by timestamp) are retained.
func WithThreadCapacity(capacity int) CacheOption {
	return func(c *Cache) {
		if capacity > 0 {
			c.capacity = capacity
		}
	}
}

// WithNearDuplicateWindow sets the time window in which two identical
// messages on the same thread are considered to be the same message.
func WithNearDuplicateWindow(window time.Duration) CacheOption {
	return func(c *Cache) {
		if window >= 0 {
			c.window = window
		}
	}
}

// NewCache creates an empty cache.
//
// Applications should create one cache and share it between all the streams
// writing to the same store.
func NewCache(opts ...CacheOption) *Cache {
	c := Cache{
		threads:  make(map[string][]seenMessage),
		capacity: DefaultThreadCapacity,
		window:   DefaultNearDuplicateWindow,
	}

	for _, opt := range opts {
		opt(&c)
	}

	return &c
}

// DefaultCache returns the process-wide cache, creating it on first use.
//
// It is used by streams that were not given an explicit cache. It lives as
// long as the process and is shared by every caller of this package.
func DefaultCache() *Cache {
	defaultCacheOnce.Do(func() {
		defaultCache = NewCache()
	})

	return defaultCache
}

// IsMessageSeen tells whether a message was already recorded for a thread.
//
// Empty or whitespace-only content is always reported as seen, since there
// is never a reason to persist it. Otherwise, the message is considered seen
// if the thread holds a record with the same role and content that was
// created at the same time, or within the near-duplicate window. If it was
// not seen, it is recorded and false is returned: the caller is then
// responsible for persisting it.
func (c *Cache) IsMessageSeen(threadId string, role Role, content string, createdAt time.Time) bool {
	if c == nil {
		return false
	}

	hash, ok := fingerprint.Of(content)
	if !ok {
		return true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.threads == nil {
		c.threads = make(map[string][]seenMessage)
	}

	// Only a zero-value cache has no capacity.
	if c.capacity <= 0 {
		c.capacity = DefaultThreadCapacity
		c.window = DefaultNearDuplicateWindow
	}

	records := c.threads[threadId]

	for _, record := range records {
		if record.role != role || record.fingerprint != hash {
			continue
		}

		if record.createdAt.Equal(createdAt) {
			return true
		}

		if delta := record.createdAt.Sub(createdAt).Abs(); delta < c.window {
			return true
		}
	}

	records = append(records, seenMessage{role: role, fingerprint: hash, createdAt: createdAt})

	c.threads[threadId] = c.evict(records)

	return false
}

// evict keeps only the most recent records of a thread, by timestamp.
func (c *Cache) evict(records []seenMessage) []seenMessage {
	capacity := c.capacity
	if capacity <= 0 {
		capacity = DefaultThreadCapacity
	}

	if len(records) <= capacity {
		return records
	}

	slices.SortStableFunc(records, func(a, b seenMessage) int {
		return a.createdAt.Compare(b.createdAt)
	})

	return slices.Clone(records[len(records)-capacity:])
}

// ClearThread forgets every record of a thread. Unknown threads are ignored.
func (c *Cache) ClearThread(threadId string) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.threads, threadId)
}

// ClearAll forgets every record of every thread.
func (c *Cache) ClearAll() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.threads = make(map[string][]seenMessage)
}

// Len returns the number of records currently held for a thread.
func (c *Cache) Len(threadId string) int {
	if c == nil {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.threads[threadId])
}
