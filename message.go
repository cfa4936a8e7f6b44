package zepstream

import "time"

// Role represent "who" (or "what") composed a message.
//
// Stores and the cache treat it as an opaque string, so any role understood
// by the remote store can be used.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

func (r Role) String() string {
	return string(r)
}

// Message is a message recorded on a thread by a local store.
type Message struct {
	Id        string    `json:"id"`
	ThreadId  string    `json:"thread_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
