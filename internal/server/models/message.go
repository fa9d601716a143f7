package models

import "time"

type Message struct {
	ID       int64
	Content  string
	SentAt   time.Time
	UserID   int64
	ThreadID int64
	UserName string
}

// SearchResult is a message matched by a search together with the thread
// it belongs to.
type SearchResult struct {
	Message
	ThreadTitle string
	TagName     *string
}
