// Package models holds the client-side view of forum data as returned by
// the server.
package models

import "time"

type User struct {
	ID           int64
	UserName     string
	Role         string
	Bio          string
	ProfileImage string
	AvatarURL    string
	CreatedAt    time.Time
}

// ThreadSummary is one row of a thread listing.
type ThreadSummary struct {
	ID            int64
	Title         string
	UserName      string
	Tag           string
	MessageCount  int64
	LastMessageAt *time.Time
}

type ThreadPage struct {
	Threads    []ThreadSummary
	Page       int
	PageSize   int
	Total      int64
	TotalPages int
}

type Thread struct {
	ID       int64
	Title    string
	UserID   int64
	Messages []Message
}

type Message struct {
	ID          int64
	ThreadID    int64
	UserID      int64
	UserName    string
	Content     string
	ContentHTML string
	SentAt      time.Time
}

// SearchHit is a message matched by a search.
type SearchHit struct {
	Message
	ThreadTitle string
	Tag         string
}

type Profile struct {
	User         User
	ThreadCount  int64
	MessageCount int64
	Threads      []ThreadSummary
	Messages     []Message
}
