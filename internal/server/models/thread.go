package models

import "time"

type Tag struct {
	ID   int64
	Name string
}

type Thread struct {
	ID     int64
	Title  string
	UserID int64
	TagID  *int64
}

// ThreadSummary is a thread as shown in listings.
type ThreadSummary struct {
	Thread
	UserName      string
	TagName       *string
	MessageCount  int64
	LastMessageAt *time.Time
}

// Page is one page of the thread listing. Page numbers start at 1.
type Page struct {
	Threads    []ThreadSummary
	Page       int
	PageSize   int
	Total      int64
	TotalPages int
}
