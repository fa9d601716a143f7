package grpc

import (
	"time"

	"github.com/dmitrijs2005/gophforum/internal/forumpb"
	"github.com/dmitrijs2005/gophforum/internal/server/markup"
	"github.com/dmitrijs2005/gophforum/internal/server/models"
)

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func toUser(u *models.User) forumpb.User {
	return forumpb.User{
		ID:           u.ID,
		Username:     u.UserName,
		Role:         u.Role.String(),
		Bio:          u.Bio,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt.UTC(),
	}
}

func toThread(t *models.Thread) forumpb.Thread {
	return forumpb.Thread{
		ID:     t.ID,
		Title:  t.Title,
		UserID: t.UserID,
		TagID:  t.TagID,
	}
}

func toSummaries(threads []models.ThreadSummary) []forumpb.ThreadSummary {
	out := make([]forumpb.ThreadSummary, 0, len(threads))
	for i := range threads {
		t := &threads[i]
		out = append(out, forumpb.ThreadSummary{
			Thread:        toThread(&t.Thread),
			Username:      t.UserName,
			Tag:           t.TagName,
			MessageCount:  t.MessageCount,
			LastMessageAt: utcPtr(t.LastMessageAt),
		})
	}
	return out
}

func toMessage(m *models.Message) forumpb.Message {
	return forumpb.Message{
		ID:       m.ID,
		Content:  m.Content,
		SentAt:   m.SentAt.UTC(),
		UserID:   m.UserID,
		ThreadID: m.ThreadID,
		Username: m.UserName,
	}
}

func toMessages(messages []models.Message) []forumpb.Message {
	out := make([]forumpb.Message, 0, len(messages))
	for i := range messages {
		out = append(out, toMessage(&messages[i]))
	}
	return out
}

// toRenderedMessages also renders each message's content to HTML.
func toRenderedMessages(messages []models.Message) ([]forumpb.Message, error) {
	out := make([]forumpb.Message, 0, len(messages))
	for i := range messages {
		m := toMessage(&messages[i])
		html, err := markup.Render(messages[i].Content)
		if err != nil {
			return nil, err
		}
		m.ContentHTML = html
		out = append(out, m)
	}
	return out, nil
}

func toSearchResults(results []models.SearchResult) []forumpb.SearchResult {
	out := make([]forumpb.SearchResult, 0, len(results))
	for i := range results {
		r := &results[i]
		out = append(out, forumpb.SearchResult{
			Message:     toMessage(&r.Message),
			ThreadTitle: r.ThreadTitle,
			Tag:         r.TagName,
		})
	}
	return out
}
