package client

import (
	"github.com/dmitrijs2005/gophforum/internal/client/models"
	"github.com/dmitrijs2005/gophforum/internal/forumpb"
)

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func decodeUser(u *forumpb.User) models.User {
	return models.User{
		ID:           u.ID,
		UserName:     u.Username,
		Role:         u.Role,
		Bio:          deref(u.Bio),
		ProfileImage: deref(u.ProfileImage),
		AvatarURL:    deref(u.AvatarURL),
		CreatedAt:    u.CreatedAt,
	}
}

func decodeSummaries(items []forumpb.ThreadSummary) []models.ThreadSummary {
	out := make([]models.ThreadSummary, 0, len(items))
	for i := range items {
		it := &items[i]
		out = append(out, models.ThreadSummary{
			ID:            it.ID,
			Title:         it.Title,
			UserName:      it.Username,
			Tag:           deref(it.Tag),
			MessageCount:  it.MessageCount,
			LastMessageAt: it.LastMessageAt,
		})
	}
	return out
}

func decodeMessage(m *forumpb.Message) models.Message {
	return models.Message{
		ID:          m.ID,
		ThreadID:    m.ThreadID,
		UserID:      m.UserID,
		UserName:    m.Username,
		Content:     m.Content,
		ContentHTML: m.ContentHTML,
		SentAt:      m.SentAt,
	}
}

func decodeMessages(items []forumpb.Message) []models.Message {
	out := make([]models.Message, 0, len(items))
	for i := range items {
		out = append(out, decodeMessage(&items[i]))
	}
	return out
}
