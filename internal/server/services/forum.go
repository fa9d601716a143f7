package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophforum/internal/common"
	"github.com/dmitrijs2005/gophforum/internal/logging"
	"github.com/dmitrijs2005/gophforum/internal/server/config"
	"github.com/dmitrijs2005/gophforum/internal/server/models"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophforum/internal/server/storage"
)

// ForumService implements threads, messages, tags, pagination and search.
//
// It does not validate lengths or check ownership itself; the *As methods
// add the author-or-admin rule for callers acting on behalf of a user.
type ForumService struct {
	store       *storage.Storage
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	pageSize    int

	// now stamps new messages; replaced in tests
	now func() time.Time
}

func NewForumService(store *storage.Storage, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *ForumService {
	if logger == nil {
		logger = logging.Nop()
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 8
	}
	return &ForumService{
		store:       store,
		repomanager: m,
		logger:      logger.With("module", "forum"),
		pageSize:    pageSize,
		now:         time.Now,
	}
}

// Threads lists every thread, newest first.
func (s *ForumService) Threads(ctx context.Context) ([]models.ThreadSummary, error) {
	return s.repomanager.Threads(s.store.Gateway()).List(ctx)
}

// maxPageSize caps the page size a caller may ask for.
const maxPageSize = 100

// ThreadsPage returns page number page (from 1) of the thread listing. A
// non-positive size selects the configured page size; sizes above
// maxPageSize are capped. Pages past the end are empty.
func (s *ForumService) ThreadsPage(ctx context.Context, page, size int) (*models.Page, error) {
	if size <= 0 {
		size = s.pageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	if page < 1 {
		page = 1
	}

	repo := s.repomanager.Threads(s.store.Gateway())

	total, err := repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}

	p := &models.Page{
		Threads:    []models.ThreadSummary{},
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: totalPages,
	}
	if page > totalPages {
		return p, nil
	}

	threads, err := repo.ListPage(ctx, int64(page-1)*int64(size), size)
	if err != nil {
		return nil, err
	}
	p.Threads = threads
	return p, nil
}

func (s *ForumService) Thread(ctx context.Context, id int64) (*models.Thread, error) {
	return s.repomanager.Threads(s.store.Gateway()).GetByID(ctx, id)
}

// Messages lists the messages of a thread in posting order.
func (s *ForumService) Messages(ctx context.Context, threadID int64) ([]models.Message, error) {
	return s.repomanager.Messages(s.store.Gateway()).ListByThread(ctx, threadID)
}

func (s *ForumService) Message(ctx context.Context, id int64) (*models.Message, error) {
	return s.repomanager.Messages(s.store.Gateway()).GetByID(ctx, id)
}

// Tags lists every tag in use, by name.
func (s *ForumService) Tags(ctx context.Context) ([]models.Tag, error) {
	return s.repomanager.Tags(s.store.Gateway()).List(ctx)
}

// CreateThread creates a thread with its opening message and returns the
// thread id. A non-blank tagName is attached, creating the tag on first use.
// Everything happens in one transaction.
func (s *ForumService) CreateThread(ctx context.Context, title, content string, userID int64, tagName string) (int64, error) {
	tagName = strings.TrimSpace(tagName)
	sentAt := s.now().UTC()

	var threadID int64
	err := s.store.WithTx(ctx, func(ctx context.Context, tx *storage.Gateway) error {
		thread := &models.Thread{Title: title, UserID: userID}

		if tagName != "" {
			tagID, err := s.repomanager.Tags(tx).Ensure(ctx, tagName)
			if err != nil {
				return err
			}
			thread.TagID = &tagID
		}

		id, err := s.repomanager.Threads(tx).Create(ctx, thread)
		if err != nil {
			return err
		}

		_, err = s.repomanager.Messages(tx).Create(ctx, &models.Message{
			Content:  content,
			SentAt:   sentAt,
			UserID:   userID,
			ThreadID: id,
		})
		if err != nil {
			return err
		}

		threadID = id
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info(ctx, "thread created", "thread_id", threadID, "user_id", userID, "tag", tagName)
	return threadID, nil
}

// AddMessage posts a reply to threadID and returns the new message id. An
// unknown thread yields common.ErrorNotFound.
func (s *ForumService) AddMessage(ctx context.Context, content string, userID, threadID int64) (int64, error) {
	id, err := s.repomanager.Messages(s.store.Gateway()).Create(ctx, &models.Message{
		Content:  content,
		SentAt:   s.now().UTC(),
		UserID:   userID,
		ThreadID: threadID,
	})
	if err != nil {
		return 0, err
	}

	s.logger.Debug(ctx, "message added", "message_id", id, "thread_id", threadID, "user_id", userID)
	return id, nil
}

// UpdateMessage replaces the content of message id.
func (s *ForumService) UpdateMessage(ctx context.Context, id int64, content string) error {
	return s.repomanager.Messages(s.store.Gateway()).UpdateContent(ctx, id, content)
}

// RemoveMessage deletes message id.
func (s *ForumService) RemoveMessage(ctx context.Context, id int64) error {
	return s.repomanager.Messages(s.store.Gateway()).Delete(ctx, id)
}

// EditMessageAs is UpdateMessage for actorID, who must be the author or an admin.
func (s *ForumService) EditMessageAs(ctx context.Context, actorID, messageID int64, content string) (*models.Message, error) {
	msg, err := s.authorize(ctx, actorID, messageID)
	if err != nil {
		return nil, err
	}
	if err := s.UpdateMessage(ctx, messageID, content); err != nil {
		return nil, err
	}
	msg.Content = content
	return msg, nil
}

// RemoveMessageAs is RemoveMessage for actorID, who must be the author or an admin.
func (s *ForumService) RemoveMessageAs(ctx context.Context, actorID, messageID int64) (*models.Message, error) {
	msg, err := s.authorize(ctx, actorID, messageID)
	if err != nil {
		return nil, err
	}
	if err := s.RemoveMessage(ctx, messageID); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "message removed", "message_id", messageID, "actor_id", actorID)
	return msg, nil
}

func (s *ForumService) authorize(ctx context.Context, actorID, messageID int64) (*models.Message, error) {
	msg, err := s.Message(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.UserID == actorID {
		return msg, nil
	}

	actor, err := s.repomanager.Users(s.store.Gateway()).GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorForbidden
		}
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, common.ErrorForbidden
	}
	return msg, nil
}

// Search finds messages whose content, thread title, author or tag contains
// query, ignoring case, newest first. A blank query returns no results.
func (s *ForumService) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.SearchResult{}, nil
	}
	return s.repomanager.Messages(s.store.Gateway()).Search(ctx, query)
}
