// Package repomanager vends repositories bound to a storage gateway, so the
// same code runs against the pool or inside a transaction.
package repomanager

import (
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/messages"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/tags"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/threads"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/users"
	"github.com/dmitrijs2005/gophforum/internal/server/storage"
)

type RepositoryManager interface {
	Users(db *storage.Gateway) users.Repository
	Threads(db *storage.Gateway) threads.Repository
	Messages(db *storage.Gateway) messages.Repository
	Tags(db *storage.Gateway) tags.Repository
	RefreshTokens(db *storage.Gateway) refreshtokens.Repository
}

// SQLRepositoryManager vends the SQL repositories. It holds no state; the
// dialect travels with the gateway.
type SQLRepositoryManager struct{}

func NewRepositoryManager() RepositoryManager {
	return &SQLRepositoryManager{}
}

func (m *SQLRepositoryManager) Users(db *storage.Gateway) users.Repository {
	return users.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Threads(db *storage.Gateway) threads.Repository {
	return threads.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Messages(db *storage.Gateway) messages.Repository {
	return messages.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Tags(db *storage.Gateway) tags.Repository {
	return tags.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) RefreshTokens(db *storage.Gateway) refreshtokens.Repository {
	return refreshtokens.NewSQLRepository(db)
}
