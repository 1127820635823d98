package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/stockwatch/internal/dbx"
	"github.com/dmitrijs2005/stockwatch/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/stockwatch/internal/server/repositories/stocks"
	"github.com/dmitrijs2005/stockwatch/internal/server/repositories/subscriptions"
	"github.com/dmitrijs2005/stockwatch/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Stocks(db dbx.DBTX) stocks.Repository
	Subscriptions(db dbx.DBTX) subscriptions.Repository
	Sessions(db dbx.DBTX) sessions.Repository
}

// sessionOverride routes Sessions to a fixed store (e.g. Redis) and
// delegates everything else.
type sessionOverride struct {
	RepositoryManager
	store sessions.Repository
}

func (m sessionOverride) Sessions(dbx.DBTX) sessions.Repository {
	return m.store
}

// WithSessionStore returns a manager whose Sessions always yields store,
// regardless of the handle passed in.
func WithSessionStore(m RepositoryManager, store sessions.Repository) RepositoryManager {
	return sessionOverride{RepositoryManager: m, store: store}
}
