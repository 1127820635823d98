package sessions

import (
	"context"

	"github.com/dmitrijs2005/stockwatch/internal/server/models"
)

// Repository stores login sessions. Postgres and Redis both implement it.
type Repository interface {
	Create(ctx context.Context, session *models.Session) error
	Find(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
