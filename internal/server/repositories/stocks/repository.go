package stocks

import (
	"context"

	"github.com/dmitrijs2005/stockwatch/internal/server/models"
)

type Repository interface {
	// EnsureExists inserts the stock unless its ticker is already present.
	EnsureExists(ctx context.Context, ticker, name string) error
	GetByTicker(ctx context.Context, ticker string) (*models.Stock, error)
	List(ctx context.Context) ([]*models.Stock, error)
}
