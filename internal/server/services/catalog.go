package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/stockwatch/internal/dbx"
	"github.com/dmitrijs2005/stockwatch/internal/server/models"
	"github.com/dmitrijs2005/stockwatch/internal/server/repositories/repomanager"
)

// CatalogService keeps the supported stocks persisted and lists them in
// catalog order.
type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	entries     []models.CatalogEntry
}

func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager) *CatalogService {
	return &CatalogService{db: db, repomanager: m, entries: models.Catalog}
}

// EnsureSeeded inserts any missing catalog stock. Existing rows are left
// untouched, so it can run on every request.
func (s *CatalogService) EnsureSeeded(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Stocks(tx)
		for _, e := range s.entries {
			if err := repo.EnsureExists(ctx, e.Ticker, e.Name); err != nil {
				return fmt.Errorf("error seeding %s: %w", e.Ticker, err)
			}
		}
		return nil
	})
}

// ListSupported returns the persisted catalog stocks in catalog order.
// Tickers that were never seeded are skipped.
func (s *CatalogService) ListSupported(ctx context.Context) ([]*models.Stock, error) {
	all, err := s.repomanager.Stocks(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing stocks: %w", err)
	}

	byTicker := make(map[string]*models.Stock, len(all))
	for _, st := range all {
		byTicker[st.Ticker] = st
	}

	out := make([]*models.Stock, 0, len(s.entries))
	for _, e := range s.entries {
		if st, ok := byTicker[e.Ticker]; ok {
			out = append(out, st)
		}
	}
	return out, nil
}
