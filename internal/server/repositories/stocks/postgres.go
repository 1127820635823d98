// Package stocks provides the PostgreSQL-backed stock catalog repository.
package stocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/stockwatch/internal/common"
	"github.com/dmitrijs2005/stockwatch/internal/dbx"
	"github.com/dmitrijs2005/stockwatch/internal/server/models"
)

// PostgresRepository implements stock storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureExists inserts a stock row keyed by ticker. An existing row is left
// untouched, so concurrent callers never hit a duplicate-key error.
func (r *PostgresRepository) EnsureExists(ctx context.Context, ticker, name string) error {
	query := `
		INSERT INTO stocks (ticker, name)
		VALUES ($1, $2)
		ON CONFLICT (ticker) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, ticker, name); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetByTicker returns common.ErrorNotFound for unknown tickers.
func (r *PostgresRepository) GetByTicker(ctx context.Context, ticker string) (*models.Stock, error) {
	query := `
		SELECT id, ticker, name
		FROM stocks
		WHERE ticker = $1
	`
	stock := &models.Stock{}
	if err := r.db.QueryRowContext(ctx, query, ticker).Scan(&stock.ID, &stock.Ticker, &stock.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return stock, nil
}

// List returns every stored stock ordered by ticker.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Stock, error) {
	query := `SELECT id, ticker, name FROM stocks ORDER BY ticker`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select stocks: %w", err)
	}
	defer rows.Close()

	var result []*models.Stock
	for rows.Next() {
		var s models.Stock
		if err := rows.Scan(&s.ID, &s.Ticker, &s.Name); err != nil {
			return nil, err
		}
		result = append(result, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
