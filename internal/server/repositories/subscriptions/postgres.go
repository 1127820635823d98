// Package subscriptions provides the PostgreSQL-backed user↔stock
// subscription repository. The (user_id, stock_id) unique constraint is what
// keeps concurrent toggles from producing duplicates.
package subscriptions

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/stockwatch/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, userID, stockID string) (bool, error) {
	query := `
		INSERT INTO subscriptions (user_id, stock_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, stock_id) DO NOTHING
	`
	return r.exec(ctx, query, userID, stockID)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, stockID string) (bool, error) {
	query := `
		DELETE FROM subscriptions
		WHERE user_id = $1 AND stock_id = $2
	`
	return r.exec(ctx, query, userID, stockID)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("unexpected rows affected: %d", n)
	}
}

func (r *PostgresRepository) ListTickers(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT s.ticker
		FROM subscriptions sub
		JOIN stocks s ON s.id = sub.stock_id
		WHERE sub.user_id = $1
		ORDER BY s.ticker
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select subscriptions: %w", err)
	}
	defer rows.Close()

	tickers := []string{}
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, err
		}
		tickers = append(tickers, ticker)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickers, nil
}
