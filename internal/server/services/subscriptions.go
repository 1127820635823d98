package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/stockwatch/internal/common"
	"github.com/dmitrijs2005/stockwatch/internal/dbx"
	"github.com/dmitrijs2005/stockwatch/internal/server/models"
	"github.com/dmitrijs2005/stockwatch/internal/server/repositories/repomanager"
)

// toggleAttempts bounds how often a toggle that lost an insert race reruns.
const toggleAttempts = 3

// maxTickerLength matches the stocks.ticker column.
const maxTickerLength = 10

type SubscriptionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewSubscriptionService(db *sql.DB, m repomanager.RepositoryManager) *SubscriptionService {
	return &SubscriptionService{db: db, repomanager: m}
}

// Toggle flips the user's subscription to ticker. Unknown tickers yield
// common.ErrorNotFound and write nothing.
func (s *SubscriptionService) Toggle(ctx context.Context, userID, ticker string) (models.ToggleOutcome, error) {
	if !storableText(ticker, maxTickerLength) {
		return 0, common.ErrorNotFound
	}

	var outcome models.ToggleOutcome

	err := dbx.WithTxRetry(ctx, s.db, nil, toggleAttempts, func(ctx context.Context, tx dbx.DBTX) error {
		stock, err := s.repomanager.Stocks(tx).GetByTicker(ctx, ticker)
		if err != nil {
			return err
		}

		repo := s.repomanager.Subscriptions(tx)

		removed, err := repo.Delete(ctx, userID, stock.ID)
		if err != nil {
			return err
		}
		if removed {
			outcome = models.Unsubscribed
			return nil
		}

		added, err := repo.Insert(ctx, userID, stock.ID)
		if err != nil {
			return err
		}
		if !added {
			return dbx.ErrRetry
		}
		outcome = models.Subscribed
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("%w: toggle %s: %w", common.ErrorInternal, ticker, err)
	}

	return outcome, nil
}

// ListTickers returns the user's subscribed tickers, ordered.
func (s *SubscriptionService) ListTickers(ctx context.Context, userID string) ([]string, error) {
	tickers, err := s.repomanager.Subscriptions(s.db).ListTickers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing subscriptions: %w", err)
	}
	return tickers, nil
}
