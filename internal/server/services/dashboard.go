package services

import (
	"context"

	"github.com/dmitrijs2005/stockwatch/internal/logging"
	"github.com/dmitrijs2005/stockwatch/internal/server/models"
	"github.com/shopspring/decimal"
)

// PriceSource produces a simulated price for a ticker.
type PriceSource interface {
	Generate(ticker string) decimal.Decimal
	Snapshot(tickers []string) map[string]decimal.Decimal
}

// DashboardView is what the dashboard page renders.
type DashboardView struct {
	Stocks     []*models.Stock
	Subscribed map[string]bool
}

// IsSubscribed reports whether ticker is among the user's subscriptions.
func (v *DashboardView) IsSubscribed(ticker string) bool {
	return v.Subscribed[ticker]
}

// DashboardService composes the catalog, subscriptions and price source for
// the authenticated pages.
type DashboardService struct {
	catalog       *CatalogService
	subscriptions *SubscriptionService
	prices        PriceSource
	logger        logging.Logger
}

func NewDashboardService(catalog *CatalogService, subscriptions *SubscriptionService, prices PriceSource, logger logging.Logger) *DashboardService {
	return &DashboardService{
		catalog:       catalog,
		subscriptions: subscriptions,
		prices:        prices,
		logger:        logger.With("module", "dashboard"),
	}
}

// Dashboard seeds the catalog and returns the stock list with the user's
// subscription state.
func (s *DashboardService) Dashboard(ctx context.Context, userID string) (*DashboardView, error) {
	if err := s.catalog.EnsureSeeded(ctx); err != nil {
		return nil, err
	}

	stocks, err := s.catalog.ListSupported(ctx)
	if err != nil {
		return nil, err
	}

	tickers, err := s.subscriptions.ListTickers(ctx, userID)
	if err != nil {
		return nil, err
	}

	subscribed := make(map[string]bool, len(tickers))
	for _, t := range tickers {
		subscribed[t] = true
	}

	return &DashboardView{Stocks: stocks, Subscribed: subscribed}, nil
}

func (s *DashboardService) Toggle(ctx context.Context, userID, ticker string) (models.ToggleOutcome, error) {
	outcome, err := s.subscriptions.Toggle(ctx, userID, ticker)
	if err != nil {
		return 0, err
	}
	s.logger.Info(ctx, "subscription toggled", "user_id", userID, "ticker", ticker, "outcome", outcome.String())
	return outcome, nil
}

// PriceSnapshot returns a fresh price for each ticker the user subscribes to.
func (s *DashboardService) PriceSnapshot(ctx context.Context, userID string) (map[string]decimal.Decimal, error) {
	tickers, err := s.subscriptions.ListTickers(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.prices.Snapshot(tickers), nil
}
