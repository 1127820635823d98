package services

import (
	"context"
	"database/sql"
	"math/rand/v2"
	"testing"

	"github.com/dmitrijs2005/stockwatch/internal/common"
	"github.com/dmitrijs2005/stockwatch/internal/logging"
	"github.com/dmitrijs2005/stockwatch/internal/server/models"
	"github.com/dmitrijs2005/stockwatch/internal/server/prices"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedPrices struct{}

func (fixedPrices) Generate(ticker string) decimal.Decimal {
	return decimal.NewFromFloat(prices.BasePrice(ticker))
}

func (f fixedPrices) Snapshot(tickers []string) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(tickers))
	for _, t := range tickers {
		out[t] = f.Generate(t)
	}
	return out
}

func newDashboard(db *sql.DB, store *memStore, src PriceSource) *DashboardService {
	rm := &fakeRepoManager{store}
	return NewDashboardService(
		NewCatalogService(db, rm),
		NewSubscriptionService(db, rm),
		src,
		logging.Nop{},
	)
}

func TestDashboard_SeedsAndMarksSubscriptions(t *testing.T) {
	db, mock := newSQLMockDB(t)
	store := newMemStore()
	d := newDashboard(db, store, fixedPrices{})

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	ctx := context.Background()
	view, err := d.Dashboard(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"GOOG", "TSLA", "AMZN", "META", "NVDA"}, tickersOf(view.Stocks))
	assert.Empty(t, view.Subscribed)

	out, err := d.Toggle(ctx, "u1", "META")
	require.NoError(t, err)
	assert.Equal(t, models.Subscribed, out)

	view, err = d.Dashboard(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, view.IsSubscribed("META"))
	assert.False(t, view.IsSubscribed("GOOG"))
	assert.Len(t, store.stocks, 5)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboard_SeedFailure(t *testing.T) {
	db, mock := newSQLMockDB(t)
	store := newMemStore()
	store.failStocks = errBoom
	d := newDashboard(db, store, fixedPrices{})

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := d.Dashboard(context.Background(), "u1")
	assert.ErrorIs(t, err, errBoom)
}

func TestPriceSnapshot(t *testing.T) {
	db, _ := newSQLMockDB(t)
	store := newMemStore()
	seedStocks(t, store)
	store.subs[[2]string{"u1", store.stocks["TSLA"].ID}] = true
	d := newDashboard(db, store, fixedPrices{})

	snap, err := d.PriceSnapshot(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, snap, 1)
	assert.True(t, snap["TSLA"].Equal(decimal.NewFromInt(700)))

	snap, err = d.PriceSnapshot(context.Background(), "u2")
	require.NoError(t, err)
	assert.Empty(t, snap)
}

func TestPriceSnapshot_Error(t *testing.T) {
	db, _ := newSQLMockDB(t)
	store := newMemStore()
	store.failSubs = errBoom
	d := newDashboard(db, store, fixedPrices{})

	_, err := d.PriceSnapshot(context.Background(), "u1")
	assert.ErrorIs(t, err, errBoom)
}

func TestToggle_NotFoundPassesThrough(t *testing.T) {
	db, mock := newSQLMockDB(t)
	store := newMemStore()
	seedStocks(t, store)
	d := newDashboard(db, store, fixedPrices{})

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := d.Toggle(context.Background(), "u1", "NOPE")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

// Register, log in, view the dashboard, subscribe to GOOG, poll prices,
// unsubscribe and poll again.
func TestEndToEndScenario(t *testing.T) {
	db, mock := newSQLMockDB(t)
	store := newMemStore()
	accounts := newAccountService(t, db, store)
	d := newDashboard(db, store, prices.NewGenerator(rand.NewPCG(11, 13)))
	ctx := context.Background()

	_, err := accounts.Register(ctx, "alice@example.com", "p", "p")
	require.NoError(t, err)

	login, err := accounts.Authenticate(ctx, "alice@example.com", "p")
	require.NoError(t, err)
	sess, err := accounts.ResolveSession(ctx, login.Token)
	require.NoError(t, err)
	userID := sess.UserID

	mock.ExpectBegin()
	mock.ExpectCommit()
	view, err := d.Dashboard(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, view.Stocks, 5)
	assert.Empty(t, view.Subscribed)

	mock.ExpectBegin()
	mock.ExpectCommit()
	out, err := d.Toggle(ctx, userID, "GOOG")
	require.NoError(t, err)
	assert.Equal(t, models.Subscribed, out)

	snap, err := d.PriceSnapshot(ctx, userID)
	require.NoError(t, err)
	require.Len(t, snap, 1)
	p := snap["GOOG"]
	assert.True(t, p.GreaterThanOrEqual(decimal.NewFromInt(1450)), p.String())
	assert.True(t, p.LessThanOrEqual(decimal.NewFromInt(1550)), p.String())

	mock.ExpectBegin()
	mock.ExpectCommit()
	out, err = d.Toggle(ctx, userID, "GOOG")
	require.NoError(t, err)
	assert.Equal(t, models.Unsubscribed, out)

	snap, err = d.PriceSnapshot(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, snap)

	require.NoError(t, accounts.Logout(ctx, login.Token))
	_, err = accounts.ResolveSession(ctx, login.Token)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	require.NoError(t, mock.ExpectationsWereMet())
}
