package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/stockwatch/internal/common"
	"github.com/dmitrijs2005/stockwatch/internal/dbx"
	"github.com/dmitrijs2005/stockwatch/internal/server/config"
	"github.com/dmitrijs2005/stockwatch/internal/server/models"
	"github.com/dmitrijs2005/stockwatch/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/stockwatch/internal/server/repositories/stocks"
	"github.com/dmitrijs2005/stockwatch/internal/server/repositories/subscriptions"
	"github.com/dmitrijs2005/stockwatch/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{SecretKey: "k", SessionValidityDuration: time.Hour}
}

// memStore is an in-memory stand-in for the database shared by the fake
// repositories. Transactions are not isolated.
type memStore struct {
	mu       sync.Mutex
	seq      int
	users    map[string]*models.User
	stocks   map[string]*models.Stock
	subs     map[[2]string]bool
	sessions map[string]*models.Session

	failUsers    error
	failStocks   error
	failSubs     error
	failSessions error
	// insertLoses makes the next N subscription inserts report a conflict.
	insertLoses int
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]*models.User{},
		stocks:   map[string]*models.Stock{},
		subs:     map[[2]string]bool{},
		sessions: map[string]*models.Session{},
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memStore) subCount(userID, stockID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.subs[[2]string{userID, stockID}] {
		return 1
	}
	return 0
}

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failUsers != nil {
		return nil, r.s.failUsers
	}
	if _, ok := r.s.users[u.UserName]; ok {
		return nil, common.ErrorAlreadyExists
	}
	c := *u
	c.ID = r.s.nextID("user")
	c.CreatedAt = time.Now()
	r.s.users[c.UserName] = &c
	return &c, nil
}

func (r memUsers) GetUserByLogin(_ context.Context, login string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failUsers != nil {
		return nil, r.s.failUsers
	}
	u, ok := r.s.users[login]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type memStocks struct{ s *memStore }

func (r memStocks) EnsureExists(_ context.Context, ticker, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failStocks != nil {
		return r.s.failStocks
	}
	if _, ok := r.s.stocks[ticker]; !ok {
		r.s.stocks[ticker] = &models.Stock{ID: r.s.nextID("stock"), Ticker: ticker, Name: name}
	}
	return nil
}

func (r memStocks) GetByTicker(_ context.Context, ticker string) (*models.Stock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failStocks != nil {
		return nil, r.s.failStocks
	}
	st, ok := r.s.stocks[ticker]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return st, nil
}

func (r memStocks) List(_ context.Context) ([]*models.Stock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failStocks != nil {
		return nil, r.s.failStocks
	}
	out := make([]*models.Stock, 0, len(r.s.stocks))
	for _, st := range r.s.stocks {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out, nil
}

type memSubs struct{ s *memStore }

func (r memSubs) Insert(_ context.Context, userID, stockID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failSubs != nil {
		return false, r.s.failSubs
	}
	if r.s.insertLoses > 0 {
		r.s.insertLoses--
		return false, nil
	}
	k := [2]string{userID, stockID}
	if r.s.subs[k] {
		return false, nil
	}
	r.s.subs[k] = true
	return true, nil
}

func (r memSubs) Delete(_ context.Context, userID, stockID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failSubs != nil {
		return false, r.s.failSubs
	}
	k := [2]string{userID, stockID}
	if !r.s.subs[k] {
		return false, nil
	}
	delete(r.s.subs, k)
	return true, nil
}

func (r memSubs) ListTickers(_ context.Context, userID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failSubs != nil {
		return nil, r.s.failSubs
	}
	out := []string{}
	for _, st := range r.s.stocks {
		if r.s.subs[[2]string{userID, st.ID}] {
			out = append(out, st.Ticker)
		}
	}
	sort.Strings(out)
	return out, nil
}

type memSessions struct{ s *memStore }

func (r memSessions) Create(_ context.Context, sess *models.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failSessions != nil {
		return r.s.failSessions
	}
	c := *sess
	r.s.sessions[c.ID] = &c
	return nil
}

func (r memSessions) Find(_ context.Context, id string) (*models.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failSessions != nil {
		return nil, r.s.failSessions
	}
	sess, ok := r.s.sessions[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return sess, nil
}

func (r memSessions) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failSessions != nil {
		return r.s.failSessions
	}
	delete(r.s.sessions, id)
	return nil
}

func (r memSessions) DeleteExpired(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, sess := range r.s.sessions {
		if sess.Expires.Before(time.Now()) {
			delete(r.s.sessions, id)
			n++
		}
	}
	return n, nil
}

type fakeRepoManager struct{ s *memStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return memUsers{m.s} }
func (m *fakeRepoManager) Stocks(dbx.DBTX) stocks.Repository            { return memStocks{m.s} }
func (m *fakeRepoManager) Subscriptions(dbx.DBTX) subscriptions.Repository {
	return memSubs{m.s}
}
func (m *fakeRepoManager) Sessions(dbx.DBTX) sessions.Repository { return memSessions{m.s} }

func newAccountService(t *testing.T, db *sql.DB, store *memStore) *AccountService {
	t.Helper()
	return NewAccountService(db, &fakeRepoManager{store}, NewBcryptHasher(bcrypt.MinCost), testConfig())
}

// seedStocks fills the store with the catalog directly, bypassing the
// transaction so tests need no Begin/Commit expectations for it.
func seedStocks(t *testing.T, store *memStore) {
	t.Helper()
	repo := memStocks{store}
	for _, e := range models.Catalog {
		if err := repo.EnsureExists(context.Background(), e.Ticker, e.Name); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}
