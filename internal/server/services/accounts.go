// Package services contains server-side business logic. This file implements
// AccountService, which handles signup, login, logout and resolving the
// session behind a cookie token.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/stockwatch/internal/common"
	"github.com/dmitrijs2005/stockwatch/internal/server/auth"
	"github.com/dmitrijs2005/stockwatch/internal/server/config"
	"github.com/dmitrijs2005/stockwatch/internal/server/models"
	"github.com/dmitrijs2005/stockwatch/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const msgPasswordTooLong = "Ensure this password has at most 72 bytes."

// maxEmailLength matches the users.username column.
const maxEmailLength = 254

// LoginResult is returned by a successful Authenticate. Token goes into the
// session cookie.
type LoginResult struct {
	User    *models.User
	Session *models.Session
	Token   string
}

// AccountService provides the account lifecycle:
// - Register: create users keyed by email
// - Authenticate: verify credentials and open a session
// - ResolveSession / Logout: look up and close sessions by cookie token
type AccountService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	hasher          PasswordHasher
	jwtSecret       []byte
	sessionValidity time.Duration
	now             func() time.Time
	dummyHash       func() (string, error)
}

// NewAccountService constructs an AccountService using repositories and
// server config.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, cfg *config.Config) *AccountService {
	s := &AccountService{
		db:              db,
		repomanager:     m,
		hasher:          hasher,
		jwtSecret:       []byte(cfg.SecretKey),
		sessionValidity: cfg.SessionValidityDuration,
		now:             time.Now,
	}
	s.dummyHash = sync.OnceValues(func() (string, error) {
		return hasher.Hash("stockwatch-unknown-user")
	})
	return s
}

// Register validates the signup form and creates the user. It does not log
// the user in.
func (s *AccountService) Register(ctx context.Context, email, password, confirmPassword string) (*models.User, error) {
	email = strings.TrimSpace(email)
	verr := &ValidationError{}

	if email == "" {
		verr.add(FieldEmail, MsgRequired)
	} else if !storableText(email, maxEmailLength) {
		verr.add(FieldEmail, MsgInvalidEmail)
	} else if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		verr.add(FieldEmail, MsgInvalidEmail)
	}
	if password == "" {
		verr.add(FieldPassword, MsgRequired)
	}
	if password != confirmPassword {
		verr.add(FieldConfirmPassword, MsgPasswordMismatch)
	}

	repo := s.repomanager.Users(s.db)

	if _, ok := verr.Fields[FieldEmail]; !ok {
		_, err := repo.GetUserByLogin(ctx, email)
		switch {
		case err == nil:
			verr.add(FieldEmail, MsgDuplicateEmail)
		case !errors.Is(err, common.ErrorNotFound):
			return nil, fmt.Errorf("%w: error looking up user: %v", common.ErrorInternal, err)
		}
	}

	if !verr.empty() {
		return nil, verr
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			verr.add(FieldPassword, msgPasswordTooLong)
			return nil, verr
		}
		return nil, fmt.Errorf("%w: error hashing password: %v", common.ErrorInternal, err)
	}

	user, err := repo.Create(ctx, &models.User{UserName: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			verr.add(FieldEmail, MsgDuplicateEmail)
			return nil, verr
		}
		return nil, fmt.Errorf("%w: error creating user: %v", common.ErrorInternal, err)
	}

	return user, nil
}

// Authenticate checks the credentials and opens a session. Unknown emails and
// wrong passwords both yield common.ErrorUnauthorized after a bcrypt compare.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if !storableText(email, maxEmailLength) {
		s.compareDummy(password)
		return nil, common.ErrorUnauthorized
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByLogin(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.compareDummy(password)
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: error looking up user: %v", common.ErrorInternal, err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, common.ErrorUnauthorized
	}

	session := &models.Session{
		ID:      uuid.NewString(),
		UserID:  user.ID,
		Expires: s.now().Add(s.sessionValidity),
	}
	if err := s.repomanager.Sessions(s.db).Create(ctx, session); err != nil {
		return nil, fmt.Errorf("%w: error creating session: %v", common.ErrorInternal, err)
	}

	token, err := auth.GenerateToken(session.ID, user.ID, s.jwtSecret, session.Expires)
	if err != nil {
		return nil, fmt.Errorf("%w: error signing token: %v", common.ErrorInternal, err)
	}

	return &LoginResult{User: user, Session: session, Token: token}, nil
}

// ResolveSession returns the live session behind token. A bad signature, an
// expired token or a missing session record all yield common.ErrorUnauthorized.
func (s *AccountService) ResolveSession(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, common.ErrorUnauthorized
	}

	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}

	session, err := s.repomanager.Sessions(s.db).Find(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: error searching session: %v", common.ErrorInternal, err)
	}

	if session.UserID != claims.UserID || !session.Expires.After(s.now()) {
		return nil, common.ErrorUnauthorized
	}

	return session, nil
}

// Logout deletes the session behind token. Tokens that do not parse are
// ignored.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil
	}
	if err := s.repomanager.Sessions(s.db).Delete(ctx, claims.SessionID); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

// PruneSessions removes expired sessions and reports how many were dropped.
func (s *AccountService) PruneSessions(ctx context.Context) (int64, error) {
	return s.repomanager.Sessions(s.db).DeleteExpired(ctx)
}

func (s *AccountService) compareDummy(password string) {
	hash, err := s.dummyHash()
	if err != nil {
		return
	}
	_ = s.hasher.Compare(hash, password)
}

// storableText reports whether s fits a text column of limit bytes: valid
// UTF-8 without NUL.
func storableText(s string, limit int) bool {
	return len(s) <= limit && utf8.ValidString(s) && !strings.ContainsRune(s, 0)
}
