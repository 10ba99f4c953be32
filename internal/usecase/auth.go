package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/polkiloo/orderdesk/internal/config"
	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/domain/repository"
	"github.com/polkiloo/orderdesk/internal/mailer"
	pkgAuth "github.com/polkiloo/orderdesk/internal/pkg/auth"
)

const (
	resetTokenBytes = 32
	resetTokenTTL   = time.Hour
	minPasswordLen  = 6
	userListLimit   = 10

	dummyPassword = "orderdesk-unknown-account"
)

// Registration carries the fields of a new staff account.
type Registration struct {
	Email     string
	Password  string
	Code      string
	FirstName string
	LastName  string
	Username  string
	Phone     string
}

// AuthUseCase handles staff accounts, sessions and password recovery.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
	mailer mailer.Mailer
	logger *slog.Logger
	appURL string
	now    func() time.Time

	// dummyHash is compared against on unknown emails so a failed login
	// costs the same whether or not the account exists.
	dummyHash func() string
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(
	users repository.UserRepository,
	hasher pkgAuth.PasswordHasher,
	strategy pkgAuth.Strategy,
	m mailer.Mailer,
	cfg *config.Config,
	logger *slog.Logger,
) *AuthUseCase {
	u := &AuthUseCase{
		users:  users,
		hasher: hasher,
		tokens: strategy,
		mailer: m,
		logger: logger,
		appURL: strings.TrimRight(cfg.AppURL, "/"),
		now:    time.Now,
	}
	u.dummyHash = sync.OnceValue(func() string {
		h, err := hasher.Hash(dummyPassword)
		if err != nil {
			logger.Warn("dummy password hash failed", slog.String("error", err.Error()))
			return ""
		}
		return h
	})
	return u
}

// Register creates a staff account. The welcome mail is best effort.
func (u *AuthUseCase) Register(ctx context.Context, r Registration) (*model.User, error) {
	email := strings.TrimSpace(r.Email)
	if email == "" {
		return nil, domainErrors.NewValidationError("email", "is required")
	}
	if len(r.Password) < minPasswordLen {
		return nil, domainErrors.NewValidationError("password", "must be at least 6 characters")
	}
	code, err := parseCode(r.Code)
	if err != nil {
		return nil, err
	}

	hash, err := u.hasher.Hash(r.Password)
	if err != nil {
		return nil, err
	}

	usr, err := u.users.Create(ctx, model.User{
		Email:         email,
		PasswordHash:  hash,
		SecondaryCode: code,
		FirstName:     strings.TrimSpace(r.FirstName),
		LastName:      strings.TrimSpace(r.LastName),
		Username:      strings.TrimSpace(r.Username),
		Phone:         strings.TrimSpace(r.Phone),
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}

	if err := u.mailer.SendWelcome(ctx, usr.Email, usr.FirstName); err != nil {
		u.logger.Warn("welcome mail failed", slog.String("email", usr.Email), slog.String("error", err.Error()))
	}
	return usr, nil
}

// Authenticate checks email, password and secondary code and issues a
// session token. A non-numeric code is rejected before any lookup.
func (u *AuthUseCase) Authenticate(ctx context.Context, email, password, rawCode string) (*model.User, string, error) {
	code, err := parseCode(rawCode)
	if err != nil {
		return nil, "", err
	}

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			_ = u.hasher.Compare(u.dummyHash(), password)
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}
	if usr.SecondaryCode != code {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(model.Principal{UserID: usr.ID, Email: usr.Email, SecondaryCode: usr.SecondaryCode})
	if err != nil {
		return nil, "", err
	}
	return usr, token, nil
}

// ValidateSession resolves a token to its principal.
func (u *AuthUseCase) ValidateSession(token string) (model.Principal, error) {
	if token == "" {
		return model.Principal{}, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// RecoverPassword mails a one-hour reset link. Unknown addresses succeed
// silently so callers cannot probe for accounts.
func (u *AuthUseCase) RecoverPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return domainErrors.NewValidationError("email", "is required")
	}

	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			u.logger.Info("password recovery for unknown email")
			return nil
		}
		return err
	}

	token, err := newResetToken()
	if err != nil {
		return err
	}
	if err := u.users.SetResetToken(ctx, usr.ID, token, u.now().Add(resetTokenTTL)); err != nil {
		return err
	}

	link := u.appURL + "/reset-password?token=" + url.QueryEscape(token)
	if err := u.mailer.SendRecovery(ctx, usr.Email, link); err != nil {
		u.logger.Error("recovery mail failed", slog.Int64("userID", usr.ID), slog.String("error", err.Error()))
	}
	return nil
}

// ResetPassword replaces the password of the account holding token.
func (u *AuthUseCase) ResetPassword(ctx context.Context, token, password string) error {
	if len(password) < minPasswordLen {
		return domainErrors.NewValidationError("password", "must be at least 6 characters")
	}
	if token == "" {
		return domainErrors.ErrInvalidResetToken
	}

	usr, err := u.users.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrInvalidResetToken
		}
		return err
	}
	if !u.now().Before(usr.ResetExpiresAt) {
		return domainErrors.ErrInvalidResetToken
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return err
	}
	if err := u.users.UpdatePassword(ctx, usr.ID, hash); err != nil {
		return err
	}

	if err := u.mailer.SendPasswordChanged(ctx, usr.Email); err != nil {
		u.logger.Warn("password changed mail failed", slog.Int64("userID", usr.ID), slog.String("error", err.Error()))
	}
	return nil
}

// GetByID fetches user by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}

// ListUsers returns the first staff accounts in id order.
func (u *AuthUseCase) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := u.users.List(ctx, userListLimit)
	if err != nil {
		return nil, domainErrors.Persistence("list users", err)
	}
	return users, nil
}

func parseCode(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domainErrors.NewValidationError("secondaryCode", "is required")
	}
	code, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domainErrors.NewValidationError("secondaryCode", "must be numeric")
	}
	return code, nil
}

func newResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
