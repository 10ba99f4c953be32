package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/polkiloo/orderdesk/internal/config"
	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	pkgAuth "github.com/polkiloo/orderdesk/internal/pkg/auth"
	testhelpers "github.com/polkiloo/orderdesk/internal/test"
)

func newStrategyStub() testhelpers.StrategyStub {
	return testhelpers.StrategyStub{
		IssueFn: func(p model.Principal) (string, error) {
			return fmt.Sprintf("token-%d-%d", p.UserID, p.SecondaryCode), nil
		},
		ParseFn: func(token string) (model.Principal, error) {
			var p model.Principal
			if _, err := fmt.Sscanf(token, "token-%d-%d", &p.UserID, &p.SecondaryCode); err != nil {
				return model.Principal{}, pkgAuth.ErrInvalidToken
			}
			return p, nil
		},
	}
}

func newAuth(repo *testhelpers.UserRepositoryStub, hasher testhelpers.HasherStub, strategy testhelpers.StrategyStub, mail *testhelpers.MailerStub) *AuthUseCase {
	uc := NewAuthUseCase(repo, hasher, strategy, mail, &config.Config{AppURL: "https://desk.example.com/"}, discardLogger())
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func staffRegistration(email string) Registration {
	return Registration{Email: email, Password: "secret1", Code: "1234", FirstName: "Ana", Username: "ana"}
}

func TestAuthUseCaseRegisterSuccess(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	mail := &testhelpers.MailerStub{}
	uc := newAuth(repo, testhelpers.HasherStub{}, newStrategyStub(), mail)

	user, err := uc.Register(context.Background(), staffRegistration(" ana@example.com "))
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if user.ID == 0 || user.SecondaryCode != 1234 {
		t.Fatalf("unexpected user %+v", user)
	}
	stored, err := repo.GetByEmail(context.Background(), "ana@example.com")
	if err != nil {
		t.Fatalf("expected user in repository: %v", err)
	}
	if stored.PasswordHash != "hash:secret1" {
		t.Fatalf("password hash not stored: %v", stored.PasswordHash)
	}
	if len(mail.Sent) != 1 || mail.Sent[0] != "welcome:ana@example.com" {
		t.Fatalf("expected welcome mail, got %v", mail.Sent)
	}
}

func TestAuthUseCaseRegisterDuplicate(t *testing.T) {
	uc := newAuth(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub(), &testhelpers.MailerStub{})

	ctx := context.Background()
	if _, err := uc.Register(ctx, staffRegistration("bob@example.com")); err != nil {
		t.Fatalf("unexpected error on first register: %v", err)
	}
	if _, err := uc.Register(ctx, staffRegistration("bob@example.com")); err != domainErrors.ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAuthUseCaseRegisterValidation(t *testing.T) {
	uc := newAuth(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub(), &testhelpers.MailerStub{})

	cases := map[string]Registration{
		"missing email":    {Password: "secret1", Code: "1"},
		"short password":   {Email: "a@example.com", Password: "123", Code: "1"},
		"missing code":     {Email: "a@example.com", Password: "secret1"},
		"non numeric code": {Email: "a@example.com", Password: "secret1", Code: "abc"},
	}
	for name, r := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := uc.Register(context.Background(), r); !errors.Is(err, domainErrors.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAuthUseCaseRegisterMailFailureIsNotFatal(t *testing.T) {
	mail := &testhelpers.MailerStub{Err: errors.New("smtp down")}
	uc := newAuth(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub(), mail)

	if _, err := uc.Register(context.Background(), staffRegistration("c@example.com")); err != nil {
		t.Fatalf("expected register to succeed, got %v", err)
	}
}

func TestAuthUseCaseRegisterHasherError(t *testing.T) {
	uc := newAuth(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{HashFn: func(string) (string, error) {
		return "", fmt.Errorf("hash error")
	}}, newStrategyStub(), &testhelpers.MailerStub{})
	if _, err := uc.Register(context.Background(), staffRegistration("d@example.com")); err == nil {
		t.Fatal("expected hashing error")
	}
}

func TestAuthUseCaseAuthenticate(t *testing.T) {
	uc := newAuth(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub(), &testhelpers.MailerStub{})

	ctx := context.Background()
	user, err := uc.Register(ctx, staffRegistration("carol@example.com"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, err := uc.Authenticate(ctx, "carol@example.com", "bad", "1234"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
	if _, _, err := uc.Authenticate(ctx, "carol@example.com", "secret1", "9999"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials for wrong code, got %v", err)
	}
	if _, _, err := uc.Authenticate(ctx, "absent@example.com", "secret1", "1234"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}

	_, token, err := uc.Authenticate(ctx, "carol@example.com", "secret1", " 1234 ")
	if err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	if token != fmt.Sprintf("token-%d-1234", user.ID) {
		t.Fatalf("unexpected token %q", token)
	}
}

func TestAuthUseCaseAuthenticateUnknownEmailStillComparesPassword(t *testing.T) {
	var compared []string
	hasher := testhelpers.HasherStub{
		CompareFn: func(hash, password string) error {
			compared = append(compared, hash)
			return errors.New("mismatch")
		},
	}
	uc := newAuth(testhelpers.NewUserRepositoryStub(), hasher, newStrategyStub(), &testhelpers.MailerStub{})

	for i := 0; i < 2; i++ {
		_, _, err := uc.Authenticate(context.Background(), "absent@example.com", "secret1", "1234")
		if err != domainErrors.ErrInvalidCredentials {
			t.Fatalf("expected invalid credentials, got %v", err)
		}
	}
	if len(compared) != 2 {
		t.Fatalf("expected a password comparison per attempt, got %d", len(compared))
	}
	if compared[0] == "" || compared[0] != compared[1] {
		t.Fatalf("expected the same non-empty placeholder hash, got %q", compared)
	}
}

func TestAuthUseCaseAuthenticateRejectsNonNumericCodeBeforeLookup(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	repo.Err = errors.New("must not be reached")
	uc := newAuth(repo, testhelpers.HasherStub{}, newStrategyStub(), &testhelpers.MailerStub{})

	_, _, err := uc.Authenticate(context.Background(), "carol@example.com", "secret1", "12a")
	if !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthUseCaseAuthenticateRepositoryError(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := newAuth(repo, testhelpers.HasherStub{}, newStrategyStub(), &testhelpers.MailerStub{})
	repo.Err = fmt.Errorf("storage unavailable")
	if _, _, err := uc.Authenticate(context.Background(), "user@example.com", "pass", "1"); err == nil || err.Error() != "storage unavailable" {
		t.Fatalf("expected repository error, got %v", err)
	}
}

func TestAuthUseCaseAuthenticateIssueTokenError(t *testing.T) {
	strategy := testhelpers.StrategyStub{IssueFn: func(model.Principal) (string, error) {
		return "", fmt.Errorf("issue error")
	}}
	uc := newAuth(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, strategy, &testhelpers.MailerStub{})
	if _, err := uc.Register(context.Background(), staffRegistration("e@example.com")); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if _, _, err := uc.Authenticate(context.Background(), "e@example.com", "secret1", "1234"); err == nil {
		t.Fatal("expected issue error on authenticate")
	}
}

func TestAuthUseCaseValidateSession(t *testing.T) {
	uc := newAuth(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub(), &testhelpers.MailerStub{})

	p, err := uc.ValidateSession("token-42-7")
	if err != nil {
		t.Fatalf("validate session failed: %v", err)
	}
	if p.UserID != 42 || p.SecondaryCode != 7 {
		t.Fatalf("unexpected principal %+v", p)
	}
	if _, err := uc.ValidateSession("bad-token"); err != pkgAuth.ErrInvalidToken {
		t.Fatalf("expected invalid token error, got %v", err)
	}
	if _, err := uc.ValidateSession(""); err != pkgAuth.ErrInvalidToken {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestAuthUseCaseRecoverAndResetPassword(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	mail := &testhelpers.MailerStub{}
	uc := newAuth(repo, testhelpers.HasherStub{}, newStrategyStub(), mail)
	ctx := context.Background()

	user, err := uc.Register(ctx, staffRegistration("f@example.com"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := uc.RecoverPassword(ctx, "f@example.com"); err != nil {
		t.Fatalf("recover returned error: %v", err)
	}
	stored, _ := repo.GetByID(ctx, user.ID)
	if len(stored.ResetToken) != 64 {
		t.Fatalf("expected 32 byte hex token, got %q", stored.ResetToken)
	}
	if !stored.ResetExpiresAt.Equal(fixedNow.Add(time.Hour)) {
		t.Fatalf("expected one hour expiry, got %v", stored.ResetExpiresAt)
	}
	if len(mail.Links) != 1 || mail.Links[0] != "https://desk.example.com/reset-password?token="+stored.ResetToken {
		t.Fatalf("unexpected recovery link %v", mail.Links)
	}

	token := stored.ResetToken
	if err := uc.ResetPassword(ctx, token, "new-secret"); err != nil {
		t.Fatalf("reset returned error: %v", err)
	}
	if stored.PasswordHash != "hash:new-secret" {
		t.Fatalf("password not updated: %q", stored.PasswordHash)
	}
	if mail.Sent[len(mail.Sent)-1] != "changed:f@example.com" {
		t.Fatalf("expected password changed mail, got %v", mail.Sent)
	}

	if err := uc.ResetPassword(ctx, token, "again-secret"); !errors.Is(err, domainErrors.ErrInvalidResetToken) {
		t.Fatalf("expected token to be single use, got %v", err)
	}
}

func TestAuthUseCaseRecoverUnknownEmailIsSilent(t *testing.T) {
	mail := &testhelpers.MailerStub{}
	uc := newAuth(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub(), mail)

	if err := uc.RecoverPassword(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("expected silent success, got %v", err)
	}
	if len(mail.Sent) != 0 {
		t.Fatalf("expected no mail, got %v", mail.Sent)
	}
}

func TestAuthUseCaseResetPasswordExpired(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := newAuth(repo, testhelpers.HasherStub{}, newStrategyStub(), &testhelpers.MailerStub{})
	ctx := context.Background()

	user, _ := uc.Register(ctx, staffRegistration("g@example.com"))
	if err := repo.SetResetToken(ctx, user.ID, "expired", fixedNow.Add(-time.Minute)); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	if err := uc.ResetPassword(ctx, "expired", "new-secret"); !errors.Is(err, domainErrors.ErrInvalidResetToken) {
		t.Fatalf("expected invalid reset token, got %v", err)
	}
	if err := uc.ResetPassword(ctx, "unknown", "new-secret"); !errors.Is(err, domainErrors.ErrInvalidResetToken) {
		t.Fatalf("expected invalid reset token, got %v", err)
	}
	if err := uc.ResetPassword(ctx, "expired", "123"); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthUseCaseGetByID(t *testing.T) {
	uc := newAuth(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub(), &testhelpers.MailerStub{})
	user, err := uc.Register(context.Background(), staffRegistration("dave@example.com"))
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	fetched, err := uc.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get by id returned error: %v", err)
	}
	if !strings.EqualFold(fetched.Email, user.Email) {
		t.Fatalf("expected email %q, got %q", user.Email, fetched.Email)
	}
}

func TestUserRepositoryStubDuplicate(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	if _, err := repo.Create(context.Background(), model.User{Email: "user@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.Create(context.Background(), model.User{Email: "user@example.com"}); err != domainErrors.ErrAlreadyExists {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestAuthUseCaseListUsersCapsAtTen(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := newAuth(repo, testhelpers.HasherStub{}, newStrategyStub(), &testhelpers.MailerStub{})
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		if _, err := uc.Register(ctx, staffRegistration(fmt.Sprintf("staff%02d@example.com", i))); err != nil {
			t.Fatalf("register returned error: %v", err)
		}
	}

	users, err := uc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if len(users) != 10 || users[0].ID != 1 || users[9].ID != 10 {
		t.Fatalf("expected first ten users, got %d", len(users))
	}

	repo.Err = errors.New("db down")
	if _, err := uc.ListUsers(ctx); !errors.Is(err, domainErrors.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}
