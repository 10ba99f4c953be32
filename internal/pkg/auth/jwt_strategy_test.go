package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewJWTStrategy_DefaultTTL(t *testing.T) {
	strategy := NewJWTStrategy("secret", Options{})
	if strategy.ttl != 30*24*time.Hour {
		t.Fatalf("unexpected ttl: %s", strategy.ttl)
	}
	if strategy.Name() != "jwt" {
		t.Fatalf("unexpected name: %s", strategy.Name())
	}
}

func TestJWTStrategy_IssueAndParse(t *testing.T) {
	strategy := NewJWTStrategy("secret", Options{TTL: time.Hour})
	token, err := strategy.IssueToken(staff)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	principal, err := strategy.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if principal != staff {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestJWTStrategy_CarriesDashboardClaims(t *testing.T) {
	strategy := NewJWTStrategy("secret", Options{})
	token, _ := strategy.IssueToken(staff)

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		t.Fatalf("parse unverified: %v", err)
	}
	if claims.UserID != "42" || claims.Email != staff.Email || claims.Codigo != 1234 {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ExpiresAt == nil {
		t.Fatal("expected expiry claim")
	}
}

func TestJWTStrategy_RejectsExpired(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	strategy := NewJWTStrategy("secret", Options{TTL: time.Minute, Now: func() time.Time { return now }})
	token, _ := strategy.IssueToken(staff)

	now = now.Add(time.Hour)
	if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTStrategy_RejectsForeignTokens(t *testing.T) {
	strategy := NewJWTStrategy("secret", Options{})
	other := NewJWTStrategy("other", Options{})
	token, _ := other.IssueToken(staff)

	if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected signature mismatch to fail, got %v", err)
	}
	if _, err := strategy.ParseToken("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected garbage to fail, got %v", err)
	}

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := strategy.ParseToken(none); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected unsigned token to fail, got %v", err)
	}
}

func TestJWTStrategy_RejectsNonNumericUser(t *testing.T) {
	strategy := NewJWTStrategy("secret", Options{})
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           "abc",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
