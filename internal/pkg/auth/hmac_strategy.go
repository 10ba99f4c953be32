package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/polkiloo/orderdesk/internal/domain/model"
)

// HMACStrategy signs a compact colon separated payload with HMAC-SHA256.
type HMACStrategy struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewHMACStrategy builds HMACStrategy with provided secret and options.
func NewHMACStrategy(secret string, opts Options) *HMACStrategy {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &HMACStrategy{secret: []byte(secret), ttl: ttl, now: opts.clock()}
}

// IssueToken encodes userID, code, expiry and email, then signs them.
func (s *HMACStrategy) IssueToken(p model.Principal) (string, error) {
	expires := s.now().Add(s.ttl).Unix()
	email := base64.RawURLEncoding.EncodeToString([]byte(p.Email))
	payload := fmt.Sprintf("%d:%d:%d:%s", p.UserID, p.SecondaryCode, expires, email)
	token := fmt.Sprintf("%s:%s", payload, s.sign(payload))
	return base64.StdEncoding.EncodeToString([]byte(token)), nil
}

// ParseToken validates token and returns the encoded principal.
func (s *HMACStrategy) ParseToken(token string) (model.Principal, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return model.Principal{}, ErrInvalidToken
	}

	parts := strings.Split(string(raw), ":")
	if len(parts) != 5 {
		return model.Principal{}, ErrInvalidToken
	}

	payload := strings.Join(parts[:4], ":")
	if !hmac.Equal([]byte(s.sign(payload)), []byte(parts[4])) {
		return model.Principal{}, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return model.Principal{}, ErrInvalidToken
	}

	code, err := strconv.Atoi(parts[1])
	if err != nil {
		return model.Principal{}, ErrInvalidToken
	}

	expires, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return model.Principal{}, ErrInvalidToken
	}

	if time.Unix(expires, 0).Before(s.now()) {
		return model.Principal{}, ErrInvalidToken
	}

	email, err := base64.RawURLEncoding.DecodeString(parts[3])
	if err != nil {
		return model.Principal{}, ErrInvalidToken
	}

	return model.Principal{UserID: userID, Email: string(email), SecondaryCode: code}, nil
}

func (s *HMACStrategy) Name() string {
	return "hmac"
}

func (s *HMACStrategy) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
