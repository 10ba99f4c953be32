package model

import (
	"strings"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
)

// BlacklistIntent tells whether a number is being added or removed.
type BlacklistIntent string

const (
	BlacklistAdd    BlacklistIntent = "add"
	BlacklistRemove BlacklistIntent = "remove"
)

// ParseBlacklistIntent accepts "add" or "remove" in any case.
func ParseBlacklistIntent(raw string) (BlacklistIntent, error) {
	switch BlacklistIntent(strings.ToLower(strings.TrimSpace(raw))) {
	case BlacklistAdd:
		return BlacklistAdd, nil
	case BlacklistRemove:
		return BlacklistRemove, nil
	}
	return "", domainErrors.ErrInvalidIntent
}
