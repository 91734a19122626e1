package domain

import (
	"context"

	"github.com/google/uuid"
)

// Service provides typed access to account settings with global fallback.
type Service interface {
	GetString(ctx context.Context, key string, accountID *uuid.UUID, def string) (string, error)
	Set(ctx context.Context, key string, accountID *uuid.UUID, value string) error
}

// Repository abstracts storage of account settings.
type Repository interface {
	// Get returns (value, found, err) for an exact key and optional account.
	Get(ctx context.Context, key string, accountID *uuid.UUID) (string, bool, error)
	// Upsert stores a key for an optional account.
	Upsert(ctx context.Context, key string, accountID *uuid.UUID, value string, secret bool) error
}

// Common keys
const (
	// KeyDefaultFrom is the sender used when a send request omits "from".
	KeyDefaultFrom = "mail.default_from"

	// Per-account Mailgun credential overrides. Empty values fall through to
	// the process config.
	KeyMailgunAPIKey = "mail.mailgun.api_key"
	KeyMailgunDomain = "mail.mailgun.domain"
)

// Secret returns whether a key's value must be masked on read paths.
func Secret(key string) bool {
	return key == KeyMailgunAPIKey
}
