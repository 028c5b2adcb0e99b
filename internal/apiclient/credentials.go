package apiclient

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/wanderlust/travel-portal/internal/core/ports"
)

// TokenKey is the storage key of the bearer token.
const TokenKey = "auth_token"

// TokenSource supplies the bearer token at request time.
type TokenSource interface {
	Token() string
	SetToken(ctx context.Context, token string)
}

// Credentials is the single owner of the bearer token: one in-memory copy
// mirrored to persistent storage. The session writes it, the client reads it.
type Credentials struct {
	mu    sync.RWMutex
	token string
	store ports.KeyValueStore
	log   zerolog.Logger
}

// NewCredentials loads any stored token eagerly so a restart keeps the
// caller authenticated. A nil store keeps the token in memory only.
func NewCredentials(ctx context.Context, store ports.KeyValueStore, log zerolog.Logger) *Credentials {
	c := &Credentials{store: store, log: log}
	if store == nil {
		return c
	}

	tok, ok, err := store.Get(ctx, TokenKey)
	if err != nil {
		log.Warn().Err(err).Msg("could not load stored token")
		return c
	}
	if ok {
		c.token = tok
	}
	return c
}

func (c *Credentials) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken replaces the token. A non-empty token is persisted under TokenKey,
// an empty one removes the key. Storage failures are logged; the in-memory
// token is always updated.
func (c *Credentials) SetToken(ctx context.Context, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = token
	if c.store == nil {
		return
	}

	var err error
	if token != "" {
		err = c.store.Set(ctx, TokenKey, token)
	} else {
		err = c.store.Delete(ctx, TokenKey)
	}
	if err != nil {
		c.log.Error().Err(err).Bool("clear", token == "").Msg("could not persist token")
	}
}
