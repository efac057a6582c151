package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	apperrors "github.com/vastralabs/vastra-backend/pkg/errors"
)

// Store is the redis surface the manager needs.
type Store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	AccessSessionKey(accessID string) string
}

// Manager tracks live refresh sessions in redis so logout and refresh
// rotation can revoke tokens before their JWT expiry.
type Manager struct {
	store Store
	ttl   time.Duration
}

func NewManager(store Store, ttl time.Duration) (*Manager, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	return &Manager{store: store, ttl: ttl}, nil
}

// Start records a session keyed by the token pair's JTI.
func (m *Manager) Start(ctx context.Context, accessID string, userID uuid.UUID) error {
	return m.store.Set(ctx, m.store.AccessSessionKey(accessID), userID.String(), m.ttl)
}

// Validate checks that the session exists and belongs to the user.
func (m *Manager) Validate(ctx context.Context, accessID string, userID uuid.UUID) error {
	val, err := m.store.Get(ctx, m.store.AccessSessionKey(accessID))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return apperrors.New(apperrors.CodeUnauthorized, "session revoked or expired")
		}
		return apperrors.Wrap(apperrors.CodeDependency, err, "reading session")
	}
	if val != userID.String() {
		return apperrors.New(apperrors.CodeUnauthorized, "session does not match user")
	}
	return nil
}

// End revokes the session. Revoking an already-absent session is a no-op.
func (m *Manager) End(ctx context.Context, accessID string) error {
	return m.store.Del(ctx, m.store.AccessSessionKey(accessID))
}
