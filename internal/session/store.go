// Package session holds per-conversation dialogue state and the stores
// that keep it between turns.
package session

// #region imports
import (
	"context"
	"errors"
	"time"
)

// #endregion

// #region errors

var (
	// ErrInvalidConfig is returned by the factory when a driver is missing
	// required configuration.
	ErrInvalidConfig = errors.New("session: invalid store configuration")

	// ErrUnknownDriver is returned by the factory for an unrecognized
	// driver name.
	ErrUnknownDriver = errors.New("session: unknown store driver")
)

// #endregion

// #region store-interface

// Store is the session store abstraction owned by the serving layer and
// injected into the dialogue router. Key-level isolation is the only
// concurrency guarantee: distinct session IDs never interfere, while
// concurrent turns on the same ID are last-write-wins.
type Store interface {
	// Load returns the session for id, or a fresh default session when the
	// id has not been seen. A fresh session is not persisted until Save.
	Load(ctx context.Context, id string) (Session, error)

	// Save upserts the session and stamps UpdatedAt (and CreatedAt on
	// first write).
	Save(ctx context.Context, sess Session) error

	// Delete removes the session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases store resources.
	Close() error
}

// #endregion

// #region factory

// Driver names accepted by New.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Config selects and parameterizes a session store driver.
type Config struct {
	Driver    string
	TTL       time.Duration // idle eviction window; 0 = DefaultTTL
	RedisAddr string        // required for DriverRedis
}

// DefaultTTL is the idle window after which a session is evicted.
const DefaultTTL = 60 * time.Minute

// NewStore builds a Store from config. The memory driver is the canonical
// deployment; redis exists for multi-replica setups where session affinity
// cannot be guaranteed.
func NewStore(cfg Config) (Store, error) {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	switch cfg.Driver {
	case DriverMemory, "":
		return NewMemoryStore(ttl), nil
	case DriverRedis:
		if cfg.RedisAddr == "" {
			return nil, ErrInvalidConfig
		}
		return NewRedisStore(cfg.RedisAddr, ttl), nil
	default:
		return nil, ErrUnknownDriver
	}
}

// #endregion
