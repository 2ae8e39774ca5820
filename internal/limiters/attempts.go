package limiters

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/digital-identity/authcore/internal/stores"
)

// DefaultAttemptTTL is how long a counter stays alive after its last increment.
const DefaultAttemptTTL = 900 * time.Second

var (
	// ErrAttemptCounterCorrupt indicates a counter cell holds a non-numeric value.
	ErrAttemptCounterCorrupt = errors.New("attempt counter corrupt")
)

type AttemptConfig struct {
	TTL time.Duration

	// AtomicIncrements switches Increment to the store's INCR primitive when
	// the store implements stores.AtomicCounter.
	AtomicIncrements bool

	// SumLegacy makes Count add the unscoped legacy counter to the scoped one
	// and makes Reset clear both. It exists only to carry counters written by
	// older deployments across a rollout and should be switched off once the
	// legacy keys have expired.
	SumLegacy bool
}

// AttemptTracker counts incorrect code submissions per identity and MFA method.
type AttemptTracker struct {
	store  stores.CodeStore
	config AttemptConfig
}

func NewAttemptTracker(store stores.CodeStore, cfg AttemptConfig) *AttemptTracker {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultAttemptTTL
	}
	return &AttemptTracker{store: store, config: cfg}
}

func (t *AttemptTracker) key(identity, method string) string {
	return stores.Key(stores.MethodScoped(stores.IncorrectMfaCodesPrefix, method), identity)
}

// Count returns the scoped counter, or 0 when absent.
func (t *AttemptTracker) Count(ctx context.Context, identity, method string) (int, error) {
	count, err := t.read(ctx, t.key(identity, method))
	if err != nil || !t.config.SumLegacy || method == "" {
		return count, err
	}

	legacy, err := t.read(ctx, t.key(identity, ""))
	if err != nil {
		return 0, err
	}
	return count + legacy, nil
}

// Increment adds one to the scoped counter and refreshes its TTL. It returns
// the count as Count would report it afterwards.
func (t *AttemptTracker) Increment(ctx context.Context, identity, method string) (int, error) {
	key := t.key(identity, method)

	if counter, ok := t.store.(stores.AtomicCounter); ok && t.config.AtomicIncrements {
		n, err := counter.IncrWithTTL(ctx, key, t.config.TTL)
		if err != nil {
			return 0, err
		}
		return t.withLegacy(ctx, identity, method, int(n))
	}

	current, err := t.read(ctx, key)
	if err != nil {
		return 0, err
	}
	// Lost-update window: a concurrent increment between read and write is
	// overwritten.
	next := current + 1
	if err := t.store.Put(ctx, key, strconv.Itoa(next), t.config.TTL); err != nil {
		return 0, err
	}
	return t.withLegacy(ctx, identity, method, next)
}

// Reset deletes the scoped counter.
func (t *AttemptTracker) Reset(ctx context.Context, identity, method string) error {
	if _, err := t.store.Delete(ctx, t.key(identity, method)); err != nil {
		return err
	}
	if t.config.SumLegacy && method != "" {
		return t.ResetLegacy(ctx, identity)
	}
	return nil
}

// ResetAll clears the counters for every listed method plus the legacy key.
func (t *AttemptTracker) ResetAll(ctx context.Context, identity string, methods []string) error {
	for _, method := range methods {
		if _, err := t.store.Delete(ctx, t.key(identity, method)); err != nil {
			return err
		}
	}
	return t.ResetLegacy(ctx, identity)
}

// LegacyCount reads the unscoped counter.
//
// Deprecated: scope by method with Count.
func (t *AttemptTracker) LegacyCount(ctx context.Context, identity string) (int, error) {
	return t.read(ctx, t.key(identity, ""))
}

// IncrementLegacy bumps the unscoped counter.
//
// Deprecated: scope by method with Increment.
func (t *AttemptTracker) IncrementLegacy(ctx context.Context, identity string) (int, error) {
	key := t.key(identity, "")
	current, err := t.read(ctx, key)
	if err != nil {
		return 0, err
	}
	if err := t.store.Put(ctx, key, strconv.Itoa(current+1), t.config.TTL); err != nil {
		return 0, err
	}
	return current + 1, nil
}

// ResetLegacy clears the unscoped counter.
//
// Deprecated: scope by method with Reset.
func (t *AttemptTracker) ResetLegacy(ctx context.Context, identity string) error {
	_, err := t.store.Delete(ctx, t.key(identity, ""))
	return err
}

func (t *AttemptTracker) withLegacy(ctx context.Context, identity, method string, scoped int) (int, error) {
	if !t.config.SumLegacy || method == "" {
		return scoped, nil
	}
	legacy, err := t.read(ctx, t.key(identity, ""))
	if err != nil {
		return 0, err
	}
	return scoped + legacy, nil
}

func (t *AttemptTracker) read(ctx context.Context, key string) (int, error) {
	return readCount(ctx, t.store, key)
}

func readCount(ctx context.Context, store stores.CodeStore, key string) (int, error) {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrAttemptCounterCorrupt, err)
	}
	return n, nil
}
