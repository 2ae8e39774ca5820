package limiters

import (
	"context"
	"strconv"
	"time"

	"github.com/digital-identity/authcore/internal/stores"
)

// PasswordAttempts counts incorrect password entries per identity. The caller
// checks the password; this type only keeps the tally.
type PasswordAttempts struct {
	store stores.CodeStore
	ttl   time.Duration
}

func NewPasswordAttempts(store stores.CodeStore, ttl time.Duration) *PasswordAttempts {
	if ttl <= 0 {
		ttl = DefaultAttemptTTL
	}
	return &PasswordAttempts{store: store, ttl: ttl}
}

func (p *PasswordAttempts) key(identity string) string {
	return stores.Key(stores.IncorrectPasswordsPrefix, identity)
}

func (p *PasswordAttempts) Count(ctx context.Context, identity string) (int, error) {
	return readCount(ctx, p.store, p.key(identity))
}

// Increment records one more incorrect password and returns the new count.
func (p *PasswordAttempts) Increment(ctx context.Context, identity string) (int, error) {
	key := p.key(identity)
	current, err := readCount(ctx, p.store, key)
	if err != nil {
		return 0, err
	}
	if err := p.store.Put(ctx, key, strconv.Itoa(current+1), p.ttl); err != nil {
		return 0, err
	}
	return current + 1, nil
}

func (p *PasswordAttempts) Reset(ctx context.Context, identity string) error {
	_, err := p.store.Delete(ctx, p.key(identity))
	return err
}
