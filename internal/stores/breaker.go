package stores

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
)

type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32

	// OnStateChange is optional; it receives the breaker name and the
	// lowercase from/to state names.
	OnStateChange func(name, from, to string)
}

// BreakerStore guards a CodeStore with a circuit breaker. It never retries:
// a call either reaches the inner store once or fails fast while open.
type BreakerStore struct {
	next CodeStore
	cb   *gobreaker.CircuitBreaker[any]
}

func NewBreakerStore(next CodeStore, cfg BreakerConfig) *BreakerStore {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	name := cfg.Name
	if name == "" {
		name = "code-store"
	}

	return &BreakerStore{
		next: next,
		cb: gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
			Name:        name,
			MaxRequests: cfg.MaxRequests,
			Interval:    cfg.Interval,
			Timeout:     cfg.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				if cfg.OnStateChange != nil {
					cfg.OnStateChange(name, stateToString(from), stateToString(to))
				}
			},
		}),
	}
}

// State reports the breaker state as "closed", "half-open" or "open".
func (s *BreakerStore) State() string {
	return stateToString(s.cb.State())
}

func (s *BreakerStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	_, err := s.cb.Execute(func() (any, error) {
		return nil, s.next.Put(ctx, key, value, ttl)
	})
	return breakerErr(err)
}

type getResult struct {
	value string
	ok    bool
}

func (s *BreakerStore) Get(ctx context.Context, key string) (string, bool, error) {
	res, err := s.cb.Execute(func() (any, error) {
		value, ok, err := s.next.Get(ctx, key)
		return getResult{value: value, ok: ok}, err
	})
	if err != nil {
		return "", false, breakerErr(err)
	}
	r := res.(getResult)
	return r.value, r.ok, nil
}

func (s *BreakerStore) Delete(ctx context.Context, key string) (int64, error) {
	res, err := s.cb.Execute(func() (any, error) {
		return s.next.Delete(ctx, key)
	})
	if err != nil {
		return 0, breakerErr(err)
	}
	return res.(int64), nil
}

func (s *BreakerStore) Exists(ctx context.Context, key string) (bool, error) {
	res, err := s.cb.Execute(func() (any, error) {
		return s.next.Exists(ctx, key)
	})
	if err != nil {
		return false, breakerErr(err)
	}
	return res.(bool), nil
}

// IncrWithTTL is only offered when the wrapped store supports it. Callers
// detect the capability with a type assertion on AtomicCounter, so a wrapped
// store without it reports an error here rather than silently counting.
func (s *BreakerStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	counter, ok := s.next.(AtomicCounter)
	if !ok {
		return 0, fmt.Errorf("%w: atomic increment not supported", ErrStoreUnavailable)
	}
	res, err := s.cb.Execute(func() (any, error) {
		return counter.IncrWithTTL(ctx, key, ttl)
	})
	if err != nil {
		return 0, breakerErr(err)
	}
	return res.(int64), nil
}

func breakerErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
