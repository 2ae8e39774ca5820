package authcore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/digital-identity/authcore/journey"
	"github.com/digital-identity/authcore/mfa"
)

const (
	testEmail = "joe@example.com"
	testPhone = "07700900000"
	// RFC 4226 test key, base32.
	testSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return mr, rdb
}

type fakeUser struct {
	subject string
	methods []mfa.MfaMethod
}

type fakeUserProvider struct {
	mu    sync.Mutex
	users map[string]fakeUser
}

func newFakeUserProvider() *fakeUserProvider {
	return &fakeUserProvider{users: map[string]fakeUser{}}
}

func (p *fakeUserProvider) add(email, subject string, methods ...mfa.MfaMethod) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[email] = fakeUser{subject: subject, methods: methods}
}

func (p *fakeUserProvider) UserExists(_ context.Context, email string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.users[email]
	return ok, nil
}

func (p *fakeUserProvider) UserCredentials(_ context.Context, email string) (*mfa.UserCredentials, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	u, ok := p.users[email]
	if !ok {
		return nil, nil
	}
	return &mfa.UserCredentials{Email: email, MfaMethods: u.methods}, nil
}

func (p *fakeUserProvider) SubjectID(_ context.Context, email string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.users[email].subject, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, msg Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

func (n *recordingNotifier) last(t *testing.T) Notification {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		t.Fatalf("expected a notification")
	}
	return n.sent[len(n.sent)-1]
}

type testEngine struct {
	*Engine
	mr       *miniredis.Miniredis
	users    *fakeUserProvider
	notifier *recordingNotifier
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Breaker.Enabled = false
	return cfg
}

func buildTestEngine(t *testing.T, cfg Config, opts ...func(*Builder)) *testEngine {
	t.Helper()

	mr, rdb := newTestRedis(t)
	users := newFakeUserProvider()
	notifier := &recordingNotifier{}

	b := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithUserProvider(users).
		WithNotifier(notifier)
	for _, opt := range opts {
		opt(b)
	}

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(engine.Close)

	return &testEngine{Engine: engine, mr: mr, users: users, notifier: notifier}
}

// fixedClock puts the TOTP clock at unix second 30000, step 1000 for a 30s
// step.
func fixedClock(b *Builder) {
	b.WithClock(func() time.Time { return time.Unix(30000, 0) })
}

func sessionAt(state journey.State, email string) *journey.Session {
	sess := journey.NewSession()
	sess.State = state
	sess.EmailAddress = email
	return sess
}

func mustOK(t *testing.T, out *Outcome, err error, want journey.State) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.OK() {
		t.Fatalf("expected success, got %s", out.Rejection)
	}
	if out.State != want {
		t.Fatalf("expected state %s, got %s", want, out.State)
	}
}

func mustReject(t *testing.T, out *Outcome, err error, kind mfa.ErrorKind, code mfa.ErrorCode, want journey.State) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Rejection.Is(kind) {
		t.Fatalf("expected %s, got %s", kind, out.Rejection)
	}
	if code != 0 && out.Rejection.Code != code {
		t.Fatalf("expected code %d, got %d", code, out.Rejection.Code)
	}
	if out.State != want {
		t.Fatalf("expected state %s, got %s", want, out.State)
	}
}
