package authcore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/digital-identity/authcore/journey"
)

func TestBuildRequiresDependencies(t *testing.T) {
	_, rdb := newTestRedis(t)
	users := newFakeUserProvider()
	notifier := &recordingNotifier{}

	tests := []struct {
		name  string
		build func() *Builder
		want  error
	}{
		{"redis", func() *Builder {
			return New().WithUserProvider(users).WithNotifier(notifier)
		}, ErrRedisRequired},
		{"user provider", func() *Builder {
			return New().WithRedis(rdb).WithNotifier(notifier)
		}, ErrUserProviderRequired},
		{"notifier", func() *Builder {
			return New().WithRedis(rdb).WithUserProvider(users)
		}, ErrNotifierRequired},
		{"config", func() *Builder {
			cfg := DefaultConfig()
			cfg.Codes.CodeExpiry = 0
			return New().WithConfig(cfg).WithRedis(rdb).WithUserProvider(users).WithNotifier(notifier)
		}, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.build().Build(); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestBuildOnlyOnce(t *testing.T) {
	_, rdb := newTestRedis(t)
	b := New().WithRedis(rdb).WithUserProvider(newFakeUserProvider()).WithNotifier(&recordingNotifier{})

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer engine.Close()

	if _, err := b.Build(); !errors.Is(err, ErrBuilderUsed) {
		t.Fatalf("expected ErrBuilderUsed, got %v", err)
	}
}

func TestBuilderCopiesConfig(t *testing.T) {
	cfg := testConfig()
	cfg.TestClients.AllowedEmails = []string{testEmail}
	te := buildTestEngine(t, cfg)

	cfg.TestClients.AllowedEmails[0] = "other@example.com"
	if te.config.TestClients.AllowedEmails[0] != testEmail {
		t.Fatalf("expected engine config isolated from caller")
	}
}

func TestBuildWithBreakerAndLogger(t *testing.T) {
	cfg := DefaultConfig()
	te := buildTestEngine(t, cfg, func(b *Builder) {
		b.WithLogger(zap.NewNop()).WithMetrics(prometheus.NewRegistry())
	})

	sess := sessionAt(journey.UserNotFound, testEmail)
	out, err := te.SendCode(context.Background(), sess, CodeRequest{NotificationType: "VERIFY_EMAIL"})
	mustOK(t, out, err, journey.VerifyEmailCodeSent)
	if te.StateMachine() == nil {
		t.Fatalf("expected state machine")
	}
}

func TestNewRedisClientUsesStoreConfig(t *testing.T) {
	mr, _ := newTestRedis(t)
	cfg := DefaultConfig().Store
	cfg.Addr = mr.Addr()

	client := NewRedisClient(cfg)
	defer client.Close()

	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestNewLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "authcore.log")
	log, err := NewLogger(LoggingConfig{Level: "debug", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	log.Info("hello")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Fatalf("expected json line, got %q", data)
	}
}
