package authcore

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/digital-identity/authcore/internal/limiters"
	"github.com/digital-identity/authcore/internal/logging"
	"github.com/digital-identity/authcore/internal/stores"
	"github.com/digital-identity/authcore/journey"
	"github.com/digital-identity/authcore/mfa"
)

// Builder wires an [Engine]. Configure it during initialization and call
// Build once.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	userProvider UserProvider
	notifier     Notifier
	auditSink    AuditSink
	logger       *zap.Logger
	registerer   prometheus.Registerer
	now          func() time.Time

	built bool
}

func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the client backing every code, counter and block record.
// Any go-redis client works, including cluster and failover clients.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

func (b *Builder) WithUserProvider(up UserProvider) *Builder {
	b.userProvider = up
	return b
}

func (b *Builder) WithNotifier(n Notifier) *Builder {
	b.notifier = n
	return b
}

func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger sets the engine logger. Without it the engine is silent.
func (b *Builder) WithLogger(log *zap.Logger) *Builder {
	b.logger = log
	return b
}

// WithMetrics enables metrics and registers them on reg.
func (b *Builder) WithMetrics(reg prometheus.Registerer) *Builder {
	b.config.Metrics.Enabled = true
	b.registerer = reg
	return b
}

// WithClock overrides the wall clock used for TOTP and audit timestamps.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build validates the configuration and assembles the engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if b.redis == nil {
		return nil, ErrRedisRequired
	}
	if b.userProvider == nil {
		return nil, ErrUserProviderRequired
	}
	if b.notifier == nil {
		return nil, ErrNotifierRequired
	}

	log := b.logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("authcore")

	now := b.now
	if now == nil {
		now = time.Now
	}

	var metrics *Metrics
	if cfg.Metrics.Enabled {
		metrics = NewMetrics(b.registerer)
	}

	// -------- CODE STORE --------
	var store stores.CodeStore = stores.NewRedisCodeStore(b.redis)
	if cfg.Breaker.Enabled {
		store = stores.NewBreakerStore(store, stores.BreakerConfig{
			Name:             "code-store",
			MaxRequests:      cfg.Breaker.MaxRequests,
			Interval:         cfg.Breaker.Interval,
			Timeout:          cfg.Breaker.Timeout,
			FailureThreshold: cfg.Breaker.FailureThreshold,
			OnStateChange: func(name, from, to string) {
				log.Warn("code store breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from),
					zap.String("to", to))
				metrics.breakerTransition(to)
			},
		})
	}
	codes := stores.NewCodeStorage(store)

	// -------- COUNTERS --------
	attempts := limiters.NewAttemptTracker(store, limiters.AttemptConfig{
		TTL:              cfg.Retries.AttemptTTL,
		AtomicIncrements: cfg.Retries.AtomicIncrements,
		SumLegacy:        cfg.Retries.SumLegacyCounters,
	})
	passwords := limiters.NewPasswordAttempts(store, cfg.Retries.AttemptTTL)
	if cfg.Retries.SumLegacyCounters {
		log.Warn("legacy attempt counters are summed into scoped counts; disable once legacy keys have expired")
	}

	// -------- VALIDATORS --------
	factory := mfa.NewFactory(mfa.FactoryConfig{
		MaxRetries:             cfg.Retries.MaxRetries,
		MaxRetriesRegistration: cfg.Retries.MaxRetriesRegistration,
		BlockDuration:          cfg.Retries.BlockDuration,
		TestClientsEnabled:     cfg.TestClients.Enabled,
		TestEmailOTP:           cfg.TestClients.EmailOTP,
		TestPhoneOTP:           cfg.TestClients.PhoneOTP,
		TOTPStep:               cfg.TOTP.Step,
		TOTPWindows:            cfg.TOTP.Windows,
		Errors:                 cfg.ErrorCodes,
	}, codes, attempts, b.userProvider, mfa.WithClock(now))

	b.built = true

	return &Engine{
		config:       cfg,
		codes:        codes,
		attempts:     attempts,
		passwords:    passwords,
		factory:      factory,
		machine:      journey.UserJourney(),
		userProvider: b.userProvider,
		notifier:     b.notifier,
		audit:        newAuditDispatcher(cfg.Audit, b.auditSink, now),
		metrics:      metrics,
		log:          log,
		now:          now,
	}, nil
}

// NewRedisClient dials the endpoint described by cfg.
func NewRedisClient(cfg StoreConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
	})
}

// NewLogger builds a zap logger from cfg.
func NewLogger(cfg LoggingConfig) (*zap.Logger, error) {
	return logging.New(logging.Config{
		Level:      cfg.Level,
		Format:     cfg.Format,
		Output:     cfg.Output,
		AddCaller:  cfg.AddCaller,
		Stacktrace: cfg.Stacktrace,
	})
}
