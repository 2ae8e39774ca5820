package authcore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/digital-identity/authcore/internal/limiters"
	"github.com/digital-identity/authcore/internal/logging"
	"github.com/digital-identity/authcore/internal/stores"
	"github.com/digital-identity/authcore/internal/totp"
	"github.com/digital-identity/authcore/journey"
	"github.com/digital-identity/authcore/mfa"
)

// Engine drives user journeys: it issues and validates codes, counts and
// blocks incorrect entries, and moves sessions through the journey state
// machine. Build one with [New]. Engine methods are safe for concurrent use;
// a single *journey.Session is not.
type Engine struct {
	config Config

	codes     *stores.CodeStorage
	attempts  *limiters.AttemptTracker
	passwords *limiters.PasswordAttempts
	factory   *mfa.Factory
	machine   *journey.StateMachine

	userProvider UserProvider
	notifier     Notifier

	audit   *auditDispatcher
	metrics *Metrics
	log     *zap.Logger
	now     func() time.Time
}

// Close flushes pending audit events.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports events discarded because the audit buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// StateMachine exposes the journey table the engine enforces.
func (e *Engine) StateMachine() *journey.StateMachine {
	if e == nil {
		return nil
	}
	return e.machine
}

// Transition applies a caller-driven action, such as USER_HAS_CREATED_A_PASSWORD,
// to the session. An illegal action leaves the session unchanged and returns
// an error wrapping ErrInvalidStateTransition.
func (e *Engine) Transition(ctx context.Context, sess *journey.Session, action journey.Action) error {
	if err := e.ready(sess); err != nil {
		return err
	}
	from := sess.State
	err := e.transition(sess, action)
	e.emitAudit(ctx, AuditEvent{
		EventType:  EventTransition,
		SessionID:  sess.ID,
		SubjectRef: subjectRef(sess.EmailAddress),
		FromState:  string(from),
		ToState:    string(sess.State),
		Success:    err == nil,
		Error:      errString(err),
		Metadata:   map[string]string{"action": string(action)},
	})
	return err
}

// CheckUserExists records the email on the session and moves it to
// USER_NOT_FOUND or AUTHENTICATION_REQUIRED.
func (e *Engine) CheckUserExists(ctx context.Context, sess *journey.Session, email string) (bool, error) {
	if err := e.ready(sess); err != nil {
		return false, err
	}
	email = normalizeEmail(email)
	if email == "" {
		return false, ErrSessionEmailMissing
	}

	exists, err := e.userProvider.UserExists(ctx, email)
	if err != nil {
		return false, fmt.Errorf("user lookup: %w", err)
	}

	action := journey.UserEnteredUnregisteredEmailAddress
	if exists {
		action = journey.UserEnteredRegisteredEmailAddress
	}
	from := sess.State
	if err := e.transition(sess, action); err != nil {
		return false, err
	}
	if !sess.ValidateSession(email) {
		sess.ResetCodeRequestCount()
	}
	sess.EmailAddress = email

	e.emitAudit(ctx, AuditEvent{
		EventType:  EventUserLookup,
		SessionID:  sess.ID,
		SubjectRef: subjectRef(email),
		FromState:  string(from),
		ToState:    string(sess.State),
		Success:    true,
		Metadata:   map[string]string{"registered": fmt.Sprint(exists)},
	})
	return exists, nil
}

// ProvisionAuthApp creates a new authenticator-app secret for email. The
// caller stores it as the user's AUTH_APP credential.
func (e *Engine) ProvisionAuthApp(email string) (*AuthAppSecret, error) {
	if e == nil || e.machine == nil {
		return nil, ErrEngineNotReady
	}
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrSessionEmailMissing
	}
	key, err := totp.Provision(e.config.TOTP.Issuer, email, e.config.TOTP.Step)
	if err != nil {
		return nil, fmt.Errorf("provision auth app: %w", err)
	}
	return &AuthAppSecret{Secret: key.Secret(), URL: key.URL()}, nil
}

// UnblockCodeEntry lifts every code entry block for email and clears the
// attempt counters behind them. It returns ErrUnblockNotPossible when no
// block was present.
func (e *Engine) UnblockCodeEntry(ctx context.Context, email string) error {
	if e == nil || e.machine == nil {
		return ErrEngineNotReady
	}
	email = normalizeEmail(email)

	removed := false
	for _, scope := range mfa.EntryBlockScopes() {
		ok, err := e.codes.DeleteBlock(ctx, email, scope)
		if err != nil {
			return e.storeErr("unblock", err)
		}
		removed = removed || ok
	}
	if !removed {
		return ErrUnblockNotPossible
	}

	tags := make([]string, 0, len(mfa.ScopedMethods))
	for _, m := range mfa.ScopedMethods {
		tags = append(tags, m.KeyTag())
	}
	if err := e.attempts.ResetAll(ctx, email, tags); err != nil {
		return e.storeErr("unblock", err)
	}

	e.log.Info("code entry unblocked", logging.Subject(email))
	e.emitAudit(ctx, AuditEvent{
		EventType:  EventEntryUnblocked,
		SubjectRef: subjectRef(email),
		Success:    true,
	})
	return nil
}

func (e *Engine) ready(sess *journey.Session) error {
	if e == nil || e.machine == nil {
		return ErrEngineNotReady
	}
	if sess == nil {
		return ErrSessionRequired
	}
	return nil
}

// readyWithEmail is ready plus a session email, which every code operation
// keys its records by.
func (e *Engine) readyWithEmail(sess *journey.Session) error {
	if err := e.ready(sess); err != nil {
		return err
	}
	if strings.TrimSpace(sess.EmailAddress) == "" {
		return ErrSessionEmailMissing
	}
	return nil
}

// transition applies action and records the attempt.
func (e *Engine) transition(sess *journey.Session, action journey.Action) error {
	from := sess.State
	if err := e.machine.Apply(sess, action); err != nil {
		e.metrics.transition(string(action), "rejected")
		e.log.Warn("journey transition rejected",
			zap.String("session_id", sess.ID),
			zap.String("from", string(from)),
			zap.String("action", string(action)))
		return err
	}
	e.metrics.transition(string(action), "applied")
	e.log.Debug("journey transition",
		zap.String("session_id", sess.ID),
		zap.String("from", string(from)),
		zap.String("to", string(sess.State)),
		zap.String("action", string(action)))
	return nil
}

// allowed is a dry run of the transition, used before any side effect.
func (e *Engine) allowed(from journey.State, actions ...journey.Action) bool {
	for _, a := range actions {
		if a == "" {
			continue
		}
		if _, err := e.machine.Transition(from, a); err == nil {
			return true
		}
	}
	return false
}

// allowedAll is allowed for every non-empty action at once.
func (e *Engine) allowedAll(from journey.State, actions ...journey.Action) bool {
	for _, a := range actions {
		if a != "" && !e.allowed(from, a) {
			return false
		}
	}
	return true
}

// finish applies action and wraps the outcome. A transition the table
// rejects becomes an invalid-transition rejection with the state unchanged.
func (e *Engine) finish(sess *journey.Session, action journey.Action, rej *mfa.Rejection) *Outcome {
	if err := e.transition(sess, action); err != nil {
		return &Outcome{State: sess.State, Rejection: invalidTransition()}
	}
	return &Outcome{State: sess.State, Rejection: rej}
}

func (e *Engine) storeErr(op string, err error) error {
	e.metrics.storeFailure(op)
	e.log.Error("code store operation failed", zap.String("operation", op), zap.Error(err))
	return fmt.Errorf("%s: %w", op, err)
}

func (e *Engine) isTestClient(c Client, email string) bool {
	if !c.TestClient || !e.config.TestClients.Enabled {
		return false
	}
	if len(e.config.TestClients.AllowedEmails) == 0 {
		return true
	}
	for _, allowed := range e.config.TestClients.AllowedEmails {
		if strings.EqualFold(strings.TrimSpace(allowed), email) {
			return true
		}
	}
	return false
}

func (e *Engine) errorCodes(channel string) mfa.ChannelErrors {
	table := e.config.ErrorCodes
	if table == nil {
		table = mfa.DefaultErrorTable()
	}
	return table.For(channel)
}

func (e *Engine) emitAudit(ctx context.Context, event AuditEvent) {
	if e.audit == nil {
		return
	}
	e.audit.Emit(ctx, event)
}

func invalidTransition() *mfa.Rejection {
	return &mfa.Rejection{Kind: mfa.KindInvalidStateTransition, Code: mfa.CodeInvalidStateTransition}
}

func unsupportedNotification() *mfa.Rejection {
	return &mfa.Rejection{Kind: mfa.KindUnsupportedNotificationType, Code: mfa.CodeUnsupportedNotificationType}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func subjectRef(email string) string {
	if email == "" {
		return ""
	}
	return logging.Subject(email).String
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func rejectionLabel(rej *mfa.Rejection) string {
	if rej == nil {
		return "accepted"
	}
	return rej.Kind.String()
}
