package authcore

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/digital-identity/authcore/internal"
	"github.com/digital-identity/authcore/internal/logging"
	"github.com/digital-identity/authcore/internal/stores"
	"github.com/digital-identity/authcore/journey"
	"github.com/digital-identity/authcore/mfa"
)

// RequestPasswordReset sends a reset link to the session's email address.
// It shares the code request limit with SendCode and is refused while
// password reset is blocked for the identity.
func (e *Engine) RequestPasswordReset(ctx context.Context, sess *journey.Session, client Client) (*Outcome, error) {
	if err := e.readyWithEmail(sess); err != nil {
		return nil, err
	}

	acts := notificationActions[mfa.ResetPassword]
	if !e.allowed(sess.State, acts.sent) {
		return &Outcome{State: sess.State, Rejection: invalidTransition()}, nil
	}

	email := sess.EmailAddress
	errs := e.errorCodes(string(mfa.ResetPasswordWithCode))

	if out, err := e.requestLimit(ctx, sess, acts, errs.Blocked); out != nil || err != nil {
		return out, err
	}

	blocked, err := e.codes.IsBlocked(ctx, email, stores.PasswordResetBlockedPrefix)
	if err != nil {
		return nil, e.storeErr("reset_link", err)
	}
	if blocked {
		return e.finish(sess, acts.requestBlocked, &mfa.Rejection{Kind: mfa.KindEntryBlocked, Code: errs.Blocked}), nil
	}

	subject, err := e.userProvider.SubjectID(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("subject lookup: %w", err)
	}
	if strings.TrimSpace(subject) == "" {
		return nil, ErrUserNotFound
	}

	token, err := internal.HighEntropyToken()
	if err != nil {
		return nil, fmt.Errorf("generate reset token: %w", err)
	}
	if err := e.codes.SaveResetToken(ctx, token, subject, e.config.Codes.ResetLinkTTL); err != nil {
		return nil, e.storeErr("reset_link", err)
	}

	if !e.isTestClient(client, email) {
		err := e.notifier.Notify(ctx, Notification{
			Type:        mfa.ResetPassword,
			Destination: email,
			ResetToken:  token,
		})
		if err != nil {
			e.log.Error("reset link notification failed", zap.String("session_id", sess.ID), zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrNotificationFailed, err)
		}
	}

	sess.IncrementCodeRequestCount()
	from := sess.State
	out := e.finish(sess, acts.sent, nil)

	e.metrics.issued(string(mfa.ResetPassword))
	e.emitAudit(ctx, AuditEvent{
		EventType:  EventResetLinkSent,
		SessionID:  sess.ID,
		ClientID:   client.ID,
		SubjectRef: subjectRef(email),
		FromState:  string(from),
		ToState:    string(out.State),
		Success:    out.OK(),
	})
	return out, nil
}

// ConsumeResetToken redeems a reset link and returns the subject it was
// issued for. A token redeems at most once.
func (e *Engine) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	if e == nil || e.machine == nil {
		return "", ErrEngineNotReady
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrResetTokenInvalid
	}

	subject, ok, err := e.codes.TakeResetToken(ctx, token)
	if err != nil {
		return "", e.storeErr("reset_link", err)
	}
	if !ok {
		return "", ErrResetTokenInvalid
	}

	e.emitAudit(ctx, AuditEvent{
		EventType: EventResetLinkConsumed,
		Success:   true,
	})
	return subject, nil
}

// RecordPasswordCheck applies the caller's password verdict. Incorrect
// entries are counted per identity; reaching Retries.MaxPasswordRetries
// locks the account until the counter expires, and while locked even a
// correct password keeps the session locked.
func (e *Engine) RecordPasswordCheck(ctx context.Context, sess *journey.Session, valid bool) (*PasswordOutcome, error) {
	if err := e.readyWithEmail(sess); err != nil {
		return nil, err
	}
	email := sess.EmailAddress
	limit := e.config.Retries.MaxPasswordRetries

	result := func(action journey.Action, locked bool) (*PasswordOutcome, error) {
		from := sess.State
		err := e.transition(sess, action)
		e.emitAudit(ctx, AuditEvent{
			EventType:  EventPasswordChecked,
			SessionID:  sess.ID,
			SubjectRef: subjectRef(email),
			FromState:  string(from),
			ToState:    string(sess.State),
			Success:    err == nil && valid && !locked,
			Error:      errString(err),
		})
		if err != nil {
			return nil, err
		}
		return &PasswordOutcome{State: sess.State, Locked: locked}, nil
	}

	count, err := e.passwords.Count(ctx, email)
	if err != nil {
		return nil, e.storeErr("password_attempts", err)
	}
	if count >= limit {
		return result(journey.UserEnteredInvalidCredentialsTooManyTimes, true)
	}

	if valid {
		if !e.allowed(sess.State, journey.UserEnteredValidCredentials) {
			return result(journey.UserEnteredValidCredentials, false)
		}
		if err := e.passwords.Reset(ctx, email); err != nil {
			return nil, e.storeErr("password_attempts", err)
		}
		sess.CurrentCredentialStrength = journey.LowLevel
		return result(journey.UserEnteredValidCredentials, false)
	}

	if !e.allowedAll(sess.State, journey.UserEnteredInvalidCredentials, journey.UserEnteredInvalidCredentialsTooManyTimes) {
		return result(journey.UserEnteredInvalidCredentials, false)
	}
	n, err := e.passwords.Increment(ctx, email)
	if err != nil {
		return nil, e.storeErr("password_attempts", err)
	}
	if n >= limit {
		e.metrics.block(stores.IncorrectPasswordsPrefix)
		e.log.Info("account temporarily locked", zap.String("session_id", sess.ID), logging.Subject(email))
		return result(journey.UserEnteredInvalidCredentialsTooManyTimes, true)
	}
	return result(journey.UserEnteredInvalidCredentials, false)
}
