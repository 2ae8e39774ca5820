package authcore

import (
	"context"

	"go.uber.org/zap"

	"github.com/digital-identity/authcore/internal/logging"
	"github.com/digital-identity/authcore/internal/stores"
	"github.com/digital-identity/authcore/journey"
)

// BlockAccountRecovery stops email from starting account recovery until
// Retries.AccountRecoveryBlockDuration passes or the user next completes a
// second factor. Callers set it when the account's second factor changes.
func (e *Engine) BlockAccountRecovery(ctx context.Context, email string) error {
	if e == nil || e.machine == nil {
		return ErrEngineNotReady
	}
	email = normalizeEmail(email)
	if email == "" {
		return ErrSessionEmailMissing
	}

	err := e.codes.SaveBlock(ctx, email, stores.AccountRecoveryBlockedPrefix, e.config.Retries.AccountRecoveryBlockDuration)
	if err != nil {
		return e.storeErr("recovery_block", err)
	}
	e.metrics.block(stores.AccountRecoveryBlockedPrefix)
	e.log.Info("account recovery blocked", logging.Subject(email))
	e.emitAudit(ctx, AuditEvent{
		EventType:  EventAccountRecoveryBlocked,
		SubjectRef: subjectRef(email),
		Success:    true,
	})
	return nil
}

// StartAccountRecovery moves a signed-in session into account recovery. With
// a recovery block present the session goes to ACCOUNT_RECOVERY_BLOCKED
// instead and Permitted is false. An illegal transition leaves the session
// unchanged and returns an error wrapping ErrInvalidStateTransition.
func (e *Engine) StartAccountRecovery(ctx context.Context, sess *journey.Session) (*RecoveryOutcome, error) {
	if err := e.readyWithEmail(sess); err != nil {
		return nil, err
	}
	email := sess.EmailAddress

	blocked, err := e.codes.IsBlocked(ctx, email, stores.AccountRecoveryBlockedPrefix)
	if err != nil {
		return nil, e.storeErr("recovery_block", err)
	}
	action := journey.UserRequestedAccountRecovery
	if blocked {
		action = journey.SystemHasDetectedAccountRecoveryBlock
	}

	from := sess.State
	err = e.transition(sess, action)
	e.emitAudit(ctx, AuditEvent{
		EventType:  EventAccountRecoveryStarted,
		SessionID:  sess.ID,
		SubjectRef: subjectRef(email),
		FromState:  string(from),
		ToState:    string(sess.State),
		Success:    err == nil && !blocked,
		Error:      errString(err),
	})
	if err != nil {
		return nil, err
	}
	return &RecoveryOutcome{State: sess.State, Permitted: !blocked}, nil
}

// clearAccountRecoveryBlock lifts the recovery block after a completed second
// factor. Nothing is recorded when there was no block.
func (e *Engine) clearAccountRecoveryBlock(ctx context.Context, sess *journey.Session) error {
	removed, err := e.codes.DeleteBlock(ctx, sess.EmailAddress, stores.AccountRecoveryBlockedPrefix)
	if err != nil {
		return e.storeErr("recovery_block", err)
	}
	if !removed {
		return nil
	}
	e.log.Info("account recovery block removed", zap.String("session_id", sess.ID))
	e.emitAudit(ctx, AuditEvent{
		EventType:  EventAccountRecoveryUnblocked,
		SessionID:  sess.ID,
		SubjectRef: subjectRef(sess.EmailAddress),
		Success:    true,
	})
	return nil
}
