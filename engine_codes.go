package authcore

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/digital-identity/authcore/internal"
	"github.com/digital-identity/authcore/internal/logging"
	"github.com/digital-identity/authcore/internal/stores"
	"github.com/digital-identity/authcore/journey"
	"github.com/digital-identity/authcore/mfa"
)

// SendCode issues a new code on the requested channel, subject to the
// session's request limit and any entry block.
//
// When the session has used up its code requests, the identity is blocked
// from requesting more for Codes.RequestBlockDuration and the count starts
// again. While that block stands every request is refused. A channel whose
// code entry is blocked is refused too. Otherwise a fresh code replaces any
// previous one, the request is counted and the Notifier is called; test
// clients skip the notification.
func (e *Engine) SendCode(ctx context.Context, sess *journey.Session, req CodeRequest) (*Outcome, error) {
	if err := e.readyWithEmail(sess); err != nil {
		return nil, err
	}

	channel, ok := mfa.ChannelForNotification(req.NotificationType)
	acts, aok := notificationActions[req.NotificationType]
	if !ok || !aok {
		return &Outcome{State: sess.State, Rejection: unsupportedNotification()}, nil
	}
	if !e.allowed(sess.State, acts.sent) {
		return &Outcome{State: sess.State, Rejection: invalidTransition()}, nil
	}

	email := sess.EmailAddress
	destination := req.Destination
	if destination == "" && channel.Method == mfa.MethodEmail {
		destination = email
	}
	if destination == "" {
		return nil, ErrDestinationRequired
	}
	errs := e.errorCodes(channel.Name)

	if out, err := e.requestLimit(ctx, sess, acts, errs.Blocked); out != nil || err != nil {
		return out, err
	}

	blocked, err := mfa.EntryBlocked(ctx, e.codes, email, channel.EntryScopes())
	if err != nil {
		return nil, e.storeErr("send_code", err)
	}
	if blocked {
		return e.finish(sess, acts.tooManyInvalid, &mfa.Rejection{Kind: mfa.KindEntryBlocked, Code: errs.Blocked}), nil
	}

	code, err := internal.SixDigitCode()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	if err := e.codes.SaveOTP(ctx, email, channel.CodePrefix, code, e.config.Codes.CodeExpiry); err != nil {
		return nil, e.storeErr("send_code", err)
	}

	testClient := e.isTestClient(req.Client, email)
	if !testClient {
		err := e.notifier.Notify(ctx, Notification{
			Type:        req.NotificationType,
			Destination: destination,
			Code:        code,
		})
		if err != nil {
			e.log.Error("code notification failed",
				zap.String("session_id", sess.ID),
				zap.String("channel", channel.Name),
				zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrNotificationFailed, err)
		}
	}

	sess.IncrementCodeRequestCount()
	from := sess.State
	out := e.finish(sess, acts.sent, nil)

	e.metrics.issued(channel.Name)
	e.log.Info("code sent",
		zap.String("session_id", sess.ID),
		zap.String("channel", channel.Name),
		zap.Bool("test_client", testClient))
	e.emitAudit(ctx, AuditEvent{
		EventType:  EventCodeSent,
		SessionID:  sess.ID,
		ClientID:   req.Client.ID,
		SubjectRef: subjectRef(email),
		FromState:  string(from),
		ToState:    string(out.State),
		Success:    out.OK(),
		Metadata:   map[string]string{"channel": channel.Name},
	})
	return out, nil
}

// requestLimit returns a non-nil outcome when the request must be refused.
func (e *Engine) requestLimit(ctx context.Context, sess *journey.Session, acts channelActions, code mfa.ErrorCode) (*Outcome, error) {
	email := sess.EmailAddress
	rej := &mfa.Rejection{Kind: mfa.KindRequestBlocked, Code: code}

	if sess.CodeRequestCount >= e.config.Codes.MaxCodeRequests {
		err := e.codes.SaveBlock(ctx, email, stores.CodeRequestBlockedPrefix, e.config.Codes.RequestBlockDuration)
		if err != nil {
			return nil, e.storeErr("request_block", err)
		}
		e.metrics.block(stores.CodeRequestBlockedPrefix)
		sess.ResetCodeRequestCount()
		e.log.Info("code requests blocked", zap.String("session_id", sess.ID), logging.Subject(email))
		e.auditRequestBlocked(ctx, sess)
		return e.finish(sess, acts.tooManySent, rej), nil
	}

	blocked, err := e.codes.IsBlocked(ctx, email, stores.CodeRequestBlockedPrefix)
	if err != nil {
		return nil, e.storeErr("request_block", err)
	}
	if blocked {
		return e.finish(sess, acts.requestBlocked, rej), nil
	}
	return nil, nil
}

func (e *Engine) auditRequestBlocked(ctx context.Context, sess *journey.Session) {
	e.emitAudit(ctx, AuditEvent{
		EventType:  EventCodeRequestBlocked,
		SessionID:  sess.ID,
		SubjectRef: subjectRef(sess.EmailAddress),
		FromState:  string(sess.State),
		Success:    false,
	})
}

// VerifyCode validates an emailed or texted code for notification n. The
// stored code is deleted once it has been checked, whatever the result, so
// every code gets one attempt and a new one must be requested after a
// mistake. An incorrect code moves the session to the channel's not-valid
// state, and the entry that crosses the retry limit blocks the channel and
// moves it to the max-retries state.
func (e *Engine) VerifyCode(ctx context.Context, sess *journey.Session, n mfa.NotificationType, code string, client Client) (*Outcome, error) {
	if err := e.readyWithEmail(sess); err != nil {
		return nil, err
	}

	channel, ok := mfa.ChannelForNotification(n)
	acts, aok := notificationActions[n]
	if !ok || !aok {
		return &Outcome{State: sess.State, Rejection: unsupportedNotification()}, nil
	}
	email := sess.EmailAddress
	v, ok := e.factory.ForNotification(n, e.isTestClient(client, email), mfa.Identity{Email: email})
	if !ok {
		return &Outcome{State: sess.State, Rejection: unsupportedNotification()}, nil
	}

	return e.verify(ctx, sess, v, code, acts, channel.Name, channel.CodePrefix, client, EventCodeValidated, func() error {
		switch n {
		case mfa.VerifyPhoneNumber:
			sess.VerifiedMfaMethodType = mfa.MethodSMS
		case mfa.MfaSMS:
			if err := e.clearAccountRecoveryBlock(ctx, sess); err != nil {
				return err
			}
			sess.VerifiedMfaMethodType = mfa.MethodSMS
			sess.CurrentCredentialStrength = journey.MediumLevel
		}
		sess.ResetCodeRequestCount()
		return nil
	})
}

// VerifyMfaCode validates a second-factor code for method on journeyType.
// Success raises the session to medium credential strength, records the
// method used and lifts any account recovery block.
func (e *Engine) VerifyMfaCode(ctx context.Context, sess *journey.Session, method mfa.MethodType, journeyType mfa.JourneyType, code string, client Client) (*Outcome, error) {
	if err := e.readyWithEmail(sess); err != nil {
		return nil, err
	}

	unsupported := &mfa.Rejection{Kind: mfa.KindUnsupportedMfaMethod, Code: mfa.CodeUnsupportedNotificationType}
	acts, channelName, ok := mfaEntryActions(method, journeyType)
	if !ok {
		return &Outcome{State: sess.State, Rejection: unsupported}, nil
	}
	email := sess.EmailAddress
	v, ok := e.factory.Validator(method, journeyType, e.isTestClient(client, email), mfa.Identity{Email: email})
	if !ok {
		return &Outcome{State: sess.State, Rejection: unsupported}, nil
	}

	var codePrefix string
	if channel, ok := mfa.ChannelForNotification(mfa.NotificationType(channelName)); ok && method == mfa.MethodSMS {
		codePrefix = channel.CodePrefix
	}

	return e.verify(ctx, sess, v, code, acts, channelName, codePrefix, client, EventMfaValidated, func() error {
		if err := e.clearAccountRecoveryBlock(ctx, sess); err != nil {
			return err
		}
		sess.VerifiedMfaMethodType = method
		sess.CurrentCredentialStrength = journey.MediumLevel
		return nil
	})
}

// verify runs one validation and advances the session. Every edge the
// result could take must be legal before the validator runs, so a
// submission in the wrong state is refused before anything is counted or
// changed. A state that only has the too-many edge, such as a max-retries
// state, answers from the entry block alone and never evaluates the code.
//
// codePrefix names the stored code to delete once a result is committed;
// it is empty for channels without one.
func (e *Engine) verify(
	ctx context.Context,
	sess *journey.Session,
	v mfa.Validator,
	submitted string,
	acts channelActions,
	channelName string,
	codePrefix string,
	client Client,
	eventType string,
	onSuccess func() error,
) (*Outcome, error) {
	var (
		rej *mfa.Rejection
		err error
	)
	switch {
	case e.allowedAll(sess.State, acts.valid, acts.invalid, acts.tooManyInvalid):
		rej, err = v.ValidateCode(ctx, submitted)
	case e.allowed(sess.State, acts.tooManyInvalid):
		rej, err = v.Blocked(ctx)
		if err == nil && rej == nil {
			return &Outcome{State: sess.State, Rejection: invalidTransition()}, nil
		}
	default:
		return &Outcome{State: sess.State, Rejection: invalidTransition()}, nil
	}
	if err != nil {
		return nil, e.storeErr("validate_code", err)
	}
	e.metrics.validation(channelName, rejectionLabel(rej))
	if rej.Is(mfa.KindRetryLimitExceeded) {
		e.metrics.block(channelName)
		e.log.Info("code entry blocked",
			zap.String("session_id", sess.ID),
			zap.String("channel", channelName))
	}

	if codePrefix != "" {
		if err := e.codes.DeleteOTP(ctx, sess.EmailAddress, codePrefix); err != nil {
			return nil, e.storeErr("delete_code", err)
		}
	}
	if rej == nil {
		if err := onSuccess(); err != nil {
			return nil, err
		}
	}

	from := sess.State
	out := e.finish(sess, acts.forRejection(rej), rej)

	event := AuditEvent{
		EventType:  eventType,
		SessionID:  sess.ID,
		ClientID:   client.ID,
		SubjectRef: subjectRef(sess.EmailAddress),
		FromState:  string(from),
		ToState:    string(out.State),
		Success:    out.OK(),
		Metadata:   map[string]string{"channel": channelName},
	}
	if out.Rejection != nil {
		event.Error = out.Rejection.String()
	}
	e.emitAudit(ctx, event)
	return out, nil
}
