package authcore

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Audit event types.
const (
	EventUserLookup               = "user_lookup"
	EventCodeSent                 = "code_sent"
	EventCodeRequestBlocked       = "code_request_blocked"
	EventCodeValidated            = "code_validated"
	EventMfaValidated             = "mfa_validated"
	EventResetLinkSent            = "reset_link_sent"
	EventResetLinkConsumed        = "reset_link_consumed"
	EventPasswordChecked          = "password_checked"
	EventEntryUnblocked           = "code_entry_unblocked"
	EventTransition               = "journey_transition"
	EventAccountRecoveryBlocked   = "account_recovery_blocked"
	EventAccountRecoveryStarted   = "account_recovery_started"
	EventAccountRecoveryUnblocked = "account_recovery_block_removed"
)

// AuditEvent records one journey step. SubjectRef is a truncated one-way hash
// of the email address; raw addresses and codes are never included.
type AuditEvent struct {
	ID         string            `json:"id"`
	Timestamp  time.Time         `json:"timestamp"`
	EventType  string            `json:"event_type"`
	SessionID  string            `json:"session_id,omitempty"`
	ClientID   string            `json:"client_id,omitempty"`
	SubjectRef string            `json:"subject_ref,omitempty"`
	FromState  string            `json:"from_state,omitempty"`
	ToState    string            `json:"to_state,omitempty"`
	Success    bool              `json:"success"`
	Error      string            `json:"error,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}

type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, AuditEvent) {}

// ChannelSink hands events to a consumer goroutine. Emit blocks while the
// buffer is full unless ctx is done.
type ChannelSink struct {
	events chan AuditEvent
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan AuditEvent, buffer),
	}
}

func (s *ChannelSink) Emit(ctx context.Context, event AuditEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

func (s *ChannelSink) Events() <-chan AuditEvent {
	return s.events
}

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

func (s *JSONWriterSink) Emit(ctx context.Context, event AuditEvent) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}
