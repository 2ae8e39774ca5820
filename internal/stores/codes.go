package stores

import (
	"context"
	"time"
)

// CodeStorage is the domain view over a CodeStore: codes per channel, block
// flags per scope and reset-link tokens.
type CodeStorage struct {
	store CodeStore
}

func NewCodeStorage(store CodeStore) *CodeStorage {
	return &CodeStorage{store: store}
}

// Store exposes the underlying CodeStore for components that build on it.
func (s *CodeStorage) Store() CodeStore {
	return s.store
}

// SaveOTP overwrites any previous code for the identity on that channel.
func (s *CodeStorage) SaveOTP(ctx context.Context, identity, channelPrefix, code string, ttl time.Duration) error {
	return s.store.Put(ctx, Key(channelPrefix, identity), code, ttl)
}

func (s *CodeStorage) GetOTP(ctx context.Context, identity, channelPrefix string) (string, bool, error) {
	return s.store.Get(ctx, Key(channelPrefix, identity))
}

func (s *CodeStorage) DeleteOTP(ctx context.Context, identity, channelPrefix string) error {
	_, err := s.store.Delete(ctx, Key(channelPrefix, identity))
	return err
}

func (s *CodeStorage) SaveBlock(ctx context.Context, identity, scopePrefix string, ttl time.Duration) error {
	return s.store.Put(ctx, Key(scopePrefix, identity), BlockedValue, ttl)
}

func (s *CodeStorage) IsBlocked(ctx context.Context, identity, scopePrefix string) (bool, error) {
	return s.store.Exists(ctx, Key(scopePrefix, identity))
}

// DeleteBlock reports whether a block record was actually removed.
func (s *CodeStorage) DeleteBlock(ctx context.Context, identity, scopePrefix string) (bool, error) {
	n, err := s.store.Delete(ctx, Key(scopePrefix, identity))
	return n > 0, err
}

// Reset tokens are already high entropy, so the token itself is the key
// suffix and the subject identifier is the value.

func (s *CodeStorage) SaveResetToken(ctx context.Context, token, subjectID string, ttl time.Duration) error {
	return s.store.Put(ctx, ResetLinkPrefix+token, subjectID, ttl)
}

func (s *CodeStorage) SubjectForResetToken(ctx context.Context, token string) (string, bool, error) {
	return s.store.Get(ctx, ResetLinkPrefix+token)
}

func (s *CodeStorage) DeleteResetToken(ctx context.Context, token string) error {
	_, err := s.store.Delete(ctx, ResetLinkPrefix+token)
	return err
}

// TakeResetToken returns the token's subject and deletes the token. Only the
// caller whose delete removed the record gets ok, so a token redeems once
// even under concurrent use.
func (s *CodeStorage) TakeResetToken(ctx context.Context, token string) (string, bool, error) {
	subject, ok, err := s.store.Get(ctx, ResetLinkPrefix+token)
	if err != nil || !ok {
		return "", false, err
	}
	n, err := s.store.Delete(ctx, ResetLinkPrefix+token)
	if err != nil {
		return "", false, err
	}
	return subject, n > 0, nil
}
