package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/smallbiznis/hotelbill/internal/auth/domain"
	"github.com/smallbiznis/hotelbill/internal/kvstore"
)

const sessionKeyPrefix = "session:"

type sessionRepo struct {
	store kvstore.Store
}

func NewSessionRepository(store kvstore.Store) domain.SessionRepository {
	return &sessionRepo{store: store}
}

func (r *sessionRepo) CreateSession(ctx context.Context, session *domain.Session) error {
	if session == nil || session.SessionTokenHash == "" {
		return domain.ErrInvalidSession
	}
	return r.put(ctx, session)
}

func (r *sessionRepo) GetSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	raw, err := r.store.Get(ctx, sessionKey(tokenHash))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (r *sessionRepo) RevokeSession(ctx context.Context, tokenHash string, revokedAt time.Time) error {
	session, err := r.GetSessionByTokenHash(ctx, tokenHash)
	if err != nil {
		return err
	}
	if session.RevokedAt == nil {
		session.RevokedAt = &revokedAt
	}
	return r.put(ctx, session)
}

func (r *sessionRepo) UpdateLastSeen(ctx context.Context, tokenHash string, seenAt time.Time) error {
	session, err := r.GetSessionByTokenHash(ctx, tokenHash)
	if err != nil {
		return err
	}
	session.LastSeenAt = seenAt
	return r.put(ctx, session)
}

func (r *sessionRepo) put(ctx context.Context, session *domain.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, sessionKey(session.SessionTokenHash), raw)
}

func sessionKey(tokenHash string) string {
	return sessionKeyPrefix + tokenHash
}
