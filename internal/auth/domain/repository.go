package domain

import (
	"context"
	"time"
)

// SessionRepository stores sessions keyed by their token hash.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *Session) error
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (*Session, error)
	RevokeSession(ctx context.Context, tokenHash string, revokedAt time.Time) error
	UpdateLastSeen(ctx context.Context, tokenHash string, seenAt time.Time) error
}
