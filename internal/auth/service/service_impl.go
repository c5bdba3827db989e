package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/hotelbill/internal/auth/domain"
	"github.com/smallbiznis/hotelbill/internal/auth/password"
	catalogdomain "github.com/smallbiznis/hotelbill/internal/catalog/domain"
	"github.com/smallbiznis/hotelbill/internal/clock"
	"github.com/smallbiznis/hotelbill/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	sessionTokenBytes = 32
	sessionTTL        = 12 * time.Hour
)

type ServiceParam struct {
	fx.In

	Log         *zap.Logger
	Clock       clock.Clock
	GenID       *snowflake.Node
	SessionRepo domain.SessionRepository
	Catalog     catalogdomain.Service
	Metrics     *metrics.Metrics `optional:"true"`
}

type Service struct {
	log         *zap.Logger
	clock       clock.Clock
	genID       *snowflake.Node
	sessionRepo domain.SessionRepository
	catalog     catalogdomain.Service
	metrics     *metrics.Metrics
}

func New(p ServiceParam) domain.Service {
	return &Service{
		log:         p.Log.Named("auth.service"),
		clock:       p.Clock,
		genID:       p.GenID,
		sessionRepo: p.SessionRepo,
		catalog:     p.Catalog,
		metrics:     p.Metrics,
	}
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	userID := strings.ToUpper(strings.TrimSpace(req.UserID))
	if userID == "" || req.Password == "" {
		s.metrics.IncLogin(false)
		return nil, domain.ErrInvalidCredentials
	}

	account, err := s.catalog.GetUserAccount(ctx, userID)
	if err != nil {
		s.metrics.IncLogin(false)
		if errors.Is(err, catalogdomain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !password.Verify(req.Password, account.PasswordHash) {
		s.metrics.IncLogin(false)
		s.log.Info("login rejected", zap.String("user_id", userID))
		return nil, domain.ErrInvalidCredentials
	}

	rawToken, err := newSessionToken()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	session := &domain.Session{
		ID:               s.genID.Generate(),
		UserID:           account.ID,
		DisplayName:      account.Name,
		Role:             string(account.Role),
		EmployeeID:       account.EmployeeID,
		SessionTokenHash: hashToken(rawToken),
		UserAgent:        strings.TrimSpace(req.UserAgent),
		IPAddress:        strings.TrimSpace(req.IPAddress),
		ExpiresAt:        now.Add(sessionTTL),
		CreatedAt:        now,
		LastSeenAt:       now,
	}
	if err := s.sessionRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	s.metrics.IncLogin(true)
	s.log.Info("login succeeded",
		zap.String("user_id", account.ID),
		zap.String("role", string(account.Role)),
		zap.String("session_id", session.ID.String()),
	)

	return &domain.LoginResult{
		Session: &domain.SessionView{
			UserID:      account.ID,
			ExternalID:  account.ExternalID,
			DisplayName: account.Name,
			Role:        string(account.Role),
			EmployeeID:  account.EmployeeID,
			ExpiresAt:   session.ExpiresAt,
		},
		RawToken:  rawToken,
		ExpiresAt: session.ExpiresAt,
		SessionID: session.ID,
	}, nil
}

func (s *Service) Logout(ctx context.Context, rawToken string) error {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return domain.ErrInvalidSession
	}

	err := s.sessionRepo.RevokeSession(ctx, hashToken(token), s.clock.Now())
	if errors.Is(err, domain.ErrSessionNotFound) {
		return domain.ErrInvalidSession
	}
	return err
}

func (s *Service) Authenticate(ctx context.Context, rawToken string) (*domain.Session, error) {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return nil, domain.ErrInvalidSession
	}

	tokenHash := hashToken(token)
	session, err := s.sessionRepo.GetSessionByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrInvalidSession
		}
		return nil, err
	}

	now := s.clock.Now()
	if session.RevokedAt != nil {
		return nil, domain.ErrSessionRevoked
	}
	if now.After(session.ExpiresAt) {
		return nil, domain.ErrSessionExpired
	}

	if err := s.sessionRepo.UpdateLastSeen(ctx, tokenHash, now); err != nil {
		return nil, err
	}
	session.LastSeenAt = now
	return session, nil
}

func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
