package service

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"sync"

	"github.com/smallbiznis/hotelbill/internal/clock"
	"github.com/smallbiznis/hotelbill/internal/config"
	obslogger "github.com/smallbiznis/hotelbill/internal/observability/logger"
	orgdomain "github.com/smallbiznis/hotelbill/internal/organization/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// GSTIN: 2 digit state code, 10 char PAN, entity digit, Z, checksum.
var gstPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][0-9A-Z]Z[0-9A-Z]$`)

type ServiceParam struct {
	fx.In

	Log      *zap.Logger
	Clock    clock.Clock
	Repo     orgdomain.Repository
	Defaults *config.OrganizationConfigHolder
}

type Service struct {
	log      *zap.Logger
	clock    clock.Clock
	repo     orgdomain.Repository
	defaults *config.OrganizationConfigHolder

	mu sync.Mutex
}

func NewService(p ServiceParam) orgdomain.Service {
	return &Service{
		log:      p.Log.Named("organization.service"),
		clock:    p.Clock,
		repo:     p.Repo,
		defaults: p.Defaults,
	}
}

// Get returns the stored profile, or the configured one when nothing valid
// has been saved. The configured profile follows hotelbill.yml reloads.
func (s *Service) Get(ctx context.Context) (orgdomain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current(ctx)
}

func (s *Service) Update(ctx context.Context, req orgdomain.UpdateProfileRequest) (orgdomain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.current(ctx)
	if err != nil {
		return orgdomain.Profile{}, err
	}
	if req.Name != nil {
		profile.Name = strings.TrimSpace(*req.Name)
	}
	if req.GST != nil {
		profile.GST = strings.ToUpper(strings.TrimSpace(*req.GST))
	}
	if req.Address != nil {
		profile.Address = strings.TrimSpace(*req.Address)
	}
	if req.Phone != nil {
		profile.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		profile.Email = strings.TrimSpace(*req.Email)
	}

	if profile.Name == "" {
		return orgdomain.Profile{}, orgdomain.ErrInvalidName
	}
	if profile.GST != "" && !gstPattern.MatchString(profile.GST) {
		return orgdomain.Profile{}, orgdomain.ErrInvalidGST
	}
	if profile.Email != "" {
		if _, err := mail.ParseAddress(profile.Email); err != nil {
			return orgdomain.Profile{}, orgdomain.ErrInvalidEmail
		}
	}

	now := s.clock.Now()
	profile.UpdatedAt = &now
	if err := s.repo.Save(ctx, profile); err != nil {
		s.log.Error("failed to persist organization profile", zap.Error(err))
	}

	obslogger.WithContext(ctx, s.log).Info("organization profile updated", zap.String("name", profile.Name))
	return profile, nil
}

// current returns the stored profile, or the configured one when nothing
// usable is stored. A store failure is returned as is so Update never
// overwrites a saved profile it could not read.
func (s *Service) current(ctx context.Context) (orgdomain.Profile, error) {
	profile, err := s.repo.Load(ctx)
	switch {
	case err == nil:
		return profile, nil
	case errors.Is(err, orgdomain.ErrProfileNotStored):
	case errors.Is(err, orgdomain.ErrProfileCorrupt):
		s.log.Warn("stored organization profile corrupt, using configured profile", zap.Error(err))
	default:
		return orgdomain.Profile{}, err
	}

	org := s.defaults.Get().Organization
	return orgdomain.Profile{
		Name:    org.Name,
		GST:     org.GST,
		Address: org.Address,
		Phone:   org.Phone,
		Email:   org.Email,
	}, nil
}
