package authorization

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/smallbiznis/hotelbill/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectDashboard    = "dashboard"
	ObjectInvoice      = "invoice"
	ObjectProduct      = "product"
	ObjectOrganization = "organization"
)

const (
	ActionDashboardView = "dashboard.view"

	ActionInvoiceView   = "invoice.view"
	ActionInvoiceCreate = "invoice.create"
	ActionInvoiceUpdate = "invoice.update"
	ActionInvoiceDelete = "invoice.delete"

	ActionProductView   = "product.view"
	ActionProductCreate = "product.create"
	ActionProductUpdate = "product.update"
	ActionProductDelete = "product.delete"

	ActionOrganizationView   = "organization.view"
	ActionOrganizationUpdate = "organization.update"
)

type Service interface {
	Authorize(ctx context.Context, userID, role, object, action string) error
}

type EnforcerParams struct {
	fx.In

	DB  *gorm.DB `optional:"true"`
	Log *zap.Logger
}

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
	Metrics  *metrics.Metrics `optional:"true"`
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
	metrics  *metrics.Metrics
}

// NewEnforcer keeps policies in the database when one is configured and in
// memory otherwise. Seeded policies are re-applied on every start.
func NewEnforcer(p EnforcerParams) (*casbin.SyncedEnforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	var enforcer *casbin.SyncedEnforcer
	if p.DB != nil {
		adapter, err := gormadapter.NewAdapterByDB(p.DB)
		if err != nil {
			return nil, err
		}
		enforcer, err = casbin.NewSyncedEnforcer(m, adapter)
		if err != nil {
			return nil, err
		}
		enforcer.EnableAutoSave(true)
		if err := enforcer.LoadPolicy(); err != nil {
			return nil, err
		}
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
		if err != nil {
			return nil, err
		}
		p.Log.Named("authorization").Debug("no database configured, policies kept in memory")
	}
	enforcer.EnableAutoBuildRoleLinks(true)

	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	if err := enforcer.BuildRoleLinks(); err != nil {
		return nil, err
	}
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
		metrics:  p.Metrics,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, userID, role, object, action string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrInvalidActor
	}
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return ErrInvalidRole
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	subject := fmt.Sprintf("user:%s", userID)
	if err := s.ensureGrouping(subject, fmt.Sprintf("role:%s", role)); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.metrics.IncAuthorizationDenied(object, action)
		s.log.Info("authorization denied",
			zap.String("subject", subject),
			zap.String("role", role),
			zap.String("object", object),
			zap.String("action", action),
		)
		return ErrForbidden
	}
	return nil
}

// ensureGrouping binds subject to exactly roleName, dropping stale roles.
func (s *ServiceImpl) ensureGrouping(subject string, roleName string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 || rule[1] == roleName {
			continue
		}
		params := make([]interface{}, 0, len(rule))
		for _, value := range rule {
			params = append(params, value)
		}
		if _, err := s.enforcer.RemoveGroupingPolicy(params...); err != nil {
			s.log.Error("failed to drop stale role",
				zap.String("subject", subject),
				zap.String("stale_role", rule[1]),
				zap.Error(err),
			)
			return fmt.Errorf("drop stale role %s: %w", rule[1], err)
		}
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName)
	return err
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		// Staff take orders and read the menu.
		{"role:staff", ObjectInvoice, ActionInvoiceView},
		{"role:staff", ObjectInvoice, ActionInvoiceCreate},
		{"role:staff", ObjectProduct, ActionProductView},
		{"role:staff", ObjectOrganization, ActionOrganizationView},

		{"role:owner", ObjectDashboard, ActionDashboardView},
		{"role:owner", ObjectInvoice, ActionInvoiceView},
		{"role:owner", ObjectInvoice, ActionInvoiceCreate},
		{"role:owner", ObjectInvoice, ActionInvoiceUpdate},
		{"role:owner", ObjectInvoice, ActionInvoiceDelete},
		{"role:owner", ObjectProduct, ActionProductView},
		{"role:owner", ObjectProduct, ActionProductCreate},
		{"role:owner", ObjectProduct, ActionProductUpdate},
		{"role:owner", ObjectProduct, ActionProductDelete},
		{"role:owner", ObjectOrganization, ActionOrganizationView},
		{"role:owner", ObjectOrganization, ActionOrganizationUpdate},
	}

	for _, policy := range policies {
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}
