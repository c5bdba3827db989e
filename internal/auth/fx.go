package auth

import (
	"github.com/smallbiznis/hotelbill/internal/auth/repository"
	"github.com/smallbiznis/hotelbill/internal/auth/service"
	"github.com/smallbiznis/hotelbill/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.NewSessionRepository),
	fx.Provide(service.New),
	fx.Provide(session.NewManager),
)
