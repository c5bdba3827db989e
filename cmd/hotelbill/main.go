package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/hotelbill/internal/auth"
	"github.com/smallbiznis/hotelbill/internal/authorization"
	"github.com/smallbiznis/hotelbill/internal/catalog"
	"github.com/smallbiznis/hotelbill/internal/clock"
	"github.com/smallbiznis/hotelbill/internal/config"
	"github.com/smallbiznis/hotelbill/internal/invoice"
	"github.com/smallbiznis/hotelbill/internal/kvstore"
	"github.com/smallbiznis/hotelbill/internal/observability"
	"github.com/smallbiznis/hotelbill/internal/organization"
	"github.com/smallbiznis/hotelbill/internal/ratelimit"
	"github.com/smallbiznis/hotelbill/internal/server"
	"go.uber.org/fx"
)

func main() {
	cfg := config.Load()

	app := fx.New(
		// Core Infrastructure
		fx.Supply(cfg),
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		clock.Module,
		kvstore.Module(cfg),

		// Functional Domains
		catalog.Module,
		invoice.Module,
		organization.Module,
		auth.Module,
		authorization.Module,
		ratelimit.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
