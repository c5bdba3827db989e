package catalog

import (
	"github.com/smallbiznis/hotelbill/internal/catalog/repository"
	"github.com/smallbiznis/hotelbill/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
