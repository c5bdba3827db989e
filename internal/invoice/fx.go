package invoice

import (
	"github.com/smallbiznis/hotelbill/internal/invoice/render"
	"github.com/smallbiznis/hotelbill/internal/invoice/repository"
	"github.com/smallbiznis/hotelbill/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.New),
	fx.Provide(service.NewService),
	fx.Provide(render.NewHTMLRenderer),
	fx.Provide(render.NewPDFRenderer),
)
