package productsession

import (
	"github.com/smallbiznis/storefront/internal/productsession/service"
	"go.uber.org/fx"
)

var Module = fx.Module("productsession.service",
	fx.Provide(service.New),
)
