package commerce

import (
	"github.com/smallbiznis/storefront/internal/commerce/client"
	"go.uber.org/fx"
)

var Module = fx.Module("commerce.client",
	fx.Provide(client.New),
)
