package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock abstracts wall time so idle expiry and prompt timing can be driven
// deterministically in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func New() Clock { return systemClock{} }

var Module = fx.Module("clock", fx.Provide(New))
