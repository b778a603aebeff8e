package demo

import (
	"time"

	"github.com/vango-dev/hydra/pkg/controller"
)

// Clock tells the time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// ClockService provides the Clock used by the todo controllers.
var ClockService = &controller.ServiceType{
	Name: "clock",
	New: func(controller.Deps) (any, error) {
		return Clock(systemClock{}), nil
	},
}
