package steinaconfigs

import (
	"github.com/reusee/steina/cmds"
	"github.com/reusee/steina/configs"
	"github.com/reusee/steina/vars"
)

// StepTime is the nominal tick period in milliseconds.
type StepTime float64

var stepTimeFlag = cmds.Var[float64]("-step-time")

func (Module) StepTime(
	loader configs.Loader,
) StepTime {
	return StepTime(vars.FirstNonZero(
		*stepTimeFlag,
		configs.First[float64](loader, "step_time_ms"),
		1000.0/30,
	))
}
