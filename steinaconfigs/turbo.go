package steinaconfigs

import (
	"os"

	"github.com/reusee/steina/cmds"
	"github.com/reusee/steina/configs"
	"github.com/reusee/steina/vars"
)

type Turbo bool

var turboFlag = cmds.Switch("-turbo")

func (Module) Turbo(
	loader configs.Loader,
) Turbo {
	if *turboFlag {
		return true
	}
	if configs.First[bool](loader, "turbo") {
		return true
	}
	return Turbo(vars.StrToBool(os.Getenv("STEINA_TURBO")))
}
