package steinaconfigs

import (
	"github.com/reusee/steina/cmds"
	"github.com/reusee/steina/configs"
	"github.com/reusee/steina/vars"
)

// ListenAddr is where the control server binds.
type ListenAddr string

var listenFlag = cmds.Var[string]("-listen")

func (Module) ListenAddr(
	loader configs.Loader,
) ListenAddr {
	return ListenAddr(vars.FirstNonZero(
		*listenFlag,
		configs.First[string](loader, "listen"),
		":8733",
	))
}
