package steinaconfigs

import (
	"github.com/reusee/steina/cmds"
	"github.com/reusee/steina/configs"
	"github.com/reusee/steina/vars"
)

type DatabasePath string

var databaseFlag = cmds.Var[string]("-database")

func (Module) DatabasePath(
	loader configs.Loader,
) DatabasePath {
	return DatabasePath(vars.FirstNonZero(
		*databaseFlag,
		configs.First[string](loader, "database"),
		"steina.db",
	))
}
