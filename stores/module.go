package stores

import (
	"sync"

	"github.com/reusee/dscope"
	"github.com/reusee/steina/logs"
	"github.com/reusee/steina/steinaconfigs"
)

type Module struct {
	dscope.Module
	Configs steinaconfigs.Module
	Logs    logs.Module
}

type OpenStore func() (*Store, error)

func (Module) OpenStore(
	path steinaconfigs.DatabasePath,
	logger logs.Logger,
) OpenStore {
	return sync.OnceValues(func() (*Store, error) {
		logger.Info("open store", "path", path)
		return Open(string(path))
	})
}
