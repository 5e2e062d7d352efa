package nets

import (
	"github.com/reusee/dscope"
	"github.com/reusee/steina/logs"
	"github.com/reusee/steina/steinaconfigs"
)

type Module struct {
	dscope.Module
	Configs steinaconfigs.Module
	Logs    logs.Module
}
