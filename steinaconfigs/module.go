package steinaconfigs

import (
	"github.com/reusee/dscope"
	"github.com/reusee/steina/logs"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}
