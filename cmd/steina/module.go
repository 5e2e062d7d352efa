package main

import (
	"github.com/reusee/dscope"
	"github.com/reusee/steina/debugs"
	"github.com/reusee/steina/logs"
	"github.com/reusee/steina/nets"
	"github.com/reusee/steina/steinaconfigs"
	"github.com/reusee/steina/stores"
)

type Module struct {
	dscope.Module
	Configs steinaconfigs.Module
	Logs    logs.Module
	Nets    nets.Module
	Debugs  debugs.Module
	Stores  stores.Module
}
