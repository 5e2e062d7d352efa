package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/reusee/dscope"
	"github.com/reusee/steina/blocks"
	"github.com/reusee/steina/cmds"
	"github.com/reusee/steina/debugs"
	"github.com/reusee/steina/logs"
	"github.com/reusee/steina/modes"
	"github.com/reusee/steina/nets"
	"github.com/reusee/steina/servers"
	"github.com/reusee/steina/steinaconfigs"
	"github.com/reusee/steina/steinavm"
	"github.com/reusee/steina/stores"
	"github.com/reusee/steina/targets"
)

var (
	projectPath = cmds.Var[string]("run")
	tapFlag     = cmds.Switch("-tap")
)

func ce(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	cmds.Execute(os.Args[1:])
	ctx := context.Background()

	dscope.New(
		new(Module),
		modes.ForProduction(),
	).Call(func(
		logger logs.Logger,
		stepTime steinaconfigs.StepTime,
		turbo steinaconfigs.Turbo,
		listen steinaconfigs.ListenAddr,
		openStore stores.OpenStore,
		httpClient nets.HTTPClient,
		tap debugs.Tap,
	) {

		runtime := steinavm.NewRuntime(logger)
		runtime.CurrentStepTime = float64(stepTime)
		runtime.TurboMode = bool(turbo)

		project, err := loadProject(openStore, httpClient)
		ce(err)
		for _, saved := range project.VideoTargets {
			runtime.AddTarget(targets.LoadVideoTarget(saved))
		}
		for _, saved := range project.AudioTargets {
			runtime.AddTarget(targets.LoadAudioTarget(saved))
		}
		logger.InfoContext(ctx, "project loaded",
			"videoTargets", len(project.VideoTargets),
			"audioTargets", len(project.AudioTargets),
		)

		extensions := []blocks.Extension{
			blocks.NewVideoBlocks(runtime),
			blocks.NewAudioBlocks(runtime),
			blocks.NewMotionBlocks(runtime),
		}

		server := servers.New(runtime, extensions, logger)
		go func() {
			if err := server.Router().Start(string(listen)); err != nil {
				logger.Error("server", "error", err)
			}
		}()

		if *tapFlag {
			tap(ctx, "runtime", runtime.Snapshot())
		}

		sequencer := steinavm.NewSequencer(runtime)
		ticker := time.NewTicker(time.Duration(float64(stepTime) * float64(time.Millisecond)))
		defer ticker.Stop()
		logger.InfoContext(ctx, "running",
			"stepTime", float64(stepTime),
			"listen", string(listen),
		)
		for range ticker.C {
			runtime.DrainPosted()
			sequencer.StepThreads()
			runtime.RedrawRequested = false
		}

	})
}

func loadProject(openStore stores.OpenStore, httpClient nets.HTTPClient) (*stores.Project, error) {
	path := *projectPath
	switch {

	case path == "":
		store, err := openStore()
		if err != nil {
			return nil, err
		}
		return store.LoadProject()

	case strings.HasPrefix(path, "http://"),
		strings.HasPrefix(path, "https://"):
		return stores.LoadProjectURL(httpClient, path)

	default:
		return stores.LoadProjectFile(path)
	}
}
