/*
Lightbox browses the images of a directory. Decoding happens on background
workers so paging and zooming stay smooth.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/lightbox/engine/config"
	"github.com/spaghettifunk/lightbox/engine/core"
	"github.com/spaghettifunk/lightbox/engine/injector"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.FromArgs(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		core.LogError("%s", err)
		return 2
	}
	if level, err := core.ParseLogLevel(cfg.LogLevel); err == nil {
		core.SetLogLevel(level)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine, cleanup, err := injector.InitializeEngine(ctx, cfg)
	if err != nil {
		if errors.Is(err, core.ErrNoAssets) {
			core.LogInfo("no images to display in %s, exiting", cfg.Input.Dir)
			return 0
		}
		core.LogError("%s", err)
		return 1
	}
	defer cleanup()

	if err := engine.Initialize(); err != nil {
		core.LogError("%s", err)
		_ = engine.Shutdown()
		return 1
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer signal.Stop(sigCh)

	go func() {
		// capture sigterm and other system call here
		select {
		case <-sigCh:
			engine.Quit()
		case <-ctx.Done():
		}
	}()

	// run engine
	status := 0
	if err := engine.Run(); err != nil {
		core.LogError("%s", err)
		status = 1
	}
	if err := engine.Shutdown(); err != nil {
		core.LogError("%s", err)
	}
	return status
}
