/*
This is an example of application that will use the
engine package to test things out
*/
package main

import (
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/colorpass/engine"
	"github.com/spaghettifunk/colorpass/engine/core"
	"github.com/spaghettifunk/colorpass/engine/platform"
	"github.com/spaghettifunk/colorpass/engine/renderer"
	"github.com/spaghettifunk/colorpass/engine/renderer/backends"
	"github.com/spaghettifunk/colorpass/testbed"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML configuration file")
	watch := flag.Bool("watch", false, "reload the log level when the configuration file changes")
	flag.Parse()

	config := engine.DefaultApplicationConfig()
	if *configPath != "" {
		c, err := engine.LoadConfig(*configPath)
		if err != nil {
			core.LogFatal("failed to load configuration: %s", err)
		}
		config = c
	}
	if err := core.SetLogLevel(config.LogLevel); err != nil {
		core.LogFatal(err.Error())
	}

	if err := run(config, *configPath, *watch); err != nil {
		core.LogError(err.Error())
		os.Exit(1)
	}
}

func run(config *engine.ApplicationConfig, configPath string, watch bool) error {
	events := core.NewEventSystem()

	backendConfig := backends.Config{
		Type:            config.RendererType(),
		ApplicationName: config.Name,
		FramesInFlight:  config.FramesInFlight,
		Width:           config.StartWidth,
		Height:          config.StartHeight,
		Debug:           config.Debug,
	}

	var p engine.Platform
	if config.Windowed {
		window := platform.New(events)
		if err := window.Startup(config.Name, config.StartPosX, config.StartPosY, config.StartWidth, config.StartHeight); err != nil {
			return err
		}
		backendConfig.Width, backendConfig.Height = window.FramebufferSize()
		if backendConfig.Type == renderer.Vulkan {
			backendConfig.GetInstanceProcAddr = window.GetInstanceProcAddr()
		}
		p = window
	}

	backend, err := backends.New(backendConfig)
	if err != nil {
		return shutdownPlatform(p, err)
	}

	tb := testbed.NewTestGame(config)
	e, err := engine.New(tb.Game, backend, p, events)
	if err != nil {
		return shutdownPlatform(p, errors.Join(err, backend.Shutdown()))
	}

	if err := e.Initialize(); err != nil {
		return shutdownPlatform(p, errors.Join(err, backend.Shutdown()))
	}

	if watch && configPath != "" {
		if err := e.WatchConfig(configPath); err != nil {
			core.LogWarn("configuration will not be reloaded: %s", err)
		}
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer signal.Stop(sigCh)

	// start shutdown goroutine
	go func() {
		// capture sigterm and other system call here
		if _, ok := <-sigCh; ok {
			core.LogInfo("signal received, shutting down")
			e.Shutdown()
		}
	}()

	// run engine
	return e.Run()
}

func shutdownPlatform(p engine.Platform, err error) error {
	if p == nil {
		return err
	}
	return errors.Join(err, p.Shutdown())
}
