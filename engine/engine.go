package engine

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/spaghettifunk/colorpass/engine/core"
	"github.com/spaghettifunk/colorpass/engine/renderer"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine released every resource
	EngineStageStopped
)

// Platform is the windowing layer. It delivers its events through the
// EventSystem the engine was created with.
type Platform interface {
	// PumpMessages processes pending OS events. It returns false once the
	// window was asked to close.
	PumpMessages() bool
	Shutdown() error
}

type Engine struct {
	currentStage Stage
	gameInstance *Game
	config       *ApplicationConfig
	platform     Platform
	events       *core.EventSystem
	renderer     *renderer.Renderer
	watcher      *ConfigWatcher
	clock        *core.Clock
	metrics      *core.Metrics
	isRunning    atomic.Bool
	isSuspended  bool
	width        uint32
	height       uint32
	frameCount   uint64
	lastTime     float64
}

// New wires the game to a backend. The platform may be nil when running
// without a window; events may be nil when no platform shares them.
func New(g *Game, backend renderer.Backend, p Platform, events *core.EventSystem) (*Engine, error) {
	if g == nil || backend == nil {
		return nil, errors.New("engine needs a game and a renderer backend")
	}
	if g.ApplicationConfig == nil {
		g.ApplicationConfig = DefaultApplicationConfig()
	}
	if events == nil {
		events = core.NewEventSystem()
	}
	width, height := backend.OutputSize()

	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		config:       g.ApplicationConfig,
		platform:     p,
		events:       events,
		renderer:     renderer.New(backend),
		clock:        core.NewClock(),
		metrics:      core.NewMetrics(),
		width:        width,
		height:       height,
	}, nil
}

// Initialize starts the frame resource pool and the game.
func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageUninitialized {
		return core.ErrEngineAlreadyRunning
	}
	e.currentStage = EngineStageInitializing

	e.events.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	e.events.Register(core.EVENT_CODE_RESIZED, e, e.onResized)

	if err := e.renderer.Initialize(); err != nil {
		e.unregister()
		e.currentStage = EngineStageUninitialized
		return err
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			core.LogError("game initialization failed: %s", err)
			e.unregister()
			e.currentStage = EngineStageUninitialized
			return errors.Join(err, e.renderer.Pool().Shutdown())
		}
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
			core.LogError("game resize failed: %s", err)
		}
	}

	e.isRunning.Store(true)
	e.currentStage = EngineStageInitialized
	core.LogInfo("engine initialized: %d frame(s) in flight at %dx%d", e.renderer.Backend().FramesInFlight(), e.width, e.height)
	return nil
}

// WatchConfig reloads the log level whenever the configuration file changes.
func (e *Engine) WatchConfig(path string) error {
	w, err := NewConfigWatcher(path, e.onConfigReload)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		_ = w.Close()
		return err
	}
	e.watcher = w
	return nil
}

// Run renders frames until the game quits, the window closes, MaxFrames is
// reached or Shutdown is called. It then releases every resource.
func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return core.ErrEngineNotInitialized
	}
	e.currentStage = EngineStageRunning

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	var targetFrameSeconds float64
	if e.config.FrameLimit > 0 {
		targetFrameSeconds = 1.0 / float64(e.config.FrameLimit)
	}

	var runErr error
	for e.isRunning.Load() {
		if e.platform != nil && !e.platform.PumpMessages() {
			e.isRunning.Store(false)
			break
		}

		if e.isSuspended {
			// Nothing to draw into while minimized.
			time.Sleep(10 * time.Millisecond)
			continue
		}

		// Update clock and get delta time.
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStartTime := time.Now()

		if e.gameInstance.FnUpdate != nil {
			if err := e.gameInstance.FnUpdate(delta); err != nil {
				core.LogError("game update failed, shutting down: %s", err)
				runErr = err
				break
			}
		}

		packet, err := e.renderer.DrawFrame(e.clock.ElapsedMilliseconds())
		if err != nil {
			core.LogError("failed to draw frame %d, shutting down: %s", e.frameCount, err)
			runErr = err
			break
		}
		e.frameCount++

		if e.gameInstance.FnRender != nil {
			if err := e.gameInstance.FnRender(packet, delta); err != nil {
				core.LogError("game render failed, shutting down: %s", err)
				runErr = err
				break
			}
		}

		frameElapsedTime := time.Since(frameStartTime).Seconds()
		e.metrics.Update(frameElapsedTime)

		// If there is time left, give it back to the OS.
		if remaining := targetFrameSeconds - frameElapsedTime; remaining > 0 {
			time.Sleep(time.Duration(remaining * float64(time.Second)))
		}

		if e.config.MaxFrames > 0 && e.frameCount >= e.config.MaxFrames {
			core.LogInfo("reached %d frame(s), shutting down", e.frameCount)
			e.isRunning.Store(false)
		}

		e.lastTime = currentTime
	}

	fps, frameTime := e.metrics.Frame()
	core.LogInfo("rendered %d frame(s), %.0f fps, %.3f ms/frame", e.frameCount, fps, frameTime)
	return errors.Join(runErr, e.teardown())
}

// Shutdown asks the loop to stop after the current frame. It is safe to call
// from any goroutine; Run performs the teardown.
func (e *Engine) Shutdown() {
	e.isRunning.Store(false)
}

func (e *Engine) teardown() error {
	e.currentStage = EngineStageShuttingDown
	var errs []error

	if e.watcher != nil {
		if err := e.watcher.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := e.renderer.Shutdown(); err != nil {
		errs = append(errs, err)
	}
	if e.platform != nil {
		if err := e.platform.Shutdown(); err != nil {
			errs = append(errs, err)
		}
	}
	e.unregister()

	e.currentStage = EngineStageStopped
	if err := errors.Join(errs...); err != nil {
		core.LogError("shutdown finished with errors: %s", err)
		return err
	}
	core.LogInfo("engine shut down")
	return nil
}

func (e *Engine) unregister() {
	e.events.Unregister(core.EVENT_CODE_APPLICATION_QUIT, e)
	e.events.Unregister(core.EVENT_CODE_RESIZED, e)
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) Events() *core.EventSystem {
	return e.events
}

func (e *Engine) Renderer() *renderer.Renderer {
	return e.renderer
}

// FrameCount returns how many frames were drawn.
func (e *Engine) FrameCount() uint64 {
	return e.frameCount
}

func (e *Engine) Metrics() *core.Metrics {
	return e.metrics
}

func (e *Engine) Suspended() bool {
	return e.isSuspended
}

// GetFramebufferSize returns the width and height (in this order) of the
// last size reported by the platform.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) onEvent(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	if code == core.EVENT_CODE_APPLICATION_QUIT {
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning.Store(false)
		return true
	}
	return false
}

func (e *Engine) onResized(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	if code != core.EVENT_CODE_RESIZED {
		return false
	}
	width, height := data.Data.U32[0], data.Data.U32[1]

	// Check if different. If so, trigger a resize event.
	if width == e.width && height == e.height {
		return false
	}
	e.width, e.height = width, height
	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return false
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}

	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(width, height); err != nil {
			core.LogError("game resize failed: %s", err)
		}
	}

	if !e.config.RebuildOnResize {
		core.LogDebug("frame resources keep their size until rebuilt")
		return false
	}
	if err := e.renderer.OnResize(width, height); err != nil {
		core.LogError("failed to rebuild the frame resources: %s", err)
	}
	return false
}

func (e *Engine) onConfigReload(config *ApplicationConfig) {
	if err := core.SetLogLevel(config.LogLevel); err != nil {
		core.LogWarn("ignoring log level %q: %s", config.LogLevel, err)
		return
	}
	core.LogInfo("log level set to %s", config.LogLevel)
}
