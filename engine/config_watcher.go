package engine

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/colorpass/engine/core"
)

// OnConfigReload receives every configuration that was successfully reloaded.
type OnConfigReload func(config *ApplicationConfig)

// ConfigWatcher reloads the configuration file whenever it changes on disk.
// The directory is watched instead of the file so that editors replacing the
// file are still noticed.
type ConfigWatcher struct {
	path     string
	onReload OnConfigReload

	mutex    sync.Mutex
	isClosed bool
	started  bool
	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
}

func NewConfigWatcher(path string, onReload OnConfigReload) (*ConfigWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &ConfigWatcher{
		path:     abs,
		onReload: onReload,
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

func (cw *ConfigWatcher) Start() error {
	cw.mutex.Lock()
	defer cw.mutex.Unlock()
	if cw.isClosed {
		return errors.New("config watcher already closed")
	}
	if err := cw.fsnotify.Add(filepath.Dir(cw.path)); err != nil {
		core.LogError("failed to watch %s: %s", cw.path, err)
		return err
	}
	cw.started = true
	go cw.start()
	core.LogDebug("watching %s for changes", cw.path)
	return nil
}

func (cw *ConfigWatcher) start() {
	defer close(cw.stopped)
	for {
		select {
		case e, ok := <-cw.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != cw.path {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				cw.reload()
			}

		case e, ok := <-cw.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(e.Error())

		case <-cw.done:
			return
		}
	}
}

func (cw *ConfigWatcher) reload() {
	config, err := LoadConfig(cw.path)
	if err != nil {
		// A half-written file fails to parse; the next write event retries.
		core.LogWarn("ignoring config change: %s", err)
		return
	}
	core.LogInfo("configuration reloaded from %s", cw.path)
	if cw.onReload != nil {
		cw.onReload(config)
	}
}

// Close stops the watcher. It is safe to call more than once.
func (cw *ConfigWatcher) Close() error {
	cw.mutex.Lock()
	if cw.isClosed {
		cw.mutex.Unlock()
		return nil
	}
	cw.isClosed = true
	started := cw.started
	cw.mutex.Unlock()

	close(cw.done)
	if started {
		<-cw.stopped
	}
	return cw.fsnotify.Close()
}
