package backends

import (
	"unsafe"

	"github.com/spaghettifunk/colorpass/engine/core"
	"github.com/spaghettifunk/colorpass/engine/renderer"
	"github.com/spaghettifunk/colorpass/engine/renderer/headless"
	"github.com/spaghettifunk/colorpass/engine/renderer/vulkan"
)

type Config struct {
	Type            renderer.RendererType
	ApplicationName string
	FramesInFlight  uint32
	Width           uint32
	Height          uint32
	Debug           bool
	// Only used by the Vulkan backend.
	GetInstanceProcAddr unsafe.Pointer
}

// New creates and initializes the backend selected by config.Type.
func New(config Config) (renderer.Backend, error) {
	switch config.Type {
	case renderer.Headless:
		return headless.New(headless.Config{
			FramesInFlight: config.FramesInFlight,
			Width:          config.Width,
			Height:         config.Height,
		}), nil
	case renderer.Vulkan:
		vr := vulkan.New(vulkan.Config{
			ApplicationName:     config.ApplicationName,
			FramesInFlight:      config.FramesInFlight,
			Width:               config.Width,
			Height:              config.Height,
			Debug:               config.Debug,
			GetInstanceProcAddr: config.GetInstanceProcAddr,
		})
		if err := vr.Initialize(); err != nil {
			core.LogError("failed to initialize the vulkan backend: %s", err)
			return nil, err
		}
		return vr, nil
	}
	core.LogError("renderer backend %d is not supported", config.Type)
	return nil, core.ErrUnknownBackend
}
