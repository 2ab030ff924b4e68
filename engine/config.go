package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/colorpass/engine/core"
	"github.com/spaghettifunk/colorpass/engine/renderer"
)

const (
	DefaultName           = "Colorpass"
	DefaultStartPos       = 100
	DefaultStartWidth     = 1280
	DefaultStartHeight    = 720
	DefaultLogLevel       = "info"
	DefaultBackend        = "headless"
	DefaultFramesInFlight = 3
)

type ApplicationConfig struct {
	// The application name used in windowing, if applicable.
	Name string `toml:"name"`
	// Window starting position x axis, if applicable.
	StartPosX uint32 `toml:"start_pos_x"`
	// Window starting position y axis, if applicable.
	StartPosY uint32 `toml:"start_pos_y"`
	// Window starting width. Also the initial output size.
	StartWidth uint32 `toml:"start_width"`
	// Window starting height. Also the initial output size.
	StartHeight uint32 `toml:"start_height"`
	LogLevel    string `toml:"log_level"`
	// Either "headless" or "vulkan".
	Backend        string `toml:"backend"`
	FramesInFlight uint32 `toml:"frames_in_flight"`
	// Opens a glfw window that supplies resize and quit events.
	Windowed bool `toml:"windowed"`
	Debug    bool `toml:"debug"`
	// Stops the loop after this many frames. 0 runs until quit.
	MaxFrames uint64 `toml:"max_frames"`
	// Target frames per second. 0 does not limit.
	FrameLimit uint32 `toml:"frame_limit"`
	// Rebuild the frame resources when the window is resized.
	RebuildOnResize bool `toml:"rebuild_on_resize"`
}

func DefaultApplicationConfig() *ApplicationConfig {
	c := &ApplicationConfig{}
	c.applyDefaults()
	return c
}

// LoadConfig reads a TOML configuration file. Missing keys take their default value.
func LoadConfig(path string) (*ApplicationConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		core.LogError("failed to open config file %s: %s", path, err)
		return nil, err
	}
	defer f.Close()
	return DecodeConfig(f)
}

// ParseConfig decodes a TOML document.
func ParseConfig(data []byte) (*ApplicationConfig, error) {
	return DecodeConfig(bytes.NewReader(data))
}

// DecodeConfig decodes, defaults and validates a TOML document. Unknown keys
// are rejected.
func DecodeConfig(r io.Reader) (*ApplicationConfig, error) {
	c := &ApplicationConfig{}
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(c); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("line %d column %d: %s: %w", row, col, derr, core.ErrInvalidConfig)
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			return nil, fmt.Errorf("%s: %w", serr.String(), core.ErrInvalidConfig)
		}
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *ApplicationConfig) applyDefaults() {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.StartPosX == 0 && c.StartPosY == 0 {
		c.StartPosX, c.StartPosY = DefaultStartPos, DefaultStartPos
	}
	if c.StartWidth == 0 {
		c.StartWidth = DefaultStartWidth
	}
	if c.StartHeight == 0 {
		c.StartHeight = DefaultStartHeight
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Backend == "" {
		c.Backend = DefaultBackend
	}
	if c.FramesInFlight == 0 {
		c.FramesInFlight = DefaultFramesInFlight
	}
}

// Validate checks the values that cannot be defaulted.
func (c *ApplicationConfig) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level %q: %w", c.LogLevel, core.ErrInvalidConfig)
	}
	if _, err := renderer.ParseRendererType(c.Backend); err != nil {
		return errors.Join(err, core.ErrInvalidConfig)
	}
	return nil
}

// RendererType returns the backend named by the configuration.
func (c *ApplicationConfig) RendererType() renderer.RendererType {
	rt, _ := renderer.ParseRendererType(c.Backend)
	return rt
}
