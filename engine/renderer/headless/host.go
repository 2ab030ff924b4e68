package headless

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/spaghettifunk/colorpass/engine/core"
)

func (d *Device) FramesInFlight() uint32 {
	return d.config.FramesInFlight
}

func (d *Device) OutputSize() (uint32, uint32) {
	return d.config.Width, d.config.Height
}

// SetOutputSize changes the size reported to the pool. Existing frame
// resources keep their size until the pool is rebuilt.
func (d *Device) SetOutputSize(width, height uint32) {
	d.config.Width, d.config.Height = width, height
}

func (d *Device) CurrentFrame() uint32 {
	return d.frame
}

// FrameCount returns how many frames have been completed.
func (d *Device) FrameCount() uint64 {
	return d.frames
}

func (d *Device) BeginFrame() error {
	if d.inFrame {
		return fmt.Errorf("frame %d already begun: %w", d.frame, core.ErrFrameAlreadyBegun)
	}
	d.inFrame = true
	d.record(CommandBeginFrame, uuid.Nil, nil)
	return nil
}

// EndFrame completes the current frame and advances to the next slot.
func (d *Device) EndFrame() error {
	if !d.inFrame {
		return fmt.Errorf("frame %d not begun: %w", d.frame, core.ErrFrameNotBegun)
	}
	d.record(CommandEndFrame, uuid.Nil, nil)
	d.inFrame = false
	d.frames++
	d.frame = uint32(d.frames % uint64(d.config.FramesInFlight))
	return nil
}

// Shutdown reports objects that were never destroyed.
func (d *Device) Shutdown() error {
	if live := d.objects.Len(); live > 0 {
		core.LogWarn("headless device shut down with %d live object(s)", live)
		return fmt.Errorf("%d live object(s): %w", live, core.ErrHandleInUse)
	}
	core.LogDebug("headless device shut down after %d frame(s)", d.frames)
	return nil
}
