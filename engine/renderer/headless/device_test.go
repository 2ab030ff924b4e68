package headless

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/colorpass/engine/core"
	"github.com/spaghettifunk/colorpass/engine/renderer/metadata"
)

func colorPass() *metadata.RenderPassConfig {
	return &metadata.RenderPassConfig{
		Name: "test",
		Attachments: []metadata.AttachmentDescriptor{{
			Format:      metadata.ImageFormatRGBA16F,
			StateBefore: metadata.ImageStateUndefined,
			StateDuring: metadata.ImageStateColorAttachment,
			StateAfter:  metadata.ImageStateColorAttachment,
			Usage:       metadata.AttachmentUsageClearAndWrite,
			Samples:     1,
		}},
		Subpasses: []metadata.SubpassDescriptor{{
			Colors:       []metadata.AttachmentRef{metadata.AttachmentAt(0)},
			DepthStencil: metadata.NoAttachment,
		}},
	}
}

func newImage(t *testing.T, d *Device) *metadata.Image {
	t.Helper()
	img := metadata.NewImage(metadata.ImageFormatRGBA16F, metadata.ImageUsageColorAttachment, metadata.ImageAspectColor, 8, 8, 1)
	require.NoError(t, d.ImageCreate(img))
	return img
}

func TestDefaults(t *testing.T) {
	d := New(Config{})
	assert.Equal(t, uint32(DefaultFramesInFlight), d.FramesInFlight())
	w, h := d.OutputSize()
	assert.Equal(t, uint32(DefaultWidth), w)
	assert.Equal(t, uint32(DefaultHeight), h)
	assert.Equal(t, uint32(0), d.CurrentFrame())
}

func TestImageDoubleDestroy(t *testing.T) {
	d := New(Config{})
	img := newImage(t, d)
	assert.Equal(t, 1, d.LiveObjects())

	require.NoError(t, d.ImageDestroy(img))
	assert.ErrorIs(t, d.ImageDestroy(img), core.ErrUnknownHandle)
	assert.Zero(t, d.LiveObjects())
}

func TestDestroyOrderIsEnforced(t *testing.T) {
	d := New(Config{})
	pass, err := d.RenderPassCreate(colorPass())
	require.NoError(t, err)
	img := newImage(t, d)
	fb := metadata.NewFramebuffer(8, 8, []*metadata.Image{img})
	require.NoError(t, d.FramebufferCreate(pass, fb))

	assert.ErrorIs(t, d.ImageDestroy(img), core.ErrHandleInUse)
	assert.ErrorIs(t, d.RenderPassDestroy(pass), core.ErrHandleInUse)
	assert.ErrorIs(t, d.Shutdown(), core.ErrHandleInUse)

	require.NoError(t, d.FramebufferDestroy(fb))
	require.NoError(t, d.ImageDestroy(img))
	require.NoError(t, d.RenderPassDestroy(pass))
	require.NoError(t, d.Shutdown())
}

func TestFramebufferSizeMustMatchImages(t *testing.T) {
	d := New(Config{})
	pass, err := d.RenderPassCreate(colorPass())
	require.NoError(t, err)
	img := newImage(t, d)

	fb := metadata.NewFramebuffer(16, 16, []*metadata.Image{img})
	assert.ErrorIs(t, d.FramebufferCreate(pass, fb), core.ErrFramebufferMismatch)
	assert.Nil(t, fb.InternalData)
}

func TestCommandsAreRecorded(t *testing.T) {
	d := New(Config{})
	pass, err := d.RenderPassCreate(colorPass())
	require.NoError(t, err)
	fb := metadata.NewFramebuffer(8, 8, []*metadata.Image{newImage(t, d)})
	require.NoError(t, d.FramebufferCreate(pass, fb))

	clear := []metadata.ClearValue{{}}
	require.NoError(t, d.BeginFrame())
	assert.ErrorIs(t, d.CmdBeginRenderPass(pass, fb, nil), core.ErrClearValueCount)
	require.NoError(t, d.CmdBeginRenderPass(pass, fb, clear))
	assert.ErrorIs(t, d.CmdBeginRenderPass(pass, fb, clear), core.ErrRenderPassAlreadyBegun)
	require.NoError(t, d.CmdEndRenderPass(pass))
	assert.ErrorIs(t, d.CmdEndRenderPass(pass), core.ErrRenderPassNotBegun)
	require.NoError(t, d.EndFrame())

	var kinds []CommandKind
	for _, cmd := range d.History() {
		kinds = append(kinds, cmd.Kind)
	}
	assert.Equal(t, []CommandKind{
		CommandCreateRenderPass,
		CommandCreateImage,
		CommandCreateFramebuffer,
		CommandBeginFrame,
		CommandBeginRenderPass,
		CommandEndRenderPass,
		CommandEndFrame,
	}, kinds)
}

func TestHistoryKeepsMostRecent(t *testing.T) {
	d := New(Config{HistorySize: 2})
	for i := 0; i < 3; i++ {
		require.NoError(t, d.BeginFrame())
		require.NoError(t, d.EndFrame())
	}
	history := d.History()
	require.Len(t, history, 2)
	assert.Equal(t, CommandBeginFrame, history[0].Kind)
	assert.Equal(t, uint32(2), history[0].Frame)
	assert.Equal(t, CommandEndFrame, history[1].Kind)
}

func TestFrameSlotsWrap(t *testing.T) {
	d := New(Config{FramesInFlight: 2})
	assert.ErrorIs(t, d.EndFrame(), core.ErrFrameNotBegun)

	var slots []uint32
	for i := 0; i < 5; i++ {
		slots = append(slots, d.CurrentFrame())
		require.NoError(t, d.BeginFrame())
		assert.ErrorIs(t, d.BeginFrame(), core.ErrFrameAlreadyBegun)
		require.NoError(t, d.EndFrame())
	}
	assert.Equal(t, []uint32{0, 1, 0, 1, 0}, slots)
	assert.Equal(t, uint64(5), d.FrameCount())
}

func TestFailAfter(t *testing.T) {
	d := New(Config{})
	d.FailAfter(OpImageCreate, 1)
	newImage(t, d)

	img := metadata.NewImage(metadata.ImageFormatRGBA16F, metadata.ImageUsageColorAttachment, metadata.ImageAspectColor, 8, 8, 1)
	assert.ErrorIs(t, d.ImageCreate(img), core.ErrOutOfDeviceMemory)
	assert.Nil(t, img.InternalData)
	assert.Equal(t, 1, d.LiveObjects())

	d.FailAfter(OpImageCreate, -1)
	require.NoError(t, d.ImageCreate(img))
}
