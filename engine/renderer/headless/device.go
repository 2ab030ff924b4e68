package headless

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/spaghettifunk/colorpass/engine/containers"
	"github.com/spaghettifunk/colorpass/engine/core"
	"github.com/spaghettifunk/colorpass/engine/renderer/metadata"
)

const (
	DefaultFramesInFlight = 3
	DefaultWidth          = 1280
	DefaultHeight         = 720
	DefaultHistorySize    = 64
)

// Operation names a device call that can be told to fail.
type Operation int

const (
	OpImageCreate Operation = iota
	OpRenderPassCreate
	OpFramebufferCreate
)

type CommandKind int

const (
	CommandBeginRenderPass CommandKind = iota
	CommandEndRenderPass
	CommandCreateImage
	CommandDestroyImage
	CommandCreateRenderPass
	CommandDestroyRenderPass
	CommandCreateFramebuffer
	CommandDestroyFramebuffer
	CommandBeginFrame
	CommandEndFrame
)

func (k CommandKind) String() string {
	switch k {
	case CommandBeginRenderPass:
		return "BeginRenderPass"
	case CommandEndRenderPass:
		return "EndRenderPass"
	case CommandCreateImage:
		return "CreateImage"
	case CommandDestroyImage:
		return "DestroyImage"
	case CommandCreateRenderPass:
		return "CreateRenderPass"
	case CommandDestroyRenderPass:
		return "DestroyRenderPass"
	case CommandCreateFramebuffer:
		return "CreateFramebuffer"
	case CommandDestroyFramebuffer:
		return "DestroyFramebuffer"
	case CommandBeginFrame:
		return "BeginFrame"
	case CommandEndFrame:
		return "EndFrame"
	default:
		return fmt.Sprintf("CommandKind(%d)", int(k))
	}
}

// Command is one entry of the device history. Handle is the device side id
// of the object the command touched; Frame is the slot being recorded.
type Command struct {
	Kind        CommandKind
	Handle      uuid.UUID
	Frame       uint32
	ClearValues []metadata.ClearValue
}

type Config struct {
	FramesInFlight uint32
	Width          uint32
	Height         uint32
	HistorySize    int
}

type image struct {
	handle       uuid.UUID
	source       *metadata.Image
	framebuffers int
}

type renderPass struct {
	handle       uuid.UUID
	name         string
	clearCount   int
	framebuffers int
	recording    bool
}

type framebuffer struct {
	handle uuid.UUID
	pass   *renderPass
	images []*image
}

// Device is an in-memory GPU. It keeps track of every live object, enforces
// the same release order a real device would and records the commands it
// receives. It also plays the host role: frames in flight, output size and
// the current frame slot.
type Device struct {
	config   Config
	objects  *core.Identifiers
	history  *containers.RingQueue[Command]
	failures map[Operation]int
	frame    uint32
	inFrame  bool
	frames   uint64
}

func New(config Config) *Device {
	if config.FramesInFlight == 0 {
		config.FramesInFlight = DefaultFramesInFlight
	}
	if config.Width == 0 || config.Height == 0 {
		config.Width, config.Height = DefaultWidth, DefaultHeight
	}
	if config.HistorySize <= 0 {
		config.HistorySize = DefaultHistorySize
	}
	core.LogDebug("headless device: %d frame(s) in flight at %dx%d", config.FramesInFlight, config.Width, config.Height)
	return &Device{
		config:   config,
		objects:  core.NewIdentifiers(),
		history:  containers.NewRingQueue[Command](config.HistorySize),
		failures: make(map[Operation]int),
	}
}

// FailAfter makes op fail with ErrOutOfDeviceMemory once it has succeeded
// successes more times. A negative value clears the failure.
func (d *Device) FailAfter(op Operation, successes int) {
	if successes < 0 {
		delete(d.failures, op)
		return
	}
	d.failures[op] = successes
}

func (d *Device) allocate(op Operation) error {
	remaining, ok := d.failures[op]
	if !ok {
		return nil
	}
	if remaining == 0 {
		return core.ErrOutOfDeviceMemory
	}
	d.failures[op] = remaining - 1
	return nil
}

func (d *Device) record(kind CommandKind, handle uuid.UUID, clearValues []metadata.ClearValue) {
	d.history.Push(Command{Kind: kind, Handle: handle, Frame: d.frame, ClearValues: clearValues})
}

// History returns the most recent commands, oldest first.
func (d *Device) History() []Command {
	return d.history.Items()
}

// LiveObjects returns the number of images, passes and framebuffers not yet destroyed.
func (d *Device) LiveObjects() int {
	return d.objects.Len()
}

func (d *Device) ImageCreate(img *metadata.Image) error {
	if img.Width == 0 || img.Height == 0 {
		return fmt.Errorf("image %dx%d: %w", img.Width, img.Height, core.ErrInvalidOutputSize)
	}
	if err := d.allocate(OpImageCreate); err != nil {
		return err
	}
	internal := &image{source: img}
	internal.handle = d.objects.Acquire(internal)
	img.InternalData = internal
	d.record(CommandCreateImage, internal.handle, nil)
	return nil
}

func (d *Device) ImageDestroy(img *metadata.Image) error {
	internal, err := lookup[*image](d, img.InternalData)
	if err != nil {
		return err
	}
	if internal.framebuffers > 0 {
		return fmt.Errorf("image %s bound to %d framebuffer(s): %w", img.ID, internal.framebuffers, core.ErrHandleInUse)
	}
	if err := d.objects.Release(internal.handle); err != nil {
		return err
	}
	img.InternalData = nil
	d.record(CommandDestroyImage, internal.handle, nil)
	return nil
}

func (d *Device) RenderPassCreate(config *metadata.RenderPassConfig) (interface{}, error) {
	if err := d.allocate(OpRenderPassCreate); err != nil {
		return nil, err
	}
	internal := &renderPass{name: config.Name, clearCount: config.ClearCount()}
	internal.handle = d.objects.Acquire(internal)
	d.record(CommandCreateRenderPass, internal.handle, nil)
	return internal, nil
}

func (d *Device) RenderPassDestroy(pass interface{}) error {
	internal, err := lookup[*renderPass](d, pass)
	if err != nil {
		return err
	}
	if internal.framebuffers > 0 || internal.recording {
		return fmt.Errorf("render pass `%s`: %w", internal.name, core.ErrHandleInUse)
	}
	if err := d.objects.Release(internal.handle); err != nil {
		return err
	}
	d.record(CommandDestroyRenderPass, internal.handle, nil)
	return nil
}

func (d *Device) FramebufferCreate(pass interface{}, fb *metadata.Framebuffer) error {
	rp, err := lookup[*renderPass](d, pass)
	if err != nil {
		return err
	}
	images := make([]*image, 0, len(fb.Attachments))
	for _, attachment := range fb.Attachments {
		img, err := lookup[*image](d, attachment.InternalData)
		if err != nil {
			return err
		}
		if img.source.Width != fb.Width || img.source.Height != fb.Height {
			return fmt.Errorf("image %dx%d in a %dx%d framebuffer: %w",
				img.source.Width, img.source.Height, fb.Width, fb.Height, core.ErrFramebufferMismatch)
		}
		images = append(images, img)
	}
	if err := d.allocate(OpFramebufferCreate); err != nil {
		return err
	}

	internal := &framebuffer{pass: rp, images: images}
	internal.handle = d.objects.Acquire(internal)
	rp.framebuffers++
	for _, img := range images {
		img.framebuffers++
	}
	fb.InternalData = internal
	d.record(CommandCreateFramebuffer, internal.handle, nil)
	return nil
}

func (d *Device) FramebufferDestroy(fb *metadata.Framebuffer) error {
	internal, err := lookup[*framebuffer](d, fb.InternalData)
	if err != nil {
		return err
	}
	if internal.pass.recording {
		return fmt.Errorf("framebuffer of recording pass `%s`: %w", internal.pass.name, core.ErrHandleInUse)
	}
	if err := d.objects.Release(internal.handle); err != nil {
		return err
	}
	internal.pass.framebuffers--
	for _, img := range internal.images {
		img.framebuffers--
	}
	fb.InternalData = nil
	d.record(CommandDestroyFramebuffer, internal.handle, nil)
	return nil
}

func (d *Device) CmdBeginRenderPass(pass interface{}, fb *metadata.Framebuffer, clearValues []metadata.ClearValue) error {
	rp, err := lookup[*renderPass](d, pass)
	if err != nil {
		return err
	}
	target, err := lookup[*framebuffer](d, fb.InternalData)
	if err != nil {
		return err
	}
	if target.pass != rp {
		return fmt.Errorf("framebuffer not built from `%s`: %w", rp.name, core.ErrFramebufferMismatch)
	}
	if rp.recording {
		return fmt.Errorf("render pass `%s`: %w", rp.name, core.ErrRenderPassAlreadyBegun)
	}
	if len(clearValues) != rp.clearCount {
		return fmt.Errorf("render pass `%s` wants %d clear value(s), got %d: %w",
			rp.name, rp.clearCount, len(clearValues), core.ErrClearValueCount)
	}
	rp.recording = true
	d.record(CommandBeginRenderPass, target.handle, append([]metadata.ClearValue(nil), clearValues...))
	return nil
}

func (d *Device) CmdEndRenderPass(pass interface{}) error {
	rp, err := lookup[*renderPass](d, pass)
	if err != nil {
		return err
	}
	if !rp.recording {
		return fmt.Errorf("render pass `%s`: %w", rp.name, core.ErrRenderPassNotBegun)
	}
	rp.recording = false
	d.record(CommandEndRenderPass, rp.handle, nil)
	return nil
}

// lookup resolves the internal data of a host handle to a live device object.
func lookup[T interface{ id() uuid.UUID }](d *Device, internal interface{}) (T, error) {
	var zero T
	obj, ok := internal.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected handle %T: %w", internal, core.ErrUnknownHandle)
	}
	if _, live := d.objects.Owner(obj.id()); !live {
		return zero, fmt.Errorf("handle %s was released: %w", obj.id(), core.ErrUnknownHandle)
	}
	return obj, nil
}

func (i *image) id() uuid.UUID {
	return i.handle
}

func (rp *renderPass) id() uuid.UUID {
	return rp.handle
}

func (fb *framebuffer) id() uuid.UUID {
	return fb.handle
}
