package vulkan

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/colorpass/engine/core"
	"github.com/spaghettifunk/colorpass/engine/renderer/metadata"
)

const (
	validationLayerName             = "VK_LAYER_KHRONOS_validation"
	portabilityEnumerationFlag      = 0x00000001
	portabilityEnumerationExtension = "VK_KHR_portability_enumeration"
)

type Config struct {
	ApplicationName string
	FramesInFlight  uint32
	Width           uint32
	Height          uint32
	// Enables the validation layer and routes its reports to the logger.
	Debug bool
	// Loader entry point, for instance the one exposed by glfw. The system
	// Vulkan loader is used when nil.
	GetInstanceProcAddr unsafe.Pointer
}

// VulkanRenderer renders offscreen: frame images are handed to the caller
// instead of being presented to a surface.
type VulkanRenderer struct {
	config      Config
	context     *VulkanContext
	inFrame     bool
	FrameNumber uint64
}

func New(config Config) *VulkanRenderer {
	return &VulkanRenderer{
		config: config,
		context: &VulkanContext{
			FramesInFlight:    config.FramesInFlight,
			FramebufferWidth:  config.Width,
			FramebufferHeight: config.Height,
			Allocator:         nil,
		},
	}
}

// Initialize loads Vulkan, creates the instance, device and per-frame
// command buffers and fences. On failure everything created is released.
func (vr *VulkanRenderer) Initialize() error {
	if vr.config.FramesInFlight == 0 {
		return core.ErrInvalidFramesInFlight
	}

	if vr.config.GetInstanceProcAddr != nil {
		vk.SetGetInstanceProcAddr(vr.config.GetInstanceProcAddr)
	} else if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		core.LogError("failed to load the Vulkan library: %s", err)
		return err
	}
	if err := vk.Init(); err != nil {
		core.LogError("failed to initialize vk: %s", err)
		return err
	}

	if err := vr.createInstance(); err != nil {
		return err
	}
	if vr.config.Debug {
		if err := vr.createDebugCallback(); err != nil {
			vr.destroy()
			return err
		}
	}
	if err := DeviceCreate(vr.context); err != nil {
		vr.destroy()
		return err
	}
	if err := vr.createFrameSync(); err != nil {
		vr.destroy()
		return err
	}

	core.LogInfo("Vulkan renderer initialized successfully.")
	return nil
}

func (vr *VulkanRenderer) createInstance() error {
	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 1, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   VulkanSafeString(vr.config.ApplicationName),
		PEngineName:        VulkanSafeString("Colorpass"),
	}

	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	var extensions []string
	if runtime.GOOS == "darwin" {
		extensions = append(extensions, portabilityEnumerationExtension, "VK_KHR_get_physical_device_properties2")
		createInfo.Flags |= portabilityEnumerationFlag
	}

	var layers []string
	if vr.config.Debug {
		extensions = append(extensions, vk.ExtDebugReportExtensionName)
		if !validationLayerAvailable() {
			err := fmt.Errorf("required validation layer is missing: %s", validationLayerName)
			core.LogError(err.Error())
			return err
		}
		layers = append(layers, validationLayerName)
		core.LogInfo("Validation layers enabled.")
	}

	createInfo.EnabledExtensionCount = uint32(len(extensions))
	createInfo.PpEnabledExtensionNames = VulkanSafeStrings(extensions)
	createInfo.EnabledLayerCount = uint32(len(layers))
	createInfo.PpEnabledLayerNames = VulkanSafeStrings(layers)

	var instance vk.Instance
	if res := vk.CreateInstance(&createInfo, vr.context.Allocator, &instance); res != vk.Success {
		err := resultError("vkCreateInstance", res)
		core.LogError(err.Error())
		return err
	}
	vr.context.Instance = instance
	if err := vk.InitInstance(instance); err != nil {
		core.LogError(err.Error())
		vr.destroy()
		return err
	}
	core.LogInfo("Vulkan Instance created.")
	return nil
}

func validationLayerAvailable() bool {
	var count uint32
	if res := vk.EnumerateInstanceLayerProperties(&count, nil); res != vk.Success {
		return false
	}
	layers := make([]vk.LayerProperties, count)
	if res := vk.EnumerateInstanceLayerProperties(&count, layers); res != vk.Success {
		return false
	}
	for i := range layers {
		layers[i].Deref()
		if cString(layers[i].LayerName[:]) == validationLayerName {
			return true
		}
	}
	return false
}

func (vr *VulkanRenderer) createDebugCallback() error {
	core.LogDebug("Creating Vulkan debugger...")
	debugCreateInfo := vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit),
		PfnCallback: dbgCallbackFunc,
	}

	var dbg vk.DebugReportCallback
	if err := vk.Error(vk.CreateDebugReportCallback(vr.context.Instance, &debugCreateInfo, vr.context.Allocator, &dbg)); err != nil {
		core.LogError("vk.CreateDebugReportCallback failed with %s", err)
		return err
	}
	vr.context.debugCallback = dbg
	core.LogDebug("Vulkan debugger created.")
	return nil
}

func (vr *VulkanRenderer) createFrameSync() error {
	frames := vr.context.FramesInFlight
	vr.context.GraphicsCommandBuffers = make([]*VulkanCommandBuffer, 0, frames)
	vr.context.InFlightFences = make([]*VulkanFence, 0, frames)
	for i := uint32(0); i < frames; i++ {
		cb, err := NewVulkanCommandBuffer(vr.context, vr.context.Device.GraphicsCommandPool, true)
		if err != nil {
			return err
		}
		vr.context.GraphicsCommandBuffers = append(vr.context.GraphicsCommandBuffers, cb)

		// Created signaled so the first wait on each slot returns at once.
		fence, err := NewFence(vr.context, true)
		if err != nil {
			return err
		}
		vr.context.InFlightFences = append(vr.context.InFlightFences, fence)
	}
	core.LogDebug("Vulkan command buffers and fences created for %d frame(s).", frames)
	return nil
}

func (vr *VulkanRenderer) waitIdle() error {
	if vr.context.Device == nil || vr.context.Device.LogicalDevice == nil {
		return nil
	}
	if res := vk.DeviceWaitIdle(vr.context.Device.LogicalDevice); res != vk.Success {
		err := resultError("vkDeviceWaitIdle", res)
		core.LogError(err.Error())
		return err
	}
	return nil
}

// Shutdown waits for the GPU and releases everything Initialize created.
// Frame resources must have been released by their owner already.
func (vr *VulkanRenderer) Shutdown() error {
	err := vr.waitIdle()
	vr.destroy()
	core.LogInfo("Vulkan renderer shut down after %d frame(s).", vr.FrameNumber)
	return err
}

func (vr *VulkanRenderer) destroy() {
	if vr.context.Device != nil {
		for _, fence := range vr.context.InFlightFences {
			fence.Destroy(vr.context)
		}
		for _, cb := range vr.context.GraphicsCommandBuffers {
			cb.Free(vr.context, vr.context.Device.GraphicsCommandPool)
		}
		DeviceDestroy(vr.context)
	}
	vr.context.InFlightFences = nil
	vr.context.GraphicsCommandBuffers = nil

	if vr.context.Instance != nil {
		if vr.context.debugCallback != vk.NullDebugReportCallback {
			core.LogDebug("Destroying Vulkan debugger...")
			vk.DestroyDebugReportCallback(vr.context.Instance, vr.context.debugCallback, vr.context.Allocator)
			vr.context.debugCallback = vk.NullDebugReportCallback
		}
		core.LogDebug("Destroying Vulkan instance...")
		vk.DestroyInstance(vr.context.Instance, vr.context.Allocator)
		vr.context.Instance = nil
	}
}

func (vr *VulkanRenderer) FramesInFlight() uint32 {
	return vr.context.FramesInFlight
}

func (vr *VulkanRenderer) OutputSize() (uint32, uint32) {
	return vr.context.FramebufferWidth, vr.context.FramebufferHeight
}

// SetOutputSize records a new output size. Frame resources pick it up the
// next time they are rebuilt.
func (vr *VulkanRenderer) SetOutputSize(width, height uint32) {
	vr.context.FramebufferWidth = width
	vr.context.FramebufferHeight = height
	core.LogInfo("Vulkan renderer backend->resized: w/h: %d/%d", width, height)
}

func (vr *VulkanRenderer) CurrentFrame() uint32 {
	return vr.context.CurrentFrame
}

// BeginFrame waits until the GPU is done with the current slot and starts
// recording its command buffer.
func (vr *VulkanRenderer) BeginFrame() error {
	if vr.inFrame {
		return core.ErrFrameAlreadyBegun
	}
	fence := vr.context.InFlightFences[vr.context.CurrentFrame]
	if err := fence.Wait(vr.context, math.MaxUint64); err != nil {
		return err
	}
	if err := fence.Reset(vr.context); err != nil {
		return err
	}

	commandBuffer := vr.context.CommandBuffer()
	if err := commandBuffer.Reset(); err != nil {
		return err
	}
	if err := commandBuffer.Begin(true, false, false); err != nil {
		return err
	}
	vr.inFrame = true
	return nil
}

// EndFrame submits the recorded commands and moves on to the next slot.
func (vr *VulkanRenderer) EndFrame() error {
	if !vr.inFrame {
		return core.ErrFrameNotBegun
	}
	vr.inFrame = false

	commandBuffer := vr.context.CommandBuffer()
	if err := commandBuffer.End(); err != nil {
		return err
	}
	fence := vr.context.InFlightFences[vr.context.CurrentFrame]
	if err := commandBuffer.Submit(vr.context.Device.GraphicsQueue, fence.Handle); err != nil {
		return err
	}

	vr.FrameNumber++
	vr.context.CurrentFrame = (vr.context.CurrentFrame + 1) % vr.context.FramesInFlight
	return nil
}

func (vr *VulkanRenderer) ImageCreate(image *metadata.Image) error {
	vi, err := ImageCreate(
		vr.context,
		vulkanFormat(image.Format),
		vulkanImageUsage(image.Usage),
		vulkanAspect(image.Aspect),
		image.Width, image.Height, image.MipLevels)
	if err != nil {
		return err
	}
	image.InternalData = vi
	return nil
}

func (vr *VulkanRenderer) ImageDestroy(image *metadata.Image) error {
	vi, ok := image.InternalData.(*VulkanImage)
	if !ok {
		return fmt.Errorf("image %s: %w", image.ID, core.ErrUnknownHandle)
	}
	if err := vr.waitIdle(); err != nil {
		return err
	}
	vi.Destroy(vr.context)
	image.InternalData = nil
	return nil
}

func (vr *VulkanRenderer) RenderPassCreate(config *metadata.RenderPassConfig) (interface{}, error) {
	return RenderpassCreate(vr.context, config)
}

func (vr *VulkanRenderer) RenderPassDestroy(pass interface{}) error {
	rp, ok := pass.(*VulkanRenderpass)
	if !ok {
		return fmt.Errorf("render pass %T: %w", pass, core.ErrUnknownHandle)
	}
	if err := vr.waitIdle(); err != nil {
		return err
	}
	rp.Destroy(vr.context)
	return nil
}

func (vr *VulkanRenderer) FramebufferCreate(pass interface{}, framebuffer *metadata.Framebuffer) error {
	rp, ok := pass.(*VulkanRenderpass)
	if !ok {
		return fmt.Errorf("render pass %T: %w", pass, core.ErrUnknownHandle)
	}
	views := make([]vk.ImageView, len(framebuffer.Attachments))
	for i, attachment := range framebuffer.Attachments {
		vi, ok := attachment.InternalData.(*VulkanImage)
		if !ok {
			return fmt.Errorf("attachment %d: %w", i, core.ErrUnknownHandle)
		}
		views[i] = vi.View
	}
	vfb, err := FramebufferCreate(vr.context, rp, framebuffer.Width, framebuffer.Height, views)
	if err != nil {
		return err
	}
	framebuffer.InternalData = vfb
	return nil
}

func (vr *VulkanRenderer) FramebufferDestroy(framebuffer *metadata.Framebuffer) error {
	vfb, ok := framebuffer.InternalData.(*VulkanFramebuffer)
	if !ok {
		return fmt.Errorf("framebuffer %s: %w", framebuffer.ID, core.ErrUnknownHandle)
	}
	if err := vr.waitIdle(); err != nil {
		return err
	}
	vfb.Destroy(vr.context)
	framebuffer.InternalData = nil
	return nil
}

func (vr *VulkanRenderer) CmdBeginRenderPass(pass interface{}, framebuffer *metadata.Framebuffer, clearValues []metadata.ClearValue) error {
	if !vr.inFrame {
		return core.ErrFrameNotBegun
	}
	rp, ok := pass.(*VulkanRenderpass)
	if !ok {
		return fmt.Errorf("render pass %T: %w", pass, core.ErrUnknownHandle)
	}
	vfb, ok := framebuffer.InternalData.(*VulkanFramebuffer)
	if !ok {
		return fmt.Errorf("framebuffer %s: %w", framebuffer.ID, core.ErrUnknownHandle)
	}
	if vfb.Renderpass != rp {
		return core.ErrFramebufferMismatch
	}
	rp.Begin(vr.context.CommandBuffer(), vfb, clearValues)
	return nil
}

func (vr *VulkanRenderer) CmdEndRenderPass(pass interface{}) error {
	if !vr.inFrame {
		return core.ErrFrameNotBegun
	}
	rp, ok := pass.(*VulkanRenderpass)
	if !ok {
		return fmt.Errorf("render pass %T: %w", pass, core.ErrUnknownHandle)
	}
	commandBuffer := vr.context.CommandBuffer()
	if commandBuffer.State != COMMAND_BUFFER_STATE_IN_RENDER_PASS {
		return errors.New("command buffer is not inside a render pass")
	}
	rp.End(commandBuffer)
	return nil
}

func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint64, messageCode int32, pLayerPrefix string, pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		core.LogError("ERROR: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		core.LogWarn("WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		core.LogWarn("PERFORMANCE WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	default:
		core.LogDebug("INFORMATION: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	}
	return vk.Bool32(vk.False)
}
