package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/colorpass/engine/core"
)

type VulkanContext struct {
	Instance  vk.Instance
	Allocator *vk.AllocationCallbacks

	debugCallback vk.DebugReportCallback

	Device *VulkanDevice

	// One command buffer and one fence per frame in flight.
	GraphicsCommandBuffers []*VulkanCommandBuffer
	InFlightFences         []*VulkanFence

	FramesInFlight uint32
	CurrentFrame   uint32

	// The size frame resources are created at.
	FramebufferWidth  uint32
	FramebufferHeight uint32
}

func (vc *VulkanContext) FindMemoryIndex(typeFilter uint32, propertyFlags vk.MemoryPropertyFlags) (uint32, error) {
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(vc.Device.PhysicalDevice, &memoryProperties)
	memoryProperties.Deref()

	for i := uint32(0); i < memoryProperties.MemoryTypeCount; i++ {
		// Check each memory type to see if its bit is set to 1.
		memoryProperties.MemoryTypes[i].Deref()
		if (typeFilter&(1<<i)) != 0 && (memoryProperties.MemoryTypes[i].PropertyFlags&propertyFlags) == propertyFlags {
			return i, nil
		}
	}
	core.LogWarn("Unable to find suitable memory type!")
	return 0, fmt.Errorf("no memory type for filter %#x: %w", typeFilter, core.ErrOutOfDeviceMemory)
}

// CommandBuffer returns the command buffer of the frame being recorded.
func (vc *VulkanContext) CommandBuffer() *VulkanCommandBuffer {
	return vc.GraphicsCommandBuffers[vc.CurrentFrame]
}
