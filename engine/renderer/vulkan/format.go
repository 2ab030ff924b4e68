package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/colorpass/engine/renderer/metadata"
)

// The metadata enumerations carry Vulkan's own values, so most conversions
// are plain casts.

func vulkanFormat(f metadata.ImageFormat) vk.Format {
	return vk.Format(f)
}

func vulkanLayout(s metadata.ImageState) vk.ImageLayout {
	return vk.ImageLayout(s)
}

func vulkanImageUsage(u metadata.ImageUsage) vk.ImageUsageFlags {
	return vk.ImageUsageFlags(u)
}

func vulkanAspect(a metadata.ImageAspect) vk.ImageAspectFlags {
	return vk.ImageAspectFlags(a)
}

func vulkanSamples(samples uint8) vk.SampleCountFlagBits {
	return vk.SampleCountFlagBits(samples)
}

func vulkanOperations(usage metadata.AttachmentUsage) (vk.AttachmentLoadOp, vk.AttachmentStoreOp) {
	load, store := usage.Operations()
	return vk.AttachmentLoadOp(load), vk.AttachmentStoreOp(store)
}

// Stages only defined by the 64-bit synchronization flags fold into the
// transfer stage of the 32-bit subpass dependency masks.
const synchronization2TransferStages = metadata.PipelineStageCopy | metadata.PipelineStageBlit | metadata.PipelineStageClear

func vulkanStageMask(stage metadata.PipelineStage) vk.PipelineStageFlags {
	mask := vk.PipelineStageFlags(uint32(stage))
	if stage&synchronization2TransferStages != 0 {
		mask |= vk.PipelineStageFlags(vk.PipelineStageTransferBit)
	}
	if mask == 0 {
		return vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit)
	}
	return mask
}

const synchronization2ShaderReads = metadata.AccessShaderSampledRead | metadata.AccessShaderStorageRead

func vulkanAccessMask(access metadata.Access) vk.AccessFlags {
	mask := vk.AccessFlags(uint32(access))
	if access&synchronization2ShaderReads != 0 {
		mask |= vk.AccessFlags(vk.AccessShaderReadBit)
	}
	return mask
}
