package vulkan

import (
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"

	"github.com/spaghettifunk/colorpass/engine/renderer/metadata"
)

func TestFormatsMatchVulkan(t *testing.T) {
	assert.Equal(t, vk.FormatB8g8r8a8Unorm, vulkanFormat(metadata.ImageFormatRGBA))
	assert.Equal(t, vk.FormatR16g16b16a16Sfloat, vulkanFormat(metadata.ImageFormatRGBA16F))
	assert.Equal(t, vk.FormatR32g32b32a32Sfloat, vulkanFormat(metadata.ImageFormatRGBA32F))
	assert.Equal(t, vk.FormatD32Sfloat, vulkanFormat(metadata.ImageFormatDepth32F))
	assert.Equal(t, vk.FormatD24UnormS8Uint, vulkanFormat(metadata.ImageFormatDepth24Stencil8))
}

func TestLayoutsMatchVulkan(t *testing.T) {
	assert.Equal(t, vk.ImageLayoutUndefined, vulkanLayout(metadata.ImageStateUndefined))
	assert.Equal(t, vk.ImageLayoutGeneral, vulkanLayout(metadata.ImageStateGeneral))
	assert.Equal(t, vk.ImageLayoutColorAttachmentOptimal, vulkanLayout(metadata.ImageStateColorAttachment))
	assert.Equal(t, vk.ImageLayoutDepthStencilAttachmentOptimal, vulkanLayout(metadata.ImageStateDepthStencilAttachment))
	assert.Equal(t, vk.ImageLayoutShaderReadOnlyOptimal, vulkanLayout(metadata.ImageStateShaderRead))
	assert.Equal(t, vk.ImageLayoutTransferSrcOptimal, vulkanLayout(metadata.ImageStateTransferSource))
	assert.Equal(t, vk.ImageLayoutTransferDstOptimal, vulkanLayout(metadata.ImageStateTransferDest))
	assert.Equal(t, vk.ImageLayoutPresentSrc, vulkanLayout(metadata.ImageStatePresent))
}

func TestUsageAndAspectMatchVulkan(t *testing.T) {
	usage := metadata.ImageUsageColorAttachment | metadata.ImageUsageTransferSource
	assert.Equal(t, vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit|vk.ImageUsageTransferSrcBit), vulkanImageUsage(usage))
	assert.Equal(t, vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit), vulkanImageUsage(metadata.ImageUsageDepthStencilAttachment))
	assert.Equal(t, vk.ImageAspectFlags(vk.ImageAspectColorBit), vulkanAspect(metadata.ImageAspectColor))
	assert.Equal(t, vk.ImageAspectFlags(vk.ImageAspectDepthBit|vk.ImageAspectStencilBit), vulkanAspect(metadata.ImageAspectDepthStencil))
	assert.Equal(t, vk.SampleCount4Bit, vulkanSamples(4))
}

func TestOperationsMatchVulkan(t *testing.T) {
	tests := []struct {
		usage metadata.AttachmentUsage
		load  vk.AttachmentLoadOp
		store vk.AttachmentStoreOp
	}{
		{metadata.AttachmentUsageDiscard, vk.AttachmentLoadOpDontCare, vk.AttachmentStoreOpDontCare},
		{metadata.AttachmentUsageDiscardAndWrite, vk.AttachmentLoadOpDontCare, vk.AttachmentStoreOpStore},
		{metadata.AttachmentUsageClearAndWrite, vk.AttachmentLoadOpClear, vk.AttachmentStoreOpStore},
		{metadata.AttachmentUsageReadAndWrite, vk.AttachmentLoadOpLoad, vk.AttachmentStoreOpStore},
		{metadata.AttachmentUsageReadAndKeep, vk.AttachmentLoadOpLoad, vk.AttachmentStoreOpStore},
		{metadata.AttachmentUsageReadAndDiscard, vk.AttachmentLoadOpLoad, vk.AttachmentStoreOpDontCare},
	}
	for _, tt := range tests {
		load, store := vulkanOperations(tt.usage)
		assert.Equal(t, tt.load, load, "load of usage %d", tt.usage)
		assert.Equal(t, tt.store, store, "store of usage %d", tt.usage)
	}
}

func TestSentinelsMatchVulkan(t *testing.T) {
	assert.Equal(t, uint32(vk.AttachmentUnused), metadata.NoAttachment.Wire())
	assert.Equal(t, uint32(vk.SubpassExternal), metadata.ExternalSubpass.Wire())
}

func TestStageMasks(t *testing.T) {
	assert.Equal(t, vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit), vulkanStageMask(metadata.PipelineStageColorOutput))
	assert.Equal(t, vk.PipelineStageFlags(vk.PipelineStageTransferBit), vulkanStageMask(metadata.PipelineStageCopy))
	assert.Equal(t, vk.PipelineStageFlags(vk.PipelineStageTransferBit|vk.PipelineStageFragmentShaderBit),
		vulkanStageMask(metadata.PipelineStageBlit|metadata.PipelineStageFragmentShader))
	assert.Equal(t, vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit), vulkanStageMask(metadata.PipelineStageNone))
}

func TestAccessMasks(t *testing.T) {
	assert.Equal(t, vk.AccessFlags(vk.AccessColorAttachmentWriteBit), vulkanAccessMask(metadata.AccessColorWrite))
	assert.Equal(t, vk.AccessFlags(vk.AccessShaderReadBit), vulkanAccessMask(metadata.AccessShaderSampledRead))
	assert.Equal(t, vk.AccessFlags(0), vulkanAccessMask(metadata.AccessNone))
}
