package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/colorpass/engine/core"
	"github.com/spaghettifunk/colorpass/engine/renderer/metadata"
)

type VulkanRenderpass struct {
	Handle vk.RenderPass
	Name   string
	// For each attachment, whether Begin consumes a clear value for it.
	clears      []bool
	attachments []metadata.AttachmentDescriptor
}

// RenderpassCreate translates a validated config into a Vulkan render pass.
// Attachment references use the attachment's during state as their layout.
func RenderpassCreate(context *VulkanContext, config *metadata.RenderPassConfig) (*VulkanRenderpass, error) {
	outRenderpass := &VulkanRenderpass{
		Name:        config.Name,
		clears:      make([]bool, len(config.Attachments)),
		attachments: append([]metadata.AttachmentDescriptor(nil), config.Attachments...),
	}

	attachmentDescriptions := make([]vk.AttachmentDescription, len(config.Attachments))
	for i, a := range config.Attachments {
		loadOp, storeOp := vulkanOperations(a.Usage)
		stencilLoadOp, stencilStoreOp := vulkanOperations(a.StencilUsage)
		attachmentDescriptions[i] = vk.AttachmentDescription{
			Format:         vulkanFormat(a.Format),
			Samples:        vulkanSamples(a.Samples),
			LoadOp:         loadOp,
			StoreOp:        storeOp,
			StencilLoadOp:  stencilLoadOp,
			StencilStoreOp: stencilStoreOp,
			InitialLayout:  vulkanLayout(a.StateBefore),
			FinalLayout:    vulkanLayout(a.StateAfter),
		}
		outRenderpass.clears[i] = a.Clears()
	}

	reference := func(ref metadata.AttachmentRef) vk.AttachmentReference {
		idx, ok := ref.Index()
		if !ok {
			return vk.AttachmentReference{Attachment: ref.Wire(), Layout: vk.ImageLayoutUndefined}
		}
		return vk.AttachmentReference{Attachment: ref.Wire(), Layout: vulkanLayout(config.Attachments[idx].StateDuring)}
	}
	references := func(refs []metadata.AttachmentRef) []vk.AttachmentReference {
		if len(refs) == 0 {
			return nil
		}
		out := make([]vk.AttachmentReference, len(refs))
		for i, ref := range refs {
			out[i] = reference(ref)
		}
		return out
	}

	subpasses := make([]vk.SubpassDescription, len(config.Subpasses))
	for i, s := range config.Subpasses {
		subpass := vk.SubpassDescription{
			PipelineBindPoint:       vk.PipelineBindPointGraphics,
			InputAttachmentCount:    uint32(len(s.Inputs)),
			PInputAttachments:       references(s.Inputs),
			ColorAttachmentCount:    uint32(len(s.Colors)),
			PColorAttachments:       references(s.Colors),
			PreserveAttachmentCount: uint32(len(s.Preserve)),
			PPreserveAttachments:    s.Preserve,
		}
		if !s.DepthStencil.IsNone() {
			depthReference := reference(s.DepthStencil)
			subpass.PDepthStencilAttachment = &depthReference
		}
		subpasses[i] = subpass
	}

	dependencies := make([]vk.SubpassDependency, len(config.Dependencies))
	for i, d := range config.Dependencies {
		dependencies[i] = vk.SubpassDependency{
			SrcSubpass:    d.Source.Wire(),
			DstSubpass:    d.Dest.Wire(),
			SrcStageMask:  vulkanStageMask(d.SourceStage),
			DstStageMask:  vulkanStageMask(d.DestStage),
			SrcAccessMask: vulkanAccessMask(d.SourceAccess),
			DstAccessMask: vulkanAccessMask(d.DestAccess),
		}
	}

	renderpassCreateInfo := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachmentDescriptions)),
		PAttachments:    attachmentDescriptions,
		SubpassCount:    uint32(len(subpasses)),
		PSubpasses:      subpasses,
		DependencyCount: uint32(len(dependencies)),
		PDependencies:   dependencies,
	}

	var pRenderPass vk.RenderPass
	if res := vk.CreateRenderPass(context.Device.LogicalDevice, &renderpassCreateInfo, context.Allocator, &pRenderPass); res != vk.Success {
		err := resultError("vkCreateRenderPass", res)
		core.LogError(err.Error())
		return nil, err
	}
	outRenderpass.Handle = pRenderPass
	return outRenderpass, nil
}

func (vr *VulkanRenderpass) Destroy(context *VulkanContext) {
	if vr.Handle != vk.NullRenderPass {
		vk.DestroyRenderPass(context.Device.LogicalDevice, vr.Handle, context.Allocator)
		vr.Handle = vk.NullRenderPass
	}
}

// Begin records the start of the pass over the whole framebuffer. clearValues
// are consumed in attachment order by the attachments that clear.
func (vr *VulkanRenderpass) Begin(commandBuffer *VulkanCommandBuffer, framebuffer *VulkanFramebuffer, clearValues []metadata.ClearValue) {
	vkClearValues := make([]vk.ClearValue, len(vr.clears))
	next := 0
	for i, clears := range vr.clears {
		if !clears || next >= len(clearValues) {
			continue
		}
		value := clearValues[next]
		next++
		if vr.attachments[i].Format.IsDepth() {
			vkClearValues[i].SetDepthStencil(value.Depth, value.Stencil)
		} else {
			vkClearValues[i].SetColor(value.Color.Elements())
		}
	}

	beginInfo := vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  vr.Handle,
		Framebuffer: framebuffer.Handle,
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: vk.Extent2D{
				Width:  framebuffer.Width,
				Height: framebuffer.Height,
			},
		},
		ClearValueCount: uint32(len(vkClearValues)),
		PClearValues:    vkClearValues,
	}

	vk.CmdBeginRenderPass(commandBuffer.Handle, &beginInfo, vk.SubpassContentsInline)
	commandBuffer.State = COMMAND_BUFFER_STATE_IN_RENDER_PASS
}

func (vr *VulkanRenderpass) End(commandBuffer *VulkanCommandBuffer) {
	vk.CmdEndRenderPass(commandBuffer.Handle)
	commandBuffer.State = COMMAND_BUFFER_STATE_RECORDING
}
