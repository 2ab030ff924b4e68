package metadata

import (
	"fmt"

	"github.com/spaghettifunk/colorpass/engine/core"
)

/**
 * @brief What happens to an attachment's contents when a pass begins and ends.
 */
type AttachmentUsage uint32

const (
	/** @brief Prior contents are undefined and nothing is stored. */
	AttachmentUsageDiscard AttachmentUsage = 0
	/** @brief Prior contents are undefined, results are stored. */
	AttachmentUsageDiscardAndWrite AttachmentUsage = 1
	/** @brief Cleared on load, results are stored. */
	AttachmentUsageClearAndWrite AttachmentUsage = 2
	/** @brief Prior contents are loaded, results are stored. */
	AttachmentUsageReadAndWrite AttachmentUsage = 3
	/** @brief Prior contents are loaded and kept. */
	AttachmentUsageReadAndKeep AttachmentUsage = 4
	/** @brief Prior contents are loaded, nothing is stored. */
	AttachmentUsageReadAndDiscard AttachmentUsage = 5
)

type AttachmentLoadOperation uint32

const (
	AttachmentLoadOperationLoad     AttachmentLoadOperation = 0
	AttachmentLoadOperationClear    AttachmentLoadOperation = 1
	AttachmentLoadOperationDontCare AttachmentLoadOperation = 2
)

type AttachmentStoreOperation uint32

const (
	AttachmentStoreOperationStore    AttachmentStoreOperation = 0
	AttachmentStoreOperationDontCare AttachmentStoreOperation = 1
)

type attachmentUsageRule struct {
	load   AttachmentLoadOperation
	store  AttachmentStoreOperation
	reads  bool
	writes bool
}

var attachmentUsageRules = map[AttachmentUsage]attachmentUsageRule{
	AttachmentUsageDiscard:         {AttachmentLoadOperationDontCare, AttachmentStoreOperationDontCare, false, false},
	AttachmentUsageDiscardAndWrite: {AttachmentLoadOperationDontCare, AttachmentStoreOperationStore, false, true},
	AttachmentUsageClearAndWrite:   {AttachmentLoadOperationClear, AttachmentStoreOperationStore, false, true},
	AttachmentUsageReadAndWrite:    {AttachmentLoadOperationLoad, AttachmentStoreOperationStore, true, true},
	AttachmentUsageReadAndKeep:     {AttachmentLoadOperationLoad, AttachmentStoreOperationStore, true, false},
	AttachmentUsageReadAndDiscard:  {AttachmentLoadOperationLoad, AttachmentStoreOperationDontCare, true, false},
}

// States an attachment may be in while a subpass uses it.
var attachmentUseStates = map[ImageState]bool{
	ImageStateGeneral:                true,
	ImageStateColorAttachment:        true,
	ImageStateDepthStencilAttachment: true,
	ImageStateShaderRead:             true,
}

// Subset of the use states in which the attachment can be written.
var attachmentWriteStates = map[ImageState]bool{
	ImageStateGeneral:                true,
	ImageStateColorAttachment:        true,
	ImageStateDepthStencilAttachment: true,
}

func (u AttachmentUsage) Valid() bool {
	_, ok := attachmentUsageRules[u]
	return ok
}

// Operations returns the load and store operations the usage stands for.
func (u AttachmentUsage) Operations() (AttachmentLoadOperation, AttachmentStoreOperation) {
	r := attachmentUsageRules[u]
	return r.load, r.store
}

func (u AttachmentUsage) Clears() bool {
	return u == AttachmentUsageClearAndWrite
}

func (u AttachmentUsage) Reads() bool {
	return attachmentUsageRules[u].reads
}

func (u AttachmentUsage) Writes() bool {
	return attachmentUsageRules[u].writes
}

/**
 * @brief Declares one render target of a pass: its format, the state it is in
 * before, during and after the pass, and what happens to its contents.
 */
type AttachmentDescriptor struct {
	Format       ImageFormat
	StateBefore  ImageState
	StateDuring  ImageState
	StateAfter   ImageState
	Usage        AttachmentUsage
	StencilUsage AttachmentUsage
	Samples      uint8
}

// NewAttachmentDescriptor builds a validated attachment description.
func NewAttachmentDescriptor(format ImageFormat, before, during, after ImageState, usage, stencilUsage AttachmentUsage, samples uint8) (AttachmentDescriptor, error) {
	desc := AttachmentDescriptor{
		Format:       format,
		StateBefore:  before,
		StateDuring:  during,
		StateAfter:   after,
		Usage:        usage,
		StencilUsage: stencilUsage,
		Samples:      samples,
	}
	if err := desc.Validate(); err != nil {
		return AttachmentDescriptor{}, err
	}
	return desc, nil
}

// Validate checks that the state triple agrees with the usage policy.
func (a AttachmentDescriptor) Validate() error {
	if a.Format == ImageFormatUndefined {
		return fmt.Errorf("%w: undefined format", core.ErrInvalidAttachment)
	}
	if !a.Usage.Valid() {
		return fmt.Errorf("%w: unknown usage %d", core.ErrInvalidAttachment, a.Usage)
	}
	if !a.StencilUsage.Valid() {
		return fmt.Errorf("%w: unknown stencil usage %d", core.ErrInvalidAttachment, a.StencilUsage)
	}
	if !validSampleCount(a.Samples) {
		return fmt.Errorf("%w: sample count %d is not a power of two in [1, 64]", core.ErrInvalidAttachment, a.Samples)
	}
	if !attachmentUseStates[a.StateDuring] {
		return fmt.Errorf("%w: %s is not a subpass state", core.ErrInvalidAttachment, a.StateDuring)
	}
	if a.StateAfter == ImageStateUndefined {
		return fmt.Errorf("%w: cannot leave the pass in %s", core.ErrInvalidAttachment, a.StateAfter)
	}
	if a.Usage.Reads() && a.StateBefore == ImageStateUndefined {
		return fmt.Errorf("%w: usage %d reads contents of an %s image", core.ErrInvalidAttachment, a.Usage, a.StateBefore)
	}
	if a.Usage.Writes() && !attachmentWriteStates[a.StateDuring] {
		return fmt.Errorf("%w: usage %d writes but %s is read-only", core.ErrInvalidAttachment, a.Usage, a.StateDuring)
	}
	if a.StateDuring == ImageStateColorAttachment && !a.Format.IsColor() {
		return fmt.Errorf("%w: %s used as color attachment", core.ErrInvalidAttachment, a.Format)
	}
	if a.StateDuring == ImageStateDepthStencilAttachment && !a.Format.IsDepth() {
		return fmt.Errorf("%w: %s used as depth attachment", core.ErrInvalidAttachment, a.Format)
	}
	return nil
}

// Clears reports whether the pass consumes a clear value for this attachment.
func (a AttachmentDescriptor) Clears() bool {
	return a.Usage.Clears() || (a.Format.HasStencil() && a.StencilUsage.Clears())
}

func validSampleCount(samples uint8) bool {
	switch samples {
	case 1, 2, 4, 8, 16, 32, 64:
		return true
	}
	return false
}
