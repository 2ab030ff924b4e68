package metadata

/** @brief Wire value of an attachment slot with no attachment bound. */
const AttachmentUnused uint32 = 0xffffffff

/**
 * @brief Refers to an attachment of the owning pass by position, or to no attachment at all.
 * The zero value is NoAttachment.
 */
type AttachmentRef struct {
	index uint32
	bound bool
}

/** @brief The explicit "no attachment at this slot" reference. */
var NoAttachment = AttachmentRef{}

func AttachmentAt(index uint32) AttachmentRef {
	return AttachmentRef{index: index, bound: true}
}

// Index returns the referenced position and whether an attachment is bound.
func (r AttachmentRef) Index() (uint32, bool) {
	return r.index, r.bound
}

func (r AttachmentRef) IsNone() bool {
	return !r.bound
}

// Wire returns the value expected by the host GPU API.
func (r AttachmentRef) Wire() uint32 {
	if !r.bound {
		return AttachmentUnused
	}
	return r.index
}

// AttachmentRefFromWire maps a host GPU API value back to a reference.
func AttachmentRefFromWire(value uint32) AttachmentRef {
	if value == AttachmentUnused {
		return NoAttachment
	}
	return AttachmentAt(value)
}

/**
 * @brief Declares which attachments a subpass reads and writes.
 */
type SubpassDescriptor struct {
	/** @brief Attachments read as shader inputs. May be empty. */
	Inputs []AttachmentRef
	/** @brief Color outputs. NoAttachment leaves the slot unbound. */
	Colors []AttachmentRef
	/** @brief Depth-stencil output, or NoAttachment. */
	DepthStencil AttachmentRef
	/** @brief Attachments not used by this subpass whose contents must survive it. */
	Preserve []uint32
}
