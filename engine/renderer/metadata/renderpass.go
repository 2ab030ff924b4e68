package metadata

import (
	"fmt"

	"github.com/spaghettifunk/colorpass/engine/core"
)

/**
 * @brief Everything needed to build a render pass: attachments, subpasses and
 * the dependencies between them.
 */
type RenderPassConfig struct {
	/** @brief The Name of this renderpass. */
	Name         string
	Attachments  []AttachmentDescriptor
	Subpasses    []SubpassDescriptor
	Dependencies []DependencyDescriptor
}

// Validate checks every attachment and every index reference of the config.
func (c *RenderPassConfig) Validate() error {
	if len(c.Subpasses) == 0 {
		return fmt.Errorf("render pass `%s`: %w", c.Name, core.ErrNoSubpasses)
	}
	for i, a := range c.Attachments {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("render pass `%s` attachment %d: %w", c.Name, i, err)
		}
	}
	attachmentCount := uint32(len(c.Attachments))
	checkRef := func(subpass int, kind string, ref AttachmentRef) error {
		if idx, ok := ref.Index(); ok && idx >= attachmentCount {
			return fmt.Errorf("render pass `%s` subpass %d %s attachment %d (have %d): %w",
				c.Name, subpass, kind, idx, attachmentCount, core.ErrInvalidAttachmentRef)
		}
		return nil
	}
	for i, s := range c.Subpasses {
		for _, ref := range s.Inputs {
			if err := checkRef(i, "input", ref); err != nil {
				return err
			}
		}
		for _, ref := range s.Colors {
			if err := checkRef(i, "color", ref); err != nil {
				return err
			}
		}
		if err := checkRef(i, "depth-stencil", s.DepthStencil); err != nil {
			return err
		}
		for _, idx := range s.Preserve {
			if err := checkRef(i, "preserve", AttachmentAt(idx)); err != nil {
				return err
			}
		}
	}
	subpassCount := uint32(len(c.Subpasses))
	for i, d := range c.Dependencies {
		for _, ref := range []SubpassRef{d.Source, d.Dest} {
			if idx, ok := ref.Index(); ok && idx >= subpassCount {
				return fmt.Errorf("render pass `%s` dependency %d subpass %d (have %d): %w",
					c.Name, i, idx, subpassCount, core.ErrInvalidSubpassRef)
			}
		}
	}
	return nil
}

// ClearCount returns how many clear values Begin consumes.
func (c *RenderPassConfig) ClearCount() int {
	n := 0
	for _, a := range c.Attachments {
		if a.Clears() {
			n++
		}
	}
	return n
}
