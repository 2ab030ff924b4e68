package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/colorpass/engine/core"
)

func colorAttachment(t *testing.T) AttachmentDescriptor {
	t.Helper()
	a, err := NewAttachmentDescriptor(ImageFormatRGBA16F,
		ImageStateUndefined, ImageStateColorAttachment, ImageStateColorAttachment,
		AttachmentUsageClearAndWrite, AttachmentUsageDiscard, 1)
	require.NoError(t, err)
	return a
}

func TestRenderPassConfigValidate(t *testing.T) {
	cfg := &RenderPassConfig{
		Name:        "color",
		Attachments: []AttachmentDescriptor{colorAttachment(t)},
		Subpasses: []SubpassDescriptor{{
			Colors:       []AttachmentRef{AttachmentAt(0), NoAttachment},
			DepthStencil: NoAttachment,
		}},
		Dependencies: []DependencyDescriptor{{
			Source:      ExternalSubpass,
			Dest:        SubpassAt(0),
			SourceStage: PipelineStageColorOutput,
			DestStage:   PipelineStageColorOutput,
			DestAccess:  AccessColorWrite,
		}},
	}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.ClearCount())
}

func TestRenderPassConfigRejectsBadReferences(t *testing.T) {
	base := func() *RenderPassConfig {
		return &RenderPassConfig{
			Name:        "color",
			Attachments: []AttachmentDescriptor{colorAttachment(t)},
			Subpasses:   []SubpassDescriptor{{Colors: []AttachmentRef{AttachmentAt(0)}}},
		}
	}

	cfg := base()
	cfg.Subpasses[0].Colors = []AttachmentRef{AttachmentAt(1)}
	assert.ErrorIs(t, cfg.Validate(), core.ErrInvalidAttachmentRef)

	cfg = base()
	cfg.Subpasses[0].Inputs = []AttachmentRef{AttachmentAt(5)}
	assert.ErrorIs(t, cfg.Validate(), core.ErrInvalidAttachmentRef)

	cfg = base()
	cfg.Subpasses[0].DepthStencil = AttachmentAt(1)
	assert.ErrorIs(t, cfg.Validate(), core.ErrInvalidAttachmentRef)

	cfg = base()
	cfg.Subpasses[0].Preserve = []uint32{AttachmentUnused}
	assert.ErrorIs(t, cfg.Validate(), core.ErrInvalidAttachmentRef)

	cfg = base()
	cfg.Dependencies = []DependencyDescriptor{{Source: SubpassAt(0), Dest: SubpassAt(2)}}
	assert.ErrorIs(t, cfg.Validate(), core.ErrInvalidSubpassRef)

	cfg = base()
	cfg.Subpasses = nil
	assert.ErrorIs(t, cfg.Validate(), core.ErrNoSubpasses)
}
