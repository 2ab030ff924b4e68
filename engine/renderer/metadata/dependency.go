package metadata

/** @brief Wire value for "outside of this render pass" in subpass dependencies. */
const SubpassExternal uint32 = 0xffffffff

/**
 * @brief Refers to a subpass of the owning pass by position, or to work outside of the pass.
 * The zero value is ExternalSubpass.
 */
type SubpassRef struct {
	index    uint32
	internal bool
}

var ExternalSubpass = SubpassRef{}

func SubpassAt(index uint32) SubpassRef {
	return SubpassRef{index: index, internal: true}
}

func (r SubpassRef) Index() (uint32, bool) {
	return r.index, r.internal
}

func (r SubpassRef) IsExternal() bool {
	return !r.internal
}

func (r SubpassRef) Wire() uint32 {
	if !r.internal {
		return SubpassExternal
	}
	return r.index
}

/** @brief Pipeline stage bit flags. */
type PipelineStage uint64

const (
	PipelineStageNone           PipelineStage = 0
	PipelineStageFragmentShader PipelineStage = 0x00000080
	PipelineStageColorOutput    PipelineStage = 0x00000400
	PipelineStageAllGraphics    PipelineStage = 0x00008000
	PipelineStageAll            PipelineStage = 0x00010000
	PipelineStageCopy           PipelineStage = 0x100000000
	PipelineStageBlit           PipelineStage = 0x400000000
	PipelineStageClear          PipelineStage = 0x800000000
)

/** @brief Memory access bit flags. */
type Access uint64

const (
	AccessNone              Access = 0
	AccessUniformRead       Access = 0x00000008
	AccessColorWrite        Access = 0x00000100
	AccessTransferRead      Access = 0x00000800
	AccessTransferWrite     Access = 0x00001000
	AccessRead              Access = 0x00008000
	AccessShaderSampledRead Access = 0x100000000
	AccessShaderStorageRead Access = 0x200000000
)

/**
 * @brief An execution and memory dependency between two subpasses.
 */
type DependencyDescriptor struct {
	Source       SubpassRef
	Dest         SubpassRef
	SourceStage  PipelineStage
	DestStage    PipelineStage
	SourceAccess Access
	DestAccess   Access
}
