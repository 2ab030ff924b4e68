package core

import (
	"errors"
)

// Configuration errors. Reported when a render pass or attachment description
// is malformed; retrying with the same input fails identically.
var (
	ErrInvalidAttachment     = errors.New("invalid attachment description")
	ErrInvalidAttachmentRef  = errors.New("attachment reference out of range")
	ErrInvalidSubpassRef     = errors.New("subpass reference out of range")
	ErrNoSubpasses           = errors.New("render pass needs at least one subpass")
	ErrFramebufferMismatch   = errors.New("framebuffer does not match render pass")
	ErrInvalidFramesInFlight = errors.New("frames in flight must be at least 1")
	ErrInvalidOutputSize     = errors.New("output size must be non-zero")
	ErrUnknownBackend        = errors.New("unknown renderer backend")
	ErrInvalidConfig         = errors.New("invalid configuration")
)

// Usage-order errors. These are caller bugs, never runtime conditions.
var (
	ErrRenderPassAlreadyBegun = errors.New("render pass already begun")
	ErrRenderPassNotBegun     = errors.New("render pass not begun")
	ErrRenderPassInUse        = errors.New("render pass still referenced")
	ErrRenderPassClosed       = errors.New("render pass closed")
	ErrClearValueCount        = errors.New("clear value count does not match clearing attachments")
	ErrResourceClosed         = errors.New("frame resource already closed")
	ErrPoolAlreadyStarted     = errors.New("frame resource pool already started")
	ErrPoolNotReady           = errors.New("frame resource pool not started")
	ErrPoolTornDown           = errors.New("frame resource pool torn down")
	ErrFrameSlotOutOfRange    = errors.New("frame slot out of range")
	ErrFrameAlreadyBegun      = errors.New("frame already begun")
	ErrFrameNotBegun          = errors.New("frame not begun")
	ErrEngineNotInitialized   = errors.New("engine not initialized")
	ErrEngineAlreadyRunning   = errors.New("engine already initialized")
)

// Resource errors raised by backends.
var (
	ErrOutOfDeviceMemory = errors.New("out of device memory")
	ErrUnknownHandle     = errors.New("unknown or already released handle")
	ErrHandleInUse       = errors.New("handle still referenced by another object")
)
