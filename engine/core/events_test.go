package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventSystemFire(t *testing.T) {
	es := NewEventSystem()
	var got []string

	first := func(code SystemEventCode, sender, listener interface{}, data EventContext) bool {
		got = append(got, "first")
		return data.Data.U32[0] == 1
	}
	second := func(code SystemEventCode, sender, listener interface{}, data EventContext) bool {
		got = append(got, "second")
		return false
	}
	assert.True(t, es.Register(EVENT_CODE_RESIZED, "a", first))
	assert.True(t, es.Register(EVENT_CODE_RESIZED, "b", second))
	assert.False(t, es.Register(EVENT_CODE_RESIZED, "a", second))

	assert.False(t, es.Fire(EVENT_CODE_RESIZED, nil, EventContext{}))
	assert.Equal(t, []string{"first", "second"}, got)

	// Handled by the first listener.
	got = nil
	ctx := EventContext{}
	ctx.Data.U32[0] = 1
	assert.True(t, es.Fire(EVENT_CODE_RESIZED, nil, ctx))
	assert.Equal(t, []string{"first"}, got)

	got = nil
	assert.True(t, es.Unregister(EVENT_CODE_RESIZED, "a"))
	assert.False(t, es.Unregister(EVENT_CODE_RESIZED, "a"))
	es.Fire(EVENT_CODE_RESIZED, nil, ctx)
	assert.Equal(t, []string{"second"}, got)
}

func TestEventSystemRejectsInvalidRegistrations(t *testing.T) {
	es := NewEventSystem()
	assert.False(t, es.Register(EVENT_CODE_APPLICATION_QUIT, "a", nil))
	assert.False(t, es.Register(-1, "a", func(SystemEventCode, interface{}, interface{}, EventContext) bool { return false }))
	assert.False(t, es.Fire(EVENT_CODE_APPLICATION_QUIT, nil, EventContext{}))
}

func TestIdentifiers(t *testing.T) {
	ids := NewIdentifiers()
	a := ids.Acquire("image")
	b := ids.Acquire("framebuffer")
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, ids.Len())

	owner, ok := ids.Owner(b)
	assert.True(t, ok)
	assert.Equal(t, "framebuffer", owner)

	assert.NoError(t, ids.Release(a))
	assert.ErrorIs(t, ids.Release(a), ErrUnknownHandle)
	_, ok = ids.Owner(a)
	assert.False(t, ok)
	assert.Equal(t, 1, ids.Len())
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < int(AVG_COUNT); i++ {
		m.Update(0.010)
	}
	assert.InDelta(t, 10.0, m.FrameTime(), 1e-9)

	// 101 frames of 10ms cross the one second mark once.
	for i := int(AVG_COUNT); i < 101; i++ {
		m.Update(0.010)
	}
	assert.Equal(t, float64(100), m.FPS())
}

func TestSetLogLevel(t *testing.T) {
	assert.NoError(t, SetLogLevel("debug"))
	assert.Error(t, SetLogLevel("loud"))
	assert.NoError(t, SetLogLevel("info"))
}
