package event

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eventconfig "github.com/nmrml/converter/internal/config/event"
	logimpl "github.com/nmrml/converter/internal/core/infrastructure/log"
	"github.com/nmrml/converter/pkg/interfaces/infrastructure/event"
	"github.com/nmrml/converter/pkg/types"
)

func newTestBus(userConfig *types.UserEventConfig) *EventBus {
	return New(eventconfig.New(userConfig), logimpl.NewNop())
}

// TestEventBus 测试同步与异步订阅
func TestEventBus(t *testing.T) {
	bus := newTestBus(nil)

	var received *event.ReadEvent
	handler := func(e *event.ReadEvent) {
		received = e
	}
	require.NoError(t, bus.Subscribe(event.EventReadCompleted, handler))
	assert.True(t, bus.HasCallback(event.EventReadCompleted))

	payload := &event.ReadEvent{Format: types.FormatBruker, Source: "/data/1", Duration: time.Millisecond}
	bus.Publish(event.EventReadCompleted, payload)
	assert.Same(t, payload, received)

	var asyncCount atomic.Int32
	var wg sync.WaitGroup
	wg.Add(1)
	require.NoError(t, bus.SubscribeAsync(event.EventConversionCompleted, func(e *event.ConversionEvent) {
		asyncCount.Add(1)
		wg.Done()
	}))
	bus.Publish(event.EventConversionCompleted, &event.ConversionEvent{RunID: "r1"})
	bus.WaitAsync()
	wg.Wait()
	assert.Equal(t, int32(1), asyncCount.Load())

	require.NoError(t, bus.Unsubscribe(event.EventReadCompleted, handler))
	received = nil
	bus.Publish(event.EventReadCompleted, payload)
	assert.Nil(t, received)
}

// TestPayloadValidation 测试载荷类型不匹配时被丢弃
func TestPayloadValidation(t *testing.T) {
	bus := newTestBus(nil)

	called := false
	require.NoError(t, bus.Subscribe(event.EventReadFailed, func(e *event.ReadEvent) { called = true }))

	bus.Publish(event.EventReadFailed, "not a read event")
	bus.Publish(event.EventReadFailed, (*event.ReadEvent)(nil))
	assert.False(t, called)

	published, rejected := bus.Stats()
	assert.Equal(t, uint64(0), published)
	assert.Equal(t, uint64(2), rejected)

	bus.Publish(event.EventReadFailed, &event.ReadEvent{Err: errors.New("boom")})
	assert.True(t, called)

	// 未知事件类型不校验
	bus.Publish(event.EventType("custom"), 42)
	published, _ = bus.Stats()
	assert.Equal(t, uint64(2), published)
}

// TestHistory 测试历史记录容量
func TestHistory(t *testing.T) {
	bus := newTestBus(&types.UserEventConfig{HistorySize: types.IntPtr(2)})

	for i := 0; i < 3; i++ {
		bus.Publish(event.EventConversionSkipped, &event.ConversionEvent{RunID: string(rune('a' + i))})
	}

	history := bus.History(event.EventConversionSkipped)
	require.Len(t, history, 2)
	assert.Equal(t, "b", history[0].(*event.ConversionEvent).RunID)
	assert.Equal(t, "c", history[1].(*event.ConversionEvent).RunID)
	assert.Nil(t, bus.History(event.EventReadCompleted))

	noHistory := newTestBus(&types.UserEventConfig{HistorySize: types.IntPtr(0)})
	noHistory.Publish(event.EventConversionSkipped, &event.ConversionEvent{})
	assert.Nil(t, noHistory.History(event.EventConversionSkipped))
}

// TestDisabled 测试未启用时静默
func TestDisabled(t *testing.T) {
	bus := newTestBus(&types.UserEventConfig{Enabled: types.BoolPtr(false)})

	called := false
	require.NoError(t, bus.Subscribe(event.EventReadCompleted, func(e *event.ReadEvent) { called = true }))
	bus.Publish(event.EventReadCompleted, &event.ReadEvent{})
	bus.WaitAsync()

	assert.False(t, called)
	assert.False(t, bus.HasCallback(event.EventReadCompleted))
	assert.Nil(t, bus.History(event.EventReadCompleted))
}
