// Package event 基于 asaskevich/EventBus 的事件总线实现
//
// 在底层总线之上增加：
// - 启用开关（未启用时所有操作静默成功）
// - 载荷类型校验（读取事件只接受 *ReadEvent，转换事件只接受 *ConversionEvent）
// - 每种事件的有限历史记录
// - 发布计数
package event

import (
	"fmt"
	"sync"
	"sync/atomic"

	evbus "github.com/asaskevich/EventBus"
	eventconfig "github.com/nmrml/converter/internal/config/event"
	"github.com/nmrml/converter/pkg/interfaces/infrastructure/event"
	"github.com/nmrml/converter/pkg/interfaces/infrastructure/log"
)

// EventBus 事件总线实现
type EventBus struct {
	bus    evbus.Bus
	config *eventconfig.Config
	logger log.Logger

	historyMu    sync.RWMutex
	eventHistory map[event.EventType][]interface{}

	published atomic.Uint64
	rejected  atomic.Uint64
}

// New 创建事件总线
func New(config *eventconfig.Config, logger log.Logger) *EventBus {
	return &EventBus{
		bus:          evbus.New(),
		config:       config,
		logger:       logger,
		eventHistory: make(map[event.EventType][]interface{}),
	}
}

// Subscribe 同步订阅
func (eb *EventBus) Subscribe(eventType event.EventType, handler interface{}) error {
	if !eb.config.IsEnabled() {
		return nil
	}
	if err := eb.bus.Subscribe(string(eventType), handler); err != nil {
		return fmt.Errorf("订阅事件 %s 失败: %w", eventType, err)
	}
	return nil
}

// SubscribeAsync 异步订阅，同一处理器的回调串行执行
func (eb *EventBus) SubscribeAsync(eventType event.EventType, handler interface{}) error {
	if !eb.config.IsEnabled() {
		return nil
	}
	if err := eb.bus.SubscribeAsync(string(eventType), handler, true); err != nil {
		return fmt.Errorf("异步订阅事件 %s 失败: %w", eventType, err)
	}
	return nil
}

// Unsubscribe 取消订阅
func (eb *EventBus) Unsubscribe(eventType event.EventType, handler interface{}) error {
	if !eb.config.IsEnabled() {
		return nil
	}
	if err := eb.bus.Unsubscribe(string(eventType), handler); err != nil {
		return fmt.Errorf("取消订阅事件 %s 失败: %w", eventType, err)
	}
	return nil
}

// Publish 发布事件
// 载荷类型与事件类型不匹配时丢弃并记录警告，避免订阅方 panic
func (eb *EventBus) Publish(eventType event.EventType, payload interface{}) {
	if !eb.config.IsEnabled() {
		return
	}
	if err := validatePayload(eventType, payload); err != nil {
		eb.rejected.Add(1)
		if eb.logger != nil {
			eb.logger.Warnf("丢弃事件: %v", err)
		}
		return
	}

	eb.published.Add(1)
	eb.record(eventType, payload)
	eb.bus.Publish(string(eventType), payload)
}

// WaitAsync 等待异步处理完成
func (eb *EventBus) WaitAsync() {
	if !eb.config.IsEnabled() {
		return
	}
	eb.bus.WaitAsync()
}

// HasCallback 是否存在订阅者
func (eb *EventBus) HasCallback(eventType event.EventType) bool {
	if !eb.config.IsEnabled() {
		return false
	}
	return eb.bus.HasCallback(string(eventType))
}

// History 返回事件历史副本，最旧的在前
func (eb *EventBus) History(eventType event.EventType) []interface{} {
	eb.historyMu.RLock()
	defer eb.historyMu.RUnlock()

	entries := eb.eventHistory[eventType]
	if len(entries) == 0 {
		return nil
	}
	out := make([]interface{}, len(entries))
	copy(out, entries)
	return out
}

// Stats 已发布与被拒绝的事件数
func (eb *EventBus) Stats() (published, rejected uint64) {
	return eb.published.Load(), eb.rejected.Load()
}

// record 保存到历史，超出容量时丢弃最旧的
func (eb *EventBus) record(eventType event.EventType, payload interface{}) {
	size := eb.config.GetHistorySize()
	if size <= 0 {
		return
	}

	eb.historyMu.Lock()
	defer eb.historyMu.Unlock()

	entries := append(eb.eventHistory[eventType], payload)
	if len(entries) > size {
		entries = append(entries[:0:0], entries[len(entries)-size:]...)
	}
	eb.eventHistory[eventType] = entries
}

// validatePayload 校验已知事件类型的载荷；未知事件类型不做限制
func validatePayload(eventType event.EventType, payload interface{}) error {
	switch eventType {
	case event.EventReadCompleted, event.EventReadFailed:
		if p, ok := payload.(*event.ReadEvent); !ok || p == nil {
			return fmt.Errorf("事件 %s 需要 *ReadEvent 载荷，实际 %T", eventType, payload)
		}
	case event.EventConversionCompleted, event.EventConversionSkipped, event.EventConversionFailed:
		if p, ok := payload.(*event.ConversionEvent); !ok || p == nil {
			return fmt.Errorf("事件 %s 需要 *ConversionEvent 载荷，实际 %T", eventType, payload)
		}
	}
	return nil
}

var _ event.EventBus = (*EventBus)(nil)
