// Package event 定义事件总线接口
//
// 读取器与转换流水线通过事件总线广播读取/转换结果，
// 订阅方（CLI 进度输出、审计日志等）与生产方解耦。
package event

import (
	"time"

	"github.com/nmrml/converter/pkg/types"
)

// EventType 事件类型
type EventType string

const (
	// EventReadCompleted 采集参数读取成功，载荷 *ReadEvent
	EventReadCompleted EventType = "acquisition.read.completed"
	// EventReadFailed 采集参数读取失败，载荷 *ReadEvent
	EventReadFailed EventType = "acquisition.read.failed"
	// EventConversionCompleted 转换完成，载荷 *ConversionEvent
	EventConversionCompleted EventType = "conversion.completed"
	// EventConversionSkipped 源未变化而跳过，载荷 *ConversionEvent
	EventConversionSkipped EventType = "conversion.skipped"
	// EventConversionFailed 转换失败，载荷 *ConversionEvent
	EventConversionFailed EventType = "conversion.failed"
)

// ReadEvent 读取事件载荷
type ReadEvent struct {
	Format   types.SourceFormat
	Source   string
	Duration time.Duration
	Err      error
}

// ConversionEvent 转换事件载荷
type ConversionEvent struct {
	RunID  string
	Source string
	Output string
	Err    error
}

// EventBus 事件总线
type EventBus interface {
	// Subscribe 同步订阅，handler 为 func(*ReadEvent) 或 func(*ConversionEvent)
	Subscribe(eventType EventType, handler interface{}) error

	// SubscribeAsync 异步订阅
	SubscribeAsync(eventType EventType, handler interface{}) error

	// Unsubscribe 取消订阅
	Unsubscribe(eventType EventType, handler interface{}) error

	// Publish 发布事件
	Publish(eventType EventType, payload interface{})

	// WaitAsync 等待所有异步处理完成
	WaitAsync()

	// HasCallback 是否存在订阅者
	HasCallback(eventType EventType) bool

	// History 最近的事件载荷，未启用历史时返回 nil
	History(eventType EventType) []interface{}
}
