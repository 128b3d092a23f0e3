// Package event 提供事件总线的配置
package event

import "github.com/nmrml/converter/pkg/types"

// EventOptions 事件总线配置选项
type EventOptions struct {
	Enabled     bool `json:"enabled"`
	HistorySize int  `json:"history_size"`
}

// Config 事件配置实现
type Config struct {
	options *EventOptions
}

// New 创建事件配置
func New(userConfig *types.UserEventConfig) *Config {
	options := &EventOptions{
		Enabled:     defaultEnabled,
		HistorySize: defaultHistorySize,
	}
	if userConfig != nil {
		if userConfig.Enabled != nil {
			options.Enabled = *userConfig.Enabled
		}
		if userConfig.HistorySize != nil && *userConfig.HistorySize >= 0 {
			options.HistorySize = *userConfig.HistorySize
		}
	}
	return &Config{options: options}
}

// GetOptions 获取完整配置
func (c *Config) GetOptions() *EventOptions {
	return c.options
}

// IsEnabled 是否启用
func (c *Config) IsEnabled() bool {
	return c.options.Enabled
}

// GetHistorySize 历史条数
func (c *Config) GetHistorySize() int {
	return c.options.HistorySize
}
