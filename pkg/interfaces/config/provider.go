// Package config 定义配置提供者接口
package config

import (
	cacheconfig "github.com/nmrml/converter/internal/config/cache"
	catalogconfig "github.com/nmrml/converter/internal/config/catalog"
	converterconfig "github.com/nmrml/converter/internal/config/converter"
	eventconfig "github.com/nmrml/converter/internal/config/event"
	logconfig "github.com/nmrml/converter/internal/config/log"
	metricsconfig "github.com/nmrml/converter/internal/config/metrics"
	readerconfig "github.com/nmrml/converter/internal/config/reader"
)

// Provider 配置提供者接口
//
// 每个 GetXxx 都返回已应用默认值与用户覆盖的配置对象。
type Provider interface {
	// GetEnvironment 运行环境：dev | test | prod
	GetEnvironment() string

	// GetDataDir 数据目录（目录库等持久数据所在位置）
	GetDataDir() string

	// GetLog 日志配置
	GetLog() *logconfig.Config

	// GetReader 读取器配置
	GetReader() *readerconfig.Config

	// GetCache 缓存配置
	GetCache() *cacheconfig.Config

	// GetCatalog 转换目录配置
	GetCatalog() *catalogconfig.Config

	// GetEvent 事件总线配置
	GetEvent() *eventconfig.Config

	// GetMetrics 指标配置
	GetMetrics() *metricsconfig.Config

	// GetConverter 转换流水线配置
	GetConverter() *converterconfig.Config
}
