package app

import (
	"github.com/nmrml/converter/pkg/interfaces/config"
	"github.com/nmrml/converter/pkg/types"
)

// Option 应用程序选项函数类型
type Option func(*options)

// options 应用程序选项
// 实现config.AppOptions接口
type options struct {
	// 配置文件路径，为空时读取环境变量 NMRML_CONFIG
	configFilePath string

	// 嵌入的配置内容（优先级高于configFilePath），按 embeddedFormat 解析
	embeddedConfig []byte
	embeddedFormat string

	// 已解析的用户配置，优先级最高
	appConfig *types.AppConfig

	// 命令行覆盖项，在配置文件之后应用
	logLevel string

	// 不打开转换目录（只读命令不持有 Badger 目录锁）
	withoutCatalog bool

	// 实际加载的配置文件
	loadedPath string
}

// 编译时校验options是否实现了config.AppOptions接口
var _ config.AppOptions = (*options)(nil)

// WithConfigFile 设置配置文件路径（.json / .yaml / .yml）
func WithConfigFile(configPath string) Option {
	return func(o *options) {
		o.configFilePath = configPath
	}
}

// WithEmbeddedConfig 直接使用内存中的配置内容，format 为 json 或 yaml
func WithEmbeddedConfig(configBytes []byte, format string) Option {
	return func(o *options) {
		o.embeddedConfig = configBytes
		o.embeddedFormat = format
	}
}

// WithAppConfig 直接提供用户配置，不再读取任何文件
func WithAppConfig(appConfig *types.AppConfig) Option {
	return func(o *options) {
		o.appConfig = appConfig
	}
}

// WithLogLevel 覆盖日志级别
func WithLogLevel(level string) Option {
	return func(o *options) {
		o.logLevel = level
	}
}

// WithoutCatalog 不打开转换目录，忽略配置中的 catalog.enabled
func WithoutCatalog() Option {
	return func(o *options) {
		o.withoutCatalog = true
	}
}

// newOptions 创建选项
func newOptions(opts ...Option) *options {
	options := &options{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// GetAppConfig 返回应用程序配置
func (o *options) GetAppConfig() *types.AppConfig {
	return o.appConfig
}

// GetConfigPath 实际加载的配置文件路径
func (o *options) GetConfigPath() string {
	return o.loadedPath
}
