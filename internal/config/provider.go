package config

import (
	"os"
	"path/filepath"
	"strings"

	cacheconfig "github.com/nmrml/converter/internal/config/cache"
	catalogconfig "github.com/nmrml/converter/internal/config/catalog"
	converterconfig "github.com/nmrml/converter/internal/config/converter"
	eventconfig "github.com/nmrml/converter/internal/config/event"
	logconfig "github.com/nmrml/converter/internal/config/log"
	metricsconfig "github.com/nmrml/converter/internal/config/metrics"
	readerconfig "github.com/nmrml/converter/internal/config/reader"
	"github.com/nmrml/converter/pkg/interfaces/config"
	"github.com/nmrml/converter/pkg/types"
)

const (
	// defaultEnvironment 默认运行环境
	defaultEnvironment = "prod"

	// defaultDataDirName 用户主目录下的默认数据目录
	defaultDataDirName = ".nmrml"

	// envDataDir 覆盖数据目录的环境变量
	envDataDir = "NMRML_DATA_DIR"
)

// Provider 实现配置提供者接口
type Provider struct {
	appConfig *types.AppConfig
}

// NewProvider 创建配置提供者，appConfig 可以为 nil（全部使用默认值）
func NewProvider(appConfig *types.AppConfig) config.Provider {
	return &Provider{
		appConfig: appConfig,
	}
}

// GetEnvironment 获取运行环境
func (p *Provider) GetEnvironment() string {
	if p.appConfig != nil && p.appConfig.Environment != nil {
		switch env := strings.ToLower(*p.appConfig.Environment); env {
		case "dev", "test", "prod":
			return env
		}
	}
	return defaultEnvironment
}

// GetDataDir 获取数据目录
// 优先级：配置文件 data_dir > 环境变量 NMRML_DATA_DIR > ~/.nmrml > ./data
func (p *Provider) GetDataDir() string {
	if p.appConfig != nil && p.appConfig.DataDir != nil && *p.appConfig.DataDir != "" {
		return *p.appConfig.DataDir
	}
	if dir := os.Getenv(envDataDir); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, defaultDataDirName)
	}
	return "./data"
}

// GetLog 获取日志配置
func (p *Provider) GetLog() *logconfig.Config {
	var userLogConfig *types.UserLogConfig
	if p.appConfig != nil && p.appConfig.Log != nil {
		userLogConfig = p.appConfig.Log
	}

	cfg := logconfig.New(userLogConfig)

	// dev 环境未显式设置级别时使用 debug
	if p.GetEnvironment() == "dev" && (userLogConfig == nil || userLogConfig.Level == nil) {
		cfg.GetOptions().Level = string(types.DebugLevel)
	}
	return cfg
}

// GetReader 获取读取器配置
func (p *Provider) GetReader() *readerconfig.Config {
	var userReaderConfig *types.UserReaderConfig
	if p.appConfig != nil {
		userReaderConfig = p.appConfig.Reader
	}
	return readerconfig.New(userReaderConfig)
}

// GetCache 获取缓存配置
func (p *Provider) GetCache() *cacheconfig.Config {
	var userCacheConfig *types.UserCacheConfig
	if p.appConfig != nil {
		userCacheConfig = p.appConfig.Cache
	}
	return cacheconfig.New(userCacheConfig)
}

// GetCatalog 获取转换目录配置
func (p *Provider) GetCatalog() *catalogconfig.Config {
	var userCatalogConfig *types.UserCatalogConfig
	if p.appConfig != nil {
		userCatalogConfig = p.appConfig.Catalog
	}

	cfg := catalogconfig.New(userCatalogConfig, p.GetDataDir())

	// test 环境未显式设置时使用内存目录库，避免污染数据目录
	if p.GetEnvironment() == "test" && (userCatalogConfig == nil || userCatalogConfig.InMemory == nil) {
		cfg.GetOptions().InMemory = true
	}
	return cfg
}

// GetEvent 获取事件配置
func (p *Provider) GetEvent() *eventconfig.Config {
	var userEventConfig *types.UserEventConfig
	if p.appConfig != nil {
		userEventConfig = p.appConfig.Event
	}
	return eventconfig.New(userEventConfig)
}

// GetMetrics 获取指标配置
func (p *Provider) GetMetrics() *metricsconfig.Config {
	var userMetricsConfig *types.UserMetricsConfig
	if p.appConfig != nil {
		userMetricsConfig = p.appConfig.Metrics
	}
	return metricsconfig.New(userMetricsConfig)
}

// GetConverter 获取转换流水线配置
func (p *Provider) GetConverter() *converterconfig.Config {
	var userConverterConfig *types.UserConverterConfig
	if p.appConfig != nil {
		userConverterConfig = p.appConfig.Converter
	}
	return converterconfig.New(userConverterConfig)
}
