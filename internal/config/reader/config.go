// Package reader 提供采集参数读取器的配置
package reader

import (
	"strings"
	"time"

	"github.com/nmrml/converter/pkg/types"
)

// ReaderOptions 读取器配置选项
type ReaderOptions struct {
	MaxFileSize   int64         `json:"max_file_size"`
	Charset       string        `json:"charset"`
	RetryAttempts int           `json:"retry_attempts"`
	RetryBackoff  time.Duration `json:"retry_backoff"`
	EnableCache   bool          `json:"enable_cache"`
	EnableMetrics bool          `json:"enable_metrics"`
}

// Config 读取器配置实现
type Config struct {
	options *ReaderOptions
}

// New 创建读取器配置，userConfig 为 *types.UserReaderConfig 或 nil
func New(userConfig *types.UserReaderConfig) *Config {
	options := &ReaderOptions{
		MaxFileSize:   defaultMaxFileSize,
		Charset:       defaultCharset,
		RetryAttempts: defaultRetryAttempts,
		RetryBackoff:  defaultRetryBackoff,
		EnableCache:   defaultEnableCache,
		EnableMetrics: defaultEnableMetrics,
	}

	if userConfig != nil {
		if userConfig.MaxFileSize != nil && *userConfig.MaxFileSize > 0 {
			options.MaxFileSize = *userConfig.MaxFileSize
		}
		if userConfig.Charset != nil {
			switch cs := strings.ToLower(*userConfig.Charset); cs {
			case CharsetUTF8, "utf8":
				options.Charset = CharsetUTF8
			case CharsetLatin1, "latin1", "latin-1":
				options.Charset = CharsetLatin1
			}
		}
		if userConfig.RetryAttempts != nil && *userConfig.RetryAttempts >= 0 {
			options.RetryAttempts = *userConfig.RetryAttempts
		}
		if userConfig.RetryBackoff != nil {
			if d, err := time.ParseDuration(*userConfig.RetryBackoff); err == nil && d > 0 {
				options.RetryBackoff = d
			}
		}
		if userConfig.EnableCache != nil {
			options.EnableCache = *userConfig.EnableCache
		}
		if userConfig.EnableMetrics != nil {
			options.EnableMetrics = *userConfig.EnableMetrics
		}
	}

	return &Config{options: options}
}

// GetOptions 获取完整配置
func (c *Config) GetOptions() *ReaderOptions {
	return c.options
}

// GetMaxFileSize 参数文件最大字节数
func (c *Config) GetMaxFileSize() int64 {
	return c.options.MaxFileSize
}

// GetCharset 参数文件字符集
func (c *Config) GetCharset() string {
	return c.options.Charset
}

// GetRetryAttempts 重试次数
func (c *Config) GetRetryAttempts() int {
	return c.options.RetryAttempts
}

// GetRetryBackoff 首次重试等待
func (c *Config) GetRetryBackoff() time.Duration {
	return c.options.RetryBackoff
}

// IsCacheEnabled 是否缓存解析结果
func (c *Config) IsCacheEnabled() bool {
	return c.options.EnableCache
}

// IsMetricsEnabled 是否记录指标与事件
func (c *Config) IsMetricsEnabled() bool {
	return c.options.EnableMetrics
}
