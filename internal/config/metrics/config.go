// Package metrics 提供指标采集的配置
package metrics

import "github.com/nmrml/converter/pkg/types"

const (
	defaultEnabled   = true
	defaultNamespace = "nmrml"
)

// MetricsOptions 指标配置选项
type MetricsOptions struct {
	Enabled   bool   `json:"enabled"`
	Namespace string `json:"namespace"`
}

// Config 指标配置实现
type Config struct {
	options *MetricsOptions
}

// New 创建指标配置
func New(userConfig *types.UserMetricsConfig) *Config {
	options := &MetricsOptions{
		Enabled:   defaultEnabled,
		Namespace: defaultNamespace,
	}
	if userConfig != nil {
		if userConfig.Enabled != nil {
			options.Enabled = *userConfig.Enabled
		}
		if userConfig.Namespace != nil && *userConfig.Namespace != "" {
			options.Namespace = *userConfig.Namespace
		}
	}
	return &Config{options: options}
}

// GetOptions 获取完整配置
func (c *Config) GetOptions() *MetricsOptions {
	return c.options
}

// IsEnabled 是否启用
func (c *Config) IsEnabled() bool {
	return c.options.Enabled
}

// GetNamespace 指标命名空间
func (c *Config) GetNamespace() string {
	return c.options.Namespace
}
