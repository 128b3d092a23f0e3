// Package converter 提供转换流水线的配置
package converter

import (
	"runtime"
	"strings"

	"github.com/nmrml/converter/pkg/types"
)

// 输出格式
const (
	OutputXML  = "xml"
	OutputJSON = "json"
)

const (
	defaultOutputFormat  = OutputXML
	defaultSkipUnchanged = true
	defaultValidateJSON  = true
	maxWorkers           = 32
)

// ConverterOptions 转换配置选项
type ConverterOptions struct {
	OutputFormat  string `json:"output_format"`
	Workers       int    `json:"workers"`
	SkipUnchanged bool   `json:"skip_unchanged"`
	ValidateJSON  bool   `json:"validate_json"`
}

// Config 转换配置实现
type Config struct {
	options *ConverterOptions
}

// New 创建转换配置
func New(userConfig *types.UserConverterConfig) *Config {
	options := &ConverterOptions{
		OutputFormat:  defaultOutputFormat,
		Workers:       defaultWorkers(),
		SkipUnchanged: defaultSkipUnchanged,
		ValidateJSON:  defaultValidateJSON,
	}
	if userConfig != nil {
		if userConfig.OutputFormat != nil {
			switch f := strings.ToLower(*userConfig.OutputFormat); f {
			case OutputXML, OutputJSON:
				options.OutputFormat = f
			}
		}
		if userConfig.Workers != nil && *userConfig.Workers > 0 {
			options.Workers = min(*userConfig.Workers, maxWorkers)
		}
		if userConfig.SkipUnchanged != nil {
			options.SkipUnchanged = *userConfig.SkipUnchanged
		}
		if userConfig.ValidateJSON != nil {
			options.ValidateJSON = *userConfig.ValidateJSON
		}
	}
	return &Config{options: options}
}

// defaultWorkers 并发数默认等于 CPU 数，封顶 maxWorkers
func defaultWorkers() int {
	return min(runtime.NumCPU(), maxWorkers)
}

// GetOptions 获取完整配置
func (c *Config) GetOptions() *ConverterOptions {
	return c.options
}

// GetOutputFormat 默认输出格式
func (c *Config) GetOutputFormat() string {
	return c.options.OutputFormat
}

// GetWorkers 批量转换并发数
func (c *Config) GetWorkers() int {
	return c.options.Workers
}

// IsSkipUnchangedEnabled 源未变化时是否跳过
func (c *Config) IsSkipUnchangedEnabled() bool {
	return c.options.SkipUnchanged
}

// IsJSONValidationEnabled JSON 输出是否做 schema 校验
func (c *Config) IsJSONValidationEnabled() bool {
	return c.options.ValidateJSON
}
