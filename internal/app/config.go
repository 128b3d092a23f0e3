package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nmrml/converter/pkg/types"
)

// EnvConfigPath 指定配置文件的环境变量
const EnvConfigPath = "NMRML_CONFIG"

// 配置文件格式
const (
	configFormatJSON = "json"
	configFormatYAML = "yaml"
)

// ConfigFile 配置文件结构即 types.AppConfig
//
// 🔧 零值陷阱处理说明：
// 为了区分"用户未设置"和"用户设置为零值"，所有字段都是指针：
// - nil: 配置文件未设置该字段，使用系统默认值
// - &value: 用户明确设置了该值，即使是零值（如0、false、""）也会被采用
//
// 示例：
// "retry_attempts": 0  → 明确关闭重试
// 省略"retry_attempts" → 使用默认值

// resolve 按优先级确定用户配置：WithAppConfig > 嵌入内容 > 配置文件 > 环境变量 > 默认值
func (o *options) resolve() error {
	if o.appConfig == nil {
		switch {
		case len(o.embeddedConfig) > 0:
			cfg, err := parseConfig(o.embeddedConfig, o.embeddedFormat)
			if err != nil {
				return fmt.Errorf("解析嵌入配置失败: %w", err)
			}
			o.appConfig = cfg
		default:
			path := o.configFilePath
			if path == "" {
				path = os.Getenv(EnvConfigPath)
			}
			if path != "" {
				cfg, err := loadConfigFile(path)
				if err != nil {
					return err
				}
				o.appConfig = cfg
				o.loadedPath = path
			}
		}
	}

	if o.appConfig == nil {
		o.appConfig = &types.AppConfig{}
	}

	// 覆盖项只作用于副本，不修改调用方传入的配置
	if o.logLevel != "" || o.withoutCatalog {
		cfg := *o.appConfig
		o.appConfig = &cfg
	}
	if o.logLevel != "" {
		logConfig := types.UserLogConfig{}
		if o.appConfig.Log != nil {
			logConfig = *o.appConfig.Log
		}
		logConfig.Level = types.StringPtr(o.logLevel)
		o.appConfig.Log = &logConfig
	}
	if o.withoutCatalog {
		catalogConfig := types.UserCatalogConfig{}
		if o.appConfig.Catalog != nil {
			catalogConfig = *o.appConfig.Catalog
		}
		catalogConfig.Enabled = types.BoolPtr(false)
		o.appConfig.Catalog = &catalogConfig
	}
	return nil
}

// loadConfigFile 读取并解析配置文件，格式由扩展名决定
func loadConfigFile(path string) (*types.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	cfg, err := parseConfig(data, formatFromExtension(path))
	if err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}
	return cfg, nil
}

func formatFromExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return configFormatYAML
	default:
		return configFormatJSON
	}
}

// parseConfig 解析配置内容，未知字段视为错误，空内容等同空配置
func parseConfig(data []byte, format string) (*types.AppConfig, error) {
	var cfg types.AppConfig
	switch strings.ToLower(format) {
	case configFormatYAML, "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	case configFormatJSON, "":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("不支持的配置格式: %q", format)
	}
	return &cfg, nil
}
