package config

import "github.com/nmrml/converter/pkg/types"

// AppOptions 应用配置选项接口
type AppOptions interface {
	// GetAppConfig 获取应用配置，未加载配置文件时返回 nil
	GetAppConfig() *types.AppConfig

	// GetConfigPath 实际加载的配置文件路径，未加载时为空
	GetConfigPath() string
}
