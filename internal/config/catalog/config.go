// Package catalog 提供转换目录（BadgerDB）的配置
package catalog

import (
	"path/filepath"

	"github.com/nmrml/converter/pkg/types"
)

// CatalogOptions 转换目录配置选项
type CatalogOptions struct {
	Enabled      bool   `json:"enabled"`
	Path         string `json:"path"`
	InMemory     bool   `json:"in_memory"`
	SyncWrites   bool   `json:"sync_writes"`
	MemTableSize int64  `json:"mem_table_size"`
}

// Config 转换目录配置实现
type Config struct {
	options *CatalogOptions
}

// New 创建转换目录配置，dataDir 为应用数据目录
func New(userConfig *types.UserCatalogConfig, dataDir string) *Config {
	options := &CatalogOptions{
		Enabled:      defaultEnabled,
		Path:         filepath.Join(dataDir, defaultDirName),
		SyncWrites:   defaultSyncWrites,
		MemTableSize: defaultMemTableSize,
	}

	if userConfig != nil {
		if userConfig.Enabled != nil {
			options.Enabled = *userConfig.Enabled
		}
		if userConfig.Path != nil && *userConfig.Path != "" {
			options.Path = *userConfig.Path
		}
		if userConfig.InMemory != nil {
			options.InMemory = *userConfig.InMemory
		}
		if userConfig.SyncWrites != nil {
			options.SyncWrites = *userConfig.SyncWrites
		}
	}

	return &Config{options: options}
}

// GetOptions 获取完整配置
func (c *Config) GetOptions() *CatalogOptions {
	return c.options
}

// IsEnabled 是否启用
func (c *Config) IsEnabled() bool {
	return c.options.Enabled
}

// GetPath 目录库路径
func (c *Config) GetPath() string {
	return c.options.Path
}

// IsInMemory 是否仅在内存中运行（测试、一次性转换）
func (c *Config) IsInMemory() bool {
	return c.options.InMemory
}

// IsSyncWritesEnabled 是否同步写入
func (c *Config) IsSyncWritesEnabled() bool {
	return c.options.SyncWrites
}

// GetMemTableSize 内存表大小
func (c *Config) GetMemTableSize() int64 {
	return c.options.MemTableSize
}
