// Package cache 提供解析结果缓存的配置
package cache

import (
	"time"

	"github.com/nmrml/converter/pkg/types"
	"github.com/pbnjay/memory"
)

// CacheOptions 缓存配置选项
type CacheOptions struct {
	LifeWindow         time.Duration `json:"life_window"`
	CleanWindow        time.Duration `json:"clean_window"`
	MaxEntriesInWindow int           `json:"max_entries_in_window"`
	MaxEntrySize       int           `json:"max_entry_size"`
	Shards             int           `json:"shards"`
	HardMaxCacheSize   int           `json:"hard_max_cache_size"` // MB
}

// Config 缓存配置实现
type Config struct {
	options *CacheOptions
}

// New 创建缓存配置
func New(userConfig *types.UserCacheConfig) *Config {
	options := &CacheOptions{
		LifeWindow:         defaultLifeWindow,
		CleanWindow:        defaultCleanWindow,
		MaxEntriesInWindow: defaultMaxEntriesInWindow,
		MaxEntrySize:       defaultMaxEntrySize,
		Shards:             defaultShards,
		HardMaxCacheSize:   defaultHardMaxCacheSize(memory.TotalMemory()),
	}

	if userConfig != nil {
		if userConfig.LifeWindow != nil {
			if d, err := time.ParseDuration(*userConfig.LifeWindow); err == nil && d > 0 {
				options.LifeWindow = d
			}
		}
		if userConfig.CleanWindow != nil {
			if d, err := time.ParseDuration(*userConfig.CleanWindow); err == nil && d > 0 {
				options.CleanWindow = d
			}
		}
		if userConfig.MaxEntriesInWindow != nil && *userConfig.MaxEntriesInWindow > 0 {
			options.MaxEntriesInWindow = *userConfig.MaxEntriesInWindow
		}
		if userConfig.MaxEntrySize != nil && *userConfig.MaxEntrySize > 0 {
			options.MaxEntrySize = *userConfig.MaxEntrySize
		}
		if userConfig.HardMaxCacheSize != nil && *userConfig.HardMaxCacheSize >= 0 {
			options.HardMaxCacheSize = *userConfig.HardMaxCacheSize
		}
	}

	return &Config{options: options}
}

// defaultHardMaxCacheSize 按物理内存的 1/64 确定缓存硬上限（MB）
// 无法获取物理内存时返回下限
func defaultHardMaxCacheSize(totalBytes uint64) int {
	if totalBytes == 0 {
		return minHardCacheSizeMB
	}
	mb := int(totalBytes / 64 / 1024 / 1024)
	if mb < minHardCacheSizeMB {
		return minHardCacheSizeMB
	}
	if mb > maxHardCacheSizeMB {
		return maxHardCacheSizeMB
	}
	return mb
}

// GetOptions 获取完整配置
func (c *Config) GetOptions() *CacheOptions {
	return c.options
}

// GetLifeWindow 条目生命周期
func (c *Config) GetLifeWindow() time.Duration {
	return c.options.LifeWindow
}

// GetCleanWindow 清理间隔
func (c *Config) GetCleanWindow() time.Duration {
	return c.options.CleanWindow
}

// GetMaxEntriesInWindow 预估条目数
func (c *Config) GetMaxEntriesInWindow() int {
	return c.options.MaxEntriesInWindow
}

// GetMaxEntrySize 单条目预估大小
func (c *Config) GetMaxEntrySize() int {
	return c.options.MaxEntrySize
}

// GetShards 分片数
func (c *Config) GetShards() int {
	return c.options.Shards
}

// GetHardMaxCacheSize 硬上限（MB），0 表示不限
func (c *Config) GetHardMaxCacheSize() int {
	return c.options.HardMaxCacheSize
}
