package cache

import "time"

// 缓存默认配置值
const (
	// defaultLifeWindow 条目生命周期
	defaultLifeWindow = 30 * time.Minute

	// defaultCleanWindow 过期清理间隔
	defaultCleanWindow = 5 * time.Minute

	// defaultMaxEntriesInWindow 预估条目数，决定 BigCache 预分配
	defaultMaxEntriesInWindow = 1024

	// defaultMaxEntrySize 单条目预估大小；一份采集参数 JSON 约 2KB
	defaultMaxEntrySize = 4 * 1024

	// defaultShards 分片数，必须是 2 的幂
	defaultShards = 64

	// maxHardCacheSizeMB 硬上限的封顶值
	maxHardCacheSizeMB = 256

	// minHardCacheSizeMB 硬上限的下限
	minHardCacheSizeMB = 8
)
