// Package cache 提供基于 BigCache 的内存缓存实现
package cache

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"
	cacheconfig "github.com/nmrml/converter/internal/config/cache"
	cacheInterface "github.com/nmrml/converter/pkg/interfaces/infrastructure/cache"
	"github.com/nmrml/converter/pkg/interfaces/infrastructure/log"
)

// expiryHeaderSize 值前缀中存放过期时间（UnixNano）的字节数
const expiryHeaderSize = 8

// ErrClosed 缓存已关闭
var ErrClosed = errors.New("cache closed")

// Store 实现 cache.Store，基于 BigCache
//
// BigCache 只支持全局生命周期，单条目 TTL 通过在值前写入过期时间实现。
type Store struct {
	cache  *bigcache.BigCache
	logger log.Logger
	mutex  sync.RWMutex
	closed bool
}

// New 创建 BigCache 内存缓存
func New(config *cacheconfig.Config, logger log.Logger) (cacheInterface.Store, error) {
	bigCacheConfig := bigcache.DefaultConfig(config.GetLifeWindow())
	bigCacheConfig.CleanWindow = config.GetCleanWindow()
	bigCacheConfig.MaxEntriesInWindow = config.GetMaxEntriesInWindow()
	bigCacheConfig.MaxEntrySize = config.GetMaxEntrySize()
	bigCacheConfig.Shards = config.GetShards()
	bigCacheConfig.HardMaxCacheSize = config.GetHardMaxCacheSize()
	bigCacheConfig.Verbose = false

	cache, err := bigcache.New(context.Background(), bigCacheConfig)
	if err != nil {
		return nil, fmt.Errorf("创建BigCache实例失败: %w", err)
	}

	logger.Debugf("内存缓存已创建: life=%s shards=%d hardMax=%dMB",
		config.GetLifeWindow(), config.GetShards(), config.GetHardMaxCacheSize())

	return &Store{
		cache:  cache,
		logger: logger,
	}, nil
}

// Get 获取缓存值
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return nil, false, ErrClosed
	}

	raw, err := s.cache.Get(key)
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return nil, false, nil
		}
		s.logger.Warnf("获取缓存键[%s]失败: %v", key, err)
		return nil, false, err
	}
	if len(raw) < expiryHeaderSize {
		// 不是本 Store 写入的格式，视为未命中
		_ = s.cache.Delete(key)
		return nil, false, nil
	}

	if expiry := int64(binary.LittleEndian.Uint64(raw[:expiryHeaderSize])); expiry > 0 && time.Now().UnixNano() > expiry {
		_ = s.cache.Delete(key)
		return nil, false, nil
	}

	// BigCache 返回的是拷贝，直接切片即可
	return raw[expiryHeaderSize:], true, nil
}

// Set 设置缓存值，ttl<=0 时使用 BigCache 的全局生命周期
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return ErrClosed
	}

	buf := make([]byte, expiryHeaderSize+len(value))
	if ttl > 0 {
		binary.LittleEndian.PutUint64(buf[:expiryHeaderSize], uint64(time.Now().Add(ttl).UnixNano()))
	}
	copy(buf[expiryHeaderSize:], value)

	if err := s.cache.Set(key, buf); err != nil {
		s.logger.Warnf("设置缓存键[%s]失败: %v", key, err)
		return err
	}
	return nil
}

// Delete 删除缓存值
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return ErrClosed
	}

	if err := s.cache.Delete(key); err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		s.logger.Warnf("删除缓存键[%s]失败: %v", key, err)
		return err
	}
	return nil
}

// Len 当前条目数
func (s *Store) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return 0
	}
	return s.cache.Len()
}

// Close 关闭缓存并释放资源，重复关闭无副作用
func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	stats := s.cache.Stats()
	s.logger.Debugf("关闭内存缓存: 命中 %d, 未命中 %d, 冲突 %d", stats.Hits, stats.Misses, stats.Collisions)
	return s.cache.Close()
}
