// Package cache 定义内存缓存接口
//
// 用于缓存已解析的采集参数；缓存只是加速手段，
// 任何缓存错误都不应影响读取结果。
package cache

import (
	"context"
	"time"
)

// Store 字节缓存
type Store interface {
	// Get 获取缓存值，exists=false 表示未命中
	Get(ctx context.Context, key string) (value []byte, exists bool, err error)

	// Set 设置缓存值，ttl<=0 表示使用缓存的默认生命周期
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete 删除缓存值，键不存在不视为错误
	Delete(ctx context.Context, key string) error

	// Len 当前条目数
	Len() int

	// Close 释放缓存资源
	Close() error
}
