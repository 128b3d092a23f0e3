// Package catalog 定义转换目录接口
//
// 转换目录记录每次转换的源、摘要与输出，
// 用于跳过未变化的输入以及查询历史。
package catalog

import (
	"context"

	"github.com/nmrml/converter/pkg/types"
)

// Store 转换目录存储
type Store interface {
	// Put 写入记录，同一 (source, output) 的旧记录被覆盖
	Put(ctx context.Context, record *types.ConversionRecord) error

	// Get 按 (source, output) 查询最近一次记录
	Get(ctx context.Context, source, output string) (*types.ConversionRecord, bool, error)

	// List 列出全部记录
	List(ctx context.Context) ([]*types.ConversionRecord, error)

	// Delete 删除记录
	Delete(ctx context.Context, source, output string) error

	// Close 关闭存储
	Close() error
}
