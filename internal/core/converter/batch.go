package converter

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/nmrml/converter/internal/core/encoding"
	"github.com/nmrml/converter/pkg/types"
)

// BatchItem 批量转换中单个输入的结果
type BatchItem struct {
	Input  string
	Result *Result
	Err    error
}

// BatchOptions 批量转换参数
type BatchOptions struct {
	OutDir string             // 输出目录，必填
	Format string             // 输出格式，为空时取配置
	Vendor types.SourceFormat // 强制厂商格式
}

// ConvertAll 并发转换多个输入，单个失败不影响其它输入
//
// 结果顺序与 inputs 一致；并发数取配置 workers。
// ctx 取消后尚未开始的输入直接以 ctx.Err() 结束。
func (c *Converter) ConvertAll(ctx context.Context, inputs []string, opts BatchOptions) ([]BatchItem, error) {
	if opts.OutDir == "" {
		return nil, fmt.Errorf("批量转换需要输出目录")
	}
	format := opts.Format
	if format == "" {
		format = c.config.GetOutputFormat()
	}
	encoder, err := encoding.ForFormat(format, false)
	if err != nil {
		return nil, err
	}

	outputs := outputPaths(inputs, opts.OutDir, encoder.Extension())
	items := make([]BatchItem, len(inputs))

	var g errgroup.Group
	g.SetLimit(max(c.config.GetWorkers(), 1))
	for i, input := range inputs {
		i, input := i, input
		items[i].Input = input
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				items[i].Err = err
				return nil
			}
			items[i].Result, items[i].Err = c.Convert(ctx, Request{
				Input:  input,
				Output: outputs[i],
				Format: format,
				Vendor: opts.Vendor,
			})
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, item := range items {
		if item.Err != nil {
			failed++
		}
	}
	c.logger.Infof("批量转换结束: 共 %d 个，失败 %d 个", len(items), failed)
	return items, nil
}

// outputPaths 为每个输入分配输出文件，重名时追加序号，直到名称未被占用
func outputPaths(inputs []string, outDir, ext string) []string {
	used := make(map[string]bool, len(inputs))
	out := make([]string, len(inputs))
	for i, input := range inputs {
		base := OutputName(input)
		name := base
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s-%d", base, n)
		}
		used[name] = true
		out[i] = filepath.Join(outDir, name+ext)
	}
	return out
}
