package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nmrml/converter/internal/app"
	"github.com/nmrml/converter/internal/core/converter"
)

func (c *cli) convertCmd() *cobra.Command {
	var (
		out    string
		format string
		vendor string
	)
	cmd := &cobra.Command{
		Use:   "convert <path>...",
		Short: "转换为 nmrML（XML）或 JSON",
		Long: `转换一个或多个实验目录。

单个输入时 --out 可以是文件、已存在的目录或省略（写到标准输出）；
多个输入时 --out 必须是目录，输出文件名由输入路径推导。`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sourceFormat, err := parseVendor(vendor)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return c.withApp(func(a *app.App) error {
				if len(args) == 1 && !isDir(out) {
					return c.convertOne(ctx, a, converter.Request{
						Input:  args[0],
						Output: out,
						Format: format,
						Vendor: sourceFormat,
					})
				}
				if out == "" {
					return fmt.Errorf("多个输入需要用 --out 指定输出目录")
				}
				return c.convertMany(ctx, a, args, converter.BatchOptions{
					OutDir: out,
					Format: format,
					Vendor: sourceFormat,
				})
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "输出文件或目录 (单个输入时省略则写到标准输出)")
	cmd.Flags().StringVar(&format, "format", "", "输出格式: xml|json (默认取配置)")
	cmd.Flags().StringVar(&vendor, "vendor", "", "强制数据格式: bruker|varian")
	return cmd
}

func (c *cli) convertOne(ctx context.Context, a *app.App, req converter.Request) error {
	result, err := a.Converter.Convert(ctx, req)
	if err != nil {
		return err
	}
	// 写到标准输出时摘要改写到 stderr
	w := c.stdout
	if result.Output == converter.StdoutPath {
		w = c.stderr
	}
	fmt.Fprintf(w, "%-9s %s -> %s\n", result.Status, result.Source, result.Output)
	return nil
}

func (c *cli) convertMany(ctx context.Context, a *app.App, inputs []string, opts converter.BatchOptions) error {
	items, err := a.Converter.ConvertAll(ctx, inputs, opts)
	if err != nil {
		return err
	}

	var firstErr error
	failed := 0
	for _, item := range items {
		if item.Err != nil {
			failed++
			if firstErr == nil {
				firstErr = item.Err
			}
			fmt.Fprintf(c.stdout, "%-9s %s: %v\n", "failed", item.Input, item.Err)
			continue
		}
		fmt.Fprintf(c.stdout, "%-9s %s -> %s\n", item.Result.Status, item.Result.Source, item.Result.Output)
	}
	if failed > 0 {
		return fmt.Errorf("%d/%d 个输入转换失败: %w", failed, len(items), firstErr)
	}
	return nil
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(filepath.Clean(path))
	return err == nil && info.IsDir()
}
