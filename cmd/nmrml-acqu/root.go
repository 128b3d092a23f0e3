package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nmrml/converter/internal/app"
	"github.com/nmrml/converter/internal/app/version"
	"github.com/nmrml/converter/pkg/types"
)

// GlobalFlags 全局标志
type GlobalFlags struct {
	ConfigPath  string // 配置文件
	LogLevel    string // 日志级别覆盖
	MetricsFile string // 结束时写出 prometheus 文本格式指标
}

// cli 一次命令执行的上下文
type cli struct {
	flags      GlobalFlags
	stdout     io.Writer
	stderr     io.Writer
	isTerminal func() bool
}

// run 执行命令并返回退出码
func run(args []string, stdout, stderr io.Writer) int {
	c := &cli{
		stdout:     stdout,
		stderr:     stderr,
		isTerminal: func() bool { return isTerminal(stdout) },
	}
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		if errors.Is(err, types.ErrReadFailed) {
			fmt.Fprintf(stderr, "读取采集参数失败: %v\n", err)
		} else {
			fmt.Fprintf(stderr, "错误: %v\n", err)
		}
		return 1
	}
	return 0
}

// rootCmd 根命令
func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "nmrml-acqu",
		Short: "NMR 采集参数读取与 nmrML 转换工具",
		Long: `nmrml-acqu - 读取 NMR 采集参数并转换为 nmrML

支持的数据格式:
- Bruker TopSpin 实验目录（acqus，JCAMP-DX）
- Varian/Agilent VnmrJ .fid 目录（procpar）

配置文件可通过 --config 或环境变量 NMRML_CONFIG 指定（.json / .yaml）。`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(version.GetFullVersion() + "\n")

	root.PersistentFlags().StringVar(&c.flags.ConfigPath, "config", "", "配置文件路径 (默认读取 $NMRML_CONFIG)")
	root.PersistentFlags().StringVar(&c.flags.LogLevel, "log-level", "", "日志级别: debug|info|warn|error")
	root.PersistentFlags().StringVar(&c.flags.MetricsFile, "metrics-file", "", "结束时写出 prometheus 文本格式指标")

	root.AddCommand(c.readCmd())
	root.AddCommand(c.convertCmd())
	root.AddCommand(c.detectCmd())
	root.AddCommand(c.formatsCmd())
	root.AddCommand(c.exampleConfigCmd())
	return root
}

// withApp 启动应用、执行 fn，结束时写出指标并停止应用
func (c *cli) withApp(fn func(a *app.App) error, extra ...app.Option) (err error) {
	opts := append([]app.Option(nil), extra...)
	if c.flags.ConfigPath != "" {
		opts = append(opts, app.WithConfigFile(c.flags.ConfigPath))
	}
	if c.flags.LogLevel != "" {
		opts = append(opts, app.WithLogLevel(c.flags.LogLevel))
	}

	a, err := app.Start(opts...)
	if err != nil {
		return err
	}
	defer func() {
		if stopErr := a.Stop(); stopErr != nil && err == nil {
			err = stopErr
		}
	}()

	err = fn(a)

	if c.flags.MetricsFile != "" {
		if writeErr := a.Recorder.WriteToTextfile(c.flags.MetricsFile); writeErr != nil {
			a.Logger.Warnf("%v", writeErr)
		}
	}
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// parseVendor 解析 --vendor，空串表示自动识别
func parseVendor(s string) (types.SourceFormat, error) {
	if s == "" {
		return types.FormatUnknown, nil
	}
	return types.ParseSourceFormat(s)
}
