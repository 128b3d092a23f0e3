package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nmrml/converter/configs"
	"github.com/nmrml/converter/internal/core/acquisition"
	"github.com/nmrml/converter/pkg/types"
)

func (c *cli) detectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <path>",
		Short: "识别数据格式",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := acquisition.Detector{}.Detect(args[0])
			if err != nil {
				return types.NewReadError(types.FormatUnknown, args[0], "detect", err)
			}
			_, err = fmt.Fprintln(c.stdout, format)
			return err
		},
	}
}

func (c *cli) formatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "列出支持的数据格式",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, format := range acquisition.SupportedFormats() {
				if _, err := fmt.Fprintln(c.stdout, format); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (c *cli) exampleConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example-config",
		Short: "打印示例配置文件",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.stdout.Write(configs.Example())
			return err
		},
	}
}
