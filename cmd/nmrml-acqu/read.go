package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/nmrml/converter/internal/app"
	"github.com/nmrml/converter/pkg/types"
)

// 输出格式
const (
	outputTable = "table"
	outputJSON  = "json"
)

func (c *cli) readCmd() *cobra.Command {
	var (
		output string
		vendor string
	)
	cmd := &cobra.Command{
		Use:   "read <path>",
		Short: "读取并打印采集参数",
		Long:  "读取实验目录或参数文件中的采集参数。终端上以表格显示，否则输出 JSON。",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseVendor(vendor)
			if err != nil {
				return err
			}
			if output == "" {
				output = outputJSON
				if c.isTerminal() {
					output = outputTable
				}
			}
			if output != outputTable && output != outputJSON {
				return fmt.Errorf("未知的输出格式: %q", output)
			}

			return c.withApp(func(a *app.App) error {
				reader, err := a.Factory.NewReader(args[0], format)
				if err != nil {
					return err
				}
				acq, err := reader.Read()
				if err != nil {
					return err
				}
				if output == outputTable {
					return c.printTable(acq)
				}
				return c.printJSON(acq)
			}, app.WithoutCatalog())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "输出格式: table|json (默认终端为 table)")
	cmd.Flags().StringVar(&vendor, "vendor", "", "强制数据格式: bruker|varian")
	return cmd
}

func (c *cli) printJSON(v interface{}) error {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTable 以两列表格打印采集参数，未设置的项不显示
func (c *cli) printTable(acq *types.Acquisition) error {
	p := acq.Parameters
	d := acq.DirectDimension

	data := pterm.TableData{{"参数", "值"}}
	add := func(name, value string) {
		if value != "" {
			data = append(data, []string{name, value})
		}
	}
	unit := func(v types.ValueWithUnit) string {
		if v.IsZero() {
			return ""
		}
		return v.String()
	}

	add("格式", string(acq.Format))
	add("维度", strconv.Itoa(acq.Dimensions))
	add("观测核", d.AcquisitionNucleus)
	if d.Decoupled {
		add("去偶核", d.DecouplingNucleus)
	}
	add("数据点数", strconv.Itoa(d.NumberOfDataPoints))
	add("扫描次数", strconv.Itoa(p.NumberOfScans))
	add("稳态扫描", strconv.Itoa(p.NumberOfSteadyStateScans))
	add("谱宽", unit(d.SweepWidth))
	add("观测频率", unit(d.IrradiationFrequency))
	add("频率偏移", unit(d.IrradiationFrequencyOffset))
	add("脉冲宽度", unit(d.PulseWidth))
	add("激发场强", unit(d.EffectiveExcitationField))
	add("采集模式", d.AcquisitionMode)
	add("温度", unit(p.SampleAcquisitionTemperature))
	add("转速", unit(p.SpinningRate))
	add("弛豫延迟", unit(p.RelaxationDelay))
	add("脉冲序列", p.PulseSequence)
	add("成形脉冲", strings.Join(p.ShapedPulseFiles, ", "))
	add("群延迟", strconv.FormatFloat(p.GroupDelay, 'g', -1, 64))
	add("接收增益", strconv.FormatFloat(p.ReceiverGain, 'g', -1, 64))
	add("溶剂", p.Solvent)
	add("谱仪", acq.Instrument.Name)
	add("探头", acq.Instrument.ProbeHead)
	add("控制台", acq.Instrument.Console)
	add("软件", strings.TrimSpace(acq.Software.Name+" "+acq.Software.Version))
	add("标题", acq.Provenance.Title)
	add("操作者", acq.Provenance.Owner)
	if !acq.Provenance.AcquiredAt.IsZero() {
		add("采集时间", acq.Provenance.AcquiredAt.Format("2006-01-02 15:04:05 MST"))
	}
	add("FID", fmt.Sprintf("%s (%s, %s)", acq.FID.Path, acq.FID.Encoding, acq.FID.ByteOrder))

	out, err := pterm.DefaultTable.WithHasHeader(true).WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.stdout, out)
	return err
}
