// Package converter 实现采集参数转换流水线
//
// 流水线步骤：定位 → 摘要比对 → 读取 → 编码（含 JSON schema 校验）→ 原子写出 → 记录目录。
// 读取失败原样向上传递，调用方仍可用 errors.Is(err, types.ErrReadFailed) 判断。
package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	converterconfig "github.com/nmrml/converter/internal/config/converter"
	"github.com/nmrml/converter/internal/core/acquisition"
	"github.com/nmrml/converter/internal/core/acquisition/bruker"
	"github.com/nmrml/converter/internal/core/acquisition/paramfile"
	"github.com/nmrml/converter/internal/core/acquisition/varian"
	"github.com/nmrml/converter/internal/core/encoding"
	logimpl "github.com/nmrml/converter/internal/core/infrastructure/log"
	"github.com/nmrml/converter/internal/core/infrastructure/metrics"
	catalogInterface "github.com/nmrml/converter/pkg/interfaces/infrastructure/catalog"
	"github.com/nmrml/converter/pkg/interfaces/infrastructure/event"
	"github.com/nmrml/converter/pkg/interfaces/infrastructure/log"
	"github.com/nmrml/converter/pkg/types"
)

// StdoutPath 输出到标准输出
const StdoutPath = "-"

// Status 转换结果状态
type Status string

const (
	StatusCompleted Status = "completed"
	StatusSkipped   Status = "skipped"
)

// Request 转换请求
type Request struct {
	Input  string             // 实验目录或参数文件
	Output string             // 输出文件；为空或 "-" 时写到标准输出
	Format string             // 输出格式 xml | json，为空时取配置
	Vendor types.SourceFormat // 强制厂商格式，为空时自动识别
}

// Result 转换结果
type Result struct {
	RunID       string
	Source      string
	Output      string
	Format      string
	Vendor      types.SourceFormat
	Digest      string
	Status      Status
	Duration    time.Duration
	Acquisition *types.Acquisition // 跳过时为 nil
}

// Converter 转换流水线
type Converter struct {
	config   *converterconfig.Config
	factory  *acquisition.Factory
	maxSize  int64
	catalog  catalogInterface.Store
	recorder *metrics.Recorder
	bus      event.EventBus
	logger   log.Logger

	stdout   io.Writer
	now      func() time.Time
	newRunID func() string
}

// New 创建转换流水线；catalog、recorder、bus 均可为 nil
func New(config *converterconfig.Config, factory *acquisition.Factory, maxFileSize int64,
	catalog catalogInterface.Store, recorder *metrics.Recorder, bus event.EventBus, logger log.Logger) *Converter {
	return &Converter{
		config:   config,
		factory:  factory,
		maxSize:  maxFileSize,
		catalog:  catalog,
		recorder: recorder,
		bus:      bus,
		logger:   logimpl.WithModule(logger, logimpl.ModuleConverter),
		stdout:   os.Stdout,
		now:      time.Now,
		newRunID: func() string { return uuid.New().String() },
	}
}

// SetStdout 替换标准输出目标
func (c *Converter) SetStdout(w io.Writer) {
	c.stdout = w
}

// Convert 执行一次转换
func (c *Converter) Convert(ctx context.Context, req Request) (*Result, error) {
	start := c.now()
	result, err := c.convert(ctx, req, start)
	if err != nil {
		c.recorder.ObserveConversion(metrics.ResultFailed)
		c.logger.Warnf("转换失败 %s: %v", req.Input, err)
		c.publish(event.EventConversionFailed, &event.ConversionEvent{Source: req.Input, Output: req.Output, Err: err})
		return nil, err
	}
	result.Duration = c.now().Sub(start)

	switch result.Status {
	case StatusSkipped:
		c.recorder.ObserveConversion(metrics.ResultSkipped)
		c.logger.Infof("源未变化，跳过转换: %s", result.Source)
		c.publish(event.EventConversionSkipped, &event.ConversionEvent{RunID: result.RunID, Source: result.Source, Output: result.Output})
	default:
		c.recorder.ObserveConversion(metrics.ResultCompleted)
		c.logger.Infof("转换完成: %s -> %s (%s)", result.Source, displayOutput(result.Output), result.Duration)
		c.publish(event.EventConversionCompleted, &event.ConversionEvent{RunID: result.RunID, Source: result.Source, Output: result.Output})
	}
	return result, nil
}

func (c *Converter) convert(ctx context.Context, req Request, start time.Time) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format := req.Format
	if format == "" {
		format = c.config.GetOutputFormat()
	}
	encoder, err := encoding.ForFormat(format, c.config.IsJSONValidationEnabled())
	if err != nil {
		return nil, err
	}

	source, err := filepath.Abs(req.Input)
	if err != nil {
		return nil, fmt.Errorf("解析输入路径失败: %w", err)
	}
	output := req.Output
	if output == "" {
		output = StdoutPath
	}
	if output != StdoutPath {
		if output, err = filepath.Abs(output); err != nil {
			return nil, fmt.Errorf("解析输出路径失败: %w", err)
		}
	}

	vendor, paramFile, err := c.factory.Locate(source, req.Vendor)
	if err != nil {
		return nil, err
	}
	digest, err := paramfile.Digest(paramFile, c.maxSize)
	if err != nil {
		return nil, types.NewReadError(vendor, source, "open", err)
	}

	result := &Result{
		RunID:  c.newRunID(),
		Source: source,
		Output: output,
		Format: encoder.Name(),
		Vendor: vendor,
		Digest: digest,
	}

	if c.unchanged(ctx, result) {
		result.Status = StatusSkipped
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reader, err := c.factory.NewReader(source, vendor)
	if err != nil {
		return nil, err
	}
	acq, err := reader.Read()
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := encoder.Encode(&buf, acq); err != nil {
		return nil, fmt.Errorf("编码 %s 失败: %w", encoder.Name(), err)
	}

	if output == StdoutPath {
		if _, err := c.stdout.Write(buf.Bytes()); err != nil {
			return nil, fmt.Errorf("写出标准输出失败: %w", err)
		}
	} else if err := writeFileAtomic(output, buf.Bytes()); err != nil {
		return nil, err
	}

	result.Status = StatusCompleted
	result.Acquisition = acq
	c.record(ctx, result, start)
	return result, nil
}

// unchanged 目录中存在同一源与输出、且摘要与格式一致的记录，并且输出文件仍在
func (c *Converter) unchanged(ctx context.Context, result *Result) bool {
	if c.catalog == nil || !c.config.IsSkipUnchangedEnabled() || result.Output == StdoutPath {
		return false
	}
	record, ok, err := c.catalog.Get(ctx, result.Source, result.Output)
	if err != nil {
		c.logger.Warnf("查询转换目录失败: %v", err)
		return false
	}
	if !ok || record.SourceDigest != result.Digest || record.OutputFormat != result.Format {
		return false
	}
	if _, err := os.Stat(result.Output); err != nil {
		return false
	}
	result.RunID = record.RunID
	return true
}

// record 写入转换目录，失败只记录日志
func (c *Converter) record(ctx context.Context, result *Result, at time.Time) {
	if c.catalog == nil || result.Output == StdoutPath {
		return
	}
	err := c.catalog.Put(ctx, &types.ConversionRecord{
		RunID:        result.RunID,
		Source:       result.Source,
		SourceDigest: result.Digest,
		Format:       result.Vendor,
		Output:       result.Output,
		OutputFormat: result.Format,
		ConvertedAt:  at.UTC(),
		Duration:     c.now().Sub(at).String(),
	})
	if err != nil {
		c.logger.Warnf("写入转换目录失败: %v", err)
	}
}

func (c *Converter) publish(eventType event.EventType, payload *event.ConversionEvent) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(eventType, payload)
}

// writeFileAtomic 先写同目录临时文件再改名，失败时不留下半成品
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("写入临时文件失败: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("同步临时文件失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("关闭临时文件失败: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("设置输出文件权限失败: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("写出 %s 失败: %w", path, err)
	}
	return nil
}

func displayOutput(output string) string {
	if output == StdoutPath {
		return "stdout"
	}
	return output
}

// IsReadFailure 错误是否源自采集参数读取
func IsReadFailure(err error) bool {
	return errors.Is(err, types.ErrReadFailed)
}

// OutputName 由输入路径推导输出文件基名（不含扩展名）
//
// Bruker 实验目录通常以实验号命名（如 sucrose/1），此时带上父目录名；
// Varian 的 .fid 目录去掉后缀；直接给出参数文件时以其所在目录为准。
func OutputName(input string) string {
	p := filepath.Clean(input)
	switch filepath.Base(p) {
	case bruker.AcqusFile, varian.ProcparFile:
		p = filepath.Dir(p)
	}
	base := filepath.Base(p)
	base = strings.TrimSuffix(base, ".fid")
	if isDigits(base) {
		if parent := filepath.Base(filepath.Dir(p)); parent != "." && parent != string(filepath.Separator) {
			base = parent + "_" + base
		}
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "acquisition"
	}
	return base
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
