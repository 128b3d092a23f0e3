// Package varian 读取 Varian/Agilent VnmrJ .fid 目录的采集参数
package varian

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nmrml/converter/internal/core/acquisition/charset"
	"github.com/nmrml/converter/internal/core/acquisition/paramfile"
	"github.com/nmrml/converter/internal/core/acquisition/procpar"
	logimpl "github.com/nmrml/converter/internal/core/infrastructure/log"
	"github.com/nmrml/converter/pkg/interfaces/acquisition"
	"github.com/nmrml/converter/pkg/interfaces/infrastructure/log"
	"github.com/nmrml/converter/pkg/types"
)

// 文件名
const (
	ProcparFile = "procpar"
	FIDFile     = "fid"
)

// SoftwareName 采集软件名称
const SoftwareName = "VnmrJ"

// Option 读取器选项
type Option func(*Reader)

// WithCharset 参数文件字符集，默认 ISO-8859-1
func WithCharset(cs string) Option {
	return func(r *Reader) {
		if normalized, ok := charset.Normalize(cs); ok {
			r.charset = normalized
		}
	}
}

// WithMaxFileSize 参数文件最大字节数，<= 0 表示不限制
func WithMaxFileSize(n int64) Option {
	return func(r *Reader) { r.maxFileSize = n }
}

// WithLogger 设置日志
func WithLogger(logger log.Logger) Option {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Reader Varian 采集参数读取器
type Reader struct {
	path        string
	charset     string
	maxFileSize int64
	logger      log.Logger
}

var _ acquisition.Reader = (*Reader)(nil)

// NewReader 创建读取器，path 为 .fid 目录或 procpar 文件
func NewReader(path string, opts ...Option) *Reader {
	r := &Reader{
		path:    path,
		charset: charset.Latin1,
		logger:  logimpl.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Source 数据源路径
func (r *Reader) Source() string {
	return r.path
}

// ParameterFile 返回 procpar 文件路径
func (r *Reader) ParameterFile() (string, error) {
	return resolve(r.path)
}

// Read 读取并校验采集参数
func (r *Reader) Read() (*types.Acquisition, error) {
	file, err := resolve(r.path)
	if err != nil {
		return nil, types.NewReadError(types.FormatVarian, r.path, "open", err)
	}

	data, err := paramfile.Read(file, r.maxFileSize, r.charset)
	if err != nil {
		return nil, types.NewReadError(types.FormatVarian, file, "open", err)
	}

	doc, err := procpar.Parse(data)
	if err != nil {
		return nil, types.NewReadError(types.FormatVarian, file, "parse", err)
	}

	acq, err := mapDocument(doc, filepath.Dir(file))
	if err != nil {
		return nil, types.NewReadError(types.FormatVarian, file, "map", err)
	}
	acq.SourcePath = file

	if err := acq.Validate(); err != nil {
		return nil, types.NewReadError(types.FormatVarian, file, "validate", err)
	}

	r.logger.Debugf("读取 Varian 采集参数: %s (%s, %d 点, %d 次扫描)",
		file, acq.DirectDimension.AcquisitionNucleus,
		acq.DirectDimension.NumberOfDataPoints, acq.Parameters.NumberOfScans)
	return acq, nil
}

func resolve(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return filepath.Join(path, ProcparFile), nil
	}
	return path, nil
}

func mapDocument(doc *procpar.Document, dir string) (*types.Acquisition, error) {
	m := &mapper{doc: doc}
	acq := &types.Acquisition{Format: types.FormatVarian}

	// np 为实部与虚部点数之和
	np := m.integer("np", true)
	nucleus := types.NormalizeNucleus(m.str("tn", true))

	decoupled := strings.ContainsRune(strings.ToLower(m.str("dm", false)), 'y')
	var decoupling string
	if decoupled {
		decoupling = types.NormalizeNucleus(m.str("dn", false))
	}

	pw90 := m.number("pw90", false)
	if pw90 <= 0 {
		pw90 = m.number("pw", false)
	}

	acq.DirectDimension = types.DirectDimensionParameterSet{
		AcquisitionNucleus:         nucleus,
		DecouplingNucleus:          decoupling,
		Decoupled:                  decoupled,
		NumberOfDataPoints:         np / 2,
		SweepWidth:                 types.Hertz(m.number("sw", true)),
		IrradiationFrequency:       types.Megahertz(m.number("sfrq", true)),
		IrradiationFrequencyOffset: types.Hertz(m.number("tof", false)),
		SamplingStrategy:           types.SamplingUniform,
	}
	if pw90 > 0 {
		acq.DirectDimension.PulseWidth = types.Microseconds(pw90)
		if field := types.ExcitationFieldFromPulse(pw90, nucleus); field > 0 {
			acq.DirectDimension.EffectiveExcitationField = types.Gauss(field)
		}
	}

	// ss < 0 表示只在第一个增量前执行，个数取绝对值
	ss := m.integer("ss", false)
	if ss < 0 {
		ss = -ss
	}

	var temperature types.ValueWithUnit
	if doc.Active("temp") {
		temperature = types.Kelvin(types.CelsiusToKelvin(m.number("temp", false)))
	}
	var spinning types.ValueWithUnit
	if doc.Active("spin") {
		spinning = types.Hertz(m.number("spin", false))
	}
	var relaxation types.ValueWithUnit
	if doc.Has("d1") {
		relaxation = types.Seconds(m.number("d1", false))
	}

	acq.Parameters = types.AcquisitionParameterSet{
		NumberOfScans:                m.integer("nt", true),
		NumberOfSteadyStateScans:     ss,
		SampleAcquisitionTemperature: temperature,
		SpinningRate:                 spinning,
		RelaxationDelay:              relaxation,
		PulseSequence:                m.str("seqfil", false),
		ReceiverGain:                 m.number("gain", false),
		Solvent:                      m.str("solvent", false),
	}

	acq.Instrument = types.Instrument{
		Name:      m.str("systemname_", false),
		ProbeHead: m.str("probe_", false),
		Console:   m.str("console", false),
	}

	acq.Software = types.Software{Name: SoftwareName}
	if v := m.number("parversion", false); v > 0 {
		acq.Software.Version = strconv.FormatFloat(v, 'f', -1, 64)
	}

	acq.Provenance = types.Provenance{
		Owner:      m.str("operator_", false),
		Title:      firstNonEmpty(m.str("samplename", false), m.str("comment", false)),
		AcquiredAt: acquiredAt(m.str("time_run", false), m.str("date", false)),
	}

	encoding := types.EncodingInt16
	if strings.EqualFold(m.str("dp", false), "y") {
		encoding = types.EncodingInt32
	}
	acq.FID = types.FIDDescriptor{
		Path:      filepath.Join(dir, FIDFile),
		ByteOrder: types.BigEndian,
		Encoding:  encoding,
	}

	acq.Dimensions = 1
	for _, name := range []string{"ni", "ni2", "ni3"} {
		if m.number(name, false) > 1 {
			acq.Dimensions++
		}
	}

	if m.err != nil {
		return nil, m.err
	}
	return acq, nil
}

// acquiredAt time_run 形如 20140303T111029；date 形如 "Mar  3 2014"
func acquiredAt(timeRun, date string) time.Time {
	if t, err := time.Parse("20060102T150405", timeRun); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse("Jan _2 2006", date); err == nil {
		return t.UTC()
	}
	return time.Time{}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// mapper 记录第一个错误，缺失的可选参数取零值
type mapper struct {
	doc *procpar.Document
	err error
}

func (m *mapper) check(required bool, err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, procpar.ErrNotFound) && !required {
		return false
	}
	if m.err == nil {
		m.err = err
	}
	return false
}

func (m *mapper) str(name string, required bool) string {
	v, err := m.doc.String(name)
	if !m.check(required, err) {
		return ""
	}
	return strings.TrimSpace(v)
}

func (m *mapper) number(name string, required bool) float64 {
	v, err := m.doc.Float(name)
	if !m.check(required, err) {
		return 0
	}
	return v
}

func (m *mapper) integer(name string, required bool) int {
	v, err := m.doc.Int(name)
	if !m.check(required, err) {
		return 0
	}
	return v
}
