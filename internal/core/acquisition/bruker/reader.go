// Package bruker 读取 Bruker TopSpin 实验目录的采集参数
//
// 数据源为实验目录（含 acqus）或 acqus 文件本身。读取器不持有任何打开的文件，
// 每次 Read 都重新读取并解析，可并发使用。
package bruker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/nmrml/converter/internal/core/acquisition/charset"
	"github.com/nmrml/converter/internal/core/acquisition/jcamp"
	"github.com/nmrml/converter/internal/core/acquisition/paramfile"
	logimpl "github.com/nmrml/converter/internal/core/infrastructure/log"
	"github.com/nmrml/converter/pkg/interfaces/acquisition"
	"github.com/nmrml/converter/pkg/interfaces/infrastructure/log"
	"github.com/nmrml/converter/pkg/types"
)

// 文件名
const (
	AcqusFile  = "acqus"
	Acqu2sFile = "acqu2s"
	Acqu3sFile = "acqu3s"
	FIDFile    = "fid"
	SerFile    = "ser"
)

// SoftwareName 采集软件名称
const SoftwareName = "TopSpin"

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

// Reader Bruker 采集参数读取器
type Reader struct {
	path        string
	charset     string
	maxFileSize int64
	logger      log.Logger
}

var _ acquisition.Reader = (*Reader)(nil)

// NewReader 创建读取器，path 为实验目录或 acqus 文件
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

// ParameterFile 返回 acqus 文件路径
func (r *Reader) ParameterFile() (string, error) {
	return resolve(r.path)
}

// SiblingFiles 影响维数与 FID 路径的同目录文件
func (r *Reader) SiblingFiles() []string {
	acqus, err := resolve(r.path)
	if err != nil {
		return nil
	}
	dir := filepath.Dir(acqus)
	return []string{
		filepath.Join(dir, Acqu2sFile),
		filepath.Join(dir, Acqu3sFile),
		filepath.Join(dir, FIDFile),
		filepath.Join(dir, SerFile),
	}
}

// Read 读取并校验采集参数
func (r *Reader) Read() (*types.Acquisition, error) {
	acqus, err := resolve(r.path)
	if err != nil {
		return nil, types.NewReadError(types.FormatBruker, r.path, "open", err)
	}

	data, err := paramfile.Read(acqus, r.maxFileSize, r.charset)
	if err != nil {
		return nil, types.NewReadError(types.FormatBruker, acqus, "open", err)
	}

	doc, err := jcamp.Parse(data)
	if err != nil {
		return nil, types.NewReadError(types.FormatBruker, acqus, "parse", err)
	}

	acq, err := r.mapDocument(doc, filepath.Dir(acqus))
	if err != nil {
		return nil, types.NewReadError(types.FormatBruker, acqus, "map", err)
	}
	acq.SourcePath = acqus

	if err := acq.Validate(); err != nil {
		return nil, types.NewReadError(types.FormatBruker, acqus, "validate", err)
	}

	r.logger.Debugf("读取 Bruker 采集参数: %s (%s, %d 点, %d 次扫描)",
		acqus, acq.DirectDimension.AcquisitionNucleus,
		acq.DirectDimension.NumberOfDataPoints, acq.Parameters.NumberOfScans)
	return acq, nil
}

// resolve 目录取其中的 acqus，文件原样返回
func resolve(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return filepath.Join(path, AcqusFile), nil
	}
	return path, nil
}

func (r *Reader) mapDocument(doc *jcamp.Document, dir string) (*types.Acquisition, error) {
	m := &mapper{doc: doc}

	acq := &types.Acquisition{Format: types.FormatBruker}

	// 直接维度
	nucleus := types.NormalizeNucleus(m.str("NUC1", true))
	decoupling := types.NormalizeNucleus(m.str("NUC2", false))
	pulse := m.numberAt("P", 1)
	acq.DirectDimension = types.DirectDimensionParameterSet{
		AcquisitionNucleus:         nucleus,
		DecouplingNucleus:          decoupling,
		Decoupled:                  decoupling != "",
		NumberOfDataPoints:         m.integer("TD", true),
		SweepWidth:                 types.Hertz(m.number("SW_h", true)),
		IrradiationFrequency:       types.Megahertz(m.number("SFO1", true)),
		IrradiationFrequencyOffset: types.Hertz(m.number("O1", false)),
		SamplingStrategy:           types.SamplingUniform,
		AcquisitionMode:            acquisitionMode(m.integer("AQ_mod", false)),
	}
	// 未记录脉冲宽度时两项都不输出
	if pulse > 0 {
		acq.DirectDimension.PulseWidth = types.Microseconds(pulse)
		if field := types.ExcitationFieldFromPulse(pulse, nucleus); field > 0 {
			acq.DirectDimension.EffectiveExcitationField = types.Gauss(field)
		}
	}

	// 维度无关参数
	acq.Parameters = types.AcquisitionParameterSet{
		NumberOfScans:                m.integer("NS", true),
		NumberOfSteadyStateScans:     m.integer("DS", false),
		SampleAcquisitionTemperature: m.optional("TE", types.Kelvin),
		SpinningRate:                 m.optional("MASR", types.Hertz),
		RelaxationDelay:              m.optionalAt("D", 1, types.Seconds),
		PulseSequence:                m.str("PULPROG", false),
		ShapedPulseFiles:             shapedPulses(m.list("SPNAM")),
		GroupDelay:                   groupDelay(m),
		ReceiverGain:                 m.number("RG", false),
		Solvent:                      m.str("SOLVENT", false),
	}

	acq.Instrument = types.Instrument{
		Name:      m.str("INSTRUM", false),
		ProbeHead: m.str("PROBHD", false),
	}

	title := m.str("TITLE", false)
	acq.Software = software(title)

	acq.Provenance = types.Provenance{
		Owner:  m.str("OWNER", false),
		Origin: m.str("ORIGIN", false),
		Title:  firstNonEmpty(m.str("EXP", false), title),
	}
	if date := m.integer("DATE", false); date > 0 {
		acq.Provenance.AcquiredAt = time.Unix(int64(date), 0).UTC()
	}

	acq.FID.ByteOrder = byteOrder(m.integer("BYTORDA", true))
	acq.FID.Encoding = m.encoding()

	if m.err != nil {
		return nil, m.err
	}

	acq.Dimensions = r.dimensions(m, dir)
	if m.err != nil {
		return nil, m.err
	}
	acq.FID.Path = fidPath(dir, acq.Dimensions)
	return acq, nil
}

// dimensions PARMODE+1；缺少 PARMODE 时按 acqu2s/acqu3s 是否存在推断
func (r *Reader) dimensions(m *mapper, dir string) int {
	extra := 0
	for _, name := range []string{Acqu2sFile, Acqu3sFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			extra++
		}
	}

	if !m.doc.Has("PARMODE") {
		return 1 + extra
	}
	parmode := m.integer("PARMODE", false)
	if parmode < 0 {
		m.fail(fmt.Errorf("PARMODE 非法: %d", parmode))
		return 0
	}
	if parmode != extra {
		r.logger.Warnf("PARMODE=%d 与间接维参数文件数 %d 不一致，以 PARMODE 为准: %s", parmode, extra, dir)
	}
	return parmode + 1
}

// fidPath 一维为 fid，多维为 ser；首选文件不存在而另一个存在时取后者
func fidPath(dir string, dims int) string {
	primary, secondary := FIDFile, SerFile
	if dims > 1 {
		primary, secondary = SerFile, FIDFile
	}
	if _, err := os.Stat(filepath.Join(dir, primary)); err != nil {
		if _, err := os.Stat(filepath.Join(dir, secondary)); err == nil {
			return filepath.Join(dir, secondary)
		}
	}
	return filepath.Join(dir, primary)
}

func acquisitionMode(aqMod int) string {
	switch aqMod {
	case 0:
		return "qf"
	case 1:
		return "qsim"
	case 2:
		return "qseq"
	case 3:
		return "DQD"
	case 4:
		return "parallelQsim"
	case 5:
		return "parallelDQD"
	default:
		return ""
	}
}

func byteOrder(bytorda int) types.ByteOrder {
	if bytorda == 1 {
		return types.BigEndian
	}
	return types.LittleEndian
}

// shapedPulses 去掉空名与默认占位名 gauss，保序去重
func shapedPulses(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	var out []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || strings.EqualFold(name, "gauss") {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

var versionPattern = regexp.MustCompile(`(?i)version\s+(\S+)`)

func software(title string) types.Software {
	sw := types.Software{Name: SoftwareName}
	if strings.Contains(strings.ToUpper(title), "XWIN-NMR") {
		sw.Name = "XWIN-NMR"
	}
	if m := versionPattern.FindStringSubmatch(title); m != nil {
		sw.Version = m[1]
	}
	return sw
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// mapper 记录第一个错误，缺失的可选标签取零值
type mapper struct {
	doc *jcamp.Document
	err error
}

func (m *mapper) fail(err error) {
	if m.err == nil {
		m.err = err
	}
}

func (m *mapper) check(required bool, err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, jcamp.ErrNotFound) && !required {
		return false
	}
	m.fail(err)
	return false
}

func (m *mapper) str(label string, required bool) string {
	v, err := m.doc.String(label)
	if !m.check(required, err) {
		return ""
	}
	return strings.TrimSpace(v)
}

func (m *mapper) integer(label string, required bool) int {
	v, err := m.doc.Int(label)
	if !m.check(required, err) {
		return 0
	}
	return v
}

func (m *mapper) number(label string, required bool) float64 {
	v, err := m.doc.Float(label)
	if !m.check(required, err) {
		return 0
	}
	return v
}

func (m *mapper) numberAt(label string, idx int) float64 {
	v, err := m.doc.FloatAt(label, idx)
	if !m.check(false, err) {
		return 0
	}
	return v
}

// optional 标签存在时才构造带单位的值，缺失时保持零值
func (m *mapper) optional(label string, unit func(float64) types.ValueWithUnit) types.ValueWithUnit {
	if !m.doc.Has(label) {
		return types.ValueWithUnit{}
	}
	return unit(m.number(label, false))
}

func (m *mapper) optionalAt(label string, idx int, unit func(float64) types.ValueWithUnit) types.ValueWithUnit {
	if !m.doc.Has(label) {
		return types.ValueWithUnit{}
	}
	return unit(m.numberAt(label, idx))
}

func (m *mapper) list(label string) []string {
	v, err := m.doc.Strings(label)
	if !m.check(false, err) {
		return nil
	}
	return v
}

// encoding DTYPA: 0 = int32, 2 = float64
func (m *mapper) encoding() types.SampleEncoding {
	dtypa := m.integer("DTYPA", false)
	switch dtypa {
	case 0:
		return types.EncodingInt32
	case 2:
		return types.EncodingFloat64
	default:
		m.fail(fmt.Errorf("不支持的 DTYPA: %d", dtypa))
		return ""
	}
}
