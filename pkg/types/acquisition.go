// Package types 定义采集参数领域模型与通用类型
package types

import (
	"fmt"
	"strings"
	"time"
)

// SourceFormat 采集数据的厂商格式
type SourceFormat string

const (
	FormatUnknown SourceFormat = ""
	FormatBruker  SourceFormat = "bruker" // TopSpin acqus (JCAMP-DX)
	FormatVarian  SourceFormat = "varian" // VnmrJ procpar
)

// ParseSourceFormat 解析格式名称（大小写不敏感）
func ParseSourceFormat(s string) (SourceFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bruker", "topspin":
		return FormatBruker, nil
	case "varian", "agilent", "vnmrj":
		return FormatVarian, nil
	default:
		return FormatUnknown, fmt.Errorf("未知的数据格式: %q", s)
	}
}

// ByteOrder FID 数据的字节序
type ByteOrder string

const (
	LittleEndian ByteOrder = "little"
	BigEndian    ByteOrder = "big"
)

// SampleEncoding FID 采样点的数值编码
type SampleEncoding string

const (
	EncodingInt16   SampleEncoding = "int16"
	EncodingInt32   SampleEncoding = "int32"
	EncodingFloat64 SampleEncoding = "float64"
)

// SamplingStrategy 直接维度的采样策略
type SamplingStrategy string

const (
	SamplingUniform SamplingStrategy = "uniform"
)

// Acquisition 一次 NMR 测量的采集参数描述
//
// 由 acquisition.Reader 一次性完整产出；字段含义对应 nmrML 的 AcquisitionType。
type Acquisition struct {
	Format     SourceFormat `json:"format"`
	Dimensions int          `json:"dimensions"`
	SourcePath string       `json:"source_path"`

	Parameters      AcquisitionParameterSet     `json:"acquisition_parameter_set"`
	DirectDimension DirectDimensionParameterSet `json:"direct_dimension_parameter_set"`

	Instrument Instrument    `json:"instrument"`
	Software   Software      `json:"software"`
	Provenance Provenance    `json:"provenance"`
	FID        FIDDescriptor `json:"fid"`
}

// AcquisitionParameterSet 与维度无关的采集参数
type AcquisitionParameterSet struct {
	NumberOfScans                int           `json:"number_of_scans"`
	NumberOfSteadyStateScans     int           `json:"number_of_steady_state_scans"`
	SampleAcquisitionTemperature ValueWithUnit `json:"sample_acquisition_temperature,omitzero"`
	SpinningRate                 ValueWithUnit `json:"spinning_rate,omitzero"`
	RelaxationDelay              ValueWithUnit `json:"relaxation_delay,omitzero"`
	PulseSequence                string        `json:"pulse_sequence"`
	ShapedPulseFiles             []string      `json:"shaped_pulse_files,omitempty"`
	GroupDelay                   float64       `json:"group_delay"`
	ReceiverGain                 float64       `json:"receiver_gain"`
	Solvent                      string        `json:"solvent,omitempty"`
	SampleContainer              string        `json:"sample_container,omitempty"`
}

// DirectDimensionParameterSet 直接（观测）维度参数
type DirectDimensionParameterSet struct {
	AcquisitionNucleus         string           `json:"acquisition_nucleus"`
	DecouplingNucleus          string           `json:"decoupling_nucleus,omitempty"`
	Decoupled                  bool             `json:"decoupled"`
	NumberOfDataPoints         int              `json:"number_of_data_points"`
	SweepWidth                 ValueWithUnit    `json:"sweep_width"`
	IrradiationFrequency       ValueWithUnit    `json:"irradiation_frequency"`
	IrradiationFrequencyOffset ValueWithUnit    `json:"irradiation_frequency_offset"`
	PulseWidth                 ValueWithUnit    `json:"pulse_width,omitzero"`
	EffectiveExcitationField   ValueWithUnit    `json:"effective_excitation_field,omitzero"`
	SamplingStrategy           SamplingStrategy `json:"sampling_strategy"`
	AcquisitionMode            string           `json:"acquisition_mode,omitempty"`
}

// Instrument 谱仪信息
type Instrument struct {
	Name      string `json:"name,omitempty"`
	ProbeHead string `json:"probe_head,omitempty"`
	Console   string `json:"console,omitempty"`
}

// Software 采集软件
type Software struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// Provenance 测量来源信息
type Provenance struct {
	Owner      string    `json:"owner,omitempty"`
	Title      string    `json:"title,omitempty"`
	Origin     string    `json:"origin,omitempty"`
	AcquiredAt time.Time `json:"acquired_at,omitempty"`
}

// FIDDescriptor 原始 FID 文件描述（不读取采样数据本身）
type FIDDescriptor struct {
	Path      string         `json:"path"`
	ByteOrder ByteOrder      `json:"byte_order"`
	Encoding  SampleEncoding `json:"encoding"`
}

// Validate 检查采集参数是否完整
// 读取器在返回结果前调用，任何缺失都使结果被拒绝而不是部分返回
func (a *Acquisition) Validate() error {
	if a == nil {
		return fmt.Errorf("%w: 采集参数为空", ErrIncomplete)
	}

	var missing []string
	if a.Format == FormatUnknown {
		missing = append(missing, "format")
	}
	if a.Dimensions < 1 {
		missing = append(missing, "dimensions")
	}
	if a.Parameters.NumberOfScans <= 0 {
		missing = append(missing, "number_of_scans")
	}
	if a.Parameters.NumberOfSteadyStateScans < 0 {
		missing = append(missing, "number_of_steady_state_scans")
	}
	if a.DirectDimension.AcquisitionNucleus == "" {
		missing = append(missing, "acquisition_nucleus")
	}
	if a.DirectDimension.NumberOfDataPoints <= 0 {
		missing = append(missing, "number_of_data_points")
	}
	if a.DirectDimension.SweepWidth.Value <= 0 {
		missing = append(missing, "sweep_width")
	}
	if a.DirectDimension.IrradiationFrequency.Value <= 0 {
		missing = append(missing, "irradiation_frequency")
	}
	if a.FID.Encoding == "" {
		missing = append(missing, "fid.encoding")
	}
	if a.FID.ByteOrder == "" {
		missing = append(missing, "fid.byte_order")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: 缺少字段 %s", ErrIncomplete, strings.Join(missing, ", "))
	}
	return nil
}

// IsMultiDimensional 是否为多维采集
func (a *Acquisition) IsMultiDimensional() bool {
	return a.Dimensions > 1
}

// NormalizeNucleus 统一核素写法为 "质量数+元素"，如 "H1"、"1h" 均为 "1H"
// "off"、"none" 与空串表示无核素，返回 ""
func NormalizeNucleus(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "off", "none", "n":
		return ""
	}

	var digits, letters strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			letters.WriteRune(r)
		default:
			return s
		}
	}
	if digits.Len() == 0 || letters.Len() == 0 {
		return s
	}
	element := strings.ToLower(letters.String())
	return digits.String() + strings.ToUpper(element[:1]) + element[1:]
}
