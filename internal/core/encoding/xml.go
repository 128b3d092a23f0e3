package encoding

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/nmrml/converter/pkg/types"
)

// nmrML 受控词表引用
const (
	nmrCVRef              = "NMR"
	uniformSamplingAccess = "NMR:1000348"
	uniformSamplingName   = "uniform sampling"
	nucleusCVRef          = "CHEBI"
)

var byteFormats = map[types.SampleEncoding]string{
	types.EncodingInt16:   "Integer16",
	types.EncodingInt32:   "Integer32",
	types.EncodingFloat64: "Float64",
}

// XMLEncoder nmrML <acquisition> 片段编码器
type XMLEncoder struct {
	Indent string
}

// Name 实现 Encoder
func (XMLEncoder) Name() string { return FormatXML }

// Extension 实现 Encoder
func (XMLEncoder) Extension() string { return ".nmrML" }

// Encode 实现 Encoder
func (e XMLEncoder) Encode(w io.Writer, acq *types.Acquisition) error {
	if acq == nil {
		return fmt.Errorf("采集参数为空")
	}
	doc := buildAcquisition(acq)

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", e.Indent)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("XML 编码失败: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

type xmlAcquisition struct {
	XMLName xml.Name           `xml:"acquisition"`
	OneD    *xmlAcquisitionDim `xml:"acquisition1D,omitempty"`
	MultiD  *xmlAcquisitionDim `xml:"acquisitionMultiD,omitempty"`
}

type xmlAcquisitionDim struct {
	ParameterSet xmlParameterSet `xml:"acquisitionParameterSet"`
	FIDData      xmlFIDData      `xml:"fidData"`
}

type xmlParameterSet struct {
	NumberOfScans            int `xml:"numberOfScans,attr"`
	NumberOfSteadyStateScans int `xml:"numberOfSteadyStateScans,attr"`
	Dimensions               int `xml:"numberOfDimensions,attr,omitempty"`

	SoftwareRef                  *xmlSoftware       `xml:"software,omitempty"`
	SampleContainer              *xmlCVTerm         `xml:"sampleContainer,omitempty"`
	SampleAcquisitionTemperature *xmlValueWithUnit  `xml:"sampleAcquisitionTemperature,omitempty"`
	SolventType                  *xmlCVTerm         `xml:"solventType,omitempty"`
	SpinningRate                 *xmlValueWithUnit  `xml:"spinningRate,omitempty"`
	RelaxationDelay              *xmlValueWithUnit  `xml:"relaxationDelay,omitempty"`
	PulseSequence                *xmlParamGroup     `xml:"pulseSequence,omitempty"`
	ShapedPulseFiles             []xmlShapedPulse   `xml:"shapedPulseFile"`
	GroupDelay                   *xmlValue          `xml:"groupDelay,omitempty"`
	ReceiverGain                 *xmlValue          `xml:"receiverGain,omitempty"`
	Instrument                   *xmlParamGroup     `xml:"instrumentConfiguration,omitempty"`
	Provenance                   *xmlParamGroup     `xml:"provenance,omitempty"`
	Direct                       xmlDirectDimension `xml:"DirectDimensionParameterSet"`
}

type xmlDirectDimension struct {
	Decoupled          bool `xml:"decoupled,attr"`
	NumberOfDataPoints int  `xml:"numberOfDataPoints,attr"`

	AcquisitionNucleus         xmlCVTerm         `xml:"acquisitionNucleus"`
	EffectiveExcitationField   *xmlValueWithUnit `xml:"effectiveExcitationField,omitempty"`
	SweepWidth                 xmlValueWithUnit  `xml:"sweepWidth"`
	PulseWidth                 *xmlValueWithUnit `xml:"pulseWidth,omitempty"`
	IrradiationFrequency       xmlValueWithUnit  `xml:"irradiationFrequency"`
	IrradiationFrequencyOffset *xmlValueWithUnit `xml:"irradiationFrequencyOffset,omitempty"`
	DecouplingNucleus          *xmlCVTerm        `xml:"decouplingNucleus,omitempty"`
	SamplingStrategy           xmlCVTerm         `xml:"samplingStrategy"`
	AcquisitionMode            *xmlUserParam     `xml:"userParam,omitempty"`
}

type xmlValueWithUnit struct {
	Value         string `xml:"value,attr"`
	UnitAccession string `xml:"unitAccession,attr"`
	UnitName      string `xml:"unitName,attr"`
	UnitCvRef     string `xml:"unitCvRef,attr"`
}

type xmlValue struct {
	Value string `xml:"value,attr"`
}

type xmlCVTerm struct {
	CvRef     string `xml:"cvRef,attr,omitempty"`
	Accession string `xml:"accession,attr,omitempty"`
	Name      string `xml:"name,attr"`
}

type xmlUserParam struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type xmlParamGroup struct {
	UserParams []xmlUserParam `xml:"userParam"`
}

type xmlShapedPulse struct {
	Name string `xml:"name,attr"`
}

type xmlSoftware struct {
	Name    string `xml:"name,attr"`
	Version string `xml:"version,attr,omitempty"`
}

type xmlFIDData struct {
	ByteFormat string `xml:"byteFormat,attr"`
	ByteOrder  string `xml:"byteOrder,attr"`
	Compressed bool   `xml:"compressed,attr"`
	Source     string `xml:"sourceFile,attr,omitempty"`
}

func buildAcquisition(acq *types.Acquisition) *xmlAcquisition {
	p := acq.Parameters
	d := acq.DirectDimension

	set := xmlParameterSet{
		NumberOfScans:                p.NumberOfScans,
		NumberOfSteadyStateScans:     p.NumberOfSteadyStateScans,
		SampleAcquisitionTemperature: optionalUnit(p.SampleAcquisitionTemperature),
		SpinningRate:                 optionalUnit(p.SpinningRate),
		RelaxationDelay:              optionalUnit(p.RelaxationDelay),
		GroupDelay:                   &xmlValue{Value: formatFloat(p.GroupDelay)},
		ReceiverGain:                 &xmlValue{Value: formatFloat(p.ReceiverGain)},
		Direct: xmlDirectDimension{
			Decoupled:                  d.Decoupled,
			NumberOfDataPoints:         d.NumberOfDataPoints,
			AcquisitionNucleus:         xmlCVTerm{CvRef: nucleusCVRef, Name: d.AcquisitionNucleus},
			EffectiveExcitationField:   optionalUnit(d.EffectiveExcitationField),
			SweepWidth:                 unitValue(d.SweepWidth),
			PulseWidth:                 optionalUnit(d.PulseWidth),
			IrradiationFrequency:       unitValue(d.IrradiationFrequency),
			IrradiationFrequencyOffset: optionalUnit(d.IrradiationFrequencyOffset),
			SamplingStrategy:           samplingTerm(d.SamplingStrategy),
		},
	}
	if acq.IsMultiDimensional() {
		set.Dimensions = acq.Dimensions
	}
	if acq.Software.Name != "" {
		set.SoftwareRef = &xmlSoftware{Name: acq.Software.Name, Version: acq.Software.Version}
	}
	if p.SampleContainer != "" {
		set.SampleContainer = &xmlCVTerm{Name: p.SampleContainer}
	}
	if p.Solvent != "" {
		set.SolventType = &xmlCVTerm{Name: p.Solvent}
	}
	if p.PulseSequence != "" {
		set.PulseSequence = &xmlParamGroup{UserParams: []xmlUserParam{{Name: "pulseSequenceName", Value: p.PulseSequence}}}
	}
	for _, name := range p.ShapedPulseFiles {
		set.ShapedPulseFiles = append(set.ShapedPulseFiles, xmlShapedPulse{Name: name})
	}
	if d.Decoupled && d.DecouplingNucleus != "" {
		set.Direct.DecouplingNucleus = &xmlCVTerm{CvRef: nucleusCVRef, Name: d.DecouplingNucleus}
	}
	if d.AcquisitionMode != "" {
		set.Direct.AcquisitionMode = &xmlUserParam{Name: "acquisitionMode", Value: d.AcquisitionMode}
	}
	set.Instrument = userParams(
		"instrumentName", acq.Instrument.Name,
		"probeHead", acq.Instrument.ProbeHead,
		"console", acq.Instrument.Console,
	)
	var acquired string
	if !acq.Provenance.AcquiredAt.IsZero() {
		acquired = acq.Provenance.AcquiredAt.UTC().Format("2006-01-02T15:04:05Z")
	}
	set.Provenance = userParams(
		"owner", acq.Provenance.Owner,
		"title", acq.Provenance.Title,
		"origin", acq.Provenance.Origin,
		"acquisitionDate", acquired,
	)

	dim := &xmlAcquisitionDim{
		ParameterSet: set,
		FIDData: xmlFIDData{
			ByteFormat: byteFormats[acq.FID.Encoding],
			ByteOrder:  string(acq.FID.ByteOrder),
			Source:     acq.FID.Path,
		},
	}
	if acq.IsMultiDimensional() {
		return &xmlAcquisition{MultiD: dim}
	}
	return &xmlAcquisition{OneD: dim}
}

// userParams 由 name/value 对构造参数组，全部为空时返回 nil
func userParams(pairs ...string) *xmlParamGroup {
	group := &xmlParamGroup{}
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		group.UserParams = append(group.UserParams, xmlUserParam{Name: pairs[i], Value: pairs[i+1]})
	}
	if len(group.UserParams) == 0 {
		return nil
	}
	return group
}

func unitValue(v types.ValueWithUnit) xmlValueWithUnit {
	return xmlValueWithUnit{
		Value:         formatFloat(v.Value),
		UnitAccession: v.Unit.Accession,
		UnitName:      v.Unit.Name,
		UnitCvRef:     types.UnitCVRef,
	}
}

func optionalUnit(v types.ValueWithUnit) *xmlValueWithUnit {
	if v.IsZero() {
		return nil
	}
	out := unitValue(v)
	return &out
}

func samplingTerm(s types.SamplingStrategy) xmlCVTerm {
	if s == types.SamplingUniform || s == "" {
		return xmlCVTerm{CvRef: nmrCVRef, Accession: uniformSamplingAccess, Name: uniformSamplingName}
	}
	return xmlCVTerm{Name: string(s)}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
