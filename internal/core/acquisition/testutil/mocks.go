package testutil

import (
	"sync"

	"github.com/nmrml/converter/pkg/types"
)

// StubReader 按预设序列返回结果的读取器，记录调用次数
type StubReader struct {
	mu      sync.Mutex
	results []StubResult
	calls   int
}

// StubResult 一次 Read 的结果
type StubResult struct {
	Acquisition *types.Acquisition
	Err         error
}

// NewStubReader 创建桩读取器，调用次数超过序列长度时重复最后一个结果
func NewStubReader(results ...StubResult) *StubReader {
	return &StubReader{results: results}
}

// Read 实现 acquisition.Reader
func (s *StubReader) Read() (*types.Acquisition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.calls
	s.calls++
	if len(s.results) == 0 {
		return nil, types.NewReadError(types.FormatUnknown, "stub", "read", nil)
	}
	if idx >= len(s.results) {
		idx = len(s.results) - 1
	}
	r := s.results[idx]
	return r.Acquisition, r.Err
}

// Calls 已调用次数
func (s *StubReader) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// CompleteAcquisition 返回一份通过校验的采集参数
func CompleteAcquisition(format types.SourceFormat) *types.Acquisition {
	return &types.Acquisition{
		Format:     format,
		Dimensions: 1,
		SourcePath: "/data/exp/1/acqus",
		Parameters: types.AcquisitionParameterSet{
			NumberOfScans:                16,
			NumberOfSteadyStateScans:     2,
			SampleAcquisitionTemperature: types.Kelvin(298.1),
			RelaxationDelay:              types.Seconds(2),
			PulseSequence:                "zg30",
		},
		DirectDimension: types.DirectDimensionParameterSet{
			AcquisitionNucleus:   "1H",
			NumberOfDataPoints:   65536,
			SweepWidth:           types.Hertz(12019.23),
			IrradiationFrequency: types.Megahertz(600.13),
			PulseWidth:           types.Microseconds(9.5),
			SamplingStrategy:     types.SamplingUniform,
		},
		Software: types.Software{Name: "TopSpin", Version: "3.2"},
		FID: types.FIDDescriptor{
			Path:      "/data/exp/1/fid",
			ByteOrder: types.LittleEndian,
			Encoding:  types.EncodingInt32,
		},
	}
}
