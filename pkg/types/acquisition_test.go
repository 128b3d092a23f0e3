package types

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeAcquisition() *Acquisition {
	return &Acquisition{
		Format:     FormatBruker,
		Dimensions: 1,
		Parameters: AcquisitionParameterSet{NumberOfScans: 16},
		DirectDimension: DirectDimensionParameterSet{
			AcquisitionNucleus:   "1H",
			NumberOfDataPoints:   65536,
			SweepWidth:           Hertz(12019.23),
			IrradiationFrequency: Megahertz(600.13),
		},
		FID: FIDDescriptor{ByteOrder: LittleEndian, Encoding: EncodingInt32},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, completeAcquisition().Validate())

	var nilAcq *Acquisition
	assert.ErrorIs(t, nilAcq.Validate(), ErrIncomplete)

	tests := []struct {
		name   string
		mutate func(a *Acquisition)
		field  string
	}{
		{"format", func(a *Acquisition) { a.Format = FormatUnknown }, "format"},
		{"dimensions", func(a *Acquisition) { a.Dimensions = 0 }, "dimensions"},
		{"scans", func(a *Acquisition) { a.Parameters.NumberOfScans = 0 }, "number_of_scans"},
		{"steady state", func(a *Acquisition) { a.Parameters.NumberOfSteadyStateScans = -1 }, "number_of_steady_state_scans"},
		{"nucleus", func(a *Acquisition) { a.DirectDimension.AcquisitionNucleus = "" }, "acquisition_nucleus"},
		{"points", func(a *Acquisition) { a.DirectDimension.NumberOfDataPoints = 0 }, "number_of_data_points"},
		{"sweep width", func(a *Acquisition) { a.DirectDimension.SweepWidth = Hertz(0) }, "sweep_width"},
		{"frequency", func(a *Acquisition) { a.DirectDimension.IrradiationFrequency = Megahertz(-1) }, "irradiation_frequency"},
		{"encoding", func(a *Acquisition) { a.FID.Encoding = "" }, "fid.encoding"},
		{"byte order", func(a *Acquisition) { a.FID.ByteOrder = "" }, "fid.byte_order"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := completeAcquisition()
			tt.mutate(a)
			err := a.Validate()
			require.ErrorIs(t, err, ErrIncomplete)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestNormalizeNucleus(t *testing.T) {
	tests := map[string]string{
		"1H":    "1H",
		"H1":    "1H",
		"c13":   "13C",
		" 15N ": "15N",
		"Si29":  "29Si",
		"off":   "",
		"":      "",
		"n":     "",
		"H":     "H",
		"1H/2H": "1H/2H",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeNucleus(in), "input %q", in)
	}
}

func TestParseSourceFormat(t *testing.T) {
	f, err := ParseSourceFormat(" TopSpin ")
	require.NoError(t, err)
	assert.Equal(t, FormatBruker, f)

	f, err = ParseSourceFormat("agilent")
	require.NoError(t, err)
	assert.Equal(t, FormatVarian, f)

	_, err = ParseSourceFormat("jeol")
	assert.Error(t, err)
}

func TestReadError(t *testing.T) {
	err := NewReadError(FormatVarian, "/data/procpar", "open", fs.ErrNotExist)

	assert.ErrorIs(t, err, ErrReadFailed)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "varian")

	re, ok := IsReadError(err)
	require.True(t, ok)
	assert.Equal(t, "open", re.Op)

	// 不重复包装
	again := NewReadError(FormatBruker, "/other", "parse", err)
	assert.Same(t, err, again)

	_, ok = IsReadError(errors.New("plain"))
	assert.False(t, ok)
	_, ok = IsReadError(nil)
	assert.False(t, ok)

	bare := &ReadError{Op: "detect", Source: "/x"}
	assert.Contains(t, bare.Error(), "unknown")
}

func TestUnits(t *testing.T) {
	assert.Equal(t, "UO_0000012", Kelvin(298).Unit.Accession)
	assert.InDelta(t, 298.15, CelsiusToKelvin(25), 1e-9)
	assert.True(t, ValueWithUnit{}.IsZero())
	assert.False(t, Seconds(0).IsZero())
	assert.Equal(t, "1.5 second", Seconds(1.5).String())

	// 1H 的 10 µs 90° 脉冲约 5.87 G
	assert.InDelta(t, 5.8717, ExcitationFieldFromPulse(10, "1H"), 1e-3)
	assert.Greater(t, ExcitationFieldFromPulse(10, "15N"), 0.0)
	assert.Zero(t, ExcitationFieldFromPulse(10, "7Li"))
	assert.Zero(t, ExcitationFieldFromPulse(0, "1H"))
}
