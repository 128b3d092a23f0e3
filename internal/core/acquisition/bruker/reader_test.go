package bruker

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmrml/converter/internal/core/acquisition/jcamp"
	"github.com/nmrml/converter/internal/core/acquisition/paramfile"
	"github.com/nmrml/converter/internal/core/acquisition/testutil"
	"github.com/nmrml/converter/pkg/types"
)

func TestReadMapping(t *testing.T) {
	dir := testutil.WriteBruker(t, filepath.Join(t.TempDir(), "1"), nil)

	acq, err := NewReader(dir).Read()
	require.NoError(t, err)

	assert.Equal(t, types.FormatBruker, acq.Format)
	assert.Equal(t, 1, acq.Dimensions)
	assert.Equal(t, filepath.Join(dir, "acqus"), acq.SourcePath)

	dd := acq.DirectDimension
	assert.Equal(t, "1H", dd.AcquisitionNucleus)
	assert.Empty(t, dd.DecouplingNucleus)
	assert.False(t, dd.Decoupled)
	assert.Equal(t, 65536, dd.NumberOfDataPoints)
	assert.InDelta(t, 12019.2307692308, dd.SweepWidth.Value, 1e-9)
	assert.Equal(t, types.UnitHertz, dd.SweepWidth.Unit)
	assert.InDelta(t, 600.1328246, dd.IrradiationFrequency.Value, 1e-9)
	assert.Equal(t, types.UnitMegahertz, dd.IrradiationFrequency.Unit)
	assert.InDelta(t, 2824.6, dd.IrradiationFrequencyOffset.Value, 1e-9)
	assert.Equal(t, types.Microseconds(9.5), dd.PulseWidth)
	assert.InDelta(t, types.ExcitationFieldFromPulse(9.5, "1H"), dd.EffectiveExcitationField.Value, 1e-12)
	assert.Equal(t, types.UnitGauss, dd.EffectiveExcitationField.Unit)
	assert.Equal(t, types.SamplingUniform, dd.SamplingStrategy)
	assert.Equal(t, "DQD", dd.AcquisitionMode)

	p := acq.Parameters
	assert.Equal(t, 16, p.NumberOfScans)
	assert.Equal(t, 2, p.NumberOfSteadyStateScans)
	assert.Equal(t, types.Kelvin(298.1), p.SampleAcquisitionTemperature)
	assert.Equal(t, types.Hertz(0), p.SpinningRate)
	assert.Equal(t, types.Seconds(2), p.RelaxationDelay)
	assert.Equal(t, "zg30", p.PulseSequence)
	assert.Equal(t, []string{"Sinc1.1000"}, p.ShapedPulseFiles)
	assert.InDelta(t, 67.9841003417969, p.GroupDelay, 1e-9)
	assert.Equal(t, 90.5, p.ReceiverGain)
	assert.Equal(t, "CDCl3", p.Solvent)

	assert.Equal(t, types.Instrument{Name: "spect", ProbeHead: "5 mm PABBO BB/"}, acq.Instrument)
	assert.Equal(t, types.Software{Name: "TopSpin", Version: "3.2"}, acq.Software)
	assert.Equal(t, "nmrsu", acq.Provenance.Owner)
	assert.Equal(t, "Bruker BioSpin GmbH", acq.Provenance.Origin)
	assert.Equal(t, "proton_1d", acq.Provenance.Title)
	assert.Equal(t, time.Unix(1393841429, 0).UTC(), acq.Provenance.AcquiredAt)

	assert.Equal(t, types.FIDDescriptor{
		Path:      filepath.Join(dir, "fid"),
		ByteOrder: types.LittleEndian,
		Encoding:  types.EncodingInt32,
	}, acq.FID)
}

func TestReadAcqusFile(t *testing.T) {
	dir := testutil.WriteBruker(t, t.TempDir(), map[string]string{
		"NUC2":    "<13C>",
		"BYTORDA": "1",
		"DTYPA":   "2",
		"AQ_mod":  "1",
		"MASR":    "12500",
	})

	r := NewReader(filepath.Join(dir, "acqus"))
	acq, err := r.Read()
	require.NoError(t, err)

	assert.Equal(t, "13C", acq.DirectDimension.DecouplingNucleus)
	assert.True(t, acq.DirectDimension.Decoupled)
	assert.Equal(t, types.BigEndian, acq.FID.ByteOrder)
	assert.Equal(t, types.EncodingFloat64, acq.FID.Encoding)
	assert.Equal(t, "qsim", acq.DirectDimension.AcquisitionMode)
	assert.Equal(t, types.Hertz(12500), acq.Parameters.SpinningRate)

	file, err := r.ParameterFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "acqus"), file)
}

func TestMissingOptionalValues(t *testing.T) {
	dir := testutil.WriteBruker(t, t.TempDir(), map[string]string{
		"TE":   testutil.Omit,
		"P":    testutil.Omit,
		"D":    testutil.Omit,
		"MASR": testutil.Omit,
	})

	acq, err := NewReader(dir).Read()
	require.NoError(t, err)
	assert.True(t, acq.Parameters.SampleAcquisitionTemperature.IsZero())
	assert.True(t, acq.Parameters.SpinningRate.IsZero())
	assert.True(t, acq.Parameters.RelaxationDelay.IsZero())
	assert.True(t, acq.DirectDimension.PulseWidth.IsZero())
	assert.True(t, acq.DirectDimension.EffectiveExcitationField.IsZero())
}

func TestGroupDelayTable(t *testing.T) {
	dir := testutil.WriteBruker(t, t.TempDir(), map[string]string{
		"GRPDLY": "-1",
		"DSPFVS": "12",
		"DECIM":  "16",
	})

	acq, err := NewReader(dir).Read()
	require.NoError(t, err)
	assert.Equal(t, 71.625, acq.Parameters.GroupDelay)

	dir = testutil.WriteBruker(t, t.TempDir(), map[string]string{
		"GRPDLY": testutil.Omit,
		"DSPFVS": "10",
		"DECIM":  "24",
	})
	acq, err = NewReader(dir).Read()
	require.NoError(t, err)
	assert.InDelta(t, 61.020833333333333, acq.Parameters.GroupDelay, 1e-12)

	dir = testutil.WriteBruker(t, t.TempDir(), map[string]string{"GRPDLY": testutil.Omit})
	acq, err = NewReader(dir).Read()
	require.NoError(t, err)
	assert.Zero(t, acq.Parameters.GroupDelay)
}

func TestMultiDimensional(t *testing.T) {
	dir := testutil.WriteBruker(t, t.TempDir(), map[string]string{"PARMODE": "1"})
	require.NoError(t, os.Remove(filepath.Join(dir, "fid")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ser"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "acqu2s"), []byte(testutil.BrukerAcqus(nil)), 0o644))

	acq, err := NewReader(dir).Read()
	require.NoError(t, err)
	assert.Equal(t, 2, acq.Dimensions)
	assert.True(t, acq.IsMultiDimensional())
	assert.Equal(t, filepath.Join(dir, "ser"), acq.FID.Path)

	// 缺少 PARMODE 时按 acqu2s 推断
	dir2 := testutil.WriteBruker(t, t.TempDir(), map[string]string{"PARMODE": testutil.Omit})
	require.NoError(t, os.WriteFile(filepath.Join(dir2, "acqu2s"), nil, 0o644))
	acq, err = NewReader(dir2).Read()
	require.NoError(t, err)
	assert.Equal(t, 2, acq.Dimensions)
	assert.Equal(t, filepath.Join(dir2, "fid"), acq.FID.Path, "ser 不存在时回退到 fid")
}

func TestReadFailures(t *testing.T) {
	t.Run("missing source", func(t *testing.T) {
		acq, err := NewReader(filepath.Join(t.TempDir(), "nope")).Read()
		assert.Nil(t, acq)
		assert.ErrorIs(t, err, types.ErrReadFailed)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("directory without acqus", func(t *testing.T) {
		acq, err := NewReader(t.TempDir()).Read()
		assert.Nil(t, acq)
		assert.ErrorIs(t, err, types.ErrReadFailed)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("syntax error", func(t *testing.T) {
		dir := testutil.WriteBruker(t, t.TempDir(), map[string]string{"P": "(0..63)\n1 2 3"})
		acq, err := NewReader(dir).Read()
		assert.Nil(t, acq)
		assert.ErrorIs(t, err, types.ErrReadFailed)
		var syntaxErr *jcamp.SyntaxError
		assert.ErrorAs(t, err, &syntaxErr)
		re, ok := types.IsReadError(err)
		require.True(t, ok)
		assert.Equal(t, "parse", re.Op)
	})

	t.Run("non numeric", func(t *testing.T) {
		dir := testutil.WriteBruker(t, t.TempDir(), map[string]string{"NS": "sixteen"})
		_, err := NewReader(dir).Read()
		assert.ErrorIs(t, err, types.ErrReadFailed)
		var syntaxErr *jcamp.SyntaxError
		assert.ErrorAs(t, err, &syntaxErr)
	})

	t.Run("missing required label", func(t *testing.T) {
		dir := testutil.WriteBruker(t, t.TempDir(), map[string]string{"SFO1": testutil.Omit})
		_, err := NewReader(dir).Read()
		assert.ErrorIs(t, err, types.ErrReadFailed)
		assert.ErrorIs(t, err, jcamp.ErrNotFound)
	})

	t.Run("incomplete", func(t *testing.T) {
		dir := testutil.WriteBruker(t, t.TempDir(), map[string]string{"NS": "0"})
		_, err := NewReader(dir).Read()
		assert.ErrorIs(t, err, types.ErrReadFailed)
		assert.ErrorIs(t, err, types.ErrIncomplete)
	})

	t.Run("unsupported dtypa", func(t *testing.T) {
		dir := testutil.WriteBruker(t, t.TempDir(), map[string]string{"DTYPA": "1"})
		_, err := NewReader(dir).Read()
		assert.ErrorIs(t, err, types.ErrReadFailed)
	})

	t.Run("too large", func(t *testing.T) {
		dir := testutil.WriteBruker(t, t.TempDir(), nil)
		_, err := NewReader(dir, WithMaxFileSize(64)).Read()
		assert.ErrorIs(t, err, types.ErrReadFailed)
		assert.ErrorIs(t, err, paramfile.ErrTooLarge)
	})
}

func TestLatin1Title(t *testing.T) {
	dir := t.TempDir()
	content := []byte(testutil.BrukerAcqus(map[string]string{"EXP": "<T1 \xb5s test>"}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "acqus"), content, 0o644))

	acq, err := NewReader(dir).Read()
	require.NoError(t, err)
	assert.Equal(t, "T1 µs test", acq.Provenance.Title)

	acq, err = NewReader(dir, WithCharset("utf-8")).Read()
	require.NoError(t, err)
	assert.NotEqual(t, "T1 µs test", acq.Provenance.Title)
}

func TestSoftware(t *testing.T) {
	assert.Equal(t, types.Software{Name: "TopSpin", Version: "4.1.4"}, software("Parameter file, TopSpin 4.1.4 Version 4.1.4"))
	assert.Equal(t, types.Software{Name: "XWIN-NMR", Version: "3.5"}, software("Parameter file, XWIN-NMR  Version 3.5"))
	assert.Equal(t, types.Software{Name: "TopSpin"}, software(""))
}
