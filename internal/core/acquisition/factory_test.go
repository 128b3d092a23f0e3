package acquisition

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/nmrml/converter/internal/config"
	readerconfig "github.com/nmrml/converter/internal/config/reader"
	"github.com/nmrml/converter/internal/core/acquisition/bruker"
	fixtures "github.com/nmrml/converter/internal/core/acquisition/testutil"
	"github.com/nmrml/converter/internal/core/infrastructure/cache"
	eventimpl "github.com/nmrml/converter/internal/core/infrastructure/event"
	logimpl "github.com/nmrml/converter/internal/core/infrastructure/log"
	"github.com/nmrml/converter/internal/core/infrastructure/metrics"
	acquisitionInterface "github.com/nmrml/converter/pkg/interfaces/acquisition"
	configInterface "github.com/nmrml/converter/pkg/interfaces/config"
	"github.com/nmrml/converter/pkg/interfaces/infrastructure/log"
	"github.com/nmrml/converter/pkg/types"
)

type brukerReaderType = bruker.Reader

func TestFactoryNewReader(t *testing.T) {
	root := t.TempDir()
	brukerDir := fixtures.WriteBruker(t, filepath.Join(root, "1"), nil)
	varianDir := fixtures.WriteVarian(t, filepath.Join(root, "2.fid"), nil)

	factory := NewFactory(readerconfig.New(nil), newTestStore(t), newTestRecorder(), nil, nil)
	assert.Equal(t, []types.SourceFormat{types.FormatBruker, types.FormatVarian}, factory.Formats())

	for path, want := range map[string]types.SourceFormat{brukerDir: types.FormatBruker, varianDir: types.FormatVarian} {
		reader, err := factory.NewReader(path, types.FormatUnknown)
		require.NoError(t, err)
		_, ok := reader.(*InstrumentedReader)
		assert.True(t, ok, "默认配置下最外层为 InstrumentedReader")

		acq, err := reader.Read()
		require.NoError(t, err)
		assert.Equal(t, want, acq.Format)
	}
}

func TestFactoryDecoration(t *testing.T) {
	dir := fixtures.WriteBruker(t, t.TempDir(), nil)

	plainConfig := readerconfig.New(&types.UserReaderConfig{
		EnableCache:   types.BoolPtr(false),
		EnableMetrics: types.BoolPtr(false),
	})
	reader, err := NewFactory(plainConfig, newTestStore(t), newTestRecorder(), nil, nil).NewReader(dir, types.FormatBruker)
	require.NoError(t, err)
	assert.IsType(t, (*brukerReaderType)(nil), reader)

	retryConfig := readerconfig.New(&types.UserReaderConfig{
		RetryAttempts: types.IntPtr(2),
		EnableCache:   types.BoolPtr(false),
		EnableMetrics: types.BoolPtr(false),
	})
	reader, err = NewFactory(retryConfig, nil, nil, nil, nil).NewReader(dir, types.FormatBruker)
	require.NoError(t, err)
	assert.IsType(t, (*RetryingReader)(nil), reader)

	// 缓存开启但没有缓存存储时不装饰
	cacheOnly := readerconfig.New(&types.UserReaderConfig{EnableMetrics: types.BoolPtr(false)})
	reader, err = NewFactory(cacheOnly, nil, nil, nil, nil).NewReader(dir, types.FormatBruker)
	require.NoError(t, err)
	assert.IsType(t, (*brukerReaderType)(nil), reader)

	reader, err = NewFactory(cacheOnly, newTestStore(t), nil, nil, nil).NewReader(dir, types.FormatBruker)
	require.NoError(t, err)
	assert.IsType(t, (*CachingReader)(nil), reader)
}

func TestFactoryErrors(t *testing.T) {
	factory := NewFactory(readerconfig.New(nil), nil, nil, nil, nil)

	_, err := factory.NewReader(t.TempDir(), types.FormatUnknown)
	assert.ErrorIs(t, err, types.ErrReadFailed)
	assert.ErrorIs(t, err, types.ErrUnknownFormat)

	_, err = factory.NewReader(t.TempDir(), types.SourceFormat("jeol"))
	assert.ErrorIs(t, err, types.ErrReadFailed)
	assert.ErrorIs(t, err, types.ErrUnknownFormat)

	// 强制格式时不做识别，读取时才报告缺失
	reader, err := factory.NewReader(filepath.Join(t.TempDir(), "missing"), types.FormatVarian)
	require.NoError(t, err)
	acq, err := reader.Read()
	assert.Nil(t, acq)
	assert.ErrorIs(t, err, types.ErrReadFailed)
}

func TestFactoryLocate(t *testing.T) {
	dir := fixtures.WriteVarian(t, t.TempDir(), nil)
	factory := NewFactory(readerconfig.New(nil), nil, nil, nil, nil)

	format, file, err := factory.Locate(dir, types.FormatUnknown)
	require.NoError(t, err)
	assert.Equal(t, types.FormatVarian, format)
	assert.Equal(t, filepath.Join(dir, "procpar"), file)

	_, _, err = factory.Locate(filepath.Join(dir, "missing"), types.FormatBruker)
	assert.ErrorIs(t, err, types.ErrReadFailed)
}

func TestModule(t *testing.T) {
	dir := fixtures.WriteBruker(t, t.TempDir(), nil)

	var factory acquisitionInterface.Factory
	var recorder *metrics.Recorder
	app := fxtest.New(t,
		fx.Provide(func() configInterface.Provider {
			return config.NewProvider(&types.AppConfig{
				Environment: types.StringPtr("test"),
				DataDir:     types.StringPtr(t.TempDir()),
			})
		}),
		fx.Provide(func() log.Logger { return logimpl.NewNop() }),
		cache.Module(),
		eventimpl.Module(),
		metrics.Module(),
		Module(),
		fx.Populate(&factory, &recorder),
	)
	app.RequireStart()
	defer app.RequireStop()

	reader, err := factory.NewReader(dir, types.FormatUnknown)
	require.NoError(t, err)
	_, err = reader.Read()
	require.NoError(t, err)
	assert.NotNil(t, recorder)
}
