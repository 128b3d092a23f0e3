package acquisition

import (
	"fmt"

	readerconfig "github.com/nmrml/converter/internal/config/reader"
	"github.com/nmrml/converter/internal/core/acquisition/bruker"
	"github.com/nmrml/converter/internal/core/acquisition/varian"
	logimpl "github.com/nmrml/converter/internal/core/infrastructure/log"
	"github.com/nmrml/converter/internal/core/infrastructure/metrics"
	acquisitionInterface "github.com/nmrml/converter/pkg/interfaces/acquisition"
	cacheInterface "github.com/nmrml/converter/pkg/interfaces/infrastructure/cache"
	"github.com/nmrml/converter/pkg/interfaces/infrastructure/event"
	"github.com/nmrml/converter/pkg/interfaces/infrastructure/log"
	"github.com/nmrml/converter/pkg/types"
)

// sourceReader 厂商读取器：既能读取，也能给出参数文件路径
type sourceReader interface {
	acquisitionInterface.Reader
	ParameterFileLocator
}

// Factory 读取器工厂
type Factory struct {
	config   *readerconfig.Config
	store    cacheInterface.Store
	recorder *metrics.Recorder
	bus      event.EventBus
	logger   log.Logger
	detector Detector
}

var _ acquisitionInterface.Factory = (*Factory)(nil)

// NewFactory 创建读取器工厂；store、recorder、bus 均可为 nil
func NewFactory(config *readerconfig.Config, store cacheInterface.Store, recorder *metrics.Recorder, bus event.EventBus, logger log.Logger) *Factory {
	if logger == nil {
		logger = logimpl.NewNop()
	}
	return &Factory{
		config:   config,
		store:    store,
		recorder: recorder,
		bus:      bus,
		logger:   logger,
	}
}

// Formats 支持的格式
func (f *Factory) Formats() []types.SourceFormat {
	return SupportedFormats()
}

// Detect 识别格式，失败时返回读取失败错误
func (f *Factory) Detect(path string) (types.SourceFormat, error) {
	format, err := f.detector.Detect(path)
	if err != nil {
		return types.FormatUnknown, types.NewReadError(types.FormatUnknown, path, "detect", err)
	}
	return format, nil
}

// Locate 返回格式与参数文件路径，format 为空时自动识别
func (f *Factory) Locate(path string, format types.SourceFormat) (types.SourceFormat, string, error) {
	format, base, err := f.base(path, format)
	if err != nil {
		return types.FormatUnknown, "", err
	}
	file, err := base.ParameterFile()
	if err != nil {
		return format, "", types.NewReadError(format, path, "open", err)
	}
	return format, file, nil
}

// NewReader 构造按配置装饰的读取器，format 为空时自动识别
func (f *Factory) NewReader(path string, format types.SourceFormat) (acquisitionInterface.Reader, error) {
	format, base, err := f.base(path, format)
	if err != nil {
		return nil, err
	}

	var reader acquisitionInterface.Reader = base
	logger := logimpl.WithModule(f.logger, logimpl.ModuleReader)

	if attempts := f.config.GetRetryAttempts(); attempts > 0 {
		reader = NewRetryingReader(reader, format, attempts, f.config.GetRetryBackoff(), f.recorder, logger)
	}

	if f.config.IsCacheEnabled() && f.store != nil {
		reader = NewCachingReader(reader, base, format, f.store, f.recorder, logimpl.WithModule(f.logger, logimpl.ModuleCache))
	}

	if f.config.IsMetricsEnabled() && (f.recorder != nil || f.bus != nil) {
		reader = NewInstrumentedReader(reader, format, path, f.recorder, f.bus, logger)
	}

	return reader, nil
}

// base 构造未装饰的厂商读取器
func (f *Factory) base(path string, format types.SourceFormat) (types.SourceFormat, sourceReader, error) {
	if format == types.FormatUnknown {
		detected, err := f.Detect(path)
		if err != nil {
			return types.FormatUnknown, nil, err
		}
		format = detected
	}

	switch format {
	case types.FormatBruker:
		return format, bruker.NewReader(path,
			bruker.WithCharset(f.config.GetCharset()),
			bruker.WithMaxFileSize(f.config.GetMaxFileSize()),
			bruker.WithLogger(logimpl.WithModule(f.logger, logimpl.ModuleBruker)),
		), nil
	case types.FormatVarian:
		return format, varian.NewReader(path,
			varian.WithCharset(f.config.GetCharset()),
			varian.WithMaxFileSize(f.config.GetMaxFileSize()),
			varian.WithLogger(logimpl.WithModule(f.logger, logimpl.ModuleVarian)),
		), nil
	default:
		return types.FormatUnknown, nil, types.NewReadError(format, path, "detect",
			fmt.Errorf("%w: %q", types.ErrUnknownFormat, format))
	}
}
