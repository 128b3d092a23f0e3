package acquisition

import (
	"go.uber.org/fx"

	"github.com/nmrml/converter/internal/core/infrastructure/metrics"
	"github.com/nmrml/converter/pkg/interfaces/acquisition"
	"github.com/nmrml/converter/pkg/interfaces/config"
	cacheInterface "github.com/nmrml/converter/pkg/interfaces/infrastructure/cache"
	"github.com/nmrml/converter/pkg/interfaces/infrastructure/event"
	"github.com/nmrml/converter/pkg/interfaces/infrastructure/log"
)

// ModuleParams 读取模块依赖
type ModuleParams struct {
	fx.In

	Provider config.Provider
	Store    cacheInterface.Store `optional:"true"`
	Recorder *metrics.Recorder    `optional:"true"`
	EventBus event.EventBus       `optional:"true"`
	Logger   log.Logger           `optional:"true"`
}

// ModuleOutput 读取模块输出
type ModuleOutput struct {
	fx.Out

	Factory       *Factory
	ReaderFactory acquisition.Factory
	Detector      acquisition.Detector
}

// Module 返回采集参数读取模块
func Module() fx.Option {
	return fx.Module("acquisition",
		fx.Provide(ProvideFactory),
	)
}

// ProvideFactory 创建读取器工厂
func ProvideFactory(params ModuleParams) ModuleOutput {
	factory := NewFactory(params.Provider.GetReader(), params.Store, params.Recorder, params.EventBus, params.Logger)
	return ModuleOutput{
		Factory:       factory,
		ReaderFactory: factory,
		Detector:      Detector{},
	}
}
