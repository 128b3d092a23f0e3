package converter

import (
	"go.uber.org/fx"

	"github.com/nmrml/converter/internal/core/acquisition"
	"github.com/nmrml/converter/internal/core/infrastructure/metrics"
	"github.com/nmrml/converter/pkg/interfaces/config"
	catalogInterface "github.com/nmrml/converter/pkg/interfaces/infrastructure/catalog"
	"github.com/nmrml/converter/pkg/interfaces/infrastructure/event"
	"github.com/nmrml/converter/pkg/interfaces/infrastructure/log"
)

// ModuleParams 转换模块依赖
type ModuleParams struct {
	fx.In

	Provider config.Provider
	Factory  *acquisition.Factory
	Catalog  catalogInterface.Store `optional:"true"`
	Recorder *metrics.Recorder      `optional:"true"`
	EventBus event.EventBus         `optional:"true"`
	Logger   log.Logger             `optional:"true"`
}

// Module 返回转换流水线模块
func Module() fx.Option {
	return fx.Module("converter",
		fx.Provide(ProvideConverter),
	)
}

// ProvideConverter 创建转换流水线
func ProvideConverter(params ModuleParams) *Converter {
	return New(
		params.Provider.GetConverter(),
		params.Factory,
		params.Provider.GetReader().GetMaxFileSize(),
		params.Catalog,
		params.Recorder,
		params.EventBus,
		params.Logger,
	)
}
