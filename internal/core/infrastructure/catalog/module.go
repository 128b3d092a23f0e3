package catalog

import (
	"context"

	logimpl "github.com/nmrml/converter/internal/core/infrastructure/log"
	"github.com/nmrml/converter/pkg/interfaces/config"
	catalogInterface "github.com/nmrml/converter/pkg/interfaces/infrastructure/catalog"
	"github.com/nmrml/converter/pkg/interfaces/infrastructure/log"
	"go.uber.org/fx"
)

// ModuleParams 转换目录模块依赖
type ModuleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Provider  config.Provider
	Logger    log.Logger `optional:"true"`
}

// ModuleOutput 转换目录模块输出
type ModuleOutput struct {
	fx.Out

	// Store 未启用目录时为 nil
	Store catalogInterface.Store `optional:"true"`
}

// Module 返回转换目录模块
func Module() fx.Option {
	return fx.Module("catalog",
		fx.Provide(ProvideStore),
	)
}

// ProvideStore 打开转换目录并注册关闭钩子
func ProvideStore(params ModuleParams) (ModuleOutput, error) {
	cfg := params.Provider.GetCatalog()
	logger := logimpl.WithModule(params.Logger, logimpl.ModuleCatalog)
	if !cfg.IsEnabled() {
		logger.Debug("转换目录未启用")
		return ModuleOutput{}, nil
	}

	store, err := New(cfg, logger)
	if err != nil {
		return ModuleOutput{}, err
	}

	params.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return store.Close()
		},
	})
	return ModuleOutput{Store: store}, nil
}
