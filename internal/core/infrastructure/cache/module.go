package cache

import (
	"context"

	logimpl "github.com/nmrml/converter/internal/core/infrastructure/log"
	"github.com/nmrml/converter/internal/core/infrastructure/metrics"
	"github.com/nmrml/converter/pkg/interfaces/config"
	cacheInterface "github.com/nmrml/converter/pkg/interfaces/infrastructure/cache"
	"github.com/nmrml/converter/pkg/interfaces/infrastructure/log"
	"go.uber.org/fx"
)

// ModuleParams 缓存模块依赖
type ModuleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Provider  config.Provider
	Logger    log.Logger        `optional:"true"`
	Recorder  *metrics.Recorder `optional:"true"`
}

// Module 返回缓存模块
func Module() fx.Option {
	return fx.Module("cache",
		fx.Provide(ProvideStore),
	)
}

// ProvideStore 创建缓存并注册关闭钩子
func ProvideStore(params ModuleParams) (cacheInterface.Store, error) {
	store, err := New(params.Provider.GetCache(), logimpl.WithModule(params.Logger, logimpl.ModuleCache))
	if err != nil {
		return nil, err
	}

	// 条目数按需求值；注册失败只影响观测
	if err := params.Recorder.RegisterGaugeFunc("cache", "entries", "Number of cached acquisitions", func() float64 {
		return float64(store.Len())
	}); err != nil && params.Logger != nil {
		params.Logger.Warnf("注册缓存指标失败: %v", err)
	}

	params.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return store.Close()
		},
	})
	return store, nil
}
