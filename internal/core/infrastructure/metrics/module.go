package metrics

import (
	"go.uber.org/fx"

	"github.com/nmrml/converter/pkg/interfaces/config"
)

// ModuleInput 指标模块依赖
type ModuleInput struct {
	fx.In

	Provider config.Provider
}

// Module 返回 metrics 模块
//
// 提供 *Recorder；指标关闭时提供 nil，其方法均为空操作。
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(func(input ModuleInput) *Recorder {
			return New(input.Provider.GetMetrics())
		}),
	)
}
