package event

import (
	"context"

	"go.uber.org/fx"

	logimpl "github.com/nmrml/converter/internal/core/infrastructure/log"
	"github.com/nmrml/converter/pkg/interfaces/config"
	eventInterface "github.com/nmrml/converter/pkg/interfaces/infrastructure/event"
	"github.com/nmrml/converter/pkg/interfaces/infrastructure/log"
)

// ModuleInput 事件模块输入依赖
type ModuleInput struct {
	fx.In

	Provider  config.Provider
	Logger    log.Logger `optional:"true"`
	Lifecycle fx.Lifecycle
}

// ModuleOutput 事件模块输出服务
type ModuleOutput struct {
	fx.Out

	EventBus eventInterface.EventBus
}

// Module 返回事件模块
func Module() fx.Option {
	return fx.Module("event",
		fx.Provide(ProvideEventBus),
	)
}

// ProvideEventBus 创建事件总线，停止时等待异步订阅者处理完毕
func ProvideEventBus(input ModuleInput) ModuleOutput {
	logger := logimpl.WithModule(input.Logger, logimpl.ModuleEvent)
	bus := New(input.Provider.GetEvent(), logger)

	input.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			bus.WaitAsync()
			published, rejected := bus.Stats()
			logger.Debugf("事件总线停止: 已发布 %d, 已丢弃 %d", published, rejected)
			return nil
		},
	})

	logger.Debug("事件总线已初始化")
	return ModuleOutput{EventBus: bus}
}
