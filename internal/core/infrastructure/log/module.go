package log

import (
	"context"
	"fmt"

	"github.com/nmrml/converter/pkg/interfaces/config"
	logInterface "github.com/nmrml/converter/pkg/interfaces/infrastructure/log"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// 日志 module 字段取值
const (
	ModuleReader    = "reader"
	ModuleBruker    = "bruker"
	ModuleVarian    = "varian"
	ModuleCache     = "cache"
	ModuleCatalog   = "catalog"
	ModuleEvent     = "event"
	ModuleMetrics   = "metrics"
	ModuleConverter = "converter"
	ModuleApp       = "app"
)

// ModuleParams 定义日志模块的依赖参数
type ModuleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Provider  config.Provider
}

// ModuleOutput 定义日志模块的输出结构
type ModuleOutput struct {
	fx.Out

	Logger    logInterface.Logger // 日志记录器接口
	ZapLogger *zap.Logger         // zap.Logger 具体类型
}

// Module 返回日志模块
func Module() fx.Option {
	return fx.Module("log",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 根据配置初始化日志记录器
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	logger, err := New(params.Provider.GetLog())
	if err != nil {
		return ModuleOutput{}, fmt.Errorf("根据用户配置创建日志记录器失败: %w", err)
	}

	// 替换 init() 时用默认配置创建的全局日志器
	SetLogger(logger)

	params.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			// stderr 上的 Sync 在部分平台返回 EINVAL，不视为失败
			_ = logger.Sync()
			return nil
		},
	})

	return ModuleOutput{
		Logger:    logger,
		ZapLogger: logger.GetZapLogger(),
	}, nil
}

// WithModule 为 logger 添加 module 字段，logger 为 nil 时返回空日志器
func WithModule(logger logInterface.Logger, module string) logInterface.Logger {
	if logger == nil {
		return NewNop()
	}
	return logger.With("module", module)
}
