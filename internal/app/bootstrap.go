package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"

	config "github.com/nmrml/converter/internal/config"
	"github.com/nmrml/converter/internal/core/acquisition"
	"github.com/nmrml/converter/internal/core/converter"
	"github.com/nmrml/converter/internal/core/infrastructure/cache"
	"github.com/nmrml/converter/internal/core/infrastructure/catalog"
	"github.com/nmrml/converter/internal/core/infrastructure/event"
	logimpl "github.com/nmrml/converter/internal/core/infrastructure/log"
	"github.com/nmrml/converter/internal/core/infrastructure/metrics"
	configInterface "github.com/nmrml/converter/pkg/interfaces/config"
	catalogInterface "github.com/nmrml/converter/pkg/interfaces/infrastructure/catalog"
	eventInterface "github.com/nmrml/converter/pkg/interfaces/infrastructure/event"
	"github.com/nmrml/converter/pkg/interfaces/infrastructure/log"
)

// 启动与停止超时
const (
	startTimeout = 30 * time.Second
	stopTimeout  = 30 * time.Second
)

// Bootstrap 应用引导程序
type Bootstrap struct {
	opts  *options
	fxApp *fx.App
}

// NewBootstrap 创建引导程序
func NewBootstrap(opts *options) *Bootstrap {
	return &Bootstrap{opts: opts}
}

// SetupInfrastructureLayer 设置基础设施层模块
func (b *Bootstrap) SetupInfrastructureLayer() []fx.Option {
	return []fx.Option{
		fx.Provide(func() configInterface.AppOptions { return b.opts }),
		config.Module(),  // 1. 配置(不依赖其他)
		logimpl.Module(), // 2. 日志(依赖配置)
		metrics.Module(), // 3. 指标(依赖配置)
		event.Module(),   // 4. 事件(依赖配置和日志)
		cache.Module(),   // 5. 解析结果缓存
		catalog.Module(), // 6. 转换目录
	}
}

// SetupBusinessLayer 设置业务逻辑层模块
// 加载顺序：读取器工厂 -> 转换流水线
func (b *Bootstrap) SetupBusinessLayer() []fx.Option {
	return []fx.Option{
		acquisition.Module(),
		converter.Module(),
	}
}

// SetupModules 设置所有应用模块
func (b *Bootstrap) SetupModules() []fx.Option {
	var allModules []fx.Option
	allModules = append(allModules, b.SetupInfrastructureLayer()...)
	allModules = append(allModules, b.SetupBusinessLayer()...)
	return allModules
}

// CreateFxApp 创建并配置fx应用，targets 为 fx.Populate 的目标
func (b *Bootstrap) CreateFxApp(targets ...interface{}) error {
	if err := b.opts.resolve(); err != nil {
		return err
	}

	b.fxApp = fx.New(
		fx.Options(b.SetupModules()...),
		// 禁用fx内部日志
		fx.NopLogger,
		fx.Populate(targets...),
	)
	if err := b.fxApp.Err(); err != nil {
		return fmt.Errorf("装配应用模块失败: %w", err)
	}
	return nil
}

// StartApp 启动应用程序
func (b *Bootstrap) StartApp(ctx context.Context) error {
	if err := b.fxApp.Start(ctx); err != nil {
		return fmt.Errorf("启动应用失败: %w", err)
	}
	return nil
}

// StopApp 停止应用程序
func (b *Bootstrap) StopApp(ctx context.Context) error {
	if err := b.fxApp.Stop(ctx); err != nil {
		return fmt.Errorf("停止应用失败: %w", err)
	}
	return nil
}

// App 已启动的转换器应用
//
// 一次命令执行对应一个 App：Start 打开缓存与目录，Stop 经由 fx 生命周期关闭它们。
type App struct {
	bootstrap *Bootstrap

	Provider  configInterface.Provider
	Logger    log.Logger
	Factory   *acquisition.Factory
	Converter *converter.Converter
	Recorder  *metrics.Recorder
	EventBus  eventInterface.EventBus
	Catalog   catalogInterface.Store // 未启用目录时为 nil
}

// Start 装配并启动应用
func Start(appOptions ...Option) (*App, error) {
	opts := newOptions(appOptions...)
	bootstrap := NewBootstrap(opts)

	a := &App{bootstrap: bootstrap}
	if err := bootstrap.CreateFxApp(
		&a.Provider,
		&a.Logger,
		&a.Factory,
		&a.Converter,
		&a.Recorder,
		&a.EventBus,
		&a.Catalog,
	); err != nil {
		return nil, fmt.Errorf("创建应用失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()
	if err := bootstrap.StartApp(ctx); err != nil {
		return nil, err
	}

	a.Logger = logimpl.WithModule(a.Logger, logimpl.ModuleApp)
	if path := opts.GetConfigPath(); path != "" {
		a.Logger.Infof("已加载配置文件: %s", path)
	}
	return a, nil
}

// Stop 停止应用，关闭缓存、目录并刷新日志
func (a *App) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return a.bootstrap.StopApp(ctx)
}

// ConfigPath 实际加载的配置文件，未加载时为空
func (a *App) ConfigPath() string {
	return a.bootstrap.opts.GetConfigPath()
}
