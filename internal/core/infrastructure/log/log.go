// Package log 提供基于 zap 的日志实现
// 支持控制台/文件输出、lumberjack 日志轮转、按 module 字段拆分日志文件
package log

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	logconfig "github.com/nmrml/converter/internal/config/log"
	logInterface "github.com/nmrml/converter/pkg/interfaces/infrastructure/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// 全局日志实例
	globalLogger logInterface.Logger
	// 保护全局日志实例
	mu sync.RWMutex
)

// Logger 实现 log.Logger 接口
type Logger struct {
	zapLogger *zap.Logger
	sugar     *zap.SugaredLogger
}

func init() {
	ResetDefault()
}

// ResetDefault 重置全局日志记录器为默认配置
func ResetDefault() {
	logger, err := New(logconfig.New(nil))
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化默认日志器失败: %v\n", err)
		return
	}
	SetLogger(logger)
}

// moduleRoutingCore 按 module 字段路由的 Core
// 读取器相关模块写入 reader.log，其余写入 system.log
type moduleRoutingCore struct {
	readerCore zapcore.Core
	systemCore zapcore.Core
	module     string // 通过 With 绑定的 module
}

// Enabled 实现 zapcore.Core 接口
func (c *moduleRoutingCore) Enabled(level zapcore.Level) bool {
	return c.readerCore.Enabled(level) || c.systemCore.Enabled(level)
}

// With 实现 zapcore.Core 接口
// With 绑定的字段不会再出现在 Write 的 fields 中，因此在这里记住 module
func (c *moduleRoutingCore) With(fields []zapcore.Field) zapcore.Core {
	module := c.module
	if m := moduleOf(fields); m != "" {
		module = m
	}
	return &moduleRoutingCore{
		readerCore: c.readerCore.With(fields),
		systemCore: c.systemCore.With(fields),
		module:     module,
	}
}

// Check 实现 zapcore.Core 接口
func (c *moduleRoutingCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

// Write 实现 zapcore.Core 接口
func (c *moduleRoutingCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	module := c.module
	if m := moduleOf(fields); m != "" {
		module = m
	}

	if isReaderModule(module) {
		return c.readerCore.Write(entry, fields)
	}
	return c.systemCore.Write(entry, fields)
}

// Sync 实现 zapcore.Core 接口
func (c *moduleRoutingCore) Sync() error {
	return errors.Join(c.readerCore.Sync(), c.systemCore.Sync())
}

// moduleOf 从字段中提取 module
func moduleOf(fields []zapcore.Field) string {
	for _, field := range fields {
		if field.Key != "module" {
			continue
		}
		switch field.Type {
		case zapcore.StringType:
			return field.String
		case zapcore.StringerType:
			if s, ok := field.Interface.(fmt.Stringer); ok && s != nil {
				return s.String()
			}
		default:
			if s, ok := field.Interface.(string); ok {
				return s
			}
		}
	}
	return ""
}

// isReaderModule 是否为读取器相关模块
func isReaderModule(module string) bool {
	switch module {
	case ModuleReader, ModuleBruker, ModuleVarian, ModuleCache:
		return true
	default:
		return false
	}
}

// createFileWriter 创建带轮转的日志文件写入器
func createFileWriter(logPath string, config *logconfig.Config) (zapcore.WriteSyncer, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, fmt.Errorf("创建日志目录失败 %s: %w", filepath.Dir(logPath), err)
	}

	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    config.GetMaxSize(),    // megabytes
		MaxBackups: config.GetMaxBackups(), // 最多保留文件数
		MaxAge:     config.GetMaxAge(),     // days
		Compress:   config.IsCompressionEnabled(),
	}), nil
}

// New 根据配置创建日志记录器
func New(config *logconfig.Config) (logInterface.Logger, error) {
	level := zap.NewAtomicLevelAt(config.GetZapLevel())

	var cores []zapcore.Core

	// 控制台输出写 stderr，stdout 留给命令结果
	if config.IsConsoleEnabled() {
		cores = append(cores, zapcore.NewCore(config.CreateConsoleEncoder(), zapcore.Lock(os.Stderr), level))
	}

	if outputPath := config.GetFilePath(); outputPath != "" {
		fileEncoder := config.CreateFileEncoder()

		if config.IsMultiFileEnabled() {
			readerWriter, err := createFileWriter(config.GetReaderLogPath(), config)
			if err != nil {
				return nil, err
			}
			systemWriter, err := createFileWriter(config.GetSystemLogPath(), config)
			if err != nil {
				return nil, err
			}
			cores = append(cores, &moduleRoutingCore{
				readerCore: zapcore.NewCore(fileEncoder, readerWriter, level),
				systemCore: zapcore.NewCore(fileEncoder, systemWriter, level),
			})
		} else {
			absPath, err := filepath.Abs(outputPath)
			if err != nil {
				return nil, fmt.Errorf("获取日志文件绝对路径失败: %w", err)
			}
			fileWriter, err := createFileWriter(absPath, config)
			if err != nil {
				return nil, err
			}
			cores = append(cores, zapcore.NewCore(fileEncoder, fileWriter, level))
		}
	}

	zapOptions := []zap.Option{}
	if config.IsCallerEnabled() {
		// 跳过一层封装，使调用位置指向业务代码
		zapOptions = append(zapOptions, zap.AddCaller(), zap.AddCallerSkip(1))
	}
	if config.IsStacktraceEnabled() {
		zapOptions = append(zapOptions, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	zapLogger := zap.New(zapcore.NewTee(cores...), zapOptions...)
	return &Logger{
		zapLogger: zapLogger,
		sugar:     zapLogger.Sugar(),
	}, nil
}

// NewFromZap 包装已有的 zap 日志记录器（测试中配合 zaptest 使用）
func NewFromZap(zapLogger *zap.Logger) logInterface.Logger {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	return &Logger{
		zapLogger: zapLogger,
		sugar:     zapLogger.Sugar(),
	}
}

// NewNop 不输出任何内容的日志记录器
func NewNop() logInterface.Logger {
	return NewFromZap(zap.NewNop())
}

// GetZapLogger 获取底层的zap日志记录器
func (l *Logger) GetZapLogger() *zap.Logger {
	return l.zapLogger
}

// SetLogger 设置全局日志记录器
func SetLogger(logger logInterface.Logger) {
	if logger == nil {
		return
	}
	mu.Lock()
	globalLogger = logger
	mu.Unlock()
}

// GetLogger 获取全局日志记录器
func GetLogger() logInterface.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// 以下是全局日志函数

// Debugf 使用格式化字符串记录调试级别的日志
func Debugf(format string, args ...interface{}) {
	if l := GetLogger(); l != nil {
		l.Debugf(format, args...)
	}
}

// Infof 使用格式化字符串记录信息级别的日志
func Infof(format string, args ...interface{}) {
	if l := GetLogger(); l != nil {
		l.Infof(format, args...)
	}
}

// Warnf 使用格式化字符串记录警告级别的日志
func Warnf(format string, args ...interface{}) {
	if l := GetLogger(); l != nil {
		l.Warnf(format, args...)
	}
}

// Errorf 使用格式化字符串记录错误级别的日志
func Errorf(format string, args ...interface{}) {
	if l := GetLogger(); l != nil {
		l.Errorf(format, args...)
	}
}

// With 从全局日志记录器创建带字段的日志记录器
func With(args ...interface{}) logInterface.Logger {
	l := GetLogger()
	if l == nil {
		ResetDefault()
		l = GetLogger()
	}
	return l.With(args...)
}

// Debug 记录调试级别的日志
func (l *Logger) Debug(msg string) {
	l.sugar.Debug(msg)
}

// Debugf 使用格式化字符串记录调试级别的日志
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// Info 记录信息级别的日志
func (l *Logger) Info(msg string) {
	l.sugar.Info(msg)
}

// Infof 使用格式化字符串记录信息级别的日志
func (l *Logger) Infof(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Warn 记录警告级别的日志
func (l *Logger) Warn(msg string) {
	l.sugar.Warn(msg)
}

// Warnf 使用格式化字符串记录警告级别的日志
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// Error 记录错误级别的日志
func (l *Logger) Error(msg string) {
	l.sugar.Error(msg)
}

// Errorf 使用格式化字符串记录错误级别的日志
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// With 返回一个带有额外字段的Logger
// 参数按键值对提供，奇数个时忽略最后一个
func (l *Logger) With(args ...interface{}) logInterface.Logger {
	if len(args)%2 != 0 {
		args = args[:len(args)-1]
	}
	zapLogger := l.zapLogger.With(toZapFields(args...)...)
	return &Logger{
		zapLogger: zapLogger,
		sugar:     zapLogger.Sugar(),
	}
}

// Sync 同步日志缓冲区到输出
func (l *Logger) Sync() error {
	return l.zapLogger.Sync()
}

// toZapFields 将键值对转换为zap字段
func toZapFields(args ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		fields = append(fields, zap.Any(key, args[i+1]))
	}
	return fields
}
