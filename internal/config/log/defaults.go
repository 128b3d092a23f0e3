package log

import (
	"go.uber.org/zap/zapcore"
)

// 日志配置默认值
const (
	// === 基础日志配置 ===

	// defaultLogLevel 默认日志级别
	defaultLogLevel = "info"

	// defaultToConsole 默认输出到控制台（stderr，不干扰命令输出）
	defaultToConsole = true

	// defaultFilePath 默认不写文件；为空表示仅控制台
	defaultFilePath = ""

	// === 日志轮转配置 ===

	// defaultMaxSize 单个日志文件最大大小（MB）
	defaultMaxSize = 50

	// defaultMaxBackups 最大备份文件数
	defaultMaxBackups = 5

	// defaultMaxAge 日志文件最大保留天数
	defaultMaxAge = 30

	// defaultCompress 压缩历史日志
	defaultCompress = true

	// === 调试配置 ===

	// defaultEnableCaller 默认启用调用者信息
	defaultEnableCaller = true

	// defaultEnableStacktrace 默认对 Error 级别启用堆栈跟踪
	defaultEnableStacktrace = false

	// === 多文件日志配置 ===

	// defaultEnableMultiFile 默认不拆分文件
	// 启用后读取器相关模块写入 reader.log，其余写入 system.log
	defaultEnableMultiFile = false

	// defaultReaderLogFile 读取器日志文件名
	defaultReaderLogFile = "reader.log"

	// defaultSystemLogFile 系统日志文件名
	defaultSystemLogFile = "system.log"
)

// 默认的日志级别映射
var defaultLevelMap = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
	"fatal": zapcore.FatalLevel,
}
