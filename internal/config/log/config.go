package log

import (
	"path/filepath"
	"strings"

	"github.com/nmrml/converter/pkg/types"
	"go.uber.org/zap/zapcore"
)

// LogOptions 日志配置选项
type LogOptions struct {
	// === 基础配置 ===
	Level     string `json:"level"`      // 日志级别 (debug, info, warn, error, fatal)
	ToConsole bool   `json:"to_console"` // 是否输出到控制台
	FilePath  string `json:"file_path"`  // 日志文件路径，为空则不写文件

	// === 基础轮转配置 ===
	MaxSize    int  `json:"max_size"`    // 单个日志文件最大大小(MB)
	MaxBackups int  `json:"max_backups"` // 最大备份文件数
	MaxAge     int  `json:"max_age"`     // 日志文件最大保留天数
	Compress   bool `json:"compress"`    // 是否压缩历史日志文件

	// === 调试配置 ===
	EnableCaller     bool `json:"enable_caller"`
	EnableStacktrace bool `json:"enable_stacktrace"`

	// === 多文件配置 ===
	EnableMultiFile bool   `json:"enable_multi_file"`
	ReaderLogFile   string `json:"reader_log_file"`
	SystemLogFile   string `json:"system_log_file"`

	// === 内部配置（不对外暴露） ===
	LevelMap map[string]zapcore.Level `json:"-"`
}

// Config 日志配置实现
type Config struct {
	options *LogOptions
}

// New 创建日志配置
// userConfig 可以是 *types.UserLogConfig（覆盖默认值）或 *LogOptions（直接使用）
func New(userConfig interface{}) *Config {
	if opts, ok := userConfig.(*LogOptions); ok && opts != nil {
		if opts.LevelMap == nil {
			opts.LevelMap = defaultLevelMap
		}
		return &Config{options: opts}
	}

	defaultOptions := createDefaultLogOptions()
	if userConfig != nil {
		applyUserLogConfig(defaultOptions, userConfig)
	}

	return &Config{
		options: defaultOptions,
	}
}

// createDefaultLogOptions 创建默认日志配置
func createDefaultLogOptions() *LogOptions {
	return &LogOptions{
		Level:     defaultLogLevel,
		ToConsole: defaultToConsole,
		FilePath:  defaultFilePath,

		MaxSize:    defaultMaxSize,
		MaxBackups: defaultMaxBackups,
		MaxAge:     defaultMaxAge,
		Compress:   defaultCompress,

		EnableCaller:     defaultEnableCaller,
		EnableStacktrace: defaultEnableStacktrace,

		EnableMultiFile: defaultEnableMultiFile,
		ReaderLogFile:   defaultReaderLogFile,
		SystemLogFile:   defaultSystemLogFile,

		LevelMap: defaultLevelMap,
	}
}

// applyUserLogConfig 应用用户日志配置覆盖默认值
func applyUserLogConfig(options *LogOptions, userConfig interface{}) {
	logConfig, ok := userConfig.(*types.UserLogConfig)
	if !ok || logConfig == nil {
		return
	}

	if logConfig.Level != nil {
		options.Level = strings.ToLower(*logConfig.Level)
	}
	if logConfig.FilePath != nil {
		options.FilePath = *logConfig.FilePath
	}
	if logConfig.ToConsole != nil {
		options.ToConsole = *logConfig.ToConsole
	}
	if logConfig.EnableMultiFile != nil {
		options.EnableMultiFile = *logConfig.EnableMultiFile
	}
}

// GetOptions 获取完整的日志配置选项
func (c *Config) GetOptions() *LogOptions {
	return c.options
}

// GetLevel 获取日志级别
func (c *Config) GetLevel() string {
	return c.options.Level
}

// GetZapLevel 获取zap日志级别，未知级别按 info 处理
func (c *Config) GetZapLevel() zapcore.Level {
	if level, exists := c.options.LevelMap[c.options.Level]; exists {
		return level
	}
	return zapcore.InfoLevel
}

// IsConsoleEnabled 是否启用控制台输出
func (c *Config) IsConsoleEnabled() bool {
	return c.options.ToConsole
}

// GetFilePath 获取日志文件路径
func (c *Config) GetFilePath() string {
	return c.options.FilePath
}

// GetMaxSize 获取单个文件最大大小(MB)
func (c *Config) GetMaxSize() int {
	return c.options.MaxSize
}

// GetMaxBackups 获取最大备份文件数
func (c *Config) GetMaxBackups() int {
	return c.options.MaxBackups
}

// GetMaxAge 获取最大保留天数
func (c *Config) GetMaxAge() int {
	return c.options.MaxAge
}

// IsCompressionEnabled 是否启用压缩
func (c *Config) IsCompressionEnabled() bool {
	return c.options.Compress
}

// IsCallerEnabled 是否启用调用者信息
func (c *Config) IsCallerEnabled() bool {
	return c.options.EnableCaller
}

// IsStacktraceEnabled 是否启用堆栈跟踪
func (c *Config) IsStacktraceEnabled() bool {
	return c.options.EnableStacktrace
}

// IsMultiFileEnabled 是否拆分 reader / system 日志
func (c *Config) IsMultiFileEnabled() bool {
	return c.options.EnableMultiFile && c.options.FilePath != ""
}

// GetReaderLogPath reader.log 路径（与 FilePath 同目录）
func (c *Config) GetReaderLogPath() string {
	return filepath.Join(filepath.Dir(c.options.FilePath), c.options.ReaderLogFile)
}

// GetSystemLogPath system.log 路径（与 FilePath 同目录）
func (c *Config) GetSystemLogPath() string {
	return filepath.Join(filepath.Dir(c.options.FilePath), c.options.SystemLogFile)
}

// CreateFileEncoder 创建文件编码器（JSON）
func (c *Config) CreateFileEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
	})
}

// CreateConsoleEncoder 创建控制台编码器
func (c *Config) CreateConsoleEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.TimeEncoderOfLayout("15:04:05.000"),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
	})
}
