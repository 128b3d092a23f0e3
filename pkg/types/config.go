package types

// AppConfig 应用配置根结构
//
// 所有字段使用指针：nil 表示配置文件未设置该项，使用系统默认值；
// 非 nil 表示用户显式设置，即使是零值（0、false、""）也会被采用。
type AppConfig struct {
	DataDir *string `json:"data_dir,omitempty" yaml:"data_dir,omitempty"` // 数据目录路径

	// Environment 运行环境：dev | test | prod
	Environment *string `json:"environment,omitempty" yaml:"environment,omitempty"`

	Log       *UserLogConfig       `json:"log,omitempty" yaml:"log,omitempty"`
	Reader    *UserReaderConfig    `json:"reader,omitempty" yaml:"reader,omitempty"`
	Cache     *UserCacheConfig     `json:"cache,omitempty" yaml:"cache,omitempty"`
	Catalog   *UserCatalogConfig   `json:"catalog,omitempty" yaml:"catalog,omitempty"`
	Event     *UserEventConfig     `json:"event,omitempty" yaml:"event,omitempty"`
	Metrics   *UserMetricsConfig   `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Converter *UserConverterConfig `json:"converter,omitempty" yaml:"converter,omitempty"`
}

// LogLevel 日志级别
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
	FatalLevel LogLevel = "fatal"
)

// UserLogConfig 用户日志配置
type UserLogConfig struct {
	Level           *string `json:"level,omitempty" yaml:"level,omitempty"`                         // 日志级别：debug, info, warn, error, fatal
	FilePath        *string `json:"file_path,omitempty" yaml:"file_path,omitempty"`                 // 日志文件路径
	ToConsole       *bool   `json:"to_console,omitempty" yaml:"to_console,omitempty"`               // 是否输出到控制台
	EnableMultiFile *bool   `json:"enable_multi_file,omitempty" yaml:"enable_multi_file,omitempty"` // 拆分 reader / system 日志
}

// UserReaderConfig 用户读取器配置
type UserReaderConfig struct {
	MaxFileSize   *int64  `json:"max_file_size,omitempty" yaml:"max_file_size,omitempty"`   // 参数文件最大字节数
	Charset       *string `json:"charset,omitempty" yaml:"charset,omitempty"`               // 参数文件字符集：utf-8 | iso-8859-1
	RetryAttempts *int    `json:"retry_attempts,omitempty" yaml:"retry_attempts,omitempty"` // 瞬时故障重试次数，0 表示不重试
	RetryBackoff  *string `json:"retry_backoff,omitempty" yaml:"retry_backoff,omitempty"`   // 首次重试等待时间
	EnableCache   *bool   `json:"enable_cache,omitempty" yaml:"enable_cache,omitempty"`     // 是否缓存解析结果
	EnableMetrics *bool   `json:"enable_metrics,omitempty" yaml:"enable_metrics,omitempty"` // 是否记录指标与事件
}

// UserCacheConfig 用户缓存配置
type UserCacheConfig struct {
	LifeWindow         *string `json:"life_window,omitempty" yaml:"life_window,omitempty"`
	CleanWindow        *string `json:"clean_window,omitempty" yaml:"clean_window,omitempty"`
	MaxEntriesInWindow *int    `json:"max_entries_in_window,omitempty" yaml:"max_entries_in_window,omitempty"`
	MaxEntrySize       *int    `json:"max_entry_size,omitempty" yaml:"max_entry_size,omitempty"`
	HardMaxCacheSize   *int    `json:"hard_max_cache_size,omitempty" yaml:"hard_max_cache_size,omitempty"` // MB
}

// UserCatalogConfig 用户转换目录配置
type UserCatalogConfig struct {
	Enabled    *bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Path       *string `json:"path,omitempty" yaml:"path,omitempty"`
	InMemory   *bool   `json:"in_memory,omitempty" yaml:"in_memory,omitempty"`
	SyncWrites *bool   `json:"sync_writes,omitempty" yaml:"sync_writes,omitempty"`
}

// UserEventConfig 用户事件配置
type UserEventConfig struct {
	Enabled     *bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	HistorySize *int  `json:"history_size,omitempty" yaml:"history_size,omitempty"`
}

// UserMetricsConfig 用户指标配置
type UserMetricsConfig struct {
	Enabled   *bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Namespace *string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// UserConverterConfig 用户转换配置
type UserConverterConfig struct {
	OutputFormat  *string `json:"output_format,omitempty" yaml:"output_format,omitempty"`   // xml | json
	Workers       *int    `json:"workers,omitempty" yaml:"workers,omitempty"`               // 批量转换并发数
	SkipUnchanged *bool   `json:"skip_unchanged,omitempty" yaml:"skip_unchanged,omitempty"` // 源未变化时跳过
	ValidateJSON  *bool   `json:"validate_json,omitempty" yaml:"validate_json,omitempty"`   // JSON 输出做 schema 校验
}

// BoolPtr 返回 bool 指针
func BoolPtr(v bool) *bool {
	return &v
}

// IntPtr 返回 int 指针
func IntPtr(v int) *int {
	return &v
}

// Int64Ptr 返回 int64 指针
func Int64Ptr(v int64) *int64 {
	return &v
}

// StringPtr 返回 string 指针
func StringPtr(v string) *string {
	return &v
}
