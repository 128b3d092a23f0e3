package event

// 事件系统默认配置值
const (
	// defaultEnabled 默认启用事件总线
	defaultEnabled = true

	// defaultHistorySize 每种事件保留的历史条数，0 表示不保留
	defaultHistorySize = 64
)
