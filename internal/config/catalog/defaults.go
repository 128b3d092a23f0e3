package catalog

// 转换目录默认配置值
const (
	// defaultEnabled 默认启用转换目录
	defaultEnabled = true

	// defaultDirName 数据目录下的目录库子目录
	defaultDirName = "catalog"

	// defaultSyncWrites 转换记录丢失只会导致重复转换，不需要同步写
	defaultSyncWrites = false

	// defaultMemTableSize 记录很小，16MB 足够
	defaultMemTableSize = 16 << 20
)
