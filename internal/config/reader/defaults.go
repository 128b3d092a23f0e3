package reader

import "time"

// 读取器默认配置值
const (
	// defaultMaxFileSize 参数文件最大字节数
	// acqus / procpar 通常不超过数百 KB，超过此值视为误指向 FID 等二进制文件
	defaultMaxFileSize int64 = 16 << 20

	// defaultCharset TopSpin 与 VnmrJ 均以 ISO-8859-1 写参数文件
	defaultCharset = CharsetLatin1

	// defaultRetryAttempts 默认不重试
	defaultRetryAttempts = 0

	// defaultRetryBackoff 首次重试等待时间，之后按倍数递增
	defaultRetryBackoff = 200 * time.Millisecond

	// defaultEnableCache 默认启用解析结果缓存
	defaultEnableCache = true

	// defaultEnableMetrics 默认记录指标与事件
	defaultEnableMetrics = true
)

// 支持的字符集
const (
	CharsetUTF8   = "utf-8"
	CharsetLatin1 = "iso-8859-1"
)
