// Package acquisition 定义采集参数读取契约
//
// 📖 **采集参数读取器 (Acquisition Parameter Reader)**
//
// 本包是转换流水线与各厂商格式读取器之间的接缝：
// - Reader：单一操作 Read()，产出一份完整的采集参数或返回读取失败
// - Detector：识别数据源的厂商格式
// - Factory：按格式构造具体读取器
//
// 🎯 **契约约束**
// - 成功时返回恰好一个完整的 *types.Acquisition，错误为 nil
// - 失败时返回 nil 与满足 errors.Is(err, types.ErrReadFailed) 的错误
// - 不规定缓存、重试、幂等语义；由实现或调用方决定
// - Read 可能执行阻塞 I/O；线程安全与资源生命周期由实现决定
package acquisition

import (
	"github.com/nmrml/converter/pkg/types"
)

// Reader 采集参数读取器
//
// 具体实现在构造时持有数据源（目录、文件等），Read 本身不接收参数。
type Reader interface {
	// Read 读取采集参数
	// 成功：返回完整的采集参数
	// 失败：返回读取失败错误（types.ErrReadFailed），不会返回部分结果
	Read() (*types.Acquisition, error)
}

// Detector 数据源格式识别
type Detector interface {
	// Detect 识别路径对应的厂商格式
	// 无法识别时返回 types.ErrUnknownFormat
	Detect(path string) (types.SourceFormat, error)
}

// Factory 读取器工厂
type Factory interface {
	// NewReader 为路径构造读取器，format 为空时自动识别
	NewReader(path string, format types.SourceFormat) (Reader, error)

	// Formats 支持的格式列表
	Formats() []types.SourceFormat
}
