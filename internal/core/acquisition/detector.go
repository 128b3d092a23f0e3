// Package acquisition 组装采集参数读取器：格式识别、读取器工厂与装饰器
//
// 📋 **读取链路**
//
//	Factory.NewReader(path, format)
//	  └─ InstrumentedReader   指标 + 事件
//	      └─ CachingReader    解析结果缓存（路径 + 修改时间 + 大小）
//	          └─ RetryingReader   瞬时 I/O 故障重试（默认关闭）
//	              └─ bruker.Reader / varian.Reader
//
// 每一层都满足 acquisition.Reader 契约：成功返回完整结果，失败返回 ErrReadFailed。
package acquisition

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nmrml/converter/internal/core/acquisition/bruker"
	"github.com/nmrml/converter/internal/core/acquisition/varian"
	acquisitionInterface "github.com/nmrml/converter/pkg/interfaces/acquisition"
	"github.com/nmrml/converter/pkg/types"
)

// Detector 按参数文件名识别厂商格式
type Detector struct{}

var _ acquisitionInterface.Detector = Detector{}

// markers 参数文件名到格式的映射，按识别优先级排列
var markers = []struct {
	file   string
	format types.SourceFormat
}{
	{bruker.AcqusFile, types.FormatBruker},
	{varian.ProcparFile, types.FormatVarian},
}

// Detect 目录检查其中的参数文件，文件按文件名判断
func (Detector) Detect(path string) (types.SourceFormat, error) {
	info, err := os.Stat(path)
	if err != nil {
		return types.FormatUnknown, err
	}

	if !info.IsDir() {
		base := filepath.Base(path)
		for _, m := range markers {
			if base == m.file {
				return m.format, nil
			}
		}
		return types.FormatUnknown, fmt.Errorf("%w: %s", types.ErrUnknownFormat, path)
	}

	for _, m := range markers {
		if fi, err := os.Stat(filepath.Join(path, m.file)); err == nil && !fi.IsDir() {
			return m.format, nil
		}
	}
	return types.FormatUnknown, fmt.Errorf("%w: %s 中没有 acqus 或 procpar", types.ErrUnknownFormat, path)
}

// SupportedFormats 支持的格式
func SupportedFormats() []types.SourceFormat {
	out := make([]types.SourceFormat, 0, len(markers))
	for _, m := range markers {
		out = append(out, m.format)
	}
	return out
}
