package types

import "time"

// ConversionRecord 转换目录中的一条记录
type ConversionRecord struct {
	RunID        string       `json:"run_id"`
	Source       string       `json:"source"`        // 采集数据目录或参数文件
	SourceDigest string       `json:"source_digest"` // 参数文件内容摘要 (sha256 hex)
	Format       SourceFormat `json:"format"`
	Output       string       `json:"output"`
	OutputFormat string       `json:"output_format"`
	ConvertedAt  time.Time    `json:"converted_at"`
	Duration     string       `json:"duration"`
}
