// Package encoding 将采集参数编码为 nmrML XML 或 JSON
package encoding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/nmrml/converter/pkg/types"
)

// 输出格式名称
const (
	FormatXML  = "xml"
	FormatJSON = "json"
)

// Encoder 采集参数编码器
type Encoder interface {
	// Encode 写出一份采集参数
	Encode(w io.Writer, acq *types.Acquisition) error
	// Name 格式名称
	Name() string
	// Extension 输出文件扩展名（含点）
	Extension() string
}

// ForFormat 按名称返回编码器，validate 仅对 JSON 生效
func ForFormat(name string, validate bool) (Encoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case FormatXML, "nmrml":
		return XMLEncoder{Indent: "  "}, nil
	case FormatJSON:
		enc := &JSONEncoder{Indent: "  "}
		if validate {
			v, err := NewSchemaValidator()
			if err != nil {
				return nil, err
			}
			enc.Validator = v
		}
		return enc, nil
	default:
		return nil, fmt.Errorf("不支持的输出格式: %q", name)
	}
}

// JSONEncoder JSON 编码器
type JSONEncoder struct {
	Indent    string
	Validator *SchemaValidator // 非 nil 时写出前校验
}

// Name 实现 Encoder
func (e *JSONEncoder) Name() string { return FormatJSON }

// Extension 实现 Encoder
func (e *JSONEncoder) Extension() string { return ".json" }

// Encode 实现 Encoder；校验失败时不写出任何内容
func (e *JSONEncoder) Encode(w io.Writer, acq *types.Acquisition) error {
	if acq == nil {
		return fmt.Errorf("采集参数为空")
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", e.Indent)
	if err := enc.Encode(acq); err != nil {
		return fmt.Errorf("JSON 编码失败: %w", err)
	}
	if e.Validator != nil {
		if err := e.Validator.Validate(buf.Bytes()); err != nil {
			return err
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}
