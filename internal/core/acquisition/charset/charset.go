// Package charset 将参数文件字节解码为 UTF-8
//
// TopSpin 与 VnmrJ 写出的参数文件通常是 ISO-8859-1（标题、操作员名里的 µ、°、ä 等），
// 解析器只处理 UTF-8 文本。
package charset

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// 支持的字符集名称
const (
	UTF8   = "utf-8"
	Latin1 = "iso-8859-1"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Normalize 规范化字符集名称，未知名称返回 false
func Normalize(name string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf-8", "utf8":
		return UTF8, true
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1":
		return Latin1, true
	default:
		return "", false
	}
}

// Decode 按字符集把 data 解码为 UTF-8
//
// 带 UTF-8 BOM 的输入总是按 UTF-8 处理。
func Decode(data []byte, name string) ([]byte, error) {
	if bytes.HasPrefix(data, utf8BOM) {
		return data[len(utf8BOM):], nil
	}

	cs, ok := Normalize(name)
	if !ok {
		return nil, fmt.Errorf("不支持的字符集: %q", name)
	}
	if cs == UTF8 {
		return data, nil
	}

	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("ISO-8859-1 解码失败: %w", err)
	}
	return out, nil
}
