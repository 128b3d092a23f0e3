// Package jcamp 解析 Bruker TopSpin 的 JCAMP-DX 参数文件（acqus、acqu2s 等）
//
// 支持的记录形式：
//
//	##TITLE= Parameter file, TOPSPIN		Version 3.2
//	##$TD= 65536
//	##$PULPROG= <zg30>
//	##$P= (0..63)
//	0.25 9.8 0 0 ...
//	##$SPNAM= (0..63)
//	<gauss> <Sinc1.1000> ...
//	$$ 注释行
//	##END=
//
// 私有标签（$ 前缀）去掉 $ 后与公共标签存入同一命名空间，大小写按文件原样保留。
package jcamp

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNotFound 标签不存在
var ErrNotFound = errors.New("jcamp: label not found")

// SyntaxError 参数文件格式错误
type SyntaxError struct {
	Line  int    // 出错行号，从 1 开始
	Label string // 相关标签，可能为空
	Msg   string
}

// Error 实现 error 接口
func (e *SyntaxError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("jcamp: 第 %d 行: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("jcamp: 第 %d 行 ##%s: %s", e.Line, e.Label, e.Msg)
}

// Value 一条记录的值
type Value struct {
	Label   string
	Private bool     // 是否为 $ 私有标签
	Line    int      // 记录起始行号
	Scalar  string   // 标量值，字符串已去掉尖括号
	Array   []string // 数组元素，非数组时为 nil
}

// IsArray 是否为数组记录
func (v *Value) IsArray() bool {
	return v.Array != nil
}

// Document 解析后的参数文件
type Document struct {
	values map[string]*Value
	order  []string
}

// Parse 解析 UTF-8 文本
func Parse(data []byte) (*Document, error) {
	p := &parser{doc: &Document{values: make(map[string]*Value)}}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	maxLine := len(data) + 1
	if maxLine < bufio.MaxScanTokenSize {
		maxLine = bufio.MaxScanTokenSize
	}
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLine)

	for scanner.Scan() {
		p.line++
		done, err := p.feed(strings.TrimRight(scanner.Text(), "\r"))
		if err != nil {
			return nil, err
		}
		if done {
			return p.doc, p.finish()
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("jcamp: 读取失败: %w", err)
	}
	return p.doc, p.finish()
}

// parser 逐行状态机
type parser struct {
	doc  *Document
	line int

	current    *Value // 正在接收续行的记录
	arrayCount int    // 数组声明的元素个数
	openString bool   // 标量字符串尚未闭合
}

func (p *parser) feed(line string) (bool, error) {
	if p.openString {
		p.appendStringLine(line)
		return false, nil
	}

	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return false, nil
	case strings.HasPrefix(trimmed, "$$"):
		return false, nil
	case strings.HasPrefix(trimmed, "##"):
		if err := p.closeArray(); err != nil {
			return false, err
		}
		return p.startRecord(trimmed)
	}

	if p.current == nil {
		return false, &SyntaxError{Line: p.line, Msg: "记录之前出现无标签内容"}
	}
	if p.current.IsArray() || p.arrayCount > 0 {
		return false, p.appendArrayLine(stripComment(trimmed))
	}
	// 标量续行
	p.current.Scalar = strings.TrimSpace(p.current.Scalar + " " + stripComment(trimmed))
	return false, nil
}

func (p *parser) startRecord(line string) (bool, error) {
	eq := strings.IndexByte(line, '=')
	if eq < 0 {
		return false, &SyntaxError{Line: p.line, Msg: "缺少 '='"}
	}
	label := strings.TrimSpace(line[2:eq])
	raw := strings.TrimSpace(line[eq+1:])
	if label == "" {
		return false, &SyntaxError{Line: p.line, Msg: "空标签"}
	}
	if label == "END" {
		p.current = nil
		return true, nil
	}

	v := &Value{Label: label, Line: p.line}
	if strings.HasPrefix(label, "$") {
		v.Private = true
		v.Label = label[1:]
	}
	p.doc.add(v)
	p.current = v

	if count, rest, ok := parseArrayHeader(raw); ok {
		p.arrayCount = count
		v.Array = make([]string, 0, count)
		if rest != "" {
			return false, p.appendArrayLine(stripComment(rest))
		}
		return false, nil
	}

	if strings.HasPrefix(raw, "<") {
		if end := strings.IndexByte(raw, '>'); end >= 0 {
			v.Scalar = raw[1:end]
			return false, nil
		}
		v.Scalar = raw[1:]
		p.openString = true
		return false, nil
	}

	v.Scalar = stripComment(raw)
	return false, nil
}

func (p *parser) appendStringLine(line string) {
	if end := strings.IndexByte(line, '>'); end >= 0 {
		p.current.Scalar += "\n" + line[:end]
		p.openString = false
		return
	}
	p.current.Scalar += "\n" + line
}

func (p *parser) appendArrayLine(line string) error {
	v := p.current
	tokens, err := splitArrayTokens(line)
	if err != nil {
		return &SyntaxError{Line: p.line, Label: v.Label, Msg: err.Error()}
	}
	v.Array = append(v.Array, tokens...)
	if len(v.Array) > p.arrayCount {
		return &SyntaxError{
			Line:  p.line,
			Label: v.Label,
			Msg:   fmt.Sprintf("数组元素过多: 声明 %d 个，实际 %d 个", p.arrayCount, len(v.Array)),
		}
	}
	return nil
}

// closeArray 新记录开始前检查上一个数组是否已填满
func (p *parser) closeArray() error {
	v := p.current
	if v == nil || !v.IsArray() {
		p.arrayCount = 0
		return nil
	}
	if len(v.Array) != p.arrayCount {
		return &SyntaxError{
			Line:  v.Line,
			Label: v.Label,
			Msg:   fmt.Sprintf("数组未结束: 声明 %d 个，实际 %d 个", p.arrayCount, len(v.Array)),
		}
	}
	p.arrayCount = 0
	return nil
}

func (p *parser) finish() error {
	if p.openString {
		return &SyntaxError{Line: p.current.Line, Label: p.current.Label, Msg: "字符串未闭合"}
	}
	return p.closeArray()
}

// parseArrayHeader 识别 "(0..N)" 形式，返回元素个数与同一行剩余内容
func parseArrayHeader(raw string) (int, string, bool) {
	if !strings.HasPrefix(raw, "(") {
		return 0, "", false
	}
	end := strings.IndexByte(raw, ')')
	if end < 0 {
		return 0, "", false
	}
	lo, hi, ok := strings.Cut(raw[1:end], "..")
	if !ok {
		return 0, "", false
	}
	from, err1 := strconv.Atoi(strings.TrimSpace(lo))
	to, err2 := strconv.Atoi(strings.TrimSpace(hi))
	if err1 != nil || err2 != nil || to < from {
		return 0, "", false
	}
	return to - from + 1, strings.TrimSpace(raw[end+1:]), true
}

// splitArrayTokens 按空白切分，<...> 作为一个元素（可含空格）
func splitArrayTokens(line string) ([]string, error) {
	var tokens []string
	for i := 0; i < len(line); {
		switch c := line[i]; {
		case c == ' ' || c == '\t':
			i++
		case c == '<':
			end := strings.IndexByte(line[i+1:], '>')
			if end < 0 {
				return nil, errors.New("数组中的字符串未闭合")
			}
			tokens = append(tokens, line[i+1:i+1+end])
			i += end + 2
		default:
			j := i
			for j < len(line) && line[j] != ' ' && line[j] != '\t' {
				j++
			}
			tokens = append(tokens, line[i:j])
			i = j
		}
	}
	return tokens, nil
}

// stripComment 去掉尖括号外的行尾 $$ 注释
func stripComment(s string) string {
	inString := false
	for i := 0; i < len(s)-1; i++ {
		switch s[i] {
		case '<':
			inString = true
		case '>':
			inString = false
		case '$':
			if !inString && s[i+1] == '$' {
				return strings.TrimSpace(s[:i])
			}
		}
	}
	return strings.TrimSpace(s)
}

func (d *Document) add(v *Value) {
	if _, exists := d.values[v.Label]; !exists {
		d.order = append(d.order, v.Label)
	}
	d.values[v.Label] = v
}

// Labels 按出现顺序返回所有标签
func (d *Document) Labels() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Has 标签是否存在
func (d *Document) Has(label string) bool {
	_, ok := d.values[label]
	return ok
}

// Lookup 返回原始记录
func (d *Document) Lookup(label string) (*Value, bool) {
	v, ok := d.values[label]
	return v, ok
}

// String 标量值
func (d *Document) String(label string) (string, error) {
	v, err := d.scalar(label)
	if err != nil {
		return "", err
	}
	return v.Scalar, nil
}

// Int 整数值，允许 "16.0" 这类整值浮点写法
func (d *Document) Int(label string) (int, error) {
	v, err := d.scalar(label)
	if err != nil {
		return 0, err
	}
	return parseInt(v, v.Scalar)
}

// Float 浮点值
func (d *Document) Float(label string) (float64, error) {
	v, err := d.scalar(label)
	if err != nil {
		return 0, err
	}
	return parseFloat(v, v.Scalar)
}

// StringAt 数组第 idx 个元素
func (d *Document) StringAt(label string, idx int) (string, error) {
	v, err := d.element(label, idx)
	if err != nil {
		return "", err
	}
	return v.Array[idx], nil
}

// FloatAt 数组第 idx 个元素的浮点值
func (d *Document) FloatAt(label string, idx int) (float64, error) {
	v, err := d.element(label, idx)
	if err != nil {
		return 0, err
	}
	return parseFloat(v, v.Array[idx])
}

// Strings 数组全部元素
func (d *Document) Strings(label string) ([]string, error) {
	v, ok := d.values[label]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, label)
	}
	if !v.IsArray() {
		return nil, &SyntaxError{Line: v.Line, Label: label, Msg: "需要数组值"}
	}
	out := make([]string, len(v.Array))
	copy(out, v.Array)
	return out, nil
}

func (d *Document) scalar(label string) (*Value, error) {
	v, ok := d.values[label]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, label)
	}
	if v.IsArray() {
		return nil, &SyntaxError{Line: v.Line, Label: label, Msg: "需要标量值，实际为数组"}
	}
	return v, nil
}

func (d *Document) element(label string, idx int) (*Value, error) {
	v, ok := d.values[label]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, label)
	}
	if !v.IsArray() {
		return nil, &SyntaxError{Line: v.Line, Label: label, Msg: "需要数组值"}
	}
	if idx < 0 || idx >= len(v.Array) {
		return nil, fmt.Errorf("%w: %s[%d]", ErrNotFound, label, idx)
	}
	return v, nil
}

func parseFloat(v *Value, s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &SyntaxError{Line: v.Line, Label: v.Label, Msg: fmt.Sprintf("非数值 %q", s)}
	}
	return f, nil
}

func parseInt(v *Value, s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := parseFloat(v, s)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, &SyntaxError{Line: v.Line, Label: v.Label, Msg: fmt.Sprintf("非整数 %q", s)}
	}
	return int(f), nil
}
