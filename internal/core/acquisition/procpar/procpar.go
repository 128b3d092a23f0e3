// Package procpar 解析 Varian/Agilent VnmrJ 的 procpar 参数文件
//
// 每个参数由三部分组成：
//
//	sfrq 1 1 1e+09 0 0 2 1 11 1 64      头部：名称 子类型 基本类型 最大 最小 步长 Ggroup Dgroup 保护 激活 intptr
//	1 499.833                           取值：个数 + 值（字符串每个值单独一行）
//	0                                   枚举：个数 + 可选值
package procpar

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BasicType 参数基本类型
type BasicType int

const (
	TypeUndefined BasicType = 0
	TypeReal      BasicType = 1
	TypeString    BasicType = 2
)

// ErrNotFound 参数不存在
var ErrNotFound = errors.New("procpar: parameter not found")

// SyntaxError procpar 格式错误
type SyntaxError struct {
	Line  int
	Param string
	Msg   string
}

// Error 实现 error 接口
func (e *SyntaxError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("procpar: 第 %d 行: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("procpar: 第 %d 行 %s: %s", e.Line, e.Param, e.Msg)
}

// Parameter 一个 procpar 参数
type Parameter struct {
	Name       string
	Subtype    int
	BasicType  BasicType
	Max        float64
	Min        float64
	Step       float64
	Ggroup     int
	Dgroup     int
	Protection int
	Active     bool
	IntPtr     int

	Reals   []float64 // BasicType == TypeReal
	Strings []string  // BasicType == TypeString
	Enum    []string
	Line    int // 头部行号
}

// Len 取值个数
func (p *Parameter) Len() int {
	if p.BasicType == TypeString {
		return len(p.Strings)
	}
	return len(p.Reals)
}

// Document 解析后的 procpar
type Document struct {
	params map[string]*Parameter
	order  []string
}

// Parse 解析 UTF-8 文本
func Parse(data []byte) (*Document, error) {
	s := &lineScanner{scanner: bufio.NewScanner(bytes.NewReader(data))}
	maxLine := len(data) + 1
	if maxLine < bufio.MaxScanTokenSize {
		maxLine = bufio.MaxScanTokenSize
	}
	s.scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLine)

	doc := &Document{params: make(map[string]*Parameter)}
	for {
		header, ok := s.next()
		if !ok {
			break
		}
		if strings.TrimSpace(header) == "" {
			continue
		}
		param, err := parseHeader(header, s.line)
		if err != nil {
			return nil, err
		}
		if err := parseValues(s, param); err != nil {
			return nil, err
		}
		if err := parseEnum(s, param); err != nil {
			return nil, err
		}
		if _, exists := doc.params[param.Name]; !exists {
			doc.order = append(doc.order, param.Name)
		}
		doc.params[param.Name] = param
	}
	if err := s.scanner.Err(); err != nil {
		return nil, fmt.Errorf("procpar: 读取失败: %w", err)
	}
	if len(doc.params) == 0 {
		return nil, &SyntaxError{Line: s.line, Msg: "文件中没有参数"}
	}
	return doc, nil
}

type lineScanner struct {
	scanner *bufio.Scanner
	line    int
}

func (s *lineScanner) next() (string, bool) {
	if !s.scanner.Scan() {
		return "", false
	}
	s.line++
	return strings.TrimRight(s.scanner.Text(), "\r"), true
}

func parseHeader(line string, lineNo int) (*Parameter, error) {
	fields := strings.Fields(line)
	if len(fields) != 11 {
		return nil, &SyntaxError{Line: lineNo, Msg: fmt.Sprintf("参数头部需要 11 个字段，实际 %d 个", len(fields))}
	}

	p := &Parameter{Name: fields[0], Line: lineNo}
	ints := make([]int, 0, 7)
	for _, idx := range []int{1, 2, 6, 7, 8, 9, 10} {
		n, err := strconv.Atoi(fields[idx])
		if err != nil {
			return nil, &SyntaxError{Line: lineNo, Param: p.Name, Msg: fmt.Sprintf("头部字段 %d 非整数 %q", idx+1, fields[idx])}
		}
		ints = append(ints, n)
	}
	floats := make([]float64, 0, 3)
	for _, idx := range []int{3, 4, 5} {
		f, err := strconv.ParseFloat(fields[idx], 64)
		if err != nil {
			return nil, &SyntaxError{Line: lineNo, Param: p.Name, Msg: fmt.Sprintf("头部字段 %d 非数值 %q", idx+1, fields[idx])}
		}
		floats = append(floats, f)
	}

	p.Subtype = ints[0]
	p.BasicType = BasicType(ints[1])
	p.Ggroup, p.Dgroup, p.Protection = ints[2], ints[3], ints[4]
	p.Active = ints[5] != 0
	p.IntPtr = ints[6]
	p.Max, p.Min, p.Step = floats[0], floats[1], floats[2]

	if p.BasicType != TypeReal && p.BasicType != TypeString && p.BasicType != TypeUndefined {
		return nil, &SyntaxError{Line: lineNo, Param: p.Name, Msg: fmt.Sprintf("未知基本类型 %d", p.BasicType)}
	}
	return p, nil
}

// parseValues 读取取值行；字符串参数的第 2..n 个值各占一行
func parseValues(s *lineScanner, p *Parameter) error {
	line, ok := s.next()
	if !ok {
		return &SyntaxError{Line: s.line, Param: p.Name, Msg: "缺少取值行"}
	}
	count, rest, err := splitCount(line)
	if err != nil {
		return &SyntaxError{Line: s.line, Param: p.Name, Msg: err.Error()}
	}

	if p.BasicType != TypeString {
		fields := strings.Fields(rest)
		if len(fields) != count {
			return &SyntaxError{Line: s.line, Param: p.Name, Msg: fmt.Sprintf("声明 %d 个值，实际 %d 个", count, len(fields))}
		}
		p.Reals = make([]float64, count)
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return &SyntaxError{Line: s.line, Param: p.Name, Msg: fmt.Sprintf("非数值 %q", f)}
			}
			p.Reals[i] = v
		}
		return nil
	}

	p.Strings = make([]string, 0, count)
	for i := 0; i < count; i++ {
		if i > 0 {
			if rest, ok = s.next(); !ok {
				return &SyntaxError{Line: s.line, Param: p.Name, Msg: "字符串取值不完整"}
			}
		}
		str, err := readQuoted(s, rest)
		if err != nil {
			return &SyntaxError{Line: s.line, Param: p.Name, Msg: err.Error()}
		}
		p.Strings = append(p.Strings, str)
	}
	return nil
}

// parseEnum 读取枚举行
func parseEnum(s *lineScanner, p *Parameter) error {
	line, ok := s.next()
	if !ok {
		return &SyntaxError{Line: s.line, Param: p.Name, Msg: "缺少枚举行"}
	}
	count, rest, err := splitCount(line)
	if err != nil {
		return &SyntaxError{Line: s.line, Param: p.Name, Msg: err.Error()}
	}
	if count == 0 {
		return nil
	}

	var values []string
	if p.BasicType == TypeString {
		values, err = splitQuoted(rest)
		if err != nil {
			return &SyntaxError{Line: s.line, Param: p.Name, Msg: err.Error()}
		}
	} else {
		values = strings.Fields(rest)
	}
	if len(values) != count {
		return &SyntaxError{Line: s.line, Param: p.Name, Msg: fmt.Sprintf("枚举声明 %d 个，实际 %d 个", count, len(values))}
	}
	p.Enum = values
	return nil
}

func splitCount(line string) (int, string, error) {
	trimmed := strings.TrimLeft(line, " \t")
	head, rest := trimmed, ""
	if i := strings.IndexAny(trimmed, " \t"); i >= 0 {
		head, rest = trimmed[:i], trimmed[i+1:]
	}
	count, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil || count < 0 {
		return 0, "", fmt.Errorf("非法的个数 %q", head)
	}
	return count, strings.TrimSpace(rest), nil
}

// readQuoted 读取一个带引号的字符串，未闭合时继续读下一行
func readQuoted(s *lineScanner, text string) (string, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, `"`) {
		return "", fmt.Errorf("字符串缺少引号: %q", text)
	}
	var b strings.Builder
	for {
		value, remainder, closed := scanQuoted(text[1:], &b)
		if closed {
			if strings.TrimSpace(remainder) != "" {
				return "", fmt.Errorf("字符串后有多余内容 %q", remainder)
			}
			return value, nil
		}
		next, ok := s.next()
		if !ok {
			return "", errors.New("字符串未闭合")
		}
		b.WriteByte('\n')
		// 续行不含开头引号，补一个占位使 scanQuoted 逻辑一致
		text = `"` + next
	}
}

// scanQuoted 从开引号之后扫描到闭引号，处理 \" 与 \\ 转义
func scanQuoted(text string, b *strings.Builder) (string, string, bool) {
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '\\':
			if i+1 < len(text) {
				b.WriteByte(text[i+1])
				i++
				continue
			}
			b.WriteByte(c)
		case '"':
			return b.String(), text[i+1:], true
		default:
			b.WriteByte(c)
		}
	}
	return "", "", false
}

// splitQuoted 切分同一行上的多个引号字符串
func splitQuoted(text string) ([]string, error) {
	var out []string
	for {
		text = strings.TrimSpace(text)
		if text == "" {
			return out, nil
		}
		if text[0] != '"' {
			return nil, fmt.Errorf("枚举值缺少引号: %q", text)
		}
		var b strings.Builder
		value, remainder, closed := scanQuoted(text[1:], &b)
		if !closed {
			return nil, errors.New("枚举字符串未闭合")
		}
		out = append(out, value)
		text = remainder
	}
}

// Names 按出现顺序返回参数名
func (d *Document) Names() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Has 参数是否存在
func (d *Document) Has(name string) bool {
	_, ok := d.params[name]
	return ok
}

// Lookup 返回原始参数
func (d *Document) Lookup(name string) (*Parameter, bool) {
	p, ok := d.params[name]
	return p, ok
}

// Active 参数存在且处于激活状态
func (d *Document) Active(name string) bool {
	p, ok := d.params[name]
	return ok && p.Active
}

// String 第一个字符串值
func (d *Document) String(name string) (string, error) {
	values, err := d.Strings(name)
	if err != nil {
		return "", err
	}
	if len(values) == 0 {
		return "", fmt.Errorf("%w: %s 无取值", ErrNotFound, name)
	}
	return values[0], nil
}

// Strings 全部字符串值
func (d *Document) Strings(name string) ([]string, error) {
	p, err := d.typed(name, TypeString)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(p.Strings))
	copy(out, p.Strings)
	return out, nil
}

// Float 第一个实数值
func (d *Document) Float(name string) (float64, error) {
	values, err := d.Floats(name)
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: %s 无取值", ErrNotFound, name)
	}
	return values[0], nil
}

// Floats 全部实数值
func (d *Document) Floats(name string) ([]float64, error) {
	p, err := d.typed(name, TypeReal)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(p.Reals))
	copy(out, p.Reals)
	return out, nil
}

// Int 第一个实数值取整，非整数值报错
func (d *Document) Int(name string) (int, error) {
	f, err := d.Float(name)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		p := d.params[name]
		return 0, &SyntaxError{Line: p.Line, Param: name, Msg: fmt.Sprintf("非整数 %g", f)}
	}
	return int(f), nil
}

func (d *Document) typed(name string, want BasicType) (*Parameter, error) {
	p, ok := d.params[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if p.BasicType != want {
		return nil, &SyntaxError{Line: p.Line, Param: name, Msg: fmt.Sprintf("类型不符: 需要 %d，实际 %d", want, p.BasicType)}
	}
	return p, nil
}
