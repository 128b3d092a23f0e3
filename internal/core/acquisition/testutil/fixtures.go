// Package testutil 提供采集参数读取相关测试的辅助工具
//
// 🧪 **测试数据 Fixtures**
//
// 生成最小但完整的 Bruker acqus 与 Varian procpar，可按标签覆盖或删除取值。
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Omit 作为覆盖值时删除该标签
const Omit = "\x00omit"

type entry struct {
	label string
	value string
}

// brukerEntries 默认 acqus 内容（一维 1H zg30）
var brukerEntries = []entry{
	{"##TITLE", "Parameter file, TOPSPIN\t\tVersion 3.2"},
	{"##JCAMPDX", "5.0"},
	{"##DATATYPE", "Parameter Values"},
	{"##ORIGIN", "Bruker BioSpin GmbH"},
	{"##OWNER", "nmrsu"},
	{"##$AQ_mod", "3"},
	{"##$BYTORDA", "0"},
	{"##$D", "(0..63)\n0 2 0.03" + strings.Repeat(" 0", 61)},
	{"##$DATE", "1393841429"},
	{"##$DECIM", "1666.66666666667"},
	{"##$DS", "2"},
	{"##$DSPFVS", "20"},
	{"##$DTYPA", "0"},
	{"##$EXP", "<proton_1d>"},
	{"##$GRPDLY", "67.9841003417969"},
	{"##$INSTRUM", "<spect>"},
	{"##$MASR", "0"},
	{"##$NS", "16"},
	{"##$NUC1", "<1H>"},
	{"##$NUC2", "<off>"},
	{"##$O1", "2824.6"},
	{"##$P", "(0..63)\n0 9.5 19" + strings.Repeat(" 0", 61)},
	{"##$PARMODE", "0"},
	{"##$PROBHD", "<5 mm PABBO BB/>"},
	{"##$PULPROG", "<zg30>"},
	{"##$RG", "90.5"},
	{"##$SFO1", "600.1328246"},
	{"##$SOLVENT", "<CDCl3>"},
	{"##$SPNAM", "(0..3)\n<gauss> <Sinc1.1000> <> <gauss>"},
	{"##$SW_h", "12019.2307692308"},
	{"##$TD", "65536"},
	{"##$TE", "298.1"},
}

// BrukerAcqus 生成 acqus 文本，overrides 的键为不带 ##/$ 前缀的标签
func BrukerAcqus(overrides map[string]string) string {
	used := make(map[string]bool, len(overrides))
	var b strings.Builder
	for _, e := range brukerEntries {
		name := strings.TrimPrefix(strings.TrimPrefix(e.label, "##"), "$")
		value := e.value
		if v, ok := overrides[name]; ok {
			used[name] = true
			value = v
		}
		if value == Omit {
			continue
		}
		fmt.Fprintf(&b, "%s= %s\n", e.label, value)
	}
	for name, value := range overrides {
		if !used[name] && value != Omit {
			fmt.Fprintf(&b, "##$%s= %s\n", name, value)
		}
	}
	b.WriteString("##END=\n")
	return b.String()
}

// WriteBruker 在 dir 下写出实验目录（acqus 与空 fid），返回目录路径
func WriteBruker(t testing.TB, dir string, overrides map[string]string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("创建目录失败: %v", err)
	}
	writeFile(t, filepath.Join(dir, "acqus"), BrukerAcqus(overrides))
	writeFile(t, filepath.Join(dir, "fid"), "")
	return dir
}

type procparEntry struct {
	name   string
	header string // 名称之后的 10 个头部字段
	value  string // 取值行，含个数
}

const (
	realHeader   = "1 1 1e+09 -1e+09 0 2 1 11 1 64"
	stringHeader = "2 2 256 0 0 2 1 9 1 64"
)

// varianEntries 默认 procpar 内容（一维 1H s2pul）
var varianEntries = []procparEntry{
	{"console", stringHeader, `1 "vnmrs"`},
	{"d1", realHeader, "1 1.5"},
	{"date", stringHeader, `1 "Mar  3 2014"`},
	{"dm", stringHeader, `1 "nnn"`},
	{"dn", stringHeader, `1 "C13"`},
	{"dp", stringHeader, `1 "y"`},
	{"gain", realHeader, "1 30"},
	{"ni", realHeader, "1 1"},
	{"np", realHeader, "1 32768"},
	{"nt", realHeader, "1 8"},
	{"operator_", stringHeader, `1 "vnmr1"`},
	{"parversion", realHeader, "1 4.2"},
	{"probe_", stringHeader, `1 "autoxdb"`},
	{"pw", realHeader, "1 4"},
	{"pw90", realHeader, "1 8"},
	{"samplename", stringHeader, `1 "sucrose"`},
	{"seqfil", stringHeader, `1 "s2pul"`},
	{"sfrq", realHeader, "1 499.8326218"},
	{"solvent", stringHeader, `1 "D2O"`},
	{"spin", realHeader, "1 20"},
	{"ss", realHeader, "1 4"},
	{"sw", realHeader, "1 8012.8"},
	{"temp", realHeader, "1 25"},
	{"time_run", stringHeader, `1 "20140303T111029"`},
	{"tn", stringHeader, `1 "H1"`},
	{"tof", realHeader, "1 -500.2"},
}

// VarianProcpar 生成 procpar 文本，overrides 的值为完整取值行（含个数）
//
// 新增参数时根据取值是否带引号选择字符串或实数头部。
func VarianProcpar(overrides map[string]string) string {
	used := make(map[string]bool, len(overrides))
	var b strings.Builder
	write := func(name, header, value string) {
		fmt.Fprintf(&b, "%s %s\n%s \n0 \n", name, header, value)
	}
	for _, e := range varianEntries {
		value := e.value
		if v, ok := overrides[e.name]; ok {
			used[e.name] = true
			value = v
		}
		if value == Omit {
			continue
		}
		write(e.name, e.header, value)
	}
	for name, value := range overrides {
		if used[name] || value == Omit {
			continue
		}
		header := realHeader
		if strings.Contains(value, `"`) {
			header = stringHeader
		}
		write(name, header, value)
	}
	return b.String()
}

// WriteVarian 在 dir 下写出 .fid 目录（procpar 与空 fid），返回目录路径
func WriteVarian(t testing.TB, dir string, overrides map[string]string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("创建目录失败: %v", err)
	}
	writeFile(t, filepath.Join(dir, "procpar"), VarianProcpar(overrides))
	writeFile(t, filepath.Join(dir, "fid"), "")
	return dir
}

func writeFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入 %s 失败: %v", path, err)
	}
}
