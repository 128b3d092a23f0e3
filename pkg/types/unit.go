package types

import (
	"fmt"
	"math"
)

// Unit 计量单位，带 Unit Ontology (UO) 登记号
type Unit struct {
	Name      string `json:"name"`
	Accession string `json:"accession"`
}

// nmrML 使用的 UO 单位
var (
	UnitKelvin      = Unit{Name: "kelvin", Accession: "UO_0000012"}
	UnitHertz       = Unit{Name: "hertz", Accession: "UO_0000106"}
	UnitMegahertz   = Unit{Name: "megahertz", Accession: "UO_0000325"}
	UnitSecond      = Unit{Name: "second", Accession: "UO_0000010"}
	UnitMicrosecond = Unit{Name: "microsecond", Accession: "UO_0000029"}
	UnitGauss       = Unit{Name: "gauss", Accession: "UO_0000335"}
)

// UnitCVRef nmrML 中单位词表的引用名
const UnitCVRef = "UO"

// ValueWithUnit 带单位的数值
type ValueWithUnit struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// String 便于日志输出
func (v ValueWithUnit) String() string {
	return fmt.Sprintf("%g %s", v.Value, v.Unit.Name)
}

// IsZero 值和单位均未设置
func (v ValueWithUnit) IsZero() bool {
	return v.Value == 0 && v.Unit.Name == ""
}

// Kelvin 构造开尔文温度
func Kelvin(v float64) ValueWithUnit { return ValueWithUnit{Value: v, Unit: UnitKelvin} }

// Hertz 构造赫兹频率
func Hertz(v float64) ValueWithUnit { return ValueWithUnit{Value: v, Unit: UnitHertz} }

// Megahertz 构造兆赫兹频率
func Megahertz(v float64) ValueWithUnit { return ValueWithUnit{Value: v, Unit: UnitMegahertz} }

// Seconds 构造秒
func Seconds(v float64) ValueWithUnit { return ValueWithUnit{Value: v, Unit: UnitSecond} }

// Microseconds 构造微秒
func Microseconds(v float64) ValueWithUnit { return ValueWithUnit{Value: v, Unit: UnitMicrosecond} }

// Gauss 构造高斯
func Gauss(v float64) ValueWithUnit { return ValueWithUnit{Value: v, Unit: UnitGauss} }

// CelsiusToKelvin 摄氏度转开尔文
func CelsiusToKelvin(c float64) float64 {
	return c + 273.15
}

// ExcitationFieldFromPulse 由 90° 脉冲宽度（微秒）推算有效激发场强（高斯）
//
// B1 = 1 / (4 * pw90 * gamma/2π)，gamma 取观测核的旋磁比（MHz/T）。
// 未知核或脉冲宽度非正时返回 0。
func ExcitationFieldFromPulse(pw90us float64, nucleus string) float64 {
	gamma, ok := gyromagneticRatios[nucleus]
	if !ok || pw90us <= 0 {
		return 0
	}
	// gamma 单位 MHz/T；pw90 单位 µs；1 T = 10^4 G
	tesla := 1.0 / (4.0 * pw90us * math.Abs(gamma))
	return tesla * 1e4
}

// gyromagneticRatios 常见观测核的 γ/2π，单位 MHz/T
var gyromagneticRatios = map[string]float64{
	"1H":   42.577478518,
	"2H":   6.536,
	"13C":  10.7084,
	"15N":  -4.316,
	"19F":  40.078,
	"31P":  17.235,
	"29Si": -8.465,
}
