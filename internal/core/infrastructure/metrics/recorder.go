// Package metrics 提供读取与转换的 Prometheus 指标
//
// 📋 **指标采集 (Metrics)**
//
// Recorder 持有独立的 prometheus.Registry，不污染全局默认注册表：
// - reads_total{format,result}：采集参数读取次数
// - read_duration_seconds{format}：读取耗时
// - read_retries_total{format}：瞬时故障重试次数
// - cache_lookups_total{result}：解析结果缓存命中/未命中
// - conversions_total{result}：转换结果（completed/skipped/failed）
//
// nil *Recorder 的所有方法都是空操作，指标关闭时调用方无需判空。
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	metricsconfig "github.com/nmrml/converter/internal/config/metrics"
	"github.com/nmrml/converter/pkg/types"
)

// 标签取值
const (
	ResultSuccess   = "success"
	ResultFailure   = "failure"
	ResultHit       = "hit"
	ResultMiss      = "miss"
	ResultCompleted = "completed"
	ResultSkipped   = "skipped"
	ResultFailed    = "failed"
)

// Recorder 指标记录器
type Recorder struct {
	registry  *prometheus.Registry
	namespace string

	reads        *prometheus.CounterVec
	readDuration *prometheus.HistogramVec
	retries      *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
	conversions  *prometheus.CounterVec
}

// New 创建指标记录器，未启用时返回 nil
func New(config *metricsconfig.Config) *Recorder {
	if !config.IsEnabled() {
		return nil
	}
	namespace := config.GetNamespace()
	registry := prometheus.NewRegistry()

	r := &Recorder{registry: registry, namespace: namespace}

	r.reads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reader",
			Name:      "reads_total",
			Help:      "Total number of acquisition parameter reads",
		},
		[]string{"format", "result"},
	)

	r.readDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reader",
			Name:      "read_duration_seconds",
			Help:      "Acquisition parameter read duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"format"},
	)

	r.retries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reader",
			Name:      "read_retries_total",
			Help:      "Total number of retried acquisition parameter reads",
		},
		[]string{"format"},
	)

	r.cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Parsed acquisition cache lookups",
		},
		[]string{"result"},
	)

	r.conversions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "converter",
			Name:      "conversions_total",
			Help:      "Total number of conversions by result",
		},
		[]string{"result"},
	)

	registry.MustRegister(
		r.reads,
		r.readDuration,
		r.retries,
		r.cacheLookups,
		r.conversions,
		collectors.NewGoCollector(),
	)

	return r
}

// Registry 返回底层注册表，未启用时为 nil
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveRead 记录一次读取
func (r *Recorder) ObserveRead(format types.SourceFormat, duration time.Duration, err error) {
	if r == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	label := formatLabel(format)
	r.reads.WithLabelValues(label, result).Inc()
	r.readDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// ObserveRetry 记录一次重试
func (r *Recorder) ObserveRetry(format types.SourceFormat) {
	if r == nil {
		return
	}
	r.retries.WithLabelValues(formatLabel(format)).Inc()
}

// ObserveCacheLookup 记录一次缓存查询
func (r *Recorder) ObserveCacheLookup(hit bool) {
	if r == nil {
		return
	}
	if hit {
		r.cacheLookups.WithLabelValues(ResultHit).Inc()
		return
	}
	r.cacheLookups.WithLabelValues(ResultMiss).Inc()
}

// ObserveConversion 记录一次转换，result 取 ResultCompleted / ResultSkipped / ResultFailed
func (r *Recorder) ObserveConversion(result string) {
	if r == nil {
		return
	}
	r.conversions.WithLabelValues(result).Inc()
}

// RegisterGaugeFunc 注册按需求值的 gauge，例如缓存条目数
func (r *Recorder) RegisterGaugeFunc(subsystem, name, help string, fn func() float64) error {
	if r == nil {
		return nil
	}
	gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, fn)
	if err := r.registry.Register(gauge); err != nil {
		return fmt.Errorf("注册指标 %s_%s 失败: %w", subsystem, name, err)
	}
	return nil
}

// WriteToTextfile 以 node_exporter textfile 格式写出当前指标
func (r *Recorder) WriteToTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("写出指标文件失败: %w", err)
	}
	return nil
}

func formatLabel(format types.SourceFormat) string {
	if format == types.FormatUnknown {
		return "unknown"
	}
	return string(format)
}
