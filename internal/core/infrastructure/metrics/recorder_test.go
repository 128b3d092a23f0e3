package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	metricsconfig "github.com/nmrml/converter/internal/config/metrics"
	"github.com/nmrml/converter/pkg/types"
)

func newTestRecorder(t *testing.T) *Recorder {
	t.Helper()
	r := New(metricsconfig.New(&types.UserMetricsConfig{Namespace: types.StringPtr("test")}))
	require.NotNil(t, r)
	return r
}

// TestObserveRead 测试读取计数与耗时
func TestObserveRead(t *testing.T) {
	r := newTestRecorder(t)

	r.ObserveRead(types.FormatBruker, 2*time.Millisecond, nil)
	r.ObserveRead(types.FormatBruker, 3*time.Millisecond, nil)
	r.ObserveRead(types.FormatVarian, time.Millisecond, errors.New("boom"))
	r.ObserveRead(types.FormatUnknown, time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.reads.WithLabelValues("bruker", ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.reads.WithLabelValues("varian", ResultFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.reads.WithLabelValues("unknown", ResultFailure)))
	assert.Equal(t, 3, testutil.CollectAndCount(r.readDuration))
}

// TestCacheAndConversion 测试缓存与转换计数
func TestCacheAndConversion(t *testing.T) {
	r := newTestRecorder(t)

	r.ObserveCacheLookup(true)
	r.ObserveCacheLookup(false)
	r.ObserveCacheLookup(false)
	r.ObserveConversion(ResultCompleted)
	r.ObserveConversion(ResultSkipped)
	r.ObserveRetry(types.FormatVarian)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues(ResultHit)))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues(ResultMiss)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.conversions.WithLabelValues(ResultSkipped)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.retries.WithLabelValues("varian")))
}

// TestWriteToTextfile 测试导出 textfile
func TestWriteToTextfile(t *testing.T) {
	r := newTestRecorder(t)
	r.ObserveRead(types.FormatBruker, time.Millisecond, nil)
	require.NoError(t, r.RegisterGaugeFunc("cache", "entries", "cached entries", func() float64 { return 7 }))

	path := filepath.Join(t.TempDir(), "nmrml.prom")
	require.NoError(t, r.WriteToTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `test_reader_reads_total{format="bruker",result="success"} 1`)
	assert.Contains(t, string(data), "test_cache_entries 7")

	// 重复注册同名 gauge 失败
	assert.Error(t, r.RegisterGaugeFunc("cache", "entries", "cached entries", func() float64 { return 0 }))
}

// TestDisabledRecorder 测试关闭时 nil 记录器安全
func TestDisabledRecorder(t *testing.T) {
	r := New(metricsconfig.New(&types.UserMetricsConfig{Enabled: types.BoolPtr(false)}))
	assert.Nil(t, r)

	assert.NotPanics(t, func() {
		r.ObserveRead(types.FormatBruker, time.Second, nil)
		r.ObserveRetry(types.FormatBruker)
		r.ObserveCacheLookup(true)
		r.ObserveConversion(ResultFailed)
	})
	assert.Nil(t, r.Registry())
	assert.NoError(t, r.WriteToTextfile(filepath.Join(t.TempDir(), "x.prom")))
	assert.NoError(t, r.RegisterGaugeFunc("a", "b", "c", func() float64 { return 0 }))
}
