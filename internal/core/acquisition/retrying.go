package acquisition

import (
	"errors"
	"io/fs"
	"time"

	"github.com/nmrml/converter/internal/core/acquisition/paramfile"
	"github.com/nmrml/converter/internal/core/infrastructure/metrics"
	acquisitionInterface "github.com/nmrml/converter/pkg/interfaces/acquisition"
	"github.com/nmrml/converter/pkg/interfaces/infrastructure/log"
	"github.com/nmrml/converter/pkg/types"
)

// maxRetryBackoff 单次重试等待上限
const maxRetryBackoff = 5 * time.Second

// RetryingReader 对瞬时 I/O 故障重试
//
// 只重试 open 阶段且原因不是“不存在/无权限/过大”的失败；
// 语法错误、参数缺失、校验失败重试也不会变好，直接返回。
type RetryingReader struct {
	inner    acquisitionInterface.Reader
	format   types.SourceFormat
	attempts int
	base     time.Duration
	recorder *metrics.Recorder
	logger   log.Logger
	sleep    func(time.Duration)
}

// NewRetryingReader attempts 为重试次数（不含首次调用）
func NewRetryingReader(inner acquisitionInterface.Reader, format types.SourceFormat, attempts int, base time.Duration, recorder *metrics.Recorder, logger log.Logger) *RetryingReader {
	return &RetryingReader{
		inner:    inner,
		format:   format,
		attempts: attempts,
		base:     base,
		recorder: recorder,
		logger:   logger,
		sleep:    time.Sleep,
	}
}

// Read 实现 acquisition.Reader
func (r *RetryingReader) Read() (*types.Acquisition, error) {
	b := newBackoff(r.base, maxRetryBackoff, 2.0, 0.1)

	acq, err := r.inner.Read()
	for attempt := 1; err != nil && attempt <= r.attempts && isTransient(err); attempt++ {
		wait := b.next()
		r.logger.Warnf("读取失败，%s 后第 %d 次重试: %v", wait, attempt, err)
		r.recorder.ObserveRetry(r.format)
		r.sleep(wait)
		acq, err = r.inner.Read()
	}
	if err != nil {
		return nil, err
	}
	return acq, nil
}

// isTransient 是否可能通过重试恢复
func isTransient(err error) bool {
	re, ok := types.IsReadError(err)
	if !ok || re.Op != "open" {
		return false
	}
	switch {
	case errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission),
		errors.Is(err, paramfile.ErrTooLarge):
		return false
	}
	return true
}
