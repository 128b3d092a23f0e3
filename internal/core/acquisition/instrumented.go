package acquisition

import (
	"time"

	"github.com/nmrml/converter/internal/core/infrastructure/metrics"
	acquisitionInterface "github.com/nmrml/converter/pkg/interfaces/acquisition"
	"github.com/nmrml/converter/pkg/interfaces/infrastructure/event"
	"github.com/nmrml/converter/pkg/interfaces/infrastructure/log"
	"github.com/nmrml/converter/pkg/types"
)

// InstrumentedReader 记录读取指标并发布读取事件
type InstrumentedReader struct {
	inner    acquisitionInterface.Reader
	format   types.SourceFormat
	source   string
	recorder *metrics.Recorder
	bus      event.EventBus
	logger   log.Logger
	now      func() time.Time
}

// NewInstrumentedReader recorder 与 bus 均可为 nil
func NewInstrumentedReader(inner acquisitionInterface.Reader, format types.SourceFormat, source string, recorder *metrics.Recorder, bus event.EventBus, logger log.Logger) *InstrumentedReader {
	return &InstrumentedReader{
		inner:    inner,
		format:   format,
		source:   source,
		recorder: recorder,
		bus:      bus,
		logger:   logger,
		now:      time.Now,
	}
}

// Read 实现 acquisition.Reader
func (r *InstrumentedReader) Read() (*types.Acquisition, error) {
	start := r.now()
	acq, err := r.inner.Read()
	elapsed := r.now().Sub(start)

	r.recorder.ObserveRead(r.format, elapsed, err)

	if err != nil {
		r.logger.Warnf("读取采集参数失败 (%s): %v", elapsed, err)
		r.publish(event.EventReadFailed, &event.ReadEvent{Format: r.format, Source: r.source, Duration: elapsed, Err: err})
		return nil, err
	}

	r.logger.Debugf("读取采集参数完成: %s (%s)", r.source, elapsed)
	r.publish(event.EventReadCompleted, &event.ReadEvent{Format: r.format, Source: r.source, Duration: elapsed})
	return acq, nil
}

func (r *InstrumentedReader) publish(eventType event.EventType, payload *event.ReadEvent) {
	if r.bus == nil {
		return
	}
	r.bus.Publish(eventType, payload)
}
