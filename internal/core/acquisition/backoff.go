package acquisition

import (
	"math/rand"
	"time"
)

// backoff 指数退避，带抖动与上限
type backoff struct {
	base   time.Duration
	max    time.Duration
	factor float64
	jitter float64
	cur    time.Duration
}

func newBackoff(base, max time.Duration, factor, jitter float64) *backoff {
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	if max <= 0 || max < base {
		max = 5 * time.Second
	}
	if factor < 1.0 {
		factor = 2.0
	}
	if jitter < 0 || jitter > 1 {
		jitter = 0.2
	}
	return &backoff{base: base, max: max, factor: factor, jitter: jitter, cur: base}
}

func (b *backoff) next() time.Duration {
	d := b.cur
	// 抖动：在 [1-jitter, 1+jitter] 之间
	if b.jitter > 0 {
		f := 1 + (rand.Float64()*2-1)*b.jitter
		d = time.Duration(float64(d) * f)
	}
	next := time.Duration(float64(b.cur) * b.factor)
	if next > b.max {
		next = b.max
	}
	b.cur = next
	return d
}
