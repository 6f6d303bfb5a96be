package conn

import (
	"runtime"
	"sync"
	"time"

	"github.com/vctt94/pokertablesync/pkg/protocol"
)

// batcher coalesces frames received within a window. Deliveries are
// serialized so batches reach the consumer in arrival order.
type batcher struct {
	window  time.Duration
	large   int
	deliver func([]protocol.Frame)

	mu      sync.Mutex
	buf     []protocol.Frame
	timer   *time.Timer
	stopped bool

	deliverMu sync.Mutex
}

func newBatcher(window time.Duration, large int, deliver func([]protocol.Frame)) *batcher {
	return &batcher{window: window, large: large, deliver: deliver}
}

func (b *batcher) add(f protocol.Frame) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return
	}
	b.buf = append(b.buf, f)
	if b.timer == nil {
		b.timer = time.AfterFunc(b.window, b.flush)
	}
}

func (b *batcher) flush() {
	b.deliverMu.Lock()
	defer b.deliverMu.Unlock()

	b.mu.Lock()
	batch := b.buf
	b.buf = nil
	b.timer = nil
	stopped := b.stopped
	b.mu.Unlock()

	if stopped || len(batch) == 0 {
		return
	}
	if len(batch) > b.large {
		runtime.Gosched()
	}
	b.deliver(batch)
}

// stop drops anything pending. It does not wait for a delivery in
// progress, so it is safe to call from the consumer.
func (b *batcher) stop() {
	b.mu.Lock()
	b.stopped = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.buf = nil
	b.mu.Unlock()
}
