package voice

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// CaptureDevice is exclusive access to a microphone. Start begins
// delivering normalized samples from the driver; the callback must
// return before the next period is due or the driver drops data.
// Stop releases the device and must be safe to call more than once.
type CaptureDevice interface {
	Start(onSamples func([]float32)) error
	Stop() error
}

// outboundQueueBlocks bounds the encoded frames waiting on the
// transport. Real-time freshness is preferred over completeness, so a
// full queue drops blocks instead of growing.
const outboundQueueBlocks = 8

// CapturePipeline owns the capture device for one session. It frames
// live audio into fixed-size blocks, computes a speech-activity signal
// per block, and forwards encoded frames to the session's outbound
// path without blocking the device callback.
type CapturePipeline struct {
	device CaptureDevice
	logger *slog.Logger

	sendFn     func(chunkB64 string) error
	onActivity func(active bool)

	mu       sync.Mutex
	pending  []float32
	speaking bool

	outbound chan string
	done     chan struct{}
	stopOnce sync.Once
	stopped  atomic.Bool
}

// NewCapturePipeline creates a pipeline over the given device.
func NewCapturePipeline(device CaptureDevice, logger *slog.Logger) *CapturePipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &CapturePipeline{
		device:   device,
		logger:   logger,
		pending:  make([]float32, 0, 2*CaptureBlockSamples),
		outbound: make(chan string, outboundQueueBlocks),
		done:     make(chan struct{}),
	}
}

// Start acquires the device and begins streaming. send receives one
// encoded frame per capture block; onActivity is invoked on every
// speech-activity transition. Returns ErrDeviceUnavailable (wrapped)
// when the device cannot be acquired.
func (p *CapturePipeline) Start(send func(chunkB64 string) error, onActivity func(active bool)) error {
	p.sendFn = send
	p.onActivity = onActivity

	go p.sendLoop()

	if err := p.device.Start(p.handleSamples); err != nil {
		p.Stop()
		return err
	}
	return nil
}

// Speaking reports the most recent speech-activity estimate.
func (p *CapturePipeline) Speaking() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.speaking
}

// Stop disconnects from the device and releases it. Idempotent; the
// first call's device error is returned, later calls return nil.
func (p *CapturePipeline) Stop() error {
	var err error
	p.stopOnce.Do(func() {
		p.stopped.Store(true)
		err = p.device.Stop()
		close(p.done)
	})
	return err
}

// handleSamples is the device driver callback. It accumulates samples
// into fixed-size blocks and processes each completed block inline.
func (p *CapturePipeline) handleSamples(samples []float32) {
	if p.stopped.Load() {
		return
	}

	p.mu.Lock()
	p.pending = append(p.pending, samples...)
	var blocks [][]float32
	for len(p.pending) >= CaptureBlockSamples {
		block := make([]float32, CaptureBlockSamples)
		copy(block, p.pending[:CaptureBlockSamples])
		p.pending = p.pending[CaptureBlockSamples:]
		blocks = append(blocks, block)
	}
	p.mu.Unlock()

	for _, block := range blocks {
		p.processBlock(block)
	}
}

// processBlock derives the activity signal and forwards the encoded
// frame. Forwarding never blocks: when the outbound queue is full the
// block is dropped silently.
func (p *CapturePipeline) processBlock(block []float32) {
	active := RMSAmplitude(block) >= SpeechActivityThreshold

	p.mu.Lock()
	changed := active != p.speaking
	p.speaking = active
	cb := p.onActivity
	p.mu.Unlock()

	if changed && cb != nil {
		cb(active)
	}

	chunk := EncodePCM16(block)
	select {
	case p.outbound <- chunk:
	default:
		p.logger.Debug("outbound queue full, dropping capture block")
	}
}

// sendLoop drains encoded frames to the transport.
func (p *CapturePipeline) sendLoop() {
	for {
		select {
		case <-p.done:
			return
		case chunk := <-p.outbound:
			if p.sendFn == nil {
				continue
			}
			if err := p.sendFn(chunk); err != nil {
				if p.stopped.Load() {
					return
				}
				p.logger.Debug("send capture frame", "error", err)
			}
		}
	}
}
