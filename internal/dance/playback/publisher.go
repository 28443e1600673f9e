package playback

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/banshee-data/dancefloor/internal/monitoring"
	"github.com/banshee-data/dancefloor/internal/timeutil"
)

// Sink receives every bundle a Driver produces.
type Sink interface {
	Publish(*FrameBundle)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(*FrameBundle)

// Publish calls f(b).
func (f SinkFunc) Publish(b *FrameBundle) { f(b) }

// PublisherConfig sizes the publisher's queues.
type PublisherConfig struct {
	// QueueSize is the depth of the shared inbound queue.
	QueueSize int
	// SubscriberBuffer is the per-subscriber channel depth.
	SubscriberBuffer int
	// StatsInterval is how often throughput is logged (0 disables).
	StatsInterval time.Duration
}

// DefaultPublisherConfig returns the default queue sizes.
func DefaultPublisherConfig() PublisherConfig {
	return PublisherConfig{
		QueueSize:        100,
		SubscriberBuffer: 10,
		StatsInterval:    5 * time.Second,
	}
}

// Publisher fans bundles out to subscribers. A slow subscriber loses
// frames rather than stalling the driver.
type Publisher struct {
	config PublisherConfig
	clock  timeutil.Clock

	frameChan chan *FrameBundle
	subs      map[string]*Subscription
	subsMu    sync.RWMutex

	frameCount     atomic.Uint64
	droppedFrames  atomic.Uint64
	subCount       atomic.Int32
	lastStatsTime  time.Time
	lastFrameCount uint64
	lastStatsMu    sync.Mutex

	running atomic.Bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// Subscription is one consumer's view of the stream.
type Subscription struct {
	id      string
	frameCh chan *FrameBundle
	doneCh  chan struct{}
}

// ID returns the subscriber id.
func (s *Subscription) ID() string { return s.id }

// C delivers bundles in publish order, with gaps when the reader lags.
func (s *Subscription) C() <-chan *FrameBundle { return s.frameCh }

// Done is closed when the subscription is removed.
func (s *Subscription) Done() <-chan struct{} { return s.doneCh }

// NewPublisher creates a stopped publisher. A nil clock uses wall time.
func NewPublisher(cfg PublisherConfig, clock timeutil.Clock) *Publisher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultPublisherConfig().QueueSize
	}
	if cfg.SubscriberBuffer <= 0 {
		cfg.SubscriberBuffer = DefaultPublisherConfig().SubscriberBuffer
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Publisher{
		config:    cfg,
		clock:     clock,
		frameChan: make(chan *FrameBundle, cfg.QueueSize),
		subs:      make(map[string]*Subscription),
		stopCh:    make(chan struct{}),
	}
}

// Start launches the broadcast loop.
func (p *Publisher) Start() error {
	if !p.running.CompareAndSwap(false, true) {
		return fmt.Errorf("publisher already running")
	}
	p.wg.Add(1)
	go p.broadcastLoop()
	monitoring.Logf("[playback] publisher started (queue=%d, per-subscriber=%d)",
		p.config.QueueSize, p.config.SubscriberBuffer)
	return nil
}

// Stop halts the broadcast loop and closes every subscription.
func (p *Publisher) Stop() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.stopCh)
	p.wg.Wait()

	p.subsMu.Lock()
	for id, s := range p.subs {
		close(s.doneCh)
		delete(p.subs, id)
	}
	p.subsMu.Unlock()
	p.subCount.Store(0)
	monitoring.Logf("[playback] publisher stopped: frames=%d dropped=%d",
		p.frameCount.Load(), p.droppedFrames.Load())
}

// Publish queues b for broadcast. It never blocks; a full queue drops b.
func (p *Publisher) Publish(b *FrameBundle) {
	if b == nil || !p.running.Load() {
		return
	}

	depth := len(p.frameChan)
	if depth > p.config.QueueSize/2 {
		monitoring.Logf("[playback] frame queue depth high: %d/%d", depth, p.config.QueueSize)
	}

	select {
	case p.frameChan <- b:
		count := p.frameCount.Add(1)
		p.logPeriodicStats(count, depth)
	default:
		dropped := p.droppedFrames.Add(1)
		monitoring.Logf("[playback] dropped tick %d (total dropped: %d), queue full", b.Tick, dropped)
	}
}

func (p *Publisher) logPeriodicStats(frameCount uint64, queueDepth int) {
	if p.config.StatsInterval <= 0 {
		return
	}
	p.lastStatsMu.Lock()
	defer p.lastStatsMu.Unlock()

	now := p.clock.Now()
	if p.lastStatsTime.IsZero() {
		p.lastStatsTime = now
		p.lastFrameCount = frameCount
		return
	}

	elapsed := now.Sub(p.lastStatsTime)
	if elapsed >= p.config.StatsInterval {
		frames := frameCount - p.lastFrameCount
		fps := float64(frames) / elapsed.Seconds()
		monitoring.Logf("[playback] stats: fps=%.1f frames=%d dropped=%d subscribers=%d queue=%d/%d",
			fps, frames, p.droppedFrames.Load(), p.subCount.Load(), queueDepth, p.config.QueueSize)
		p.lastStatsTime = now
		p.lastFrameCount = frameCount
	}
}

func (p *Publisher) broadcastLoop() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopCh:
			return
		case b := <-p.frameChan:
			p.subsMu.RLock()
			for _, s := range p.subs {
				select {
				case s.frameCh <- b:
				default:
					p.droppedFrames.Add(1)
				}
			}
			p.subsMu.RUnlock()
		}
	}
}

// Subscribe registers a consumer. Subscribing an existing id replaces it.
func (p *Publisher) Subscribe(id string) *Subscription {
	s := &Subscription{
		id:      id,
		frameCh: make(chan *FrameBundle, p.config.SubscriberBuffer),
		doneCh:  make(chan struct{}),
	}

	p.subsMu.Lock()
	if old, ok := p.subs[id]; ok {
		close(old.doneCh)
	} else {
		p.subCount.Add(1)
	}
	p.subs[id] = s
	p.subsMu.Unlock()

	monitoring.Logf("[playback] subscriber connected: %s (total: %d)", id, p.subCount.Load())
	return s
}

// Unsubscribe removes a consumer. Unknown ids are ignored.
func (p *Publisher) Unsubscribe(id string) {
	p.subsMu.Lock()
	s, ok := p.subs[id]
	if ok {
		close(s.doneCh)
		delete(p.subs, id)
	}
	p.subsMu.Unlock()
	if ok {
		p.subCount.Add(-1)
		monitoring.Logf("[playback] subscriber disconnected: %s (remaining: %d)", id, p.subCount.Load())
	}
}

// PublisherStats reports publisher counters.
type PublisherStats struct {
	FrameCount      uint64
	DroppedFrames   uint64
	SubscriberCount int32
	Running         bool
}

// Stats returns current counters.
func (p *Publisher) Stats() PublisherStats {
	return PublisherStats{
		FrameCount:      p.frameCount.Load(),
		DroppedFrames:   p.droppedFrames.Load(),
		SubscriberCount: p.subCount.Load(),
		Running:         p.running.Load(),
	}
}
