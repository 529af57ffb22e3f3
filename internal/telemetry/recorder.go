package telemetry

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"asteroids/internal/game"
)

// Sink persists batches of frames. WriteBatch is only called from the
// recorder's writer goroutine.
type Sink interface {
	WriteBatch(frames []Frame) error
}

type RecorderOptions struct {
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
}

// Recorder is the game's telemetry collaborator. Frames are queued without
// blocking and written to the sinks in batches by a background goroutine.
type Recorder struct {
	runID  string
	sinks  []Sink
	log    *zap.Logger
	opts   RecorderOptions
	frames chan Frame
	stop   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup

	dropped     atomic.Uint64
	overflowing atomic.Bool
}

var _ game.Telemetry = (*Recorder)(nil)

// NewRecorder creates and starts the background writer.
func NewRecorder(runID string, opts RecorderOptions, log *zap.Logger, sinks ...Sink) *Recorder {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 4096
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 64
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = 2 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	r := &Recorder{
		runID:  runID,
		sinks:  sinks,
		log:    log,
		opts:   opts,
		frames: make(chan Frame, opts.QueueSize),
		stop:   make(chan struct{}),
	}
	r.wg.Add(1)
	go r.writer()
	return r
}

func (r *Recorder) RecordEvent(e game.Event) {
	r.enqueue(EventFrame(r.runID, e))
}

func (r *Recorder) RecordSnapshot(s game.Snapshot) {
	r.enqueue(SnapshotFrame(r.runID, s))
}

// enqueue never blocks the frame loop; a full queue drops the frame.
func (r *Recorder) enqueue(f Frame) {
	select {
	case r.frames <- f:
		r.overflowing.Store(false)
	default:
		r.dropped.Add(1)
		if !r.overflowing.Swap(true) {
			r.log.Warn("telemetry queue full, dropping frames",
				zap.Int("queue_size", r.opts.QueueSize),
				zap.Uint64("dropped_total", r.dropped.Load()))
		}
	}
}

// Dropped returns how many frames were discarded on a full queue.
func (r *Recorder) Dropped() uint64 { return r.dropped.Load() }

// Close drains the queue into the sinks and stops the writer. Sinks are
// owned by the caller and stay open.
func (r *Recorder) Close() {
	r.once.Do(func() {
		close(r.stop)
		r.wg.Wait()
		if n := r.dropped.Load(); n > 0 {
			r.log.Warn("telemetry frames dropped", zap.Uint64("dropped", n))
		}
	})
}

func (r *Recorder) writer() {
	defer r.wg.Done()

	batch := make([]Frame, 0, r.opts.BatchSize)
	ticker := time.NewTicker(r.opts.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case f := <-r.frames:
			batch = append(batch, f)
			if len(batch) >= r.opts.BatchSize {
				r.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				r.flush(batch)
				batch = batch[:0]
			}
		case <-r.stop:
		drain:
			for {
				select {
				case f := <-r.frames:
					batch = append(batch, f)
				default:
					break drain
				}
			}
			if len(batch) > 0 {
				r.flush(batch)
			}
			return
		}
	}
}

func (r *Recorder) flush(batch []Frame) {
	for _, s := range r.sinks {
		if err := s.WriteBatch(batch); err != nil {
			r.log.Warn("telemetry sink write failed", zap.Error(err), zap.Int("frames", len(batch)))
		}
	}
}

// Multi fans every call out to each collaborator in order.
func Multi(ts ...game.Telemetry) game.Telemetry {
	return multi(ts)
}

type multi []game.Telemetry

func (m multi) RecordEvent(e game.Event) {
	for _, t := range m {
		t.RecordEvent(e)
	}
}

func (m multi) RecordSnapshot(s game.Snapshot) {
	for _, t := range m {
		t.RecordSnapshot(s)
	}
}
