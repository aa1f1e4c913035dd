package profiler

import (
	"log"
	"runtime"
	"time"

	"github.com/loov/hrtime"
)

// Clock returns a monotonic timestamp. hrtime.Now is the default.
type Clock func() time.Duration

// Stats summarizes the frames of one reporting interval.
type Stats struct {
	Frames   int
	FPS      float64
	MinFrame time.Duration
	MaxFrame time.Duration
	AvgFrame time.Duration
	HeapMB   float64
	GCCount  uint32
}

// Profiler tracks frame rate, frame time spread and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	clock          Clock
	logf           func(format string, args ...any)
	updateInterval time.Duration
	readMem        bool

	frameCount  int
	windowStart time.Duration
	lastFrame   time.Duration
	minFrame    time.Duration
	maxFrame    time.Duration
	sumFrame    time.Duration

	memStats runtime.MemStats
}

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often Tick reports. Non-positive values are ignored.
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithClock replaces the high resolution clock, mostly for tests.
func WithClock(c Clock) ProfilerOption {
	return func(p *Profiler) {
		p.clock = c
	}
}

// WithLogger replaces log.Printf as the output sink. A nil logger silences output.
func WithLogger(logf func(format string, args ...any)) ProfilerOption {
	return func(p *Profiler) {
		p.logf = logf
	}
}

// WithMemStats enables or disables reading runtime.MemStats on each report.
func WithMemStats(enabled bool) ProfilerOption {
	return func(p *Profiler) {
		p.readMem = enabled
	}
}

// NewProfiler creates a new Profiler.
// Update interval defaults to 1 second and timestamps come from hrtime.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		clock:          hrtime.Now,
		logf:           log.Printf,
		updateInterval: time.Second,
		readMem:        true,
	}
	for _, opt := range options {
		opt(p)
	}
	now := p.clock()
	p.windowStart = now
	p.lastFrame = now
	return p
}

// Tick should be called once per frame, after Present, to track frame timing.
// Logs performance statistics when the update interval has elapsed and starts a new interval.
//
// Returns:
//   - Stats: the interval summary, valid only when the bool is true
//   - bool: true if stats were reported this tick, false otherwise
func (p *Profiler) Tick() (Stats, bool) {
	now := p.clock()
	frame := now - p.lastFrame
	p.lastFrame = now

	if p.frameCount == 0 || frame < p.minFrame {
		p.minFrame = frame
	}
	if frame > p.maxFrame {
		p.maxFrame = frame
	}
	p.sumFrame += frame
	p.frameCount++

	elapsed := now - p.windowStart
	if elapsed < p.updateInterval {
		return Stats{}, false
	}

	s := Stats{
		Frames:   p.frameCount,
		FPS:      float64(p.frameCount) / elapsed.Seconds(),
		MinFrame: p.minFrame,
		MaxFrame: p.maxFrame,
		AvgFrame: p.sumFrame / time.Duration(p.frameCount),
	}
	if p.readMem {
		runtime.ReadMemStats(&p.memStats)
		s.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
		s.GCCount = p.memStats.NumGC
	}

	if p.logf != nil {
		p.logf("[Profiler] FPS: %.2f | Frame: avg %v min %v max %v | Heap: %.2f MB | GC: %d",
			s.FPS, s.AvgFrame, s.MinFrame, s.MaxFrame, s.HeapMB, s.GCCount)
	}

	p.frameCount = 0
	p.windowStart = now
	p.minFrame = 0
	p.maxFrame = 0
	p.sumFrame = 0
	return s, true
}
