package profiler

import (
	"strings"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Duration
}

func (c *fakeClock) Now() time.Duration { return c.now }

func TestTickReportsInterval(t *testing.T) {
	clk := &fakeClock{}
	var lines []string
	p := NewProfiler(
		WithClock(clk.Now),
		WithMemStats(false),
		WithLogger(func(format string, args ...any) { lines = append(lines, format) }),
	)

	frames := []time.Duration{
		100 * time.Millisecond,
		300 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
	}
	var (
		stats    Stats
		reported bool
	)
	for i, d := range frames {
		clk.now += d
		stats, reported = p.Tick()
		if i < len(frames)-1 && reported {
			t.Fatalf("Tick %d\nhave reported\nwant not yet", i)
		}
	}
	if !reported {
		t.Fatal("Tick after 1s\nhave not reported\nwant reported")
	}

	if stats.Frames != 4 {
		t.Fatalf("Frames\nhave %d\nwant 4", stats.Frames)
	}
	if stats.FPS != 4 {
		t.Fatalf("FPS\nhave %v\nwant 4", stats.FPS)
	}
	if stats.MinFrame != 100*time.Millisecond || stats.MaxFrame != 400*time.Millisecond {
		t.Fatalf("Min/Max\nhave %v/%v\nwant 100ms/400ms", stats.MinFrame, stats.MaxFrame)
	}
	if stats.AvgFrame != 250*time.Millisecond {
		t.Fatalf("AvgFrame\nhave %v\nwant 250ms", stats.AvgFrame)
	}
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "[Profiler]") {
		t.Fatalf("log lines\nhave %q\nwant one [Profiler] line", lines)
	}
}

func TestTickResetsWindow(t *testing.T) {
	clk := &fakeClock{}
	p := NewProfiler(WithClock(clk.Now), WithMemStats(false), WithLogger(nil), WithInterval(time.Second))

	clk.now += 2 * time.Second
	if _, ok := p.Tick(); !ok {
		t.Fatal("first Tick\nhave not reported\nwant reported")
	}

	clk.now += 10 * time.Millisecond
	if _, ok := p.Tick(); ok {
		t.Fatal("Tick after reset\nhave reported\nwant not reported")
	}
	clk.now += 990 * time.Millisecond
	s, ok := p.Tick()
	if !ok {
		t.Fatal("Tick at end of second window\nhave not reported\nwant reported")
	}
	if s.Frames != 2 || s.MinFrame != 10*time.Millisecond || s.MaxFrame != 990*time.Millisecond {
		t.Fatalf("second window\nhave %+v\nwant 2 frames 10ms..990ms", s)
	}
}

func TestWithIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler(WithInterval(0), WithInterval(-time.Second), WithLogger(nil))
	if p.updateInterval != time.Second {
		t.Fatalf("updateInterval\nhave %v\nwant 1s", p.updateInterval)
	}
}
