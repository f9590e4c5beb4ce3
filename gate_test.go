package cfbzip

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestGateThrottle(t *testing.T) {
	cases := []struct {
		name  string
		steps []time.Duration
		want  int
	}{
		{"too soon", []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, 0},
		{"exact interval", []time.Duration{100 * time.Millisecond, 100 * time.Millisecond}, 2},
		{"one of two", []time.Duration{150 * time.Millisecond, 50 * time.Millisecond}, 1},
		{"long gap", []time.Duration{time.Second}, 1},
	}
	opts := GateOptions{MinDelta: 100 * time.Millisecond, AutoMark: true}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clock := &fakeClock{t: time.Unix(1000, 0)}
			g := NewGate(clock.now)
			ran := 0
			for _, d := range tc.steps {
				clock.advance(d)
				g.RunIfElapsed(func() { ran++ }, opts)
			}
			if ran != tc.want {
				t.Fatalf("ran %d times, want %d", ran, tc.want)
			}
		})
	}
}

func TestGateNoAutoMark(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	g := NewGate(clock.now)
	clock.advance(200 * time.Millisecond)
	opts := GateOptions{MinDelta: 100 * time.Millisecond}
	ran := 0
	for i := 0; i < 3; i++ {
		g.RunIfElapsed(func() { ran++ }, opts)
	}
	if ran != 3 {
		t.Fatalf("ran %d times, want 3", ran)
	}
	g.Mark()
	if g.RunIfElapsed(func() { ran++ }, opts) {
		t.Fatal("ran right after Mark")
	}
}

func TestGateMarkTiming(t *testing.T) {
	for _, timing := range []MarkTiming{MarkBefore, MarkAfter} {
		clock := &fakeClock{t: time.Unix(1000, 0)}
		g := NewGate(clock.now)
		clock.advance(time.Second)
		start := clock.t
		g.RunIfElapsed(func() { clock.advance(30 * time.Millisecond) },
			GateOptions{MinDelta: 100 * time.Millisecond, AutoMark: true, Timing: timing})

		want := start
		if timing == MarkAfter {
			want = start.Add(30 * time.Millisecond)
		}
		if !g.LastMark().Equal(want) {
			t.Fatalf("timing %d: mark at %v, want %v", timing, g.LastMark(), want)
		}
	}
}

func TestShouldEmit(t *testing.T) {
	base := time.Unix(0, 0)
	if ShouldEmit(base.Add(99*time.Millisecond), base, 100*time.Millisecond) {
		t.Fatal("emitted before interval")
	}
	if !ShouldEmit(base.Add(100*time.Millisecond), base, 100*time.Millisecond) {
		t.Fatal("did not emit at interval")
	}
}
