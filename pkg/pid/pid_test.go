package pid

import (
	"math"
	"sync"
	"testing"
	"time"
)

const floatTolerance = 1e-9

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

// recorder collects delivered outputs.
type recorder struct {
	mu   sync.Mutex
	outs []float64
}

func (r *recorder) accept(out float64) {
	r.mu.Lock()
	r.outs = append(r.outs, out)
	r.mu.Unlock()
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.outs)
}

func (r *recorder) last() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outs[len(r.outs)-1]
}

func constSource(v float64) SourceFunc {
	return func() float64 { return v }
}

func TestTick_DisabledIsSilent(t *testing.T) {
	rec := &recorder{}
	c := New(Config{Kp: 1}, constSource(10), rec.accept)

	c.tick()
	c.tick()

	if rec.count() != 0 {
		t.Errorf("disabled ticks must not deliver output, got %d calls", rec.count())
	}
}

func TestTick_ProportionalSign(t *testing.T) {
	rec := &recorder{}
	c := New(Config{Kp: 0.05, Setpoint: 0}, constSource(10), rec.accept)

	c.Enable()
	c.tick()

	if rec.count() != 1 {
		t.Fatalf("expected one output, got %d", rec.count())
	}
	// err = 0 - 10 = -10; first tick has no derivative and Ki is zero.
	want := 0.05 * -10
	if !floatEquals(rec.last(), want) {
		t.Errorf("output: got %v, want %v", rec.last(), want)
	}
}

func TestTick_IntegralAccumulates(t *testing.T) {
	rec := &recorder{}
	c := New(Config{Kp: 0.05, Ki: 0.01, Setpoint: 0, Period: 20 * time.Millisecond},
		constSource(10), rec.accept)

	c.Enable()
	c.tick()
	c.tick()

	// err = -10 each tick, dt = 0.02: integral is -0.2 then -0.4.
	// Constant error means zero derivative on the second tick.
	want1 := 0.05*-10 + 0.01*-0.2
	want2 := 0.05*-10 + 0.01*-0.4
	if !floatEquals(rec.outs[0], want1) {
		t.Errorf("tick 1: got %v, want %v", rec.outs[0], want1)
	}
	if !floatEquals(rec.outs[1], want2) {
		t.Errorf("tick 2: got %v, want %v", rec.outs[1], want2)
	}
}

func TestTick_DerivativeActsOnErrorChange(t *testing.T) {
	rec := &recorder{}
	var pv float64 = 10
	var mu sync.Mutex
	source := func() float64 {
		mu.Lock()
		defer mu.Unlock()
		return pv
	}
	c := New(Config{
		Kd: 0.1, Setpoint: 0, Period: 20 * time.Millisecond,
		OutputMin: -100, OutputMax: 100,
	}, source, rec.accept)

	c.Enable()
	c.tick()
	mu.Lock()
	pv = 8
	mu.Unlock()
	c.tick()

	// err moves from -10 to -8: derivative = 2 / 0.02 = 100.
	want := 0.1 * 100.0
	if !floatEquals(rec.outs[1], want) {
		t.Errorf("derivative output: got %v, want %v", rec.outs[1], want)
	}
}

func TestEnable_ClearsHistory(t *testing.T) {
	rec := &recorder{}
	c := New(Config{Kp: 0.05, Ki: 0.01, Setpoint: 0, Period: 20 * time.Millisecond},
		constSource(10), rec.accept)

	c.Enable()
	c.tick()
	c.tick()
	c.Disable()
	c.Enable()
	c.tick()

	// Integral restarts at err*dt, same as the very first tick.
	if !floatEquals(rec.outs[2], rec.outs[0]) {
		t.Errorf("re-enable must clear integral: got %v, want %v", rec.outs[2], rec.outs[0])
	}
}

func TestOutputClamp(t *testing.T) {
	rec := &recorder{}
	c := New(Config{Kp: 1, Setpoint: 0}, constSource(300), rec.accept)

	c.Enable()
	c.tick()

	if !floatEquals(rec.last(), -1) {
		t.Errorf("output should clamp to -1, got %v", rec.last())
	}
}

func TestContinuousWrap(t *testing.T) {
	// A heading of 500 in a ±360 range should correct by +220, not -500.
	rec := &recorder{}
	c := New(Config{
		Kp: 1, Setpoint: 0,
		InputMin: -360, InputMax: 360, Continuous: true,
		OutputMin: -1000, OutputMax: 1000,
	}, constSource(500), rec.accept)

	c.Enable()
	c.tick()

	if !floatEquals(rec.last(), 220) {
		t.Errorf("wrapped output: got %v, want 220", rec.last())
	}
}

func TestWrapError(t *testing.T) {
	cases := []struct {
		err, span, want float64
	}{
		{-500, 720, 220},
		{500, 720, -220},
		{-350, 720, -350},
		{10, 720, 10},
		{360, 720, 360},
	}
	for _, tc := range cases {
		got := wrapError(tc.err, tc.span)
		if !floatEquals(got, tc.want) {
			t.Errorf("wrapError(%v, %v): got %v, want %v", tc.err, tc.span, got, tc.want)
		}
	}
}

func TestOnTarget(t *testing.T) {
	rec := &recorder{}
	c := New(Config{Kp: 0.05, Setpoint: 0, Tolerance: 5}, constSource(3), rec.accept)

	c.Enable()
	c.tick()
	if !c.OnTarget() {
		t.Error("error of 3 within tolerance 5 should be on target")
	}

	c2 := New(Config{Kp: 0.05, Setpoint: 0, Tolerance: 5}, constSource(10), rec.accept)
	c2.Enable()
	c2.tick()
	if c2.OnTarget() {
		t.Error("error of 10 outside tolerance 5 should not be on target")
	}
}

func TestSetters(t *testing.T) {
	c := New(Config{Kp: 1}, constSource(0), func(float64) {})

	c.SetSetpoint(90)
	if !floatEquals(c.Setpoint(), 90) {
		t.Errorf("setpoint: got %v, want 90", c.Setpoint())
	}

	c.SetAbsoluteTolerance(2)
	c.SetInputRange(-180, 180)

	c.mu.Lock()
	if !floatEquals(c.cfg.Tolerance, 2) || !floatEquals(c.cfg.InputMin, -180) || !floatEquals(c.cfg.InputMax, 180) {
		t.Errorf("config after setters: %+v", c.cfg)
	}
	c.mu.Unlock()
}

func TestRunStop(t *testing.T) {
	rec := &recorder{}
	c := New(Config{Kp: 0.05, Period: 5 * time.Millisecond}, constSource(10), rec.accept)
	c.Enable()

	done := make(chan struct{})
	go func() {
		c.Run()
		close(done)
	}()

	time.Sleep(60 * time.Millisecond)
	c.Stop()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("loop did not stop within timeout")
	}

	if rec.count() < 5 {
		t.Errorf("expected at least 5 ticks, got %d", rec.count())
	}
	if !floatEquals(c.LastOutput(), rec.last()) {
		t.Errorf("LastOutput: got %v, want %v", c.LastOutput(), rec.last())
	}
}

func TestStop_Idempotent(t *testing.T) {
	c := New(Config{}, constSource(0), func(float64) {})
	c.Stop()
	c.Stop() // must not panic
}
