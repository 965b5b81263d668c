// Package pid provides a periodic PID controller for closed-loop control.
//
// The controller samples a process variable through a SourceFunc on a fixed
// period and delivers the computed correction to an OutputFunc. It is wired
// by composition: the owner supplies the two callbacks at construction
// instead of subclassing anything.
package pid

import (
	"sync"
	"time"
)

// DefaultPeriod is the classic robot control loop period.
const DefaultPeriod = 20 * time.Millisecond

// SourceFunc returns the current process variable.
type SourceFunc func() float64

// OutputFunc receives the computed correction each enabled tick.
type OutputFunc func(output float64)

// Config holds the tuning parameters for a Controller.
type Config struct {
	Kp float64
	Ki float64
	Kd float64

	// Setpoint is the target process-variable value.
	Setpoint float64

	// Tolerance is the absolute error band within which OnTarget reports true.
	Tolerance float64

	// InputMin and InputMax bound the expected process variable range.
	InputMin float64
	InputMax float64

	// Continuous treats the input range as circular, so error wraps through
	// the shorter direction (used for angles).
	Continuous bool

	// OutputMin and OutputMax clamp the correction. Zero values mean ±1.
	OutputMin float64
	OutputMax float64

	// Period is the tick rate of the control loop. Zero means DefaultPeriod.
	Period time.Duration
}

// Controller runs a PID loop at a fixed rate. All methods are safe for
// concurrent use; the loop itself runs on the goroutine that calls Run.
type Controller struct {
	source SourceFunc
	output OutputFunc
	period time.Duration

	mu        sync.Mutex
	cfg       Config
	enabled   bool
	integral  float64
	prevErr   float64
	firstTick bool
	lastErr   float64
	lastOut   float64

	stopOnce sync.Once
	stop     chan struct{}
}

// New creates a Controller with the given tuning and callbacks. The loop does
// not start until Run is called, and computes nothing until Enable.
func New(cfg Config, source SourceFunc, output OutputFunc) *Controller {
	if cfg.Period <= 0 {
		cfg.Period = DefaultPeriod
	}
	if cfg.OutputMin == 0 && cfg.OutputMax == 0 {
		cfg.OutputMin, cfg.OutputMax = -1, 1
	}
	return &Controller{
		source: source,
		output: output,
		period: cfg.Period,
		cfg:    cfg,
		stop:   make(chan struct{}),
	}
}

// Enable clears the accumulated integral and derivative history and starts
// computing corrections on subsequent ticks.
func (c *Controller) Enable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enabled {
		return
	}
	c.integral = 0
	c.prevErr = 0
	c.firstTick = true
	c.enabled = true
}

// Disable stops computing. The loop keeps ticking but writes no output.
func (c *Controller) Disable() {
	c.mu.Lock()
	c.enabled = false
	c.mu.Unlock()
}

// IsEnabled reports whether the controller is computing corrections.
func (c *Controller) IsEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// SetSetpoint changes the target process-variable value.
func (c *Controller) SetSetpoint(sp float64) {
	c.mu.Lock()
	c.cfg.Setpoint = sp
	c.mu.Unlock()
}

// Setpoint returns the current target.
func (c *Controller) Setpoint() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.Setpoint
}

// SetAbsoluteTolerance changes the OnTarget error band.
func (c *Controller) SetAbsoluteTolerance(tol float64) {
	c.mu.Lock()
	c.cfg.Tolerance = tol
	c.mu.Unlock()
}

// SetInputRange changes the expected process-variable bounds.
func (c *Controller) SetInputRange(min, max float64) {
	c.mu.Lock()
	c.cfg.InputMin, c.cfg.InputMax = min, max
	c.mu.Unlock()
}

// OnTarget reports whether the most recent error is within the tolerance band.
func (c *Controller) OnTarget() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return abs(c.lastErr) <= c.cfg.Tolerance
}

// LastOutput returns the most recent correction delivered to the output func.
func (c *Controller) LastOutput() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastOut
}

// Run starts the control loop. Blocks until Stop is called.
func (c *Controller) Run() {
	ticker := time.NewTicker(c.period)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.tick()
		}
	}
}

// Stop halts the control loop. Safe to call more than once.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// tick executes one control cycle: sample, compute, deliver.
func (c *Controller) tick() {
	c.mu.Lock()
	if !c.enabled {
		c.mu.Unlock()
		return
	}
	cfg := c.cfg
	c.mu.Unlock()

	// Sample outside the lock; the source may take its own locks.
	pv := c.source()

	c.mu.Lock()
	if !c.enabled {
		// Disabled while sampling; drop the cycle.
		c.mu.Unlock()
		return
	}

	err := cfg.Setpoint - pv
	if cfg.Continuous {
		err = wrapError(err, cfg.InputMax-cfg.InputMin)
	}

	dt := c.period.Seconds()
	var derivative float64
	if c.firstTick {
		c.firstTick = false
	} else {
		derivative = (err - c.prevErr) / dt
	}
	c.integral += err * dt
	c.prevErr = err

	out := cfg.Kp*err + cfg.Ki*c.integral + cfg.Kd*derivative
	out = clamp(out, cfg.OutputMin, cfg.OutputMax)

	c.lastErr = err
	c.lastOut = out
	c.mu.Unlock()

	c.output(out)
}

// wrapError folds err into (-span/2, span/2] so a circular quantity corrects
// through the shorter direction.
func wrapError(err, span float64) float64 {
	if span <= 0 {
		return err
	}
	for err > span/2 {
		err -= span
	}
	for err <= -span/2 {
		err += span
	}
	return err
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
