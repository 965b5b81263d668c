package drive

import (
	"sync"
	"time"

	"github.com/team708/go-drivebase/pkg/motor"
	"github.com/team708/go-drivebase/pkg/pid"
)

// Heading loop tuning. Gains were tuned on the six-CIM tank chassis with
// Colson wheels; the tolerance is the error band (degrees) inside which the
// loop reports on-target.
const (
	DefaultKp        = 0.05
	DefaultKi        = 0.01
	DefaultKd        = 0.0
	DefaultTolerance = 5.0

	// tankControlTolerance is how closely the two tank sticks must match
	// before the commanded motion counts as a straight drive.
	tankControlTolerance = 0.025

	gyroInputMin = -360.0
	gyroInputMax = 360.0
)

// Config holds the heading-loop tuning. A config with all three gains zero
// selects the stock tuning above; setting any single gain keeps the others
// at zero. An all-zero loop is not expressible here — to drive without
// heading correction, stay out of heading hold (nonzero rotate, or
// mismatched tank sticks). Tolerance and Period fall back per field.
type Config struct {
	Kp        float64
	Ki        float64
	Kd        float64
	Tolerance float64
	Period    time.Duration
}

func (c Config) withDefaults() Config {
	if c.Kp == 0 && c.Ki == 0 && c.Kd == 0 {
		c.Kp, c.Ki, c.Kd = DefaultKp, DefaultKi, DefaultKd
	}
	if c.Tolerance == 0 {
		c.Tolerance = DefaultTolerance
	}
	if c.Period <= 0 {
		c.Period = pid.DefaultPeriod
	}
	return c
}

// Drivetrain is the closed-loop drivetrain controller. Operator commands go
// through HaloDrive or TankDrive; pure forward commands hand steering to the
// heading loop, everything else passes straight to the motors.
//
// Two goroutines touch the shared fields: the command path and the heading
// loop's tick. The mutex scopes to moveSpeed, lastOutput and brake; the mode
// itself lives in the PID controller's enablement flag.
type Drivetrain struct {
	motors MotorGroup
	gyro   Gyro
	accel  Accelerometer
	pid    *pid.Controller

	mu         sync.Mutex
	moveSpeed  float64
	lastOutput float64
	brake      bool
}

var _ MotorGroup = (*motor.Group)(nil)

// New creates a Drivetrain around the injected hardware. The gyro is reset
// so the heading reference starts at zero, brake mode starts engaged, and
// the heading loop starts disabled. Call Run to start the loop ticking.
func New(motors MotorGroup, gyro Gyro, accel Accelerometer, cfg Config) *Drivetrain {
	cfg = cfg.withDefaults()

	d := &Drivetrain{
		motors: motors,
		gyro:   gyro,
		accel:  accel,
		brake:  true,
	}
	d.pid = pid.New(pid.Config{
		Kp:         cfg.Kp,
		Ki:         cfg.Ki,
		Kd:         cfg.Kd,
		Setpoint:   0.0,
		Tolerance:  cfg.Tolerance,
		InputMin:   gyroInputMin,
		InputMax:   gyroInputMax,
		Continuous: true,
		Period:     cfg.Period,
	}, d.pidInput, d.pidOutput)

	gyro.Reset()
	motors.SetBrakeMode(true)
	return d
}

// Run starts the heading loop. Blocks until Stop is called. The loop ticks
// for the lifetime of the drivetrain; enablement decides whether a tick
// computes anything.
func (d *Drivetrain) Run() {
	d.pid.Run()
}

// StopLoop halts the heading loop goroutine for shutdown.
func (d *Drivetrain) StopLoop() {
	d.pid.Stop()
}

// HaloDrive commands arcade-style motion. A pure forward command (rotate
// exactly zero, move nonzero) engages heading hold: the gyro reference is
// re-zeroed on entry, the loop is enabled, and move is latched as the feed
// forward for every tick until the mode changes. Any other input disables
// the loop and passes (move, rotate) straight through.
func (d *Drivetrain) HaloDrive(move, rotate float64) {
	if rotate == 0.0 && move != 0.0 {
		if !d.pid.IsEnabled() {
			d.gyro.Reset()
			d.pid.Enable()
		}
		d.setMoveSpeed(move)
		return
	}
	if d.pid.IsEnabled() {
		d.pid.Disable()
	}
	d.motors.ArcadeDrive(move, rotate)
}

// TankDrive commands tank-style motion. When both sticks are nonzero and
// within tankControlTolerance of each other the drive counts as straight:
// the loop is enabled (without re-zeroing the gyro, so correction continues
// from the last established reference) and the stick average is latched as
// the feed forward. Otherwise the loop is disabled and (left, right) passes
// straight through.
func (d *Drivetrain) TankDrive(left, right float64) {
	if abs(left-right) < tankControlTolerance && left != 0.0 && right != 0.0 {
		if !d.pid.IsEnabled() {
			d.pid.Enable()
		}
		d.setMoveSpeed((left + right) / 2)
		return
	}
	if d.pid.IsEnabled() {
		d.pid.Disable()
	}
	d.motors.TankDrive(left, right)
}

// Stop zeroes both sides immediately, bypassing mode logic. It does NOT
// disable the heading loop: if the drivetrain is in heading hold the next
// tick resumes driving at the latched move speed. Callers that want a real
// stop send HaloDrive(0, 0).
func (d *Drivetrain) Stop() {
	d.motors.SetLeft(0.0)
	d.motors.SetRight(0.0)
}

// Angle returns the current gyro heading in degrees.
func (d *Drivetrain) Angle() float64 {
	return d.gyro.Angle()
}

// ResetGyro re-zeroes the heading reference immediately, in any mode.
func (d *Drivetrain) ResetGyro() {
	d.gyro.Reset()
}

// ToggleBrakeMode flips between brake and coast and applies the new mode to
// every motor in the group.
func (d *Drivetrain) ToggleBrakeMode() {
	d.mu.Lock()
	d.brake = !d.brake
	brake := d.brake
	d.mu.Unlock()
	d.motors.SetBrakeMode(brake)
}

// BrakeMode reports whether brake mode is engaged.
func (d *Drivetrain) BrakeMode() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.brake
}

// Mode returns the current control mode, derived from loop enablement.
func (d *Drivetrain) Mode() Mode {
	if d.pid.IsEnabled() {
		return HeadingHold
	}
	return FreeDrive
}

// OnTarget reports whether the heading error is within the tolerance band.
func (d *Drivetrain) OnTarget() bool {
	return d.pid.OnTarget()
}

func (d *Drivetrain) setMoveSpeed(speed float64) {
	d.mu.Lock()
	d.moveSpeed = speed
	d.mu.Unlock()
}

// pidInput supplies the heading loop's process variable.
func (d *Drivetrain) pidInput() float64 {
	return d.gyro.Angle()
}

// pidOutput receives one correction per enabled tick and blends it with the
// latched feed forward. The correction is negated so the rotational command
// opposes the measured drift.
func (d *Drivetrain) pidOutput(output float64) {
	d.mu.Lock()
	d.lastOutput = output
	move := d.moveSpeed
	d.mu.Unlock()
	d.motors.ArcadeDrive(move, -output)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
