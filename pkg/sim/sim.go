// Package sim provides deterministic simulated hardware for the drivetrain:
// a drift-prone gyro, a static accelerometer, and a differential-drive
// chassis that turns side duty cycles into yaw. Used by the sim command and
// anywhere the real robot is not available.
package sim

import (
	"sync"

	"github.com/team708/go-drivebase/pkg/motor"
)

// Motor is a recording speed controller.
type Motor struct {
	mu    sync.Mutex
	duty  float64
	brake bool
}

var _ motor.Motor = (*Motor)(nil)

func (m *Motor) Set(value float64) {
	m.mu.Lock()
	m.duty = value
	m.mu.Unlock()
}

func (m *Motor) SetBrakeMode(brake bool) {
	m.mu.Lock()
	m.brake = brake
	m.mu.Unlock()
}

// Duty returns the last duty cycle written.
func (m *Motor) Duty() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duty
}

// Brake reports the last brake mode applied.
func (m *Motor) Brake() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.brake
}

// Gyro integrates yaw rate over Step calls. Drift is a constant bias in
// degrees per second, the classic failure this drivetrain's heading loop
// exists to cancel.
type Gyro struct {
	mu    sync.Mutex
	angle float64
	rate  float64
	drift float64
}

// NewGyro creates a gyro with the given drift bias in degrees per second.
func NewGyro(drift float64) *Gyro {
	return &Gyro{drift: drift}
}

// Angle returns the integrated heading in degrees. Unbounded, like the
// analog gyro it stands in for.
func (g *Gyro) Angle() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.angle
}

// Rate returns the current yaw rate in degrees per second.
func (g *Gyro) Rate() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rate
}

// Reset zeroes the heading reference.
func (g *Gyro) Reset() {
	g.mu.Lock()
	g.angle = 0
	g.mu.Unlock()
}

// advance integrates one timestep of commanded yaw plus drift.
func (g *Gyro) advance(yawRate, dt float64) {
	g.mu.Lock()
	g.rate = yawRate + g.drift
	g.angle += g.rate * dt
	g.mu.Unlock()
}

// Accelerometer returns fixed axis readings; the robot sits flat so Z holds
// one gravity.
type Accelerometer struct {
	AxisX, AxisY, AxisZ float64
}

// NewAccelerometer returns a level, stationary accelerometer.
func NewAccelerometer() *Accelerometer {
	return &Accelerometer{AxisZ: 1.0}
}

func (a *Accelerometer) X() float64 { return a.AxisX }
func (a *Accelerometer) Y() float64 { return a.AxisY }
func (a *Accelerometer) Z() float64 { return a.AxisZ }

// Chassis is a differential-drive yaw model around six simulated motors. The
// right side is wired inverted, matching the physical drivetrain, so the
// chassis un-inverts it when reading side speeds.
type Chassis struct {
	LeftMaster, LeftFollowerA, LeftFollowerB    *Motor
	RightMaster, RightFollowerA, RightFollowerB *Motor

	gyro *Gyro

	// turnRate is the yaw rate in degrees per second at full differential
	// duty. Sign convention follows the mixer: a faster left side swings
	// the heading negative, so a positive arcade rotate lowers the angle.
	turnRate float64
}

// DefaultTurnRate approximates the chassis spinning in place at full power.
const DefaultTurnRate = 180.0

// NewChassis creates the simulated chassis around a gyro.
func NewChassis(gyro *Gyro) *Chassis {
	return &Chassis{
		LeftMaster:    &Motor{},
		LeftFollowerA: &Motor{},
		LeftFollowerB: &Motor{},

		RightMaster:    &Motor{},
		RightFollowerA: &Motor{},
		RightFollowerB: &Motor{},

		gyro:     gyro,
		turnRate: DefaultTurnRate,
	}
}

// MotorGroup wires the simulated motors into the real master/follower group.
func (c *Chassis) MotorGroup() *motor.Group {
	left := motor.NewSide(c.LeftMaster, c.LeftFollowerA, c.LeftFollowerB)
	right := motor.NewSide(c.RightMaster, c.RightFollowerA, c.RightFollowerB)
	return motor.NewGroup(left, right)
}

// Step advances the yaw model by dt seconds from the current side duties.
func (c *Chassis) Step(dt float64) {
	left := c.LeftMaster.Duty()
	right := -c.RightMaster.Duty() // right side is inverted at the group

	yawRate := (right - left) / 2 * c.turnRate
	c.gyro.advance(yawRate, dt)
}
