// Package drive implements the gyro-stabilized drivetrain controller.
//
// The controller owns injected hardware handles (motor group, gyro,
// accelerometer) and a PID heading loop. Hardware is consumed through small
// interfaces so simulated or recording implementations can be substituted
// in tests and in the sim command.
package drive

// MotorGroup is the drivetrain actuation surface: mixed drive commands,
// direct per-side duty writes, and a uniform brake/coast toggle.
type MotorGroup interface {
	ArcadeDrive(move, rotate float64)
	TankDrive(left, right float64)
	SetLeft(value float64)
	SetRight(value float64)
	SetBrakeMode(brake bool)
}

// Gyro is the heading sensor: a continuous angle in degrees that wraps at
// ±360, an angular rate in degrees per second, and a reset-to-zero.
type Gyro interface {
	Angle() float64
	Rate() float64
	Reset()
}

// Accelerometer exposes the three-axis acceleration used only for telemetry.
type Accelerometer interface {
	X() float64
	Y() float64
	Z() float64
}
