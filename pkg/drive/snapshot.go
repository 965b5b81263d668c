package drive

// Snapshot is a read-only view of the drivetrain for the dashboard. The
// fields mirror what the drive station historically watched during a match.
type Snapshot struct {
	AccelX    float64 `json:"accel_x"`
	AccelY    float64 `json:"accel_y"`
	AccelZ    float64 `json:"accel_z"`
	GyroAngle float64 `json:"gyro_angle"`
	GyroRate  float64 `json:"gyro_rate"`
	Brake     bool    `json:"brake"`
	PIDOutput float64 `json:"pid_output"`
	Mode      string  `json:"mode"`
	MoveSpeed float64 `json:"move_speed"`
	OnTarget  bool    `json:"on_target"`
}

// Snapshot publishes the current sensor and loop state. Values are read under
// the drivetrain lock but the result is a detached copy.
func (d *Drivetrain) Snapshot() Snapshot {
	d.mu.Lock()
	out := d.lastOutput
	move := d.moveSpeed
	brake := d.brake
	d.mu.Unlock()

	return Snapshot{
		AccelX:    d.accel.X(),
		AccelY:    d.accel.Y(),
		AccelZ:    d.accel.Z(),
		GyroAngle: d.gyro.Angle(),
		GyroRate:  d.gyro.Rate(),
		Brake:     brake,
		PIDOutput: out,
		Mode:      d.Mode().String(),
		MoveSpeed: move,
		OnTarget:  d.pid.OnTarget(),
	}
}
