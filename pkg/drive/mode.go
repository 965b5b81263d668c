package drive

// Mode is the drivetrain control mode. It is derived from the heading loop's
// enablement, never stored separately, so the two cannot disagree.
type Mode int

const (
	// FreeDrive passes operator commands straight to the motors.
	FreeDrive Mode = iota
	// HeadingHold drives forward at the latched move speed while the PID
	// loop steers against gyro drift.
	HeadingHold
)

func (m Mode) String() string {
	switch m {
	case FreeDrive:
		return "free_drive"
	case HeadingHold:
		return "heading_hold"
	default:
		return "unknown"
	}
}
