// Package motor provides the drivetrain motor group driver: two sides of one
// master and two follower controllers, with arcade and tank mixing.
package motor

// Motor is a single speed controller output. Set takes a duty cycle in
// [-1, 1]; SetBrakeMode switches the controller between brake and coast.
type Motor interface {
	Set(value float64)
	SetBrakeMode(brake bool)
}

// Side is one half of the drivetrain: a master and its followers. Every duty
// written to the master is mirrored to the followers.
type Side struct {
	master    Motor
	followers []Motor
}

// NewSide creates a side from a master and any number of followers.
func NewSide(master Motor, followers ...Motor) *Side {
	return &Side{master: master, followers: followers}
}

// Set writes a duty cycle to the master and mirrors it to the followers.
func (s *Side) Set(value float64) {
	s.master.Set(value)
	for _, f := range s.followers {
		f.Set(value)
	}
}

// SetBrakeMode applies the brake/coast mode to the master and followers.
func (s *Side) SetBrakeMode(brake bool) {
	s.master.SetBrakeMode(brake)
	for _, f := range s.followers {
		f.SetBrakeMode(brake)
	}
}

// Group is the full drivetrain motor group. Positive duty drives both sides
// forward; the right side is inverted internally to make that hold.
type Group struct {
	left  *Side
	right *Side
}

// NewGroup creates a motor group from the two sides.
func NewGroup(left, right *Side) *Group {
	return &Group{left: left, right: right}
}

// ArcadeDrive mixes a forward command and a rotation command into side duties.
// Positive rotate turns clockwise (right side slows).
func (g *Group) ArcadeDrive(move, rotate float64) {
	g.TankDrive(move+rotate, move-rotate)
}

// TankDrive writes independent left and right duties, clamped to [-1, 1].
func (g *Group) TankDrive(left, right float64) {
	g.left.Set(clamp(left))
	g.right.Set(-clamp(right))
}

// SetLeft writes a duty cycle directly to the left side.
func (g *Group) SetLeft(value float64) {
	g.left.Set(clamp(value))
}

// SetRight writes a duty cycle directly to the right side.
func (g *Group) SetRight(value float64) {
	g.right.Set(-clamp(value))
}

// SetBrakeMode applies brake or coast uniformly to every motor in the group.
func (g *Group) SetBrakeMode(brake bool) {
	g.left.SetBrakeMode(brake)
	g.right.SetBrakeMode(brake)
}

func clamp(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
