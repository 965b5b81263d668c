package motor

import (
	"math"
	"testing"
)

// fakeMotor records duty and brake writes.
type fakeMotor struct {
	duties []float64
	brakes []bool
}

func (f *fakeMotor) Set(v float64)       { f.duties = append(f.duties, v) }
func (f *fakeMotor) SetBrakeMode(b bool) { f.brakes = append(f.brakes, b) }
func (f *fakeMotor) lastDuty() float64   { return f.duties[len(f.duties)-1] }

func sixMotorGroup() (*Group, []*fakeMotor) {
	motors := make([]*fakeMotor, 6)
	for i := range motors {
		motors[i] = &fakeMotor{}
	}
	left := NewSide(motors[0], motors[1], motors[2])
	right := NewSide(motors[3], motors[4], motors[5])
	return NewGroup(left, right), motors
}

func TestTankDrive_InvertsRightSide(t *testing.T) {
	g, motors := sixMotorGroup()

	g.TankDrive(0.5, 0.5)

	if motors[0].lastDuty() != 0.5 {
		t.Errorf("left master: got %v, want 0.5", motors[0].lastDuty())
	}
	if motors[3].lastDuty() != -0.5 {
		t.Errorf("right master: got %v, want -0.5 (inverted)", motors[3].lastDuty())
	}
}

func TestTankDrive_FollowersMirrorMaster(t *testing.T) {
	g, motors := sixMotorGroup()

	g.TankDrive(0.4, -0.2)

	for i := 0; i < 3; i++ {
		if motors[i].lastDuty() != 0.4 {
			t.Errorf("left motor %d: got %v, want 0.4", i, motors[i].lastDuty())
		}
	}
	for i := 3; i < 6; i++ {
		if motors[i].lastDuty() != 0.2 {
			t.Errorf("right motor %d: got %v, want 0.2", i, motors[i].lastDuty())
		}
	}
}

func TestArcadeDrive_Mixing(t *testing.T) {
	g, motors := sixMotorGroup()

	g.ArcadeDrive(0.5, 0.2)

	// left = move + rotate, right = move - rotate (then right inverts).
	if math.Abs(motors[0].lastDuty()-0.7) > 1e-9 {
		t.Errorf("left: got %v, want 0.7", motors[0].lastDuty())
	}
	if math.Abs(motors[3].lastDuty()-(-0.3)) > 1e-9 {
		t.Errorf("right: got %v, want -0.3", motors[3].lastDuty())
	}
}

func TestDrive_ClampsDuty(t *testing.T) {
	g, motors := sixMotorGroup()

	g.ArcadeDrive(1.0, 0.8)

	if motors[0].lastDuty() != 1.0 {
		t.Errorf("left should clamp to 1.0, got %v", motors[0].lastDuty())
	}
	g.TankDrive(-2.0, 0)
	if motors[0].lastDuty() != -1.0 {
		t.Errorf("left should clamp to -1.0, got %v", motors[0].lastDuty())
	}
}

func TestSetSides_Direct(t *testing.T) {
	g, motors := sixMotorGroup()

	g.SetLeft(0.0)
	g.SetRight(0.0)

	if len(motors[0].duties) != 1 || motors[0].duties[0] != 0 {
		t.Errorf("left master: got %v, want [0]", motors[0].duties)
	}
	if len(motors[3].duties) != 1 || motors[3].duties[0] != 0 {
		t.Errorf("right master: got %v, want [0]", motors[3].duties)
	}
}

func TestSetBrakeMode_FansOutToAllMotors(t *testing.T) {
	g, motors := sixMotorGroup()

	g.SetBrakeMode(false)
	g.SetBrakeMode(true)

	for i, m := range motors {
		if len(m.brakes) != 2 || m.brakes[0] != false || m.brakes[1] != true {
			t.Errorf("motor %d brake calls: got %v, want [false true]", i, m.brakes)
		}
	}
}
