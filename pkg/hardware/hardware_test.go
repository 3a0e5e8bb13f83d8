package hardware

import (
	"testing"
	"time"

	"github.com/dashmouse-team/dashmouse/go-controller/pkg/as5050a"
	"github.com/dashmouse-team/dashmouse/go-controller/pkg/odometry"
)

func newTestHardware(t *testing.T, leftTicks, rightTicks int) (*Hardware, *as5050a.DummyEncoder, *as5050a.DummyEncoder) {
	t.Helper()
	left := as5050a.Dummy(leftTicks)
	right := as5050a.Dummy(rightTicks)
	odo, err := odometry.New(left, right, odometry.Config{
		TrackWidthMM:   100,
		TireDiameterMM: 30,
		InvertRight:    true,
	})
	if err != nil {
		t.Fatalf("odometry.New: %v", err)
	}
	return New(odo, time.Millisecond, left, right), left, right
}

func TestTickDrivesDevicesAndEstimator(t *testing.T) {
	// Mirrored right encoder counts down for forward motion.
	hw, _, _ := newTestHardware(t, 10, -10)

	for i := 0; i < 5; i++ {
		hw.tick(1000)
	}

	pose := hw.CurrentPose()
	if pose.XMM <= 0 {
		t.Errorf("no forward motion: %+v", pose)
	}
	if pose.HeadingRadians != 0 || pose.YMM != 0 {
		t.Errorf("straight run drifted: %+v", pose)
	}

	rates := hw.CurrentWheelRates()
	if rates.Velocity.Left <= 0 || rates.Velocity.Right <= 0 {
		t.Errorf("wheel velocities not forward: %+v", rates.Velocity)
	}
}

func TestResetAppliesOnNextTick(t *testing.T) {
	hw, _, _ := newTestHardware(t, 10, -10)
	for i := 0; i < 5; i++ {
		hw.tick(1000)
	}

	hw.ResetOdometry()
	// The reset lands at the start of the next tick, which then only seeds
	// the wheels again.
	hw.tick(1000)

	pose := hw.CurrentPose()
	if pose != (Pose{}) {
		t.Errorf("pose not zeroed after reset tick: %+v", pose)
	}
	rates := hw.CurrentWheelRates()
	if rates != (WheelRates{}) {
		t.Errorf("rates not zeroed after reset tick: %+v", rates)
	}
}
