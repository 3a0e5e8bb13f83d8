package hardware

import "github.com/dashmouse-team/dashmouse/go-controller/pkg/odometry"

// Updatable is the per-tick device hook: refresh your reading and report
// whether the bus transfer worked.  The encoders and the photo array
// implement it.
type Updatable interface {
	Update() bool
}

// Pose is a snapshot of the dead-reckoned state, taken after an update and
// safe to hand to other goroutines.
type Pose struct {
	HeadingRadians float64
	XMM            float64
	YMM            float64
	VelocityMMS    float64
	OmegaRadS      float64
}

// WheelRates is the per-wheel snapshot matching a Pose.
type WheelRates struct {
	AngularVelocity     odometry.WheelsPair
	AngularAcceleration odometry.WheelsPair
	Velocity            odometry.WheelsPair
}
