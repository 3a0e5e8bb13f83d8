// Package odometry dead-reckons the robot's planar pose (x, y, heading) and
// wheel kinematics from the two drive-wheel encoders.  No IMU, no external
// reference: just per-wheel differentiation and differential-drive
// integration, run once per control tick.
package odometry

import (
	"errors"
	"math"
)

// Encoder is the estimator's view onto one wheel's angle sensor.  Raw
// readings are ticks bounded to [0, Resolution()).
type Encoder interface {
	Raw() uint16
	Resolution() uint16
}

// WheelsPair holds one scalar per drive wheel.
type WheelsPair struct {
	Left  float64
	Right float64
}

// Config carries the chassis geometry and encoder polarities the estimator
// is built with.
type Config struct {
	TrackWidthMM   float64
	TireDiameterMM float64
	InvertLeft     bool
	InvertRight    bool
}

// Odometry combines the two wheel estimates into a body trajectory and
// exposes the result to the rest of the controller.  It is strictly
// single-caller: Update must only ever run on the control-loop goroutine,
// and queries return the state as of the most recent Update.
type Odometry struct {
	leftEnc, rightEnc Encoder
	trackWidth        float64 // mm

	left, right wheel

	wheelAngularVelocity     WheelsPair // rad/s
	wheelAngularAcceleration WheelsPair // rad/s^2
	wheelVelocity            WheelsPair // mm/s

	velocity        float64 // mm/s
	angularVelocity float64 // rad/s

	heading float64 // rad, accumulates without wrapping to +/-pi
	x, y    float64 // mm
}

// New builds the estimator over the two encoders, which it reads but never
// owns; both must outlive it.  The encoders' resolutions are latched here,
// so New must run after they have been probed.
func New(leftEnc, rightEnc Encoder, cfg Config) (*Odometry, error) {
	if leftEnc.Resolution() == 0 || rightEnc.Resolution() == 0 {
		return nil, errors.New("odometry: encoder reports zero resolution")
	}
	return &Odometry{
		leftEnc:    leftEnc,
		rightEnc:   rightEnc,
		trackWidth: cfg.TrackWidthMM,
		left:       newWheel(leftEnc.Resolution(), cfg.TireDiameterMM, cfg.InvertLeft),
		right:      newWheel(rightEnc.Resolution(), cfg.TireDiameterMM, cfg.InvertRight),
	}, nil
}

// Update advances the estimate by one control tick.  elapsedUs is the
// caller-measured interval since the previous Update and must be strictly
// positive.  The caller must also have refreshed both encoders for this
// tick; Update samples each exactly once.
func (o *Odometry) Update(elapsedUs uint32) {
	o.left.update(o.leftEnc.Raw(), elapsedUs)
	o.right.update(o.rightEnc.Raw(), elapsedUs)

	o.wheelAngularVelocity = WheelsPair{
		Left:  o.left.angularVelocity,
		Right: o.right.angularVelocity,
	}
	o.wheelAngularAcceleration = WheelsPair{
		Left:  o.left.angularAcceleration,
		Right: o.right.angularAcceleration,
	}
	o.wheelVelocity = WheelsPair{
		Left:  o.left.velocity,
		Right: o.right.velocity,
	}

	o.velocity = (o.wheelVelocity.Left + o.wheelVelocity.Right) / 2
	// Left faster than right turns us positive (towards the slower side).
	o.angularVelocity = (o.wheelVelocity.Left - o.wheelVelocity.Right) / o.trackWidth

	// TODO: the /1000 bakes in the 1kHz control tick; make it the configured
	// tick period so the loop rate can change without touching this.
	newHeading := o.heading + o.angularVelocity/1000

	if math.Abs(o.wheelVelocity.Left-o.wheelVelocity.Right) <= floatEps {
		// Straight segment.
		s := o.velocity * float64(elapsedUs) / 1e6
		o.x += s * math.Cos(o.heading)
		o.y += s * math.Sin(o.heading)
	} else {
		// Turning: step along the chord at the midpoint heading rather than
		// the tangent, which avoids the first-order error a straight step
		// accumulates during rotation.  angularVelocity is safely away from
		// zero here, the branch condition guarantees it.
		delta := (newHeading - o.heading) / 2
		chord := 2 * o.velocity / o.angularVelocity * math.Sin(delta)
		mid := o.heading + delta
		o.x += chord * math.Cos(mid)
		o.y += chord * math.Sin(mid)
	}
	o.heading = newHeading
}

// Reset zeroes the pose and all derived rates and re-arms both wheels so
// their next sample seeds the reference without a velocity spike.
func (o *Odometry) Reset() {
	o.left.reset()
	o.right.reset()
	o.wheelAngularVelocity = WheelsPair{}
	o.wheelAngularAcceleration = WheelsPair{}
	o.wheelVelocity = WheelsPair{}
	o.velocity = 0
	o.angularVelocity = 0
	o.heading = 0
	o.x = 0
	o.y = 0
}

// Heading is the accumulated body angle in radians.  It is deliberately not
// wrapped; callers that want +/-pi do their own folding.
func (o *Odometry) Heading() float64 { return o.heading }

// X is the accumulated position along the start heading's axis, in mm.
func (o *Odometry) X() float64 { return o.x }

// Y is the accumulated position perpendicular to the start heading, in mm.
func (o *Odometry) Y() float64 { return o.y }

// Velocity is the body linear velocity in mm/s.
func (o *Odometry) Velocity() float64 { return o.velocity }

// AngularVelocity is the body angular velocity in rad/s.
func (o *Odometry) AngularVelocity() float64 { return o.angularVelocity }

// WheelsVelocity returns the per-wheel contact velocities in mm/s.
func (o *Odometry) WheelsVelocity() WheelsPair { return o.wheelVelocity }

// WheelsAngularVelocity returns the per-wheel angular velocities in rad/s.
func (o *Odometry) WheelsAngularVelocity() WheelsPair { return o.wheelAngularVelocity }

// WheelsAngularAcceleration returns the per-wheel angular accelerations in rad/s^2.
func (o *Odometry) WheelsAngularAcceleration() WheelsPair { return o.wheelAngularAcceleration }
