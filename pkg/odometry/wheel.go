package odometry

import "math"

// float64 machine epsilon; wheel-velocity differences at or below this are
// integrated as straight-line motion.
var floatEps = math.Nextafter(1, 2) - 1

// wheel turns successive bounded encoder angle samples from one drive wheel
// into angular velocity, angular acceleration and linear contact velocity.
type wheel struct {
	tireRadius float64 // mm
	invert     bool

	resolution     uint16
	halfResolution uint16
	anglePerTick   float64 // rad

	seeding  bool
	previous uint16

	angularVelocity     float64 // rad/s
	angularAcceleration float64 // rad/s^2
	velocity            float64 // mm/s
}

func newWheel(resolution uint16, tireDiameterMM float64, invert bool) wheel {
	return wheel{
		tireRadius:     tireDiameterMM / 2,
		invert:         invert,
		resolution:     resolution,
		halfResolution: resolution / 2,
		anglePerTick:   (2 * math.Pi) / float64(resolution),
		seeding:        true,
	}
}

// update folds one raw angle sample into the wheel state.  elapsedUs is the
// interval since the previous call and must be strictly positive; zero
// divides by zero.
func (w *wheel) update(raw uint16, elapsedUs uint32) {
	if w.invert {
		raw = w.resolution - raw
	}
	if w.seeding {
		// First sample after construction or reset just becomes the
		// reference; the delta below is then zero.
		w.previous = raw
		w.seeding = false
	}

	angularVelocity := w.angularVelocityFrom(raw, elapsedUs)
	// TODO: check on the real robot whether this was meant to subtract the
	// previous velocity rather than the previous acceleration.  Kept as-is
	// because the motor controller gains were tuned against this output.
	w.angularAcceleration = (angularVelocity - w.angularAcceleration) /
		float64(elapsedUs) * 1e6
	w.velocity = angularVelocity * w.tireRadius
	w.angularVelocity = angularVelocity
	w.previous = raw
}

// angularVelocityFrom converts the delta between raw and the previous sample
// into rad/s.  A delta of half the resolution or more means the counter
// wrapped, so the rotation is re-interpreted as the shorter path through
// zero.  That is only valid while the wheel turns less than half a
// revolution per tick; the control loop rate has to guarantee it.
func (w *wheel) angularVelocityFrom(raw uint16, elapsedUs uint32) float64 {
	delta := int32(raw) - int32(w.previous)
	if delta >= int32(w.halfResolution) || -delta >= int32(w.halfResolution) {
		if w.previous >= w.halfResolution {
			delta += int32(w.resolution)
		} else {
			delta -= int32(w.resolution)
		}
	}
	angle := float64(delta) * w.anglePerTick
	return angle / float64(elapsedUs) * 1e6
}

// reset zeroes the derived rates and re-arms seeding so the next update
// stores its sample as the new reference instead of differentiating against
// a stale one.
func (w *wheel) reset() {
	w.seeding = true
	w.angularVelocity = 0
	w.angularAcceleration = 0
	w.velocity = 0
}
