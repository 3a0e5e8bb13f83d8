package odometry

import (
	"math"
	"math/rand"
	"testing"
)

// fakeEncoder is a scriptable encoder collaborator.
type fakeEncoder struct {
	raw        uint16
	resolution uint16
}

func (e *fakeEncoder) Raw() uint16        { return e.raw }
func (e *fakeEncoder) Resolution() uint16 { return e.resolution }

// advance moves the reading by the given number of ticks, wrapping into
// [0, resolution) the way the real counter does.
func (e *fakeEncoder) advance(ticks int) {
	r := int(e.resolution)
	e.raw = uint16(((int(e.raw)+ticks)%r + r) % r)
}

func testConfig() Config {
	return Config{
		TrackWidthMM:   100,
		TireDiameterMM: 30,
		InvertLeft:     false,
		InvertRight:    true,
	}
}

func newTestOdometry(t *testing.T) (*Odometry, *fakeEncoder, *fakeEncoder) {
	t.Helper()
	left := &fakeEncoder{resolution: testResolution}
	right := &fakeEncoder{resolution: testResolution}
	o, err := New(left, right, testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return o, left, right
}

func TestNewRejectsZeroResolution(t *testing.T) {
	bad := &fakeEncoder{resolution: 0}
	good := &fakeEncoder{resolution: testResolution}
	if _, err := New(bad, good, testConfig()); err == nil {
		t.Error("expected error for zero-resolution left encoder")
	}
	if _, err := New(good, bad, testConfig()); err == nil {
		t.Error("expected error for zero-resolution right encoder")
	}
}

// Both wheels advancing identically (after the right wheel's polarity
// correction) must trace a straight line along x.
func TestStraightLineScenario(t *testing.T) {
	o, left, right := newTestOdometry(t)

	lastX := 0.0
	for i := 0; i < 1000; i++ {
		left.advance(10)
		// The right encoder is mounted mirrored, so forward motion counts
		// down; the invert flag maps it back.
		right.advance(-10)
		o.Update(1000)

		if o.Heading() != 0 {
			t.Fatalf("tick %d: heading %v, want exactly 0", i, o.Heading())
		}
		if math.Abs(o.Y()) > 1e-9 {
			t.Fatalf("tick %d: y drifted to %v", i, o.Y())
		}
		// The first update only seeds the wheels, then x must grow.
		if i > 0 && o.X() <= lastX {
			t.Fatalf("tick %d: x not monotonic: %v -> %v", i, lastX, o.X())
		}
		lastX = o.X()
	}
}

// Equal and opposite wheel velocities rotate in place: heading accumulates,
// position stays put.
func TestRotationInPlace(t *testing.T) {
	o, left, right := newTestOdometry(t)

	lastHeading := 0.0
	for i := 0; i < 500; i++ {
		left.advance(5)
		// Inverted right encoder: +5 raw ticks is -5 corrected.
		right.advance(5)
		o.Update(1000)

		if math.Abs(o.X()) > 1e-9 || math.Abs(o.Y()) > 1e-9 {
			t.Fatalf("tick %d: moved to (%v, %v) while rotating in place", i, o.X(), o.Y())
		}
		if i > 0 && o.Heading() <= lastHeading {
			t.Fatalf("tick %d: heading not monotonic: %v -> %v", i, lastHeading, o.Heading())
		}
		lastHeading = o.Heading()
	}
}

// With constant unequal wheel speeds the chord steps land on the exact
// circle, so the final pose has a closed form.
func TestConstantArcFollowsCircle(t *testing.T) {
	o, left, right := newTestOdometry(t)

	// Seed tick: no motion yet.
	left.advance(12)
	right.advance(-8)
	o.Update(1000)

	const arcTicks = 500
	for i := 0; i < arcTicks; i++ {
		left.advance(12)
		right.advance(-8)
		o.Update(1000)
	}

	vl := ticksPerMsToRadPerSec(12) * 15
	vr := ticksPerMsToRadPerSec(8) * 15
	v := (vl + vr) / 2
	omega := (vl - vr) / 100
	radius := v / omega
	theta := float64(arcTicks) * omega / 1000

	expectNear(t, "heading", o.Heading(), theta)
	expectNear(t, "x", o.X(), radius*math.Sin(theta))
	expectNear(t, "y", o.Y(), radius*(1-math.Cos(theta)))
}

// The arc formula must degenerate to the straight-line formula as the wheel
// speeds converge, at the 1kHz tick the heading increment assumes.
func TestArcDegeneratesToStraight(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	const elapsedUs = 1000.0
	for i := 0; i < 1000; i++ {
		v := rnd.Float64()*2000 - 1000
		heading := rnd.Float64()*4*math.Pi - 2*math.Pi

		sx := v * elapsedUs / 1e6 * math.Cos(heading)
		sy := v * elapsedUs / 1e6 * math.Sin(heading)

		// A velocity split just past the straight/arc threshold.
		omega := 1e-9
		newHeading := heading + omega/1000
		delta := (newHeading - heading) / 2
		chord := 2 * v / omega * math.Sin(delta)
		ax := chord * math.Cos(heading+delta)
		ay := chord * math.Sin(heading+delta)

		if math.Abs(ax-sx) > 1e-6 || math.Abs(ay-sy) > 1e-6 {
			t.Fatalf("branches disagree at v=%v heading=%v: straight (%v, %v) arc (%v, %v)",
				v, heading, sx, sy, ax, ay)
		}
	}
}

func TestResetIdempotent(t *testing.T) {
	o, left, right := newTestOdometry(t)

	for i := 0; i < 20; i++ {
		left.advance(9)
		right.advance(3)
		o.Update(1000)
	}

	o.Reset()
	first := *o
	o.Reset()
	if *o != first {
		t.Error("second reset changed state")
	}

	if o.Heading() != 0 || o.X() != 0 || o.Y() != 0 {
		t.Errorf("pose not zeroed: heading=%v x=%v y=%v", o.Heading(), o.X(), o.Y())
	}
	zero := WheelsPair{}
	if o.WheelsVelocity() != zero || o.WheelsAngularVelocity() != zero ||
		o.WheelsAngularAcceleration() != zero {
		t.Errorf("wheel snapshots not zeroed: %v %v %v",
			o.WheelsVelocity(), o.WheelsAngularVelocity(), o.WheelsAngularAcceleration())
	}
	if o.Velocity() != 0 || o.AngularVelocity() != 0 {
		t.Errorf("body rates not zeroed: %v %v", o.Velocity(), o.AngularVelocity())
	}

	// The update after a reset seeds; a big sample jump must not spike.
	left.advance(400)
	right.advance(-400)
	o.Update(1000)
	if o.WheelsVelocity() != zero {
		t.Errorf("post-reset update produced velocity %v", o.WheelsVelocity())
	}
}
