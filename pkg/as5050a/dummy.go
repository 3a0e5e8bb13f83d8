package as5050a

// DummyEncoder is a software stand-in for running off-robot.  Each Update
// advances the angle by a fixed number of ticks, wrapping like the real
// counter.
type DummyEncoder struct {
	TicksPerUpdate int

	angle uint16
}

var _ Interface = (*DummyEncoder)(nil)

func Dummy(ticksPerUpdate int) *DummyEncoder {
	return &DummyEncoder{TicksPerUpdate: ticksPerUpdate}
}

func (d *DummyEncoder) Update() bool {
	a := (int(d.angle)+d.TicksPerUpdate)%Resolution + Resolution
	d.angle = uint16(a % Resolution)
	return true
}

func (d *DummyEncoder) Raw() uint16        { return d.angle }
func (d *DummyEncoder) Resolution() uint16 { return Resolution }
func (d *DummyEncoder) Radians() float64   { return float64(d.angle) * radiansPerTick }
func (d *DummyEncoder) Degrees() float64   { return float64(d.angle) * degreesPerTick }
func (d *DummyEncoder) Close() error       { return nil }
