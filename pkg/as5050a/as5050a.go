// Package as5050a drives the AS5050A magnetic rotary encoder over SPI.
// It is a 10-bit absolute angle sensor; we poll it once per control tick
// and hand the bounded raw angle to the odometry estimator.
package as5050a

import (
	"math"
	"math/bits"

	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spireg"
	"periph.io/x/periph/host"
)

const (
	// Resolution is the number of angle ticks per revolution (10 bits).
	Resolution = 1024

	radiansPerTick = (2 * math.Pi) / Resolution
	degreesPerTick = 360.0 / Resolution

	regMasterReset = 0x33A5
	regAngularData = 0x3FFF
)

// Interface is what the rest of the controller needs from an encoder.
// Implemented by the real sensor and by Dummy.
type Interface interface {
	Update() bool
	Raw() uint16
	Resolution() uint16
	Radians() float64
	Degrees() float64
	Close() error
}

// commandFrame builds a 16-bit frame: read flag in bit 15, register address
// in bits 14..1, even parity in bit 0.
func commandFrame(reg uint16, read bool) uint16 {
	frame := reg << 1
	if read {
		frame |= 0x8000
	}
	return frame | parity(frame)
}

func parity(v uint16) uint16 {
	return uint16(bits.OnesCount16(v) & 1)
}

// verifyFrame checks the parity bit and the command-error flag (bit 1) of a
// response frame.
func verifyFrame(res uint16) bool {
	parityOK := res&0x0001 == parity(res>>1)
	commandOK := res&0x0002 == 0
	return parityOK && commandOK
}

// AS5050A is one encoder on a dedicated SPI chip select.
type AS5050A struct {
	port spi.PortCloser
	conn spi.Conn

	// One frame is two bytes; the buffers are fixed so the per-tick read
	// never allocates.
	tx [2]byte
	rx [2]byte

	angle uint16
}

var _ Interface = (*AS5050A)(nil)

// New opens the encoder on the given SPI port (e.g. "/dev/spidev0.0"),
// resets it and queues the first angle read.  The sensor answers each frame
// during the following transfer, so the first Update already returns a
// valid angle.
func New(deviceFile string) (*AS5050A, error) {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		return nil, err
	}

	p, err := spireg.Open(deviceFile)
	if err != nil {
		return nil, err
	}
	c, err := p.Connect(10*physic.MegaHertz, spi.Mode1, 8)
	if err != nil {
		_ = p.Close()
		return nil, err
	}

	e := &AS5050A{port: p, conn: c}
	if err := e.transfer(commandFrame(regMasterReset, false)); err != nil {
		_ = p.Close()
		return nil, err
	}
	if err := e.transfer(commandFrame(regAngularData, true)); err != nil {
		_ = p.Close()
		return nil, err
	}
	return e, nil
}

func (e *AS5050A) transfer(frame uint16) error {
	e.tx[0] = byte(frame >> 8)
	e.tx[1] = byte(frame)
	return e.conn.Tx(e.tx[:], e.rx[:])
}

// Update clocks out the next angle request and latches the answer to the
// previous one.  A corrupt response keeps the last good angle; the return
// value only reflects whether the bus transfer itself worked.
func (e *AS5050A) Update() bool {
	err := e.transfer(commandFrame(regAngularData, true))
	res := uint16(e.rx[0])<<8 | uint16(e.rx[1])
	if verifyFrame(res) {
		e.angle = (res >> 2) & 0x3FF
	}
	return err == nil
}

// Raw returns the last verified angle in ticks, in [0, Resolution).
func (e *AS5050A) Raw() uint16 { return e.angle }

func (e *AS5050A) Resolution() uint16 { return Resolution }

func (e *AS5050A) Radians() float64 { return float64(e.angle) * radiansPerTick }

func (e *AS5050A) Degrees() float64 { return float64(e.angle) * degreesPerTick }

func (e *AS5050A) Close() error { return e.port.Close() }
