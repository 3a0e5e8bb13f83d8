// Package motor drives the two H-bridge channels through GPIO PWM.  The
// handle map is built once by New and passed around by reference; there is
// no package-level motor table.
package motor

import (
	"fmt"
	"math"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/conn/physic"
)

// Position selects one drive wheel.
type Position int

const (
	Left Position = iota
	Right
	NumPositions
)

func (p Position) String() string {
	switch p {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("position(%d)", int(p))
}

const pwmFrequency = 100 * physic.KiloHertz

type pinPair struct {
	in1, in2 gpio.PinOut
}

type Config struct {
	LeftIn1, LeftIn2   string
	RightIn1, RightIn2 string
}

// Motors is the per-position H-bridge handle map.
type Motors struct {
	wheels [NumPositions]pinPair
}

func New(cfg Config) (*Motors, error) {
	names := [NumPositions][2]string{
		Left:  {cfg.LeftIn1, cfg.LeftIn2},
		Right: {cfg.RightIn1, cfg.RightIn2},
	}
	m := &Motors{}
	for pos, pair := range names {
		in1 := gpioreg.ByName(pair[0])
		in2 := gpioreg.ByName(pair[1])
		if in1 == nil || in2 == nil {
			return nil, fmt.Errorf("motor: no GPIO pins %q/%q for %v wheel", pair[0], pair[1], Position(pos))
		}
		m.wheels[pos] = pinPair{in1: in1, in2: in2}
	}
	// Start braked.
	if err := m.BrakeAll(); err != nil {
		return nil, err
	}
	return m, nil
}

// Speed sets one wheel's duty in [-1, 1]; out-of-range values are clamped.
// The sign selects which bridge input carries the PWM waveform.
func (m *Motors) Speed(pos Position, duty float64) error {
	if duty > 1 {
		duty = 1
	} else if duty < -1 {
		duty = -1
	}
	pair := m.wheels[pos]
	d := gpio.Duty(math.Abs(duty) * float64(gpio.DutyMax))
	if duty >= 0 {
		if err := pair.in2.Out(gpio.Low); err != nil {
			return err
		}
		return pair.in1.PWM(d, pwmFrequency)
	}
	if err := pair.in1.Out(gpio.Low); err != nil {
		return err
	}
	return pair.in2.PWM(d, pwmFrequency)
}

// Brake shorts the motor by driving both bridge inputs high.
func (m *Motors) Brake(pos Position) error {
	pair := m.wheels[pos]
	if err := pair.in1.Out(gpio.High); err != nil {
		return err
	}
	return pair.in2.Out(gpio.High)
}

// Coast floats the motor by driving both bridge inputs low.
func (m *Motors) Coast(pos Position) error {
	pair := m.wheels[pos]
	if err := pair.in1.Out(gpio.Low); err != nil {
		return err
	}
	return pair.in2.Out(gpio.Low)
}

func (m *Motors) BrakeAll() error {
	for pos := Position(0); pos < NumPositions; pos++ {
		if err := m.Brake(pos); err != nil {
			return err
		}
	}
	return nil
}

func (m *Motors) CoastAll() error {
	for pos := Position(0); pos < NumPositions; pos++ {
		if err := m.Coast(pos); err != nil {
			return err
		}
	}
	return nil
}
