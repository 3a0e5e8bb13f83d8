// Package photo reads the four wall-sensor photo-reflectors.  Each channel
// is sampled twice per tick, once with its flash LED off (ambient) and once
// with it on, so callers can subtract out ambient light.
package photo

import (
	"fmt"
	"time"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"

	"github.com/dashmouse-team/dashmouse/go-controller/pkg/adc"
)

const NumSensors = 4

// Channel identifies one sensor by the wall direction it faces.
type Channel int

const (
	Left90 Channel = iota
	Left45
	Right45
	Right90
)

// Result is one channel's ambient/flash reading pair.
type Result struct {
	Ambient uint16
	Flash   uint16
}

type Config struct {
	// ADC input per sensor, indexed by Channel.
	ADCChannels [NumSensors]int
	// GPIO pin name of each flash LED, indexed by Channel.
	FlashPins [NumSensors]string
}

// Array is the four-sensor bank.
type Array struct {
	adc      *adc.ADS1015
	pins     [NumSensors]gpio.PinOut
	channels [NumSensors]int
	results  [NumSensors]Result
}

func New(a *adc.ADS1015, cfg Config) (*Array, error) {
	arr := &Array{adc: a, channels: cfg.ADCChannels}
	for i, name := range cfg.FlashPins {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, fmt.Errorf("photo: no GPIO pin %q", name)
		}
		if err := pin.Out(gpio.Low); err != nil {
			return nil, err
		}
		arr.pins[i] = pin
	}
	return arr, nil
}

// Update sweeps all four sensors.  A failed conversion keeps that channel's
// previous result.
func (p *Array) Update() bool {
	ok := true
	for i := range p.results {
		ambient, err := p.adc.Read(p.channels[i])
		if err != nil {
			ok = false
			continue
		}
		if err := p.pins[i].Out(gpio.High); err != nil {
			ok = false
			continue
		}
		// LED and photo-transistor rise time.
		time.Sleep(50 * time.Microsecond)
		flash, err := p.adc.Read(p.channels[i])
		if lerr := p.pins[i].Out(gpio.Low); lerr != nil {
			ok = false
		}
		if err != nil {
			ok = false
			continue
		}
		p.results[i] = Result{Ambient: ambient, Flash: flash}
	}
	return ok
}

// Reading returns the latest pair for one channel.
func (p *Array) Reading(c Channel) Result { return p.results[c] }
