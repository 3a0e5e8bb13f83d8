// Package adc drives the ADS1015 12-bit ADC that samples the wall-sensor
// photo-transistors.  One-shot conversions only; the photo package sweeps
// the four inputs itself.
package adc

import (
	"fmt"
	"time"

	"golang.org/x/exp/io/i2c"
)

const (
	DefaultAddr = 0x48

	regConversion = 0x00
	regConfig     = 0x01

	// Config register bits.
	cfgStartSingle = 0x8000
	cfgMuxSingle0  = 0x4000 // single-ended AIN0; channel goes in bits 13..12
	cfgPGA2048     = 0x0400 // +/-2.048V full scale
	cfgModeSingle  = 0x0100
	cfgDR3300      = 0x00C0 // 3300 samples/s
	cfgCompOff     = 0x0003

	fullScaleVolts = 2.048
)

// NumChannels is the number of single-ended inputs.
const NumChannels = 4

type ADS1015 struct {
	dev *i2c.Device

	// Fixed transfer buffer; config writes are two bytes, reads two.
	buf [2]byte
}

func New(deviceFile string, addr int) (*ADS1015, error) {
	dev, err := i2c.Open(&i2c.Devfs{Dev: deviceFile}, addr)
	if err != nil {
		return nil, err
	}
	return &ADS1015{dev: dev}, nil
}

// Read runs a one-shot conversion on the given input (0-3) and returns the
// 12-bit result.
func (a *ADS1015) Read(channel int) (uint16, error) {
	if channel < 0 || channel >= NumChannels {
		return 0, fmt.Errorf("adc: channel %d out of range", channel)
	}

	cfg := uint16(cfgStartSingle | cfgMuxSingle0 | cfgPGA2048 | cfgModeSingle | cfgDR3300 | cfgCompOff)
	cfg |= uint16(channel) << 12
	a.buf[0] = byte(cfg >> 8)
	a.buf[1] = byte(cfg)
	if err := a.dev.WriteReg(regConfig, a.buf[:]); err != nil {
		return 0, err
	}

	// 3300 SPS is ~303us per conversion.
	time.Sleep(350 * time.Microsecond)

	if err := a.dev.ReadReg(regConversion, a.buf[:]); err != nil {
		return 0, err
	}
	raw := (uint16(a.buf[0])<<8 | uint16(a.buf[1])) >> 4
	return raw, nil
}

// ToVoltage converts a 12-bit reading to volts at the +/-2.048V range.
func ToVoltage(raw uint16) float64 {
	return float64(raw) * fullScaleVolts / 2048
}

func (a *ADS1015) Close() error { return a.dev.Close() }
