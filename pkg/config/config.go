// Package config loads the controller's YAML configuration.  Everything has
// a default matching the robot as built, so a missing file just runs with
// the defaults.
package config

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"

	"github.com/dashmouse-team/dashmouse/go-controller/pkg/chassis"
)

type Encoders struct {
	LeftDevice  string `yaml:"left_device"`
	RightDevice string `yaml:"right_device"`
	// The right encoder is mounted mirrored, so it counts down when the
	// robot drives forward.
	InvertLeft  bool `yaml:"invert_left"`
	InvertRight bool `yaml:"invert_right"`
}

type Motors struct {
	LeftIn1  string `yaml:"left_in1"`
	LeftIn2  string `yaml:"left_in2"`
	RightIn1 string `yaml:"right_in1"`
	RightIn2 string `yaml:"right_in2"`
}

type Photo struct {
	ADCDevice   string   `yaml:"adc_device"`
	ADCAddr     int      `yaml:"adc_addr"`
	ADCChannels []int    `yaml:"adc_channels"`
	FlashPins   []string `yaml:"flash_pins"`
}

type Config struct {
	// Control loop period in microseconds.  The heading integration in the
	// odometry package currently assumes 1000.
	TickPeriodUs int `yaml:"tick_period_us"`

	TrackWidthMM   float64 `yaml:"track_width_mm"`
	TireDiameterMM float64 `yaml:"tire_diameter_mm"`

	Encoders Encoders `yaml:"encoders"`
	Motors   Motors   `yaml:"motors"`
	Photo    Photo    `yaml:"photo"`

	PoseLogPath string `yaml:"pose_log_path"`
}

func Default() Config {
	return Config{
		TickPeriodUs:   1000,
		TrackWidthMM:   chassis.TrackWidthMM,
		TireDiameterMM: chassis.TireDiameterMM,
		Encoders: Encoders{
			LeftDevice:  "/dev/spidev0.0",
			RightDevice: "/dev/spidev0.1",
			InvertLeft:  false,
			InvertRight: true,
		},
		Motors: Motors{
			LeftIn1:  "GPIO12",
			LeftIn2:  "GPIO13",
			RightIn1: "GPIO18",
			RightIn2: "GPIO19",
		},
		Photo: Photo{
			ADCDevice:   "/dev/i2c-1",
			ADCAddr:     0x48,
			ADCChannels: []int{0, 1, 2, 3},
			FlashPins:   []string{"GPIO22", "GPIO23", "GPIO24", "GPIO25"},
		},
		PoseLogPath: "/var/lib/dashmouse/poses.db",
	}
}

// Load reads the file over the defaults.  A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		fmt.Printf("No config at %s, using defaults\n", path)
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// SaveInUse writes the resolved config back next to the source file so the
// values actually used on a run can be inspected afterwards.
func SaveInUse(cfg Config, path string) error {
	raw, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0666)
}
