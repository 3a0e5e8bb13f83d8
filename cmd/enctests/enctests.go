package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/dashmouse-team/dashmouse/go-controller/pkg/as5050a"
	"github.com/dashmouse-team/dashmouse/go-controller/pkg/config"
	"github.com/dashmouse-team/dashmouse/go-controller/pkg/odometry"
)

// Bring-up tool: spin the wheels by hand and watch the raw angles and the
// derived rates.
func main() {
	configPath := flag.String("config", "/cfg/dashmouse.yaml", "config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	left, err := as5050a.New(cfg.Encoders.LeftDevice)
	if err != nil {
		log.Fatal("Failed to open left encoder: ", err)
	}
	defer left.Close()
	right, err := as5050a.New(cfg.Encoders.RightDevice)
	if err != nil {
		log.Fatal("Failed to open right encoder: ", err)
	}
	defer right.Close()

	odo, err := odometry.New(left, right, odometry.Config{
		TrackWidthMM:   cfg.TrackWidthMM,
		TireDiameterMM: cfg.TireDiameterMM,
		InvertLeft:     cfg.Encoders.InvertLeft,
		InvertRight:    cfg.Encoders.InvertRight,
	})
	if err != nil {
		log.Fatal(err)
	}

	period := time.Duration(cfg.TickPeriodUs) * time.Microsecond
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	last := time.Now()
	n := 0
	for now := range ticker.C {
		elapsed := now.Sub(last)
		if elapsed <= 0 {
			continue
		}
		last = now

		left.Update()
		right.Update()
		odo.Update(uint32(elapsed.Microseconds()))

		// The loop ticks at the control rate; only print at ~10Hz.
		n++
		if n%100 != 0 {
			continue
		}
		w := odo.WheelsAngularVelocity()
		fmt.Printf("L raw %4d (%6.1fdeg) R raw %4d (%6.1fdeg)  wL %7.2frad/s wR %7.2frad/s  v %7.1fmm/s\n",
			left.Raw(), left.Degrees(), right.Raw(), right.Degrees(),
			w.Left, w.Right, odo.Velocity())
	}
}
