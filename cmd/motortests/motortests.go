package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"periph.io/x/periph/host"

	"github.com/dashmouse-team/dashmouse/go-controller/pkg/config"
	"github.com/dashmouse-team/dashmouse/go-controller/pkg/motor"
)

// Bring-up tool: ramp each wheel through its duty range, then brake.
// Wheels off the ground, please.
func main() {
	configPath := flag.String("config", "/cfg/dashmouse.yaml", "config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	motors, err := motor.New(motor.Config{
		LeftIn1:  cfg.Motors.LeftIn1,
		LeftIn2:  cfg.Motors.LeftIn2,
		RightIn1: cfg.Motors.RightIn1,
		RightIn2: cfg.Motors.RightIn2,
	})
	if err != nil {
		log.Fatal("Failed to open motors: ", err)
	}
	defer func() {
		fmt.Println("Braking")
		_ = motors.BrakeAll()
	}()

	for _, pos := range []motor.Position{motor.Left, motor.Right} {
		fmt.Printf("Ramping %v wheel\n", pos)
		for _, duty := range []float64{0.1, 0.2, 0.4, 0.2, 0, -0.2, -0.4, -0.2, 0} {
			fmt.Printf("  duty %+.1f\n", duty)
			if err := motors.Speed(pos, duty); err != nil {
				log.Fatal(err)
			}
			time.Sleep(500 * time.Millisecond)
		}
		if err := motors.Coast(pos); err != nil {
			log.Fatal(err)
		}
	}
}
