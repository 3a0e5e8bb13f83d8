package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"periph.io/x/periph/host"

	"github.com/dashmouse-team/dashmouse/go-controller/pkg/adc"
	"github.com/dashmouse-team/dashmouse/go-controller/pkg/as5050a"
	"github.com/dashmouse-team/dashmouse/go-controller/pkg/config"
	"github.com/dashmouse-team/dashmouse/go-controller/pkg/hardware"
	"github.com/dashmouse-team/dashmouse/go-controller/pkg/motor"
	"github.com/dashmouse-team/dashmouse/go-controller/pkg/odometry"
	"github.com/dashmouse-team/dashmouse/go-controller/pkg/photo"
	"github.com/dashmouse-team/dashmouse/go-controller/pkg/poselog"
)

func main() {
	fmt.Print("---- Dashmouse ----\n\n")

	configPath := flag.String("config", "/cfg/dashmouse.yaml", "config file")
	flag.Parse()

	// Our global context, we cancel it to trigger shutdown.
	ctx, cancel := context.WithCancel(context.Background())

	signals := make(chan os.Signal, 2)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		s := <-signals
		log.Println("Signal: ", s)
		cancel()
		time.Sleep(2 * time.Second)
		os.Exit(0)
	}()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := config.SaveInUse(cfg, *configPath+".in-use"); err != nil {
		fmt.Printf("Failed to write in-use config (continuing): %v\n", err)
	}

	if _, err := host.Init(); err != nil {
		log.Fatalf("Failed to init periph: %v", err)
	}

	leftEnc, rightEnc := openEncoders(cfg)
	defer leftEnc.Close()
	defer rightEnc.Close()

	motors, err := motor.New(motor.Config{
		LeftIn1:  cfg.Motors.LeftIn1,
		LeftIn2:  cfg.Motors.LeftIn2,
		RightIn1: cfg.Motors.RightIn1,
		RightIn2: cfg.Motors.RightIn2,
	})
	if err != nil {
		fmt.Printf("Failed to open motors: %v.\n", err)
		if os.Getenv("IGNORE_MISSING_MOTORS") != "true" {
			cancel()
			return
		}
		motors = nil
	}
	if motors != nil {
		fmt.Println("Braking motors")
		if err := motors.BrakeAll(); err != nil {
			panic(err)
		}
		defer func() {
			fmt.Println("Braking motors")
			_ = motors.BrakeAll()
		}()
	}

	devices := []hardware.Updatable{leftEnc, rightEnc}
	if wallSensors := openPhoto(cfg); wallSensors != nil {
		devices = append(devices, wallSensors)
	}

	odo, err := odometry.New(leftEnc, rightEnc, odometry.Config{
		TrackWidthMM:   cfg.TrackWidthMM,
		TireDiameterMM: cfg.TireDiameterMM,
		InvertLeft:     cfg.Encoders.InvertLeft,
		InvertRight:    cfg.Encoders.InvertRight,
	})
	if err != nil {
		log.Fatalf("Failed to build odometry: %v", err)
	}

	hw := hardware.New(odo, time.Duration(cfg.TickPeriodUs)*time.Microsecond, devices...)
	var initDone sync.WaitGroup
	initDone.Add(1)
	go hw.Loop(ctx, &initDone)
	initDone.Wait()

	store, err := poselog.Open(cfg.PoseLogPath)
	if err != nil {
		fmt.Printf("Failed to open pose log (continuing without): %v\n", err)
		store = nil
	} else {
		defer store.Close()
	}

	statusTicker := time.NewTicker(100 * time.Millisecond)
	defer statusTicker.Stop()
	for {
		select {
		case <-ctx.Done():
			fmt.Println("Context done, shutting down")
			time.Sleep(200 * time.Millisecond)
			return
		case <-statusTicker.C:
			pose := hw.CurrentPose()
			fmt.Printf("Pose: x %8.1fmm y %8.1fmm heading %7.3frad v %7.1fmm/s w %6.3frad/s\n",
				pose.XMM, pose.YMM, pose.HeadingRadians, pose.VelocityMMS, pose.OmegaRadS)
			if store != nil {
				err := store.Append(poselog.Sample{
					At:          time.Now(),
					XMM:         pose.XMM,
					YMM:         pose.YMM,
					HeadingRad:  pose.HeadingRadians,
					VelocityMMS: pose.VelocityMMS,
					OmegaRadS:   pose.OmegaRadS,
				})
				if err != nil {
					fmt.Println("Failed to append pose log: ", err)
				}
			}
		}
	}
}

func openEncoders(cfg config.Config) (left, right as5050a.Interface) {
	var err error
	left, err = as5050a.New(cfg.Encoders.LeftDevice)
	if err == nil {
		right, err = as5050a.New(cfg.Encoders.RightDevice)
	}
	if err != nil {
		fmt.Printf("Failed to open encoders: %v.\n", err)
		if os.Getenv("IGNORE_MISSING_ENCODERS") != "true" {
			log.Fatal("Set IGNORE_MISSING_ENCODERS=true to run with dummy encoders")
		}
		if left != nil {
			_ = left.Close()
		}
		fmt.Println("Using dummy encoders")
		left = as5050a.Dummy(3)
		right = as5050a.Dummy(-3)
	}
	return left, right
}

func openPhoto(cfg config.Config) *photo.Array {
	if len(cfg.Photo.ADCChannels) < photo.NumSensors || len(cfg.Photo.FlashPins) < photo.NumSensors {
		fmt.Println("Photo config incomplete, skipping wall sensors")
		return nil
	}
	converter, err := adc.New(cfg.Photo.ADCDevice, cfg.Photo.ADCAddr)
	if err != nil {
		fmt.Printf("Failed to open ADC, skipping wall sensors: %v\n", err)
		return nil
	}
	var pcfg photo.Config
	copy(pcfg.ADCChannels[:], cfg.Photo.ADCChannels)
	copy(pcfg.FlashPins[:], cfg.Photo.FlashPins)
	wallSensors, err := photo.New(converter, pcfg)
	if err != nil {
		fmt.Printf("Failed to open photo array, skipping wall sensors: %v\n", err)
		return nil
	}
	return wallSensors
}
