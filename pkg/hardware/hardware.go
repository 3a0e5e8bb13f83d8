// Package hardware owns the per-tick device schedule and the odometry
// estimator, and republishes their output to the rest of the process.  The
// estimator itself is strictly single-caller, so only the Loop goroutine
// ever touches it; everyone else reads the snapshots.
package hardware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dashmouse-team/dashmouse/go-controller/pkg/odometry"
)

type Hardware struct {
	devices    []Updatable
	odo        *odometry.Odometry
	tickPeriod time.Duration

	lock        sync.Mutex
	pose        Pose
	rates       WheelRates
	resetWanted bool
	badUpdates  uint64
}

// New wires the device list to the estimator.  The devices must include
// both encoders: the estimator reads whatever angle they latched this tick.
func New(odo *odometry.Odometry, tickPeriod time.Duration, devices ...Updatable) *Hardware {
	return &Hardware{
		devices:    devices,
		odo:        odo,
		tickPeriod: tickPeriod,
	}
}

// Loop runs the control tick until the context is cancelled.  initDone, if
// non-nil, is signalled once the loop is about to start ticking.
func (h *Hardware) Loop(ctx context.Context, initDone *sync.WaitGroup) {
	defer fmt.Println("Hardware loop exited")

	ticker := time.NewTicker(h.tickPeriod)
	defer ticker.Stop()
	if initDone != nil {
		initDone.Done()
	}

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			if elapsed <= 0 {
				// Clock hiccup; the estimator needs a strictly positive
				// interval, so fold this tick into the next one.
				continue
			}
			last = now
			h.tick(uint32(elapsed.Microseconds()))
		}
	}
}

// tick is one control-loop iteration: refresh every device, then advance
// the estimator, then publish the snapshots.
func (h *Hardware) tick(elapsedUs uint32) {
	if elapsedUs == 0 {
		return
	}
	for _, d := range h.devices {
		if !d.Update() {
			h.noteBadUpdate(d)
		}
	}

	h.lock.Lock()
	reset := h.resetWanted
	h.resetWanted = false
	h.lock.Unlock()
	if reset {
		h.odo.Reset()
	}

	h.odo.Update(elapsedUs)

	h.lock.Lock()
	h.pose = Pose{
		HeadingRadians: h.odo.Heading(),
		XMM:            h.odo.X(),
		YMM:            h.odo.Y(),
		VelocityMMS:    h.odo.Velocity(),
		OmegaRadS:      h.odo.AngularVelocity(),
	}
	h.rates = WheelRates{
		AngularVelocity:     h.odo.WheelsAngularVelocity(),
		AngularAcceleration: h.odo.WheelsAngularAcceleration(),
		Velocity:            h.odo.WheelsVelocity(),
	}
	h.lock.Unlock()
}

func (h *Hardware) noteBadUpdate(d Updatable) {
	h.badUpdates++
	// Don't flood the console at the tick rate.
	if h.badUpdates%1000 == 1 {
		fmt.Printf("Device update failed (%d so far), keeping last reading: %T\n", h.badUpdates, d)
	}
}

// CurrentPose returns the estimate as of the most recent tick.
func (h *Hardware) CurrentPose() Pose {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.pose
}

// CurrentWheelRates returns the per-wheel snapshot from the most recent tick.
func (h *Hardware) CurrentWheelRates() WheelRates {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.rates
}

// ResetOdometry re-zeroes the pose on the next tick.  Deferred to the loop
// goroutine so the estimator never sees two callers.
func (h *Hardware) ResetOdometry() {
	h.lock.Lock()
	h.resetWanted = true
	h.lock.Unlock()
}
