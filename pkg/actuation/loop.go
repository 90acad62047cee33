package actuation

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/mecanum"
)

const DefaultPeriod = 5 * time.Millisecond

// MotorDriver is the motor controller collaborator.  Repeated identical
// commands must be harmless.
type MotorDriver interface {
	SetMotorSpeeds(frontLeft, backLeft, frontRight, backRight int) error
}

// Loop forwards the current target to the motors on a fixed period,
// regardless of how often the target changes.
type Loop struct {
	state  *State
	motors MotorDriver
	period time.Duration

	cancel   context.CancelFunc
	stopWG   sync.WaitGroup
	failures uint64
}

func NewLoop(state *State, motors MotorDriver, period time.Duration) *Loop {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Loop{
		state:  state,
		motors: motors,
		period: period,
	}
}

func (l *Loop) Start(ctx context.Context) {
	l.stopWG.Add(1)
	var loopCtx context.Context
	loopCtx, l.cancel = context.WithCancel(ctx)
	go l.loop(loopCtx)
}

// Stop cancels the loop and waits for its final stop command to go out.
func (l *Loop) Stop() {
	if l.cancel == nil {
		return
	}
	l.cancel()
	l.stopWG.Wait()
}

// Failures returns the number of motor commands the driver has rejected.
func (l *Loop) Failures() uint64 {
	return atomic.LoadUint64(&l.failures)
}

func (l *Loop) loop(ctx context.Context) {
	defer l.stopWG.Done()
	defer fmt.Println("Actuation loop exited")

	ticker := time.NewTicker(l.period)
	defer ticker.Stop()

	failing := false
	send := func(t mecanum.Target) {
		err := l.motors.SetMotorSpeeds(t.FrontLeft, t.BackLeft, t.FrontRight, t.BackRight)
		if err != nil {
			atomic.AddUint64(&l.failures, 1)
			if !failing {
				fmt.Println("Failed to set motor speeds:", err)
				failing = true
			}
			return
		}
		if failing {
			fmt.Println("Motor driver recovered after", atomic.LoadUint64(&l.failures), "failures")
			failing = false
		}
	}

	defer func() {
		fmt.Println("Zeroing motors")
		send(mecanum.Target{})
	}()

	for {
		send(l.state.Snapshot())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
