package hardware

import (
	"fmt"
	"sync/atomic"

	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/mecanum"
)

// Dummy logs servo, buzzer and sound calls.  Motor commands arrive every
// tick, so only changes are logged.
type Dummy struct {
	lastMotors atomic.Value
}

func NewDummy() *Dummy {
	d := &Dummy{}
	d.lastMotors.Store(mecanum.Target{})
	return d
}

func (d *Dummy) SetMotorSpeeds(frontLeft, backLeft, frontRight, backRight int) error {
	t := mecanum.Target{FrontLeft: frontLeft, BackLeft: backLeft, FrontRight: frontRight, BackRight: backRight}
	if d.lastMotors.Load().(mecanum.Target) != t {
		fmt.Printf("DHW: SetMotorSpeeds %v\n", t)
		d.lastMotors.Store(t)
	}
	return nil
}

func (d *Dummy) SetAngle(channel, angle int) error {
	fmt.Printf("DHW: SetAngle channel=%v angle=%v\n", channel, angle)
	return nil
}

func (d *Dummy) SetOn(on bool) error {
	fmt.Printf("DHW: SetOn buzzer=%v\n", on)
	return nil
}

func (d *Dummy) PlaySound(path string) {
	fmt.Printf("DHW: PlaySound path=%v\n", path)
}

func (d *Dummy) Shutdown() {
	fmt.Println("DHW: Shutdown")
}

var _ Interface = (*Dummy)(nil)
