package pca9685

import "github.com/pkg/errors"

// Motors drives four DC motors through H-bridges on pairs of PWM ports.
// For a pair {in1, in2}, forward speeds are driven on in2 and reverse
// speeds on in1; zero brakes by driving both fully on.
type Motors struct {
	pwm      Interface
	channels [4][2]int
}

// NewMotors takes the channel pairs in the order front left, back left,
// front right, back right.
func NewMotors(pwm Interface, channels [4][2]int) *Motors {
	return &Motors{pwm: pwm, channels: channels}
}

// SetMotorSpeeds takes speeds in duty counts; anything beyond PWMMax
// saturates.
func (m *Motors) SetMotorSpeeds(frontLeft, backLeft, frontRight, backRight int) error {
	for i, speed := range [4]int{frontLeft, backLeft, frontRight, backRight} {
		if err := m.setWheel(m.channels[i], speed); err != nil {
			return errors.Wrapf(err, "failed to set motor %d", i)
		}
	}
	return nil
}

func (m *Motors) setWheel(pair [2]int, speed int) error {
	in1, in2 := PWMMax, PWMMax
	switch {
	case speed > 0:
		in1, in2 = 0, saturate(speed)
	case speed < 0:
		in1, in2 = saturate(-speed), 0
	}
	if err := m.pwm.SetDuty(pair[0], in1); err != nil {
		return err
	}
	return m.pwm.SetDuty(pair[1], in2)
}

func saturate(duty int) int {
	if duty > PWMMax {
		return PWMMax
	}
	return duty
}
