package pca9685

import "github.com/pkg/errors"

const servoRangeDegrees = 180

// Servos maps logical servo channels onto PWM ports starting at base.
type Servos struct {
	pwm  Interface
	base int
}

func NewServos(pwm Interface, base int) *Servos {
	return &Servos{pwm: pwm, base: base}
}

func (s *Servos) SetAngle(channel, angle int) error {
	if angle < 0 || angle > servoRangeDegrees {
		return errors.Errorf("servo %d angle out of range: %d", channel, angle)
	}
	err := s.pwm.SetServo(s.base+channel, float64(angle)/servoRangeDegrees)
	return errors.Wrapf(err, "failed to set servo %d", channel)
}
