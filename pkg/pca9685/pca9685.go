package pca9685

import (
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/exp/io/i2c"
)

const (
	DefaultAddr = 0x40

	RegMode1 = 0x00
	RegMode2 = 0x01

	// Each PWM output has two 16-bit (low byte first) registers.
	// First register is the on time, second is the off time.
	RegLEDBase = 0x06

	RegPreScale = 0xfe // Pre-scaler for PWM frequency.
	RegTestMode = 0xff

	NumPorts = 16

	OscillatorHz = 25000000

	DefaultFrequency = 50

	ServoMinPulseDuration = 500 * time.Microsecond
	ServoMaxPulseDuration = 2500 * time.Microsecond

	PWMMax = 4095
)

type Interface interface {
	Configure(frequency int) error
	SetServo(port int, value float64) error
	SetPWM(port int, value float64) error
	SetDuty(port int, duty int) error
	Close() error
}

// port is the register-level access we need; satisfied by *i2c.Device.
type port interface {
	WriteReg(reg byte, buf []byte) error
	Close() error
}

type PCA9685 struct {
	dev    port
	period time.Duration
}

func New(deviceFile string, addr int) (*PCA9685, error) {
	dev, err := i2c.Open(&i2c.Devfs{Dev: deviceFile}, addr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open PCA9685 at %#x on %s", addr, deviceFile)
	}
	return newWithPort(dev), nil
}

func newWithPort(dev port) *PCA9685 {
	return &PCA9685{
		dev:    dev,
		period: time.Second / DefaultFrequency,
	}
}

// PreScale returns the prescaler register value for the given output
// frequency.
func PreScale(frequency int) byte {
	v := math.Round(OscillatorHz/(4096*float64(frequency))) - 1
	if v < 3 {
		v = 3
	} else if v > 255 {
		v = 255
	}
	return byte(v)
}

func (p *PCA9685) Configure(frequency int) (err error) {
	if frequency <= 0 {
		frequency = DefaultFrequency
	}
	p.period = time.Second / time.Duration(frequency)

	// Put device to sleep.
	err = p.dev.WriteReg(RegMode1, []byte{0x11})
	if err != nil {
		return
	}
	err = p.dev.WriteReg(RegPreScale, []byte{PreScale(frequency)})
	if err != nil {
		return
	}
	// Trigger a reset
	err = p.dev.WriteReg(RegMode1, []byte{0x01})
	if err != nil {
		return
	}
	// Required delay after reset.
	time.Sleep(1 * time.Millisecond)
	// Enable, with register auto-increment.
	err = p.dev.WriteReg(RegMode1, []byte{0xa1})
	return
}

// SetServo sets a servo position from 0.0 to 1.0; 0.5 is centre.
func (p *PCA9685) SetServo(port int, value float64) error {
	if value < 0 {
		value = 0
	} else if value > 1 {
		value = 1
	}
	minPWM := float64(PWMMax) * float64(ServoMinPulseDuration) / float64(p.period)
	maxPWM := float64(PWMMax) * float64(ServoMaxPulseDuration) / float64(p.period)
	return p.SetDuty(port, int(minPWM+value*(maxPWM-minPWM)))
}

// SetPWM sets the raw duty cycle from 0.0 (fully off) to 1.0 (fully on).
func (p *PCA9685) SetPWM(port int, value float64) error {
	if value < 0 {
		value = 0
	} else if value > 1 {
		value = 1
	}
	return p.SetDuty(port, int(PWMMax*value))
}

// SetDuty sets the off time of a port in counts out of PWMMax.
func (p *PCA9685) SetDuty(port int, duty int) error {
	if port < 0 || port >= NumPorts {
		return fmt.Errorf("PWM port out of range: %d", port)
	}
	if duty < 0 {
		duty = 0
	} else if duty > PWMMax {
		duty = PWMMax
	}
	addr := RegLEDBase + port*4
	return p.dev.WriteReg(byte(addr), []byte{0, 0, byte(duty & 0xff), byte(duty >> 8)})
}

func (p *PCA9685) Close() error {
	return p.dev.Close()
}

var _ Interface = (*PCA9685)(nil)

func Dummy() Interface {
	return &dummyPWM{}
}

type dummyPWM struct {
}

func (*dummyPWM) Configure(frequency int) error {
	return nil
}

func (*dummyPWM) SetServo(port int, value float64) error {
	return nil
}

func (*dummyPWM) SetPWM(port int, value float64) error {
	return nil
}

func (*dummyPWM) SetDuty(port int, duty int) error {
	return nil
}

func (*dummyPWM) Close() error {
	return nil
}
