package hardware

import (
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/config"
	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/pca9685"
	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/sound"
)

type buzzerDriver interface {
	SetOn(on bool) error
}

// Hardware drives the motors and servos through one PCA9685 and the buzzer
// through a GPIO pin or the speaker.
type Hardware struct {
	// Motors and servos are written from different goroutines but share
	// the I2C device.
	i2cLock sync.Mutex
	pwm     pca9685.Interface
	motors  *pca9685.Motors
	servos  *pca9685.Servos

	buzzer       buzzerDriver
	soundsToPlay chan string
}

func New(cfg config.HardwareConfig) (*Hardware, error) {
	pwm, err := pca9685.New(cfg.I2CBus, cfg.PCA9685Addr)
	if err != nil {
		return nil, err
	}
	if err := pwm.Configure(cfg.PWMFrequency); err != nil {
		_ = pwm.Close()
		return nil, errors.Wrap(err, "failed to configure PCA9685")
	}

	var buzzer buzzerDriver
	switch cfg.Buzzer {
	case "speaker":
		buzzer, err = sound.NewToneBuzzer(cfg.BuzzerHz)
	default:
		buzzer, err = NewGPIOBuzzer(cfg.BuzzerPin)
	}
	if err != nil {
		_ = pwm.Close()
		return nil, err
	}

	return newHardware(pwm, MotorChannels(cfg.MotorChannels), cfg.ServoBase, buzzer, sound.InitSound()), nil
}

func newHardware(
	pwm pca9685.Interface,
	channels [4][2]int,
	servoBase int,
	buzzer buzzerDriver,
	soundsToPlay chan string,
) *Hardware {
	return &Hardware{
		pwm:          pwm,
		motors:       pca9685.NewMotors(pwm, channels),
		servos:       pca9685.NewServos(pwm, servoBase),
		buzzer:       buzzer,
		soundsToPlay: soundsToPlay,
	}
}

// MotorChannels converts the configured wheel port pairs.
func MotorChannels(pairs [][]int) (channels [4][2]int) {
	for i := 0; i < len(channels) && i < len(pairs); i++ {
		copy(channels[i][:], pairs[i])
	}
	return
}

var _ Interface = (*Hardware)(nil)

func (h *Hardware) SetMotorSpeeds(frontLeft, backLeft, frontRight, backRight int) error {
	h.i2cLock.Lock()
	defer h.i2cLock.Unlock()
	return h.motors.SetMotorSpeeds(frontLeft, backLeft, frontRight, backRight)
}

func (h *Hardware) SetAngle(channel, angle int) error {
	h.i2cLock.Lock()
	defer h.i2cLock.Unlock()
	return h.servos.SetAngle(channel, angle)
}

func (h *Hardware) SetOn(on bool) error {
	return h.buzzer.SetOn(on)
}

func (h *Hardware) PlaySound(path string) {
	defer func() {
		recover() // Don't die if the channel is already closed.
	}()
	select {
	case h.soundsToPlay <- path:
		return
	case <-time.After(10 * time.Millisecond):
		fmt.Println("Timed out trying to play sound: ", path)
	}
}

func (h *Hardware) Shutdown() {
	fmt.Println("HW: Zeroing motors for shut down")
	if err := h.SetMotorSpeeds(0, 0, 0, 0); err != nil {
		fmt.Println("HW: Failed to zero motors:", err)
	}
	if err := h.SetOn(false); err != nil {
		fmt.Println("HW: Failed to silence buzzer:", err)
	}
	close(h.soundsToPlay)

	h.i2cLock.Lock()
	defer h.i2cLock.Unlock()
	if err := h.pwm.Close(); err != nil {
		fmt.Println("HW: Failed to close PCA9685:", err)
	}
}
