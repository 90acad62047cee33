package hardware

import (
	"github.com/pkg/errors"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"
)

// GPIOBuzzer is an active piezo buzzer on a GPIO pin, driven high for on.
type GPIOBuzzer struct {
	pin gpio.PinIO
}

func NewGPIOBuzzer(pinName string) (*GPIOBuzzer, error) {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialise periph")
	}
	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return nil, errors.Errorf("no such GPIO pin %q", pinName)
	}
	b := &GPIOBuzzer{pin: pin}
	if err := b.SetOn(false); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *GPIOBuzzer) SetOn(on bool) error {
	level := gpio.Low
	if on {
		level = gpio.High
	}
	return errors.Wrapf(b.pin.Out(level), "failed to drive buzzer pin %s", b.pin.Name())
}
