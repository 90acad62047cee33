package peripherals

import "fmt"

type BuzzerDriver interface {
	SetOn(on bool) error
}

// Buzzer follows the held state of its button.
type Buzzer struct {
	driver BuzzerDriver
	on     bool
}

func NewBuzzer(driver BuzzerDriver) *Buzzer {
	return &Buzzer{driver: driver}
}

func (b *Buzzer) On() bool {
	return b.on
}

// Set is called on every press and release; the driver is written each time
// even if the state is unchanged.
func (b *Buzzer) Set(on bool) {
	b.on = on
	if err := b.driver.SetOn(on); err != nil {
		fmt.Println("Failed to set buzzer:", err)
	}
}
