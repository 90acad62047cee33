package rcmode

import (
	"context"
	"fmt"
	"math"

	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/actuation"
	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/joystick"
	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/mecanum"
	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/peripherals"
)

const DefaultDeadzone = 0.13

type Config struct {
	Deadzone float64
	MaxSpeed int

	InvertLeftX  bool
	InvertLeftY  bool
	InvertRightX bool

	CameraButton uint8
	BuzzerButton uint8
}

// CameraToggler is the camera session, as seen by the sampler.
type CameraToggler interface {
	Toggle()
}

// RCMode turns joystick events into drive targets, servo steps, buzzer state
// and camera toggles.  Everything here runs on the goroutine calling Run.
type RCMode struct {
	cfg     Config
	device  joystick.Device
	state   *actuation.State
	panTilt *peripherals.PanTilt
	buzzer  *peripherals.Buzzer
	camera  CameraToggler
}

func New(
	cfg Config,
	device joystick.Device,
	state *actuation.State,
	panTilt *peripherals.PanTilt,
	buzzer *peripherals.Buzzer,
	camera CameraToggler,
) *RCMode {
	if cfg.MaxSpeed <= 0 {
		cfg.MaxSpeed = mecanum.MaxSpeed
	}
	return &RCMode{
		cfg:     cfg,
		device:  device,
		state:   state,
		panTilt: panTilt,
		buzzer:  buzzer,
		camera:  camera,
	}
}

func (m *RCMode) Name() string {
	return "RC mode"
}

// Run processes events until the device quits or disconnects, or ctx is
// cancelled.  A disconnect error is returned; a clean quit returns nil.
func (m *RCMode) Run(ctx context.Context) error {
	fmt.Println("Waiting for controller input...")
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-m.device.Events():
			if !ok {
				fmt.Println("Joystick events channel closed!")
				return nil
			}
			if quit, err := m.OnJoystickEvent(event); quit {
				return err
			}
		}
	}
}

// OnJoystickEvent handles a single event and reports whether it ends the
// session.
func (m *RCMode) OnJoystickEvent(event joystick.Event) (quit bool, err error) {
	switch e := event.(type) {
	case joystick.AxisEvent:
		m.onAxis(e)
	case joystick.ButtonEvent:
		m.onButton(e)
	case joystick.HatEvent:
		m.onHat(e)
	case joystick.QuitEvent:
		fmt.Println("RC: quit:", e)
		return true, e.Err
	default:
		fmt.Printf("RC: ignoring unrecognised event %#v\n", event)
	}
	return false, nil
}

func (m *RCMode) onAxis(e joystick.AxisEvent) {
	switch e.ID {
	case joystick.AxisLStickX, joystick.AxisLStickY, joystick.AxisRStickX:
		m.updateDrive()
	default:
		if _, ok := joystick.AxisNames[e.ID]; !ok {
			fmt.Println("RC: unknown axis", e.ID)
		}
	}
}

// updateDrive re-reads all three drive axes so the published target always
// reflects one complete stick position.
func (m *RCMode) updateDrive() {
	leftX := m.scaledAxis(joystick.AxisLStickX, m.cfg.InvertLeftX)
	leftY := m.scaledAxis(joystick.AxisLStickY, m.cfg.InvertLeftY)
	rightX := m.scaledAxis(joystick.AxisRStickX, m.cfg.InvertRightX)
	m.state.Publish(mecanum.Mix(leftX, leftY, rightX))
}

func (m *RCMode) scaledAxis(id uint8, invert bool) int {
	raw := m.device.Axis(id)
	if invert {
		raw = -raw
	}
	return Scale(raw, m.cfg.Deadzone, m.cfg.MaxSpeed)
}

func (m *RCMode) onButton(e joystick.ButtonEvent) {
	state := "Released"
	if e.Pressed {
		state = "Pressed"
	}
	if name, ok := joystick.ButtonNames[e.ID]; ok {
		fmt.Printf("Button %s %s\n", name, state)
	} else {
		fmt.Printf("Unknown Button %d %s\n", e.ID, state)
	}

	switch e.ID {
	case m.cfg.CameraButton:
		if e.Pressed {
			m.camera.Toggle()
		}
	case m.cfg.BuzzerButton:
		m.buzzer.Set(e.Pressed)
	}
}

func (m *RCMode) onHat(e joystick.HatEvent) {
	name := joystick.HatName(e.X, e.Y)
	if name == "" {
		return
	}
	fmt.Println(name, "Pressed")
	// Up is -1 on the pad but raises the camera.
	m.panTilt.Step(e.X, -e.Y)
}

// Scale applies the deadzone to a stick reading in [-1, 1] and maps it to
// [-maxSpeed, maxSpeed].
func Scale(raw, deadzone float64, maxSpeed int) int {
	if math.Abs(raw) < deadzone {
		return 0
	}
	v := int(math.Round(raw * float64(maxSpeed)))
	if v > maxSpeed {
		return maxSpeed
	} else if v < -maxSpeed {
		return -maxSpeed
	}
	return v
}
