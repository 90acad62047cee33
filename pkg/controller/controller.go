package controller

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/actuation"
	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/camera"
	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/config"
	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/joystick"
	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/peripherals"
	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/rcmode"
)

var ErrNoInputDevice = errors.New("no controller detected, please connect a controller")

// Drivers is the hardware the controller commands.
type Drivers interface {
	actuation.MotorDriver
	peripherals.ServoDriver
	peripherals.BuzzerDriver
}

// OpenDevice opens the first joystick matching pattern.
func OpenDevice(pattern string) (*joystick.Joystick, error) {
	devices, err := joystick.Devices(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "bad joystick device pattern %q", pattern)
	}
	if len(devices) == 0 {
		return nil, ErrNoInputDevice
	}
	fmt.Printf("Found %d joystick(s), using %s\n", len(devices), devices[0])
	j, err := joystick.NewJoystick(devices[0])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open joystick %s", devices[0])
	}
	return j, nil
}

// Controller owns the three tasks: the input sampler, which runs on the
// caller's goroutine, the actuation loop, and the optional camera stream.
type Controller struct {
	state   *actuation.State
	loop    *actuation.Loop
	camera  *camera.Session
	panTilt *peripherals.PanTilt
	buzzer  *peripherals.Buzzer
	rc      *rcmode.RCMode
}

func New(cfg config.Config, device joystick.Device, drivers Drivers, cam camera.Driver) *Controller {
	state := actuation.NewState()
	session := camera.NewSession(cam)
	panTilt := peripherals.NewPanTilt(peripherals.PanTiltConfig{
		PanChannel:  cfg.Servos.PanChannel,
		TiltChannel: cfg.Servos.TiltChannel,
		Step:        cfg.Servos.Step,
		PanSign:     cfg.Servos.PanSign,
		TiltSign:    cfg.Servos.TiltSign,
		Start:       peripherals.Pose{Pan: cfg.Servos.PanStart, Tilt: cfg.Servos.TiltStart},
	}, drivers)
	buzzer := peripherals.NewBuzzer(drivers)
	rc := rcmode.New(rcmode.Config{
		Deadzone:     cfg.Drive.Deadzone,
		MaxSpeed:     cfg.Drive.MaxSpeed,
		InvertLeftX:  cfg.Drive.InvertLeftX,
		InvertLeftY:  cfg.Drive.InvertLeftY,
		InvertRightX: cfg.Drive.InvertRightX,
		CameraButton: cfg.Buttons.Camera,
		BuzzerButton: cfg.Buttons.Buzzer,
	}, device, state, panTilt, buzzer, session)

	return &Controller{
		state:   state,
		loop:    actuation.NewLoop(state, drivers, cfg.Drive.ActuationPeriod),
		camera:  session,
		panTilt: panTilt,
		buzzer:  buzzer,
		rc:      rc,
	}
}

// State is the shared drive target, for read-only observers.
func (c *Controller) State() *actuation.State {
	return c.state
}

func (c *Controller) Camera() *camera.Session {
	return c.camera
}

func (c *Controller) MotorFailures() uint64 {
	return c.loop.Failures()
}

// Run drives the robot until the joystick quits or ctx is cancelled, then
// stops the actuation loop (which zeroes the motors) and the camera.
func (c *Controller) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Printf("----- %s -----\n", c.rc.Name())
	c.panTilt.Centre()
	c.loop.Start(ctx)

	err := c.rc.Run(ctx)

	fmt.Println("Shutting down")
	cancel()
	c.loop.Stop()
	c.camera.Stop()
	c.buzzer.Set(false)
	if err != nil {
		return errors.Wrap(err, "joystick failed")
	}
	return nil
}
