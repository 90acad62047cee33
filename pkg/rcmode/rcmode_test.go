package rcmode

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/actuation"
	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/joystick"
	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/mecanum"
	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/peripherals"
)

type fakeDevice struct {
	lock   sync.Mutex
	axes   map[uint8]float64
	events chan joystick.Event
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		axes:   map[uint8]float64{},
		events: make(chan joystick.Event, 16),
	}
}

func (d *fakeDevice) Name() string                  { return "fake pad" }
func (d *fakeDevice) Events() <-chan joystick.Event { return d.events }
func (d *fakeDevice) Hat() (x, y int)               { return 0, 0 }

func (d *fakeDevice) Axis(id uint8) float64 {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.axes[id]
}

func (d *fakeDevice) setAxis(id uint8, v float64) {
	d.lock.Lock()
	d.axes[id] = v
	d.lock.Unlock()
}

type fakeServos struct {
	angles map[int]int
}

func (f *fakeServos) SetAngle(channel, angle int) error {
	f.angles[channel] = angle
	return nil
}

type fakeBuzzer struct {
	on bool
}

func (f *fakeBuzzer) SetOn(on bool) error {
	f.on = on
	return nil
}

type fakeCamera struct {
	toggles int
}

func (f *fakeCamera) Toggle() { f.toggles++ }

type harness struct {
	device *fakeDevice
	state  *actuation.State
	servos *fakeServos
	buzzer *fakeBuzzer
	camera *fakeCamera
	rc     *RCMode
}

func newHarness() *harness {
	h := &harness{
		device: newFakeDevice(),
		state:  actuation.NewState(),
		servos: &fakeServos{angles: map[int]int{}},
		buzzer: &fakeBuzzer{},
		camera: &fakeCamera{},
	}
	panTilt := peripherals.NewPanTilt(peripherals.PanTiltConfig{
		PanChannel:  0,
		TiltChannel: 1,
		Step:        5,
		PanSign:     1,
		TiltSign:    -1,
		Start:       peripherals.Pose{Pan: 90, Tilt: 90},
	}, h.servos)
	h.rc = New(Config{
		Deadzone:     DefaultDeadzone,
		MaxSpeed:     mecanum.MaxSpeed,
		InvertLeftY:  true,
		InvertRightX: true,
		CameraButton: joystick.ButtonShare,
		BuzzerButton: joystick.ButtonCross,
	}, h.device, h.state, panTilt, peripherals.NewBuzzer(h.buzzer), h.camera)
	return h
}

func (h *harness) send(t *testing.T, e joystick.Event) {
	t.Helper()
	if quit, err := h.rc.OnJoystickEvent(e); quit || err != nil {
		t.Fatalf("Unexpected quit=%v err=%v for %v", quit, err, e)
	}
}

func TestScaleDeadzone(t *testing.T) {
	for _, tc := range []struct {
		raw      float64
		expected int
	}{
		{0, 0},
		{0.12, 0},
		{-0.12, 0},
		{0.14, 420},
		{-0.14, -420},
		{1, 3000},
		{-1, -3000},
		{1.2, 3000},
	} {
		if got := Scale(tc.raw, DefaultDeadzone, mecanum.MaxSpeed); got != tc.expected {
			t.Errorf("Scale(%v) = %d, expected %d", tc.raw, got, tc.expected)
		}
	}
}

func TestForwardStick(t *testing.T) {
	h := newHarness()
	// Stick pushed fully up reads -1.
	h.device.setAxis(joystick.AxisLStickY, -1)
	h.send(t, joystick.AxisEvent{ID: joystick.AxisLStickY, Value: -1})

	expected := mecanum.Target{FrontLeft: 3000, BackLeft: 3000, FrontRight: 3000, BackRight: 3000}
	if got := h.state.Snapshot(); got != expected {
		t.Fatalf("Expected %v, got %v", expected, got)
	}
}

func TestStrafeAndRotate(t *testing.T) {
	h := newHarness()
	h.device.setAxis(joystick.AxisLStickX, 1)
	h.send(t, joystick.AxisEvent{ID: joystick.AxisLStickX, Value: 1})
	expected := mecanum.Target{FrontLeft: 3000, BackLeft: -3000, FrontRight: -3000, BackRight: 3000}
	if got := h.state.Snapshot(); got != expected {
		t.Fatalf("Strafe: expected %v, got %v", expected, got)
	}

	h.device.setAxis(joystick.AxisLStickX, 0)
	h.device.setAxis(joystick.AxisRStickX, -1)
	h.send(t, joystick.AxisEvent{ID: joystick.AxisRStickX, Value: -1})
	expected = mecanum.Target{FrontLeft: -3000, BackLeft: -3000, FrontRight: 3000, BackRight: 3000}
	if got := h.state.Snapshot(); got != expected {
		t.Fatalf("Rotate: expected %v, got %v", expected, got)
	}
}

func TestAxisEventResamplesAllAxes(t *testing.T) {
	h := newHarness()
	h.device.setAxis(joystick.AxisLStickX, 0.5)
	h.device.setAxis(joystick.AxisLStickY, -0.5)
	// Only X is reported as changing; Y must still be picked up.
	h.send(t, joystick.AxisEvent{ID: joystick.AxisLStickX, Value: 0.5})

	expected := mecanum.Mix(1500, 1500, 0)
	if got := h.state.Snapshot(); got != expected {
		t.Fatalf("Expected %v, got %v", expected, got)
	}
}

func TestInsideDeadzoneStops(t *testing.T) {
	h := newHarness()
	h.device.setAxis(joystick.AxisLStickY, -1)
	h.send(t, joystick.AxisEvent{ID: joystick.AxisLStickY, Value: -1})
	h.device.setAxis(joystick.AxisLStickY, 0.12)
	h.device.setAxis(joystick.AxisLStickX, -0.1)
	h.send(t, joystick.AxisEvent{ID: joystick.AxisLStickY, Value: 0.12})

	if got := h.state.Snapshot(); !got.IsZero() {
		t.Fatalf("Expected stop, got %v", got)
	}
}

func TestNonDriveAxesIgnored(t *testing.T) {
	h := newHarness()
	h.device.setAxis(joystick.AxisR2, 1)
	h.send(t, joystick.AxisEvent{ID: joystick.AxisR2, Value: 1})
	h.send(t, joystick.AxisEvent{ID: 42, Value: 1})
	if got := h.state.Snapshot(); !got.IsZero() {
		t.Fatalf("Expected no drive, got %v", got)
	}
}

func TestCameraToggleOnPressOnly(t *testing.T) {
	h := newHarness()
	h.send(t, joystick.ButtonEvent{ID: joystick.ButtonShare, Pressed: true})
	h.send(t, joystick.ButtonEvent{ID: joystick.ButtonShare, Pressed: false})
	h.send(t, joystick.ButtonEvent{ID: joystick.ButtonShare, Pressed: true})
	if h.camera.toggles != 2 {
		t.Fatalf("Expected 2 toggles, got %d", h.camera.toggles)
	}
}

func TestBuzzerFollowsButton(t *testing.T) {
	h := newHarness()
	h.send(t, joystick.ButtonEvent{ID: joystick.ButtonCross, Pressed: true})
	if !h.buzzer.on {
		t.Fatalf("Expected buzzer on while held")
	}
	h.send(t, joystick.ButtonEvent{ID: joystick.ButtonCross, Pressed: false})
	if h.buzzer.on {
		t.Fatalf("Expected buzzer off after release")
	}
}

func TestUnknownButtonIsHarmless(t *testing.T) {
	h := newHarness()
	h.send(t, joystick.ButtonEvent{ID: 99, Pressed: true})
	if h.camera.toggles != 0 || h.buzzer.on {
		t.Fatalf("Unknown button had side effects")
	}
}

func TestHatMovesServos(t *testing.T) {
	h := newHarness()
	h.send(t, joystick.HatEvent{X: 1, Y: 0})
	if h.servos.angles[0] != 95 {
		t.Fatalf("Expected pan 95, got %v", h.servos.angles)
	}
	h.send(t, joystick.HatEvent{X: 0, Y: -1})
	if h.servos.angles[1] != 85 {
		t.Fatalf("Expected tilt 85 after up, got %v", h.servos.angles)
	}
	h.send(t, joystick.HatEvent{X: 0, Y: 1})
	if h.servos.angles[1] != 90 {
		t.Fatalf("Expected tilt 90 after down, got %v", h.servos.angles)
	}

	// Diagonals and neutral do nothing.
	h.send(t, joystick.HatEvent{X: 1, Y: 1})
	h.send(t, joystick.HatEvent{X: 0, Y: 0})
	if h.servos.angles[0] != 95 || h.servos.angles[1] != 90 {
		t.Fatalf("Unexpected servo movement: %v", h.servos.angles)
	}
}

func TestNilEventIsSkipped(t *testing.T) {
	h := newHarness()
	h.send(t, nil)
}

func TestRunEndsOnQuit(t *testing.T) {
	h := newHarness()
	disconnected := errors.New("device gone")
	h.device.setAxis(joystick.AxisLStickY, -1)
	h.device.events <- joystick.AxisEvent{ID: joystick.AxisLStickY, Value: -1}
	h.device.events <- joystick.QuitEvent{Err: disconnected}

	err := runWithTimeout(t, h.rc, context.Background())
	if err != disconnected {
		t.Fatalf("Expected disconnect error, got %v", err)
	}
	if h.state.Snapshot().FrontLeft != 3000 {
		t.Fatalf("Events before quit were not processed: %v", h.state.Snapshot())
	}
}

func TestRunEndsOnClosedChannel(t *testing.T) {
	h := newHarness()
	close(h.device.events)
	if err := runWithTimeout(t, h.rc, context.Background()); err != nil {
		t.Fatalf("Expected nil error, got %v", err)
	}
}

func TestRunEndsOnCancel(t *testing.T) {
	h := newHarness()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := runWithTimeout(t, h.rc, ctx); err != nil {
		t.Fatalf("Expected nil error, got %v", err)
	}
}

func runWithTimeout(t *testing.T, rc *RCMode, ctx context.Context) error {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		done <- rc.Run(ctx)
	}()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return")
	}
	return nil
}
