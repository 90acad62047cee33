package joystick

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"unsafe"
)

// Button and pad mappings (Linux joystick API, DualShock/DualSense):
//
// Buttons
//
//    Cross     = 0
//    Circle    = 1
//    Triangle  = 2
//    Square    = 3
//    L1        = 4
//    R1        = 5
//    L2        = 6 (also an axis)
//    R2        = 7 (also an axis)
//    Share     = 8
//    Options   = 9
//    PS        = 10
//    L stick   = 11
//    R stick   = 12
//    Pad click = 13
//
// Axes
//
//    L stick l/r = 0 (left = -32767; right = +32767)
//            u/d = 1 (up = -32767; down = +32767)
//    L2          = 2 (unpressed = -32767; fully-pressed = 32767)
//    R stick l/r = 3 (left = -32767; right = +32767)
//            u/d = 4 (up = -32767; down = +32767)
//    R2          = 5 (unpressed = -32767; fully-pressed = 32767)
//    D-pad   l/r = 6 (left = -32767; right = +32767)
//            u/d = 7 (up = -32767; down = +32767)

const DefaultDevicePattern = "/dev/input/js*"

const (
	typeButton = 0x01
	typeAxis   = 0x02
	typeInit   = 0x80
)

const (
	ButtonCross    = 0
	ButtonCircle   = 1
	ButtonTriangle = 2
	ButtonSquare   = 3
	ButtonL1       = 4
	ButtonR1       = 5
	ButtonL2       = 6
	ButtonR2       = 7
	ButtonShare    = 8
	ButtonOptions  = 9
	ButtonPS       = 10
	ButtonLStick   = 11
	ButtonRStick   = 12
	ButtonPadClick = 13

	AxisLStickX = 0
	AxisLStickY = 1
	AxisL2      = 2
	AxisRStickX = 3
	AxisRStickY = 4
	AxisR2      = 5
	AxisDPadX   = 6
	AxisDPadY   = 7
)

const axisFullScale = 32767

// Device is a game controller that queues events and keeps a snapshot of
// its current axis and hat positions.
type Device interface {
	Name() string
	Events() <-chan Event
	Axis(id uint8) float64
	Hat() (x, y int)
}

type Joystick struct {
	device io.ReadCloser
	name   string

	events    chan Event
	done      chan struct{}
	closeOnce sync.Once

	lock       sync.Mutex
	axes       [256]float64
	hatX, hatY int
}

type rawEvent struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

var _ Device = (*Joystick)(nil)

// Devices returns the joystick device files matching pattern.
func Devices(pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultDevicePattern
	}
	return filepath.Glob(pattern)
}

func NewJoystick(device string) (*Joystick, error) {
	f, err := os.Open(device)
	if err != nil {
		return nil, err
	}
	name, err := readName(f)
	if err != nil {
		fmt.Printf("Failed to read joystick name: %v.\n", err)
		name = device
	}
	return newJoystick(f, name), nil
}

func newJoystick(r io.ReadCloser, name string) *Joystick {
	j := &Joystick{
		device: r,
		name:   name,
		events: make(chan Event, 16),
		done:   make(chan struct{}),
	}
	go j.loopReadingEvents()
	return j
}

func (j *Joystick) Name() string {
	return j.name
}

// Events is closed after the device's QuitEvent.
func (j *Joystick) Events() <-chan Event {
	return j.events
}

func (j *Joystick) Axis(id uint8) float64 {
	j.lock.Lock()
	defer j.lock.Unlock()
	return j.axes[id]
}

func (j *Joystick) Hat() (x, y int) {
	j.lock.Lock()
	defer j.lock.Unlock()
	return j.hatX, j.hatY
}

func (j *Joystick) Close() error {
	var err error
	j.closeOnce.Do(func() {
		close(j.done)
		err = j.device.Close()
	})
	return err
}

func (j *Joystick) loopReadingEvents() {
	defer close(j.events)
	for {
		var raw rawEvent
		err := binary.Read(j.device, binary.LittleEndian, &raw)
		if err != nil {
			select {
			case <-j.done:
				err = nil
			default:
			}
			j.send(QuitEvent{Err: err})
			return
		}
		event := j.decode(raw)
		if event == nil {
			continue
		}
		if !j.send(event) {
			return
		}
	}
}

func (j *Joystick) send(e Event) bool {
	select {
	case j.events <- e:
		return true
	case <-j.done:
		return false
	}
}

// decode updates the snapshot and returns the event to queue, or nil if the
// record is not one we understand.
func (j *Joystick) decode(raw rawEvent) Event {
	switch raw.Type &^ typeInit {
	case typeButton:
		return ButtonEvent{ID: raw.Number, Pressed: raw.Value != 0}
	case typeAxis:
		j.lock.Lock()
		defer j.lock.Unlock()
		switch raw.Number {
		case AxisDPadX:
			j.hatX = sign(raw.Value)
			return HatEvent{X: j.hatX, Y: j.hatY}
		case AxisDPadY:
			j.hatY = sign(raw.Value)
			return HatEvent{X: j.hatX, Y: j.hatY}
		}
		v := normalise(raw.Value)
		j.axes[raw.Number] = v
		return AxisEvent{ID: raw.Number, Value: v}
	default:
		fmt.Printf("Ignoring joystick record of unknown type %#x\n", raw.Type)
		return nil
	}
}

func normalise(v int16) float64 {
	f := float64(v) / axisFullScale
	if f < -1 {
		return -1
	}
	return f
}

func sign(v int16) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

// JSIOCGNAME(len), from linux/joystick.h.
func jsiocgname(length int) uintptr {
	const (
		iocRead = 2
		jsType  = 'j'
		jsNr    = 0x13
	)
	return uintptr(iocRead)<<30 | uintptr(length)<<16 | uintptr(jsType)<<8 | uintptr(jsNr)
}

func readName(f *os.File) (string, error) {
	var buf [128]byte
	n, _, errno := syscall.Syscall(syscall.SYS_IOCTL, f.Fd(), jsiocgname(len(buf)), uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return "", errno
	}
	name := buf[:]
	if int(n) < len(name) {
		name = name[:n]
	}
	for i, b := range name {
		if b == 0 {
			name = name[:i]
			break
		}
	}
	return string(name), nil
}
