package joystick

import "fmt"

// Event is one of ButtonEvent, AxisEvent, HatEvent or QuitEvent.
type Event interface {
	fmt.Stringer
	isEvent()
}

type ButtonEvent struct {
	ID      uint8
	Pressed bool
}

// AxisEvent carries the new axis position scaled to [-1, 1].
type AxisEvent struct {
	ID    uint8
	Value float64
}

// HatEvent carries the D-pad position.  Left and up are -1.
type HatEvent struct {
	X, Y int
}

// QuitEvent is the last event from a device; Err is nil for a clean quit.
type QuitEvent struct {
	Err error
}

func (ButtonEvent) isEvent() {}
func (AxisEvent) isEvent()   {}
func (HatEvent) isEvent()    {}
func (QuitEvent) isEvent()   {}

func (e ButtonEvent) String() string {
	state := "Released"
	if e.Pressed {
		state = "Pressed"
	}
	return fmt.Sprintf("button(%d)=%s", e.ID, state)
}

func (e AxisEvent) String() string {
	return fmt.Sprintf("axis(%d)=%.2f", e.ID, e.Value)
}

func (e HatEvent) String() string {
	return fmt.Sprintf("hat=(%d,%d)", e.X, e.Y)
}

func (e QuitEvent) String() string {
	if e.Err != nil {
		return fmt.Sprintf("quit(%v)", e.Err)
	}
	return "quit"
}

var ButtonNames = map[uint8]string{
	ButtonCross:    "X",
	ButtonCircle:   "Circle",
	ButtonTriangle: "Triangle",
	ButtonSquare:   "Square",
	ButtonL1:       "L1",
	ButtonR1:       "R1",
	ButtonL2:       "L2",
	ButtonR2:       "R2",
	ButtonShare:    "Share",
	ButtonOptions:  "Options",
	ButtonPS:       "PS Button",
	ButtonLStick:   "Left Stick Press",
	ButtonRStick:   "Right Stick Press",
	ButtonPadClick: "Touchpad Button",
}

var AxisNames = map[uint8]string{
	AxisLStickX: "Left Stick X",
	AxisLStickY: "Left Stick Y",
	AxisL2:      "L2 (Analog)",
	AxisRStickX: "Right Stick X",
	AxisRStickY: "Right Stick Y",
	AxisR2:      "R2 (Analog)",
	AxisDPadX:   "D-Pad X",
	AxisDPadY:   "D-Pad Y",
}

// HatName returns the name of a cardinal D-pad direction, or "" for neutral
// and diagonals.
func HatName(x, y int) string {
	switch {
	case x == -1 && y == 0:
		return "D-Pad Left"
	case x == 1 && y == 0:
		return "D-Pad Right"
	case x == 0 && y == -1:
		return "D-Pad Up"
	case x == 0 && y == 1:
		return "D-Pad Down"
	}
	return ""
}
