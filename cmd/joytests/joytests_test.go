package main

import (
	"testing"

	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/joystick"
)

func TestDescribe(t *testing.T) {
	for _, c := range []struct {
		event    joystick.Event
		expected string
	}{
		{joystick.ButtonEvent{ID: joystick.ButtonCross, Pressed: true}, "Button X Pressed"},
		{joystick.ButtonEvent{ID: joystick.ButtonShare}, "Button Share Released"},
		{joystick.ButtonEvent{ID: 17, Pressed: true}, "Unknown Button 17 Pressed"},
		{joystick.AxisEvent{ID: joystick.AxisLStickY, Value: -0.5}, "Left Stick Y moved to -0.5"},
		{joystick.AxisEvent{ID: joystick.AxisRStickX, Value: 0.12345}, ""},
		{joystick.AxisEvent{ID: joystick.AxisR2, Value: 0.876}, "R2 (Analog) moved to 0.88"},
		{joystick.AxisEvent{ID: 12, Value: 1}, ""},
		{joystick.HatEvent{X: -1}, "D-Pad Left Pressed"},
		{joystick.HatEvent{Y: 1}, "D-Pad Down Pressed"},
		{joystick.HatEvent{X: 1, Y: 1}, ""},
		{joystick.HatEvent{}, ""},
		{joystick.QuitEvent{}, ""},
	} {
		if got := describe(c.event, 0.13); got != c.expected {
			t.Fatalf("describe(%v) = %q, expected %q", c.event, got, c.expected)
		}
	}
}
