package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/controller"
	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/joystick"
	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/rcmode"
)

var CLI struct {
	Joystick string  `help:"Joystick device or glob." default:"/dev/input/js*" env:"JOYSTICK_DEVICE"`
	Deadzone float64 `help:"Axis moves smaller than this are not printed." default:"0.13"`
	Raw      bool    `help:"Print every decoded event as well."`
}

func main() {
	kong.Parse(&CLI, kong.Name("joytests"), kong.Description("Print gamepad input."))

	// Our global context, we cancel it to trigger shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Hook Ctrl-C etc.
	registerSignalHandlers(cancel)

	j, err := controller.OpenDevice(CLI.Joystick)
	if err == controller.ErrNoInputDevice {
		fmt.Println("No controller detected! Please connect a controller.")
		os.Exit(1)
	} else if err != nil {
		fmt.Println("Failed to open controller:", err)
		os.Exit(1)
	}
	defer j.Close()

	fmt.Println("Connected to:", j.Name())
	fmt.Println("Listening for controller input...")
	fmt.Println()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-j.Events():
			if !ok {
				return
			}
			if CLI.Raw {
				fmt.Println("Raw:", e)
			}
			if line := describe(e, CLI.Deadzone); line != "" {
				fmt.Println(line)
			}
			if q, ok := e.(joystick.QuitEvent); ok {
				fmt.Println("Joystick gone:", q.Err)
				return
			}
		}
	}
}

// describe renders an event the way a person pressing buttons wants to see
// it; events not worth printing give "".
func describe(event joystick.Event, deadzone float64) string {
	if deadzone <= 0 {
		deadzone = rcmode.DefaultDeadzone
	}
	switch e := event.(type) {
	case joystick.ButtonEvent:
		state := "Released"
		if e.Pressed {
			state = "Pressed"
		}
		if name, ok := joystick.ButtonNames[e.ID]; ok {
			return fmt.Sprintf("Button %s %s", name, state)
		}
		return fmt.Sprintf("Unknown Button %d %s", e.ID, state)
	case joystick.AxisEvent:
		name, ok := joystick.AxisNames[e.ID]
		if !ok {
			return ""
		}
		v := math.Round(e.Value*100) / 100
		if math.Abs(v) <= deadzone {
			return ""
		}
		return fmt.Sprintf("%s moved to %v", name, v)
	case joystick.HatEvent:
		if name := joystick.HatName(e.X, e.Y); name != "" {
			return name + " Pressed"
		}
	}
	return ""
}

func registerSignalHandlers(cancelFunc context.CancelFunc) {
	// Hook Ctrl-C to cause shut down.
	signals := make(chan os.Signal, 2)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		s := <-signals
		log.Println("Signal: ", s)
		cancelFunc()
		time.Sleep(2 * time.Second)
		os.Exit(0)
	}()
}
