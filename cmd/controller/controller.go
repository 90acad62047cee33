package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/camera/gocvcam"
	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/config"
	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/controller"
	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/hardware"
	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/screen"
)

var CLI struct {
	Config      string `help:"Path to the rover config file." default:"/cfg/rover.yaml" type:"path"`
	Joystick    string `help:"Joystick device or glob; overrides the config file." env:"JOYSTICK_DEVICE"`
	Dummy       bool   `help:"Log hardware commands instead of driving the PCA9685."`
	WriteConfig string `help:"Write the config in use to this path and exit." type:"path"`
}

func main() {
	fmt.Println("---- Rover ----")
	fmt.Println("GOMAXPROCS", runtime.GOMAXPROCS(0))

	kong.Parse(&CLI,
		kong.Name("controller"),
		kong.Description("Drive a mecanum rover from a gamepad."))

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Println("Failed to load config:", err)
		os.Exit(1)
	}
	if CLI.Joystick != "" {
		cfg.JoystickDevice = CLI.Joystick
	}
	fmt.Printf("Config: %+v\n", cfg)
	if CLI.WriteConfig != "" {
		if err := cfg.WriteInUse(CLI.WriteConfig); err != nil {
			fmt.Println("Failed to write config:", err)
			os.Exit(1)
		}
		return
	}

	// Our global context, we cancel it to trigger shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Hook Ctrl-C etc.
	registerSignalHandlers(cancel)

	// No point touching the hardware without something to drive it.
	j, err := controller.OpenDevice(cfg.JoystickDevice)
	if err == controller.ErrNoInputDevice {
		fmt.Println("No controller is being detected! Please connect a controller.")
		os.Exit(1)
	} else if err != nil {
		fmt.Println("Failed to open controller:", err)
		os.Exit(1)
	}
	defer j.Close()
	fmt.Println("Connected to:", j.Name())

	var hw hardware.Interface
	if CLI.Dummy {
		hw = hardware.NewDummy()
	} else {
		hw, err = hardware.New(cfg.Hardware)
		if err != nil {
			fmt.Println("Failed to initialise hardware:", err)
			os.Exit(1)
		}
	}
	defer func() {
		fmt.Println("Zeroing motors for shut down")
		hw.Shutdown()
		time.Sleep(100 * time.Millisecond)
	}()

	if cfg.StartupSound != "" {
		hw.PlaySound(cfg.StartupSound)
	}

	cam := gocvcam.New(gocvcam.Config{
		DeviceID:   cfg.Camera.DeviceID,
		WindowName: cfg.Camera.WindowName,
		QuitKey:    cfg.Camera.QuitKey[0],
	})
	c := controller.New(cfg, j, hw, cam)

	go screen.LoopUpdatingScreen(ctx, cfg.ScreenDevice, c.State(), c.Camera())

	if err := c.Run(ctx); err != nil {
		fmt.Println("Controller stopped:", err)
	}
	fmt.Println("Motor command failures:", c.MotorFailures())
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
