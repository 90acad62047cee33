package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/config"
	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/hardware"
	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/pca9685"
)

var CLI struct {
	Config string `help:"Path to the rover config file." default:"/cfg/rover.yaml" type:"path"`
}

func main() {
	kong.Parse(&CLI, kong.Name("servotests"), kong.Description("Poke the PCA9685 by hand."))

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Println("Failed to load config", err)
		return
	}
	hw := cfg.Hardware

	pwmController, err := pca9685.New(hw.I2CBus, hw.PCA9685Addr)
	if err != nil {
		fmt.Println("Failed to open PCA9685", err)
		return
	}
	defer pwmController.Close()

	err = pwmController.Configure(hw.PWMFrequency)
	if err != nil {
		fmt.Println("Failed to configure PCA9685", err)
		return
	}

	motors := pca9685.NewMotors(pwmController, hardware.MotorChannels(hw.MotorChannels))
	servos := pca9685.NewServos(pwmController, hw.ServoBase)

	fmt.Println(
		`Commands:
    a <n> <angle>           # Move servo channel to an angle
    m <fl> <bl> <fr> <br>   # Set wheel speeds
    p <n> <pwm-duty-cycle>  # Configure port for PWM
    z                       # Stop all wheels

<n>               Servo channel (a) or port number 0-15 (p)
<angle>           Servo angle 0-180; 90=centre
<fl> <bl> ...     Wheel speed -4095 to 4095; 0=brake
<pwm-duty-cycle>  Raw PWM duty cycle 0.0-1.0; 0=fully off, 1.0=fully on`)

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nFailed to read stdin: ", err)
			motors.SetMotorSpeeds(0, 0, 0, 0)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		switch parts[0] {
		case "a":
			ints, ok := parseInts(parts[1:], 2)
			if !ok {
				continue
			}
			fmt.Printf("Setting servo %d to %d degrees\n", ints[0], ints[1])
			err = servos.SetAngle(ints[0], ints[1])
		case "m":
			ints, ok := parseInts(parts[1:], 4)
			if !ok {
				continue
			}
			fmt.Printf("Setting motors %v\n", ints)
			err = motors.SetMotorSpeeds(ints[0], ints[1], ints[2], ints[3])
		case "z":
			err = motors.SetMotorSpeeds(0, 0, 0, 0)
		case "p":
			if len(parts) < 3 {
				fmt.Println("Not enough parameters")
				continue
			}
			n, err2 := strconv.Atoi(parts[1])
			if err2 != nil || n < 0 || n >= pca9685.NumPorts {
				fmt.Println("Expected 0 <= n < 16, not ", parts[1])
				continue
			}
			v, err2 := strconv.ParseFloat(parts[2], 64)
			if err2 != nil {
				fmt.Println("Expected float, not ", parts[2])
				continue
			}
			fmt.Printf("Setting PWM %d to %f\n", n, v)
			err = pwmController.SetPWM(n, v)
		default:
			fmt.Println("Unknown command", parts[0])
			continue
		}
		if err != nil {
			fmt.Println("Failed to write to PCA9685: ", err)
		}
	}
}

func parseInts(args []string, n int) ([]int, bool) {
	if len(args) < n {
		fmt.Println("Not enough parameters")
		return nil, false
	}
	ints := make([]int, n)
	for i := range ints {
		v, err := strconv.Atoi(args[i])
		if err != nil {
			fmt.Println("Expected int, not ", args[i])
			return nil, false
		}
		ints[i] = v
	}
	return ints, true
}
