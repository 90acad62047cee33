package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"time"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

const DefaultPath = "/cfg/rover.yaml"

type Config struct {
	JoystickDevice string `yaml:"joystickDevice"`

	Drive    DriveConfig    `yaml:"drive"`
	Buttons  ButtonConfig   `yaml:"buttons"`
	Servos   ServoConfig    `yaml:"servos"`
	Camera   CameraConfig   `yaml:"camera"`
	Hardware HardwareConfig `yaml:"hardware"`

	ScreenDevice string `yaml:"screenDevice"`
	StartupSound string `yaml:"startupSound"`
}

type DriveConfig struct {
	Deadzone        float64       `yaml:"deadzone"`
	MaxSpeed        int           `yaml:"maxSpeed"`
	ActuationPeriod time.Duration `yaml:"actuationPeriod"`

	// Per-stick sign corrections so that forward and clockwise are positive.
	InvertLeftX  bool `yaml:"invertLeftX"`
	InvertLeftY  bool `yaml:"invertLeftY"`
	InvertRightX bool `yaml:"invertRightX"`
}

type ButtonConfig struct {
	Camera uint8 `yaml:"camera"`
	Buzzer uint8 `yaml:"buzzer"`
}

type ServoConfig struct {
	PanChannel  int `yaml:"panChannel"`
	TiltChannel int `yaml:"tiltChannel"`
	Step        int `yaml:"step"`
	PanSign     int `yaml:"panSign"`
	TiltSign    int `yaml:"tiltSign"`
	PanStart    int `yaml:"panStart"`
	TiltStart   int `yaml:"tiltStart"`
}

type CameraConfig struct {
	DeviceID   int    `yaml:"deviceID"`
	WindowName string `yaml:"windowName"`
	QuitKey    string `yaml:"quitKey"`
}

type HardwareConfig struct {
	I2CBus       string `yaml:"i2cBus"`
	PCA9685Addr  int    `yaml:"pca9685Addr"`
	PWMFrequency int    `yaml:"pwmFrequency"`

	// H-bridge PCA9685 channel pairs, forward channel first.
	MotorChannels [][]int `yaml:"motorChannels"`

	// First PCA9685 channel used for servos; servo n is on ServoBase+n.
	ServoBase int `yaml:"servoBase"`

	Buzzer    string `yaml:"buzzer"` // "gpio" or "speaker"
	BuzzerPin string `yaml:"buzzerPin"`
	BuzzerHz  int    `yaml:"buzzerHz"`
}

func Default() Config {
	return Config{
		JoystickDevice: "/dev/input/js*",
		Drive: DriveConfig{
			Deadzone:        0.13,
			MaxSpeed:        3000,
			ActuationPeriod: 5 * time.Millisecond,
			InvertLeftY:     true,
			InvertRightX:    true,
		},
		Buttons: ButtonConfig{
			Camera: 8, // Share
			Buzzer: 0, // Cross
		},
		Servos: ServoConfig{
			PanChannel:  0,
			TiltChannel: 1,
			Step:        5,
			PanSign:     1,
			TiltSign:    -1, // Tilt servo is mounted mirrored.
			PanStart:    90,
			TiltStart:   90,
		},
		Camera: CameraConfig{
			DeviceID:   0,
			WindowName: "Camera Feed",
			QuitKey:    "q",
		},
		Hardware: HardwareConfig{
			I2CBus:       "/dev/i2c-1",
			PCA9685Addr:  0x40,
			PWMFrequency: 50,
			// Order: front left, back left, front right, back right.
			MotorChannels: [][]int{{0, 1}, {3, 2}, {6, 7}, {4, 5}},
			ServoBase:     8,
			Buzzer:        "gpio",
			BuzzerPin:     "GPIO17",
			BuzzerHz:      2000,
		},
		ScreenDevice: "/dev/fb1",
		StartupSound: "/sounds/roverstart.wav",
	}
}

// Load reads the config file at path over the defaults.  A missing file is
// not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		fmt.Println("No config file at", path, "using defaults")
		return cfg, nil
	} else if err != nil {
		return cfg, errors.Wrapf(err, "failed to read config %s", path)
	}
	cfg, err = Parse(data)
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to parse config %s", path)
	}
	return cfg, nil
}

func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Drive.Deadzone < 0 || c.Drive.Deadzone >= 1 {
		return errors.Errorf("deadzone %v out of range [0, 1)", c.Drive.Deadzone)
	}
	if c.Drive.MaxSpeed <= 0 {
		return errors.Errorf("maxSpeed must be positive, not %d", c.Drive.MaxSpeed)
	}
	if c.Drive.ActuationPeriod <= 0 {
		return errors.Errorf("actuationPeriod must be positive, not %v", c.Drive.ActuationPeriod)
	}
	for _, s := range []int{c.Servos.PanSign, c.Servos.TiltSign} {
		if s != 1 && s != -1 {
			return errors.Errorf("servo signs must be 1 or -1, not %d", s)
		}
	}
	if c.Servos.Step <= 0 {
		return errors.Errorf("servo step must be positive, not %d", c.Servos.Step)
	}
	if len(c.Camera.QuitKey) != 1 {
		return errors.Errorf("camera quitKey must be a single character, not %q", c.Camera.QuitKey)
	}
	if len(c.Hardware.MotorChannels) != 4 {
		return errors.Errorf("expected 4 motor channel pairs, got %d", len(c.Hardware.MotorChannels))
	}
	for i, pair := range c.Hardware.MotorChannels {
		if len(pair) != 2 {
			return errors.Errorf("motor %d: expected a channel pair, got %v", i, pair)
		}
	}
	switch c.Hardware.Buzzer {
	case "gpio", "speaker":
	default:
		return errors.Errorf("unknown buzzer kind %q", c.Hardware.Buzzer)
	}
	return nil
}

// WriteInUse writes out the config actually in use, for debugging.
func (c Config) WriteInUse(path string) error {
	data, err := yaml.Marshal(&c)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, data, 0666)
}
