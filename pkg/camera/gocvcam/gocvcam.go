package gocvcam

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"

	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/camera"
)

var ErrReadFailed = errors.New("cannot read from video device")

type Config struct {
	DeviceID   int
	WindowName string
	QuitKey    byte
}

// Driver opens gocv video capture and preview windows.
type Driver struct {
	cfg Config
}

func New(cfg Config) *Driver {
	if cfg.WindowName == "" {
		cfg.WindowName = "Camera Feed"
	}
	if cfg.QuitKey == 0 {
		cfg.QuitKey = 'q'
	}
	return &Driver{cfg: cfg}
}

func (d *Driver) NewCapture() camera.Capture {
	return &capture{deviceID: d.cfg.DeviceID}
}

func (d *Driver) NewDisplay() (camera.Display, error) {
	w := gocv.NewWindow(d.cfg.WindowName)
	if w == nil {
		return nil, fmt.Errorf("failed to create window %q", d.cfg.WindowName)
	}
	return &display{window: w, quitKey: d.cfg.QuitKey}, nil
}

type capture struct {
	deviceID int
	webcam   *gocv.VideoCapture
	img      gocv.Mat
}

func (c *capture) Open() error {
	webcam, err := gocv.VideoCaptureDevice(c.deviceID)
	if err != nil {
		return fmt.Errorf("error opening video capture device %d: %w", c.deviceID, err)
	}
	c.webcam = webcam
	c.img = gocv.NewMat()
	return nil
}

// CaptureFrame blocks until the next frame is ready.
func (c *capture) CaptureFrame() (camera.Frame, error) {
	if ok := c.webcam.Read(&c.img); !ok {
		return nil, ErrReadFailed
	}
	return &c.img, nil
}

func (c *capture) Close() error {
	if c.webcam == nil {
		return nil
	}
	err := c.webcam.Close()
	_ = c.img.Close()
	c.webcam = nil
	return err
}

type display struct {
	window  *gocv.Window
	quitKey byte
}

func (d *display) Show(frame camera.Frame) error {
	img, ok := frame.(*gocv.Mat)
	if !ok {
		return fmt.Errorf("unexpected frame type %T", frame)
	}
	d.window.IMShow(*img)
	return nil
}

func (d *display) PollQuitKey() bool {
	return d.window.WaitKey(1)&0xff == int(d.quitKey)
}

func (d *display) Close() error {
	return d.window.Close()
}

var _ camera.Driver = (*Driver)(nil)
