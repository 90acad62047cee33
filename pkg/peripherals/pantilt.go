package peripherals

import "fmt"

const (
	MinAngle = 0
	MaxAngle = 180

	DefaultStep = 5
)

type ServoDriver interface {
	SetAngle(channel, angle int) error
}

// Pose is the current pan/tilt servo pair position in degrees.
type Pose struct {
	Pan, Tilt int
}

type PanTiltConfig struct {
	PanChannel  int
	TiltChannel int
	Step        int

	// Direction multipliers, +1 or -1, for mirrored mounts.
	PanSign  int
	TiltSign int

	Start Pose
}

// PanTilt moves the camera mount in fixed steps.  It is only driven from the
// input sampler, so it has no locking.
type PanTilt struct {
	cfg   PanTiltConfig
	servo ServoDriver
	pose  Pose
}

func NewPanTilt(cfg PanTiltConfig, servo ServoDriver) *PanTilt {
	if cfg.Step == 0 {
		cfg.Step = DefaultStep
	}
	if cfg.PanSign == 0 {
		cfg.PanSign = 1
	}
	if cfg.TiltSign == 0 {
		cfg.TiltSign = 1
	}
	return &PanTilt{
		cfg:   cfg,
		servo: servo,
		pose: Pose{
			Pan:  clampAngle(cfg.Start.Pan),
			Tilt: clampAngle(cfg.Start.Tilt),
		},
	}
}

func (p *PanTilt) Pose() Pose {
	return p.pose
}

// Centre drives both servos to the configured start pose.
func (p *PanTilt) Centre() {
	p.pose = Pose{Pan: clampAngle(p.cfg.Start.Pan), Tilt: clampAngle(p.cfg.Start.Tilt)}
	p.write(p.cfg.PanChannel, p.pose.Pan)
	p.write(p.cfg.TiltChannel, p.pose.Tilt)
}

// Step moves pan by panDir and tilt by tiltDir steps, each in {-1, 0, 1}.
func (p *PanTilt) Step(panDir, tiltDir int) {
	if panDir != 0 {
		p.pose.Pan = clampAngle(p.pose.Pan + panDir*p.cfg.PanSign*p.cfg.Step)
		p.write(p.cfg.PanChannel, p.pose.Pan)
	}
	if tiltDir != 0 {
		p.pose.Tilt = clampAngle(p.pose.Tilt + tiltDir*p.cfg.TiltSign*p.cfg.Step)
		p.write(p.cfg.TiltChannel, p.pose.Tilt)
	}
}

func (p *PanTilt) write(channel, angle int) {
	if err := p.servo.SetAngle(channel, angle); err != nil {
		fmt.Printf("Failed to set servo %d to %d: %v\n", channel, angle, err)
	}
}

func clampAngle(a int) int {
	if a < MinAngle {
		return MinAngle
	}
	if a > MaxAngle {
		return MaxAngle
	}
	return a
}
