package hardware

// Interface is everything the controller drives.
type Interface interface {
	// SetMotorSpeeds takes wheel speeds in motor duty counts; out of range
	// values saturate.
	SetMotorSpeeds(frontLeft, backLeft, frontRight, backRight int) error
	SetAngle(channel, angle int) error
	SetOn(on bool) error

	PlaySound(path string)

	// Shutdown zeroes the motors, silences the buzzer and releases the bus.
	Shutdown()
}
