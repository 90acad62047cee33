package mecanum

import "fmt"

// MaxSpeed is the full-scale value of each contributing stick term.
const MaxSpeed = 3000

// Target is the set of wheel speeds most recently asked for.
type Target struct {
	FrontLeft  int
	BackLeft   int
	FrontRight int
	BackRight  int
}

func (t Target) String() string {
	return fmt.Sprintf("fl=%d bl=%d fr=%d br=%d", t.FrontLeft, t.BackLeft, t.FrontRight, t.BackRight)
}

func (t Target) IsZero() bool {
	return t == Target{}
}

// Mix maps the forward (leftY), strafe (leftX) and rotation (rightX) terms to
// the four wheels.  The sums are not re-clamped; a wheel can be asked for up
// to three times MaxSpeed and it is up to the motor driver to saturate.
func Mix(leftX, leftY, rightX int) Target {
	if leftX == 0 && leftY == 0 && rightX == 0 {
		return Target{}
	}
	return Target{
		FrontLeft:  leftY + leftX - rightX,
		BackLeft:   leftY - leftX - rightX,
		FrontRight: leftY - leftX + rightX,
		BackRight:  leftY + leftX + rightX,
	}
}
