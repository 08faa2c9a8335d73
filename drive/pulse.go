package drive

import (
	"math"

	"github.com/pkg/errors"
)

const (
	// NeutralPulse is the pulse width (us) at which a continuous-rotation servo stands still.
	NeutralPulse = 1500
	// MinPulse is the lowest pulse width ever written.
	MinPulse = 600
	// MaxPulse is the highest pulse width ever written.
	MaxPulse = 2400

	// MaxScale is the largest power scale a wheel accepts.
	MaxScale = 100
	// MaxPowerAdjustment is the largest power a custom timed motion accepts.
	MaxPowerAdjustment = 200

	// deviation per point of scale at 100% power; scale 100 reaches the clamp exactly
	usPerScale = 9
)

// PulseWidth returns the pulse width for a wheel with the given power scale,
// spinning in direction sign (+1 or -1) at power percent, clamped to
// [MinPulse, MaxPulse].
func PulseWidth(scale, sign int, power float64) int {
	pulse := NeutralPulse + float64(sign*usPerScale*scale)*power/100
	if math.IsNaN(pulse) {
		return NeutralPulse
	}
	return clampPulse(math.Round(pulse))
}

// clampPulse clamps before converting so huge or infinite values stay in range.
func clampPulse(pulse float64) int {
	if pulse > MaxPulse {
		return MaxPulse
	}
	if pulse < MinPulse {
		return MinPulse
	}
	return int(pulse)
}

// wheelSigns returns which way each wheel turns for dir. The servos are mirror
// mounted, so driving straight moves the two pulses in opposite directions.
func wheelSigns(dir Direction) (int, int, error) {
	switch dir {
	case Forward:
		return 1, -1, nil
	case Backward:
		return -1, 1, nil
	case TurnLeft:
		return -1, -1, nil
	case TurnRight:
		return 1, 1, nil
	default:
		return 0, 0, errors.Wrapf(ErrUnknownDirection, "%d", int(dir))
	}
}

func validateScale(wheel string, scale int) error {
	if scale < 0 || scale > MaxScale {
		return errors.Errorf("%s wheel speed %d out of range [0, %d]", wheel, scale, MaxScale)
	}
	return nil
}

func validatePowerAdjustment(power float64) error {
	if math.IsNaN(power) || power < 0 || power > MaxPowerAdjustment {
		return errors.Errorf("power adjustment %v out of range [0, %d]", power, MaxPowerAdjustment)
	}
	return nil
}
