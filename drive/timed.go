package drive

import (
	"context"
	"time"

	"go.uber.org/multierr"
)

// FullPower is the power coefficient used by the plain timed and continuous motions.
const FullPower = 100

// DriveForwards drives forwards for d and then stops.
func (c *Controller) DriveForwards(ctx context.Context, d time.Duration) error {
	return c.runFor(ctx, Forward, FullPower, d)
}

// DriveBackwards drives backwards for d and then stops.
func (c *Controller) DriveBackwards(ctx context.Context, d time.Duration) error {
	return c.runFor(ctx, Backward, FullPower, d)
}

// TurnLeft turns left for d and then stops.
func (c *Controller) TurnLeft(ctx context.Context, d time.Duration) error {
	return c.runFor(ctx, TurnLeft, FullPower, d)
}

// TurnRight turns right for d and then stops.
func (c *Controller) TurnRight(ctx context.Context, d time.Duration) error {
	return c.runFor(ctx, TurnRight, FullPower, d)
}

// CustomForwards drives forwards at powerAdjustment percent (0-200) for d and then stops.
func (c *Controller) CustomForwards(ctx context.Context, d time.Duration, powerAdjustment float64) error {
	return c.runCustom(ctx, Forward, powerAdjustment, d)
}

// CustomBackwards drives backwards at powerAdjustment percent (0-200) for d and then stops.
func (c *Controller) CustomBackwards(ctx context.Context, d time.Duration, powerAdjustment float64) error {
	return c.runCustom(ctx, Backward, powerAdjustment, d)
}

// CustomLeft turns left at powerAdjustment percent (0-200) for d and then stops.
func (c *Controller) CustomLeft(ctx context.Context, d time.Duration, powerAdjustment float64) error {
	return c.runCustom(ctx, TurnLeft, powerAdjustment, d)
}

// CustomRight turns right at powerAdjustment percent (0-200) for d and then stops.
func (c *Controller) CustomRight(ctx context.Context, d time.Duration, powerAdjustment float64) error {
	return c.runCustom(ctx, TurnRight, powerAdjustment, d)
}

// ContinuousRun drives in dir at full power until told otherwise. An unknown
// direction stops the car and returns ErrUnknownDirection.
func (c *Controller) ContinuousRun(ctx context.Context, dir Direction) error {
	switch dir {
	case Forward, Backward, TurnRight, TurnLeft:
		return c.Move(ctx, dir, FullPower)
	default:
		_, _, dirErr := wheelSigns(dir)
		return multierr.Combine(c.Stop(ctx), dirErr)
	}
}

func (c *Controller) runCustom(ctx context.Context, dir Direction, powerAdjustment float64, d time.Duration) error {
	if err := validatePowerAdjustment(powerAdjustment); err != nil {
		return err
	}
	return c.runFor(ctx, dir, powerAdjustment, d)
}

// runFor moves, blocks for d and stops. The stop is issued even when ctx is
// cancelled during the wait.
func (c *Controller) runFor(ctx context.Context, dir Direction, power float64, d time.Duration) error {
	stopCtx := context.WithoutCancel(ctx)
	if err := c.Move(ctx, dir, power); err != nil {
		return multierr.Combine(err, c.Stop(stopCtx))
	}
	if !c.sleep(ctx, d) {
		return multierr.Combine(c.Stop(stopCtx), ctx.Err())
	}
	return c.Stop(stopCtx)
}
