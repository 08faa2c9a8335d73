// Package drive implements differential drive control for a two-wheeled car
// built on mirror-mounted continuous-rotation servos.
package drive

/*
	The controller holds the pin assignment and per-wheel power scale and turns a
	direction plus a power coefficient into one pulse width per wheel. A pulse of
	1500us holds a continuous-rotation servo still; moving away from it in either
	direction spins the wheel, faster the further it goes.
*/

import (
	"context"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/rdk/logging"
)

const (
	// DefaultLeftPin is the left wheel channel used until ConfigurePins is called.
	DefaultLeftPin = "P1"
	// DefaultRightPin is the right wheel channel used until ConfigurePins is called.
	DefaultRightPin = "P2"
	// DefaultScale is the power scale of both wheels until ConfigureSpeed is called.
	DefaultScale = 20
)

// Output is the hardware a controller writes to.
type Output interface {
	// SetPulse sends a servo pulse train of the given width (microseconds) on pin.
	SetPulse(ctx context.Context, pin string, pulseWidthUs int) error
	// SetLow drives pin digital-low, which disables the pulse train.
	SetLow(ctx context.Context, pin string) error
}

// Controller drives the two wheels of the car.
type Controller struct {
	out    Output
	logger logging.Logger

	mu                    sync.Mutex
	leftPin, rightPin     string
	leftScale, rightScale int
	// last value written to each pin, 0 after a stop
	leftLatched, rightLatched int

	sleep func(ctx context.Context, d time.Duration) bool
}

// NewController returns a controller with the default pins and power scale.
func NewController(out Output, logger logging.Logger) *Controller {
	return &Controller{
		out:        out,
		logger:     logger,
		leftPin:    DefaultLeftPin,
		rightPin:   DefaultRightPin,
		leftScale:  DefaultScale,
		rightScale: DefaultScale,
		sleep:      utils.SelectContextOrWait,
	}
}

// ConfigurePins sets the channels of the left and right wheel. Later motions
// write only to these channels.
func (c *Controller) ConfigurePins(left, right string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leftPin = left
	c.rightPin = right
}

// ConfigureSpeed sets the power scale of each wheel, both in [0,100].
func (c *Controller) ConfigureSpeed(left, right int) error {
	if err := validateScale("left", left); err != nil {
		return err
	}
	if err := validateScale("right", right); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leftScale = left
	c.rightScale = right
	return nil
}

// Pins returns the configured left and right channels.
func (c *Controller) Pins() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.leftPin, c.rightPin
}

// Scales returns the configured left and right power scale.
func (c *Controller) Scales() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.leftScale, c.rightScale
}

// Latched returns the pulse widths last written to the left and right pins.
// Both are 0 before the first motion and after a stop.
func (c *Controller) Latched() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.leftLatched, c.rightLatched
}

// Move writes the pulses for dir at the given power coefficient (percent) to
// both wheels. The wheels keep turning until the next motion or Stop.
func (c *Controller) Move(ctx context.Context, dir Direction, power float64) error {
	leftSign, rightSign, err := wheelSigns(dir)
	if err != nil {
		return err
	}

	c.mu.Lock()
	leftPin, rightPin := c.leftPin, c.rightPin
	left := PulseWidth(c.leftScale, leftSign, power)
	right := PulseWidth(c.rightScale, rightSign, power)
	c.leftLatched, c.rightLatched = left, right
	c.mu.Unlock()

	c.logger.Debugw("driving", "direction", dir, "power", power,
		"left_pin", leftPin, "left_pulse", left, "right_pin", rightPin, "right_pulse", right)

	return multierr.Combine(
		c.out.SetPulse(ctx, leftPin, left),
		c.out.SetPulse(ctx, rightPin, right),
	)
}

// Forward drives forwards at power percent. Call Stop to stop.
func (c *Controller) Forward(ctx context.Context, power float64) error {
	return c.Move(ctx, Forward, power)
}

// Backward drives backwards at power percent. Call Stop to stop.
func (c *Controller) Backward(ctx context.Context, power float64) error {
	return c.Move(ctx, Backward, power)
}

// Left turns left on the spot at power percent. Call Stop to stop.
func (c *Controller) Left(ctx context.Context, power float64) error {
	return c.Move(ctx, TurnLeft, power)
}

// Right turns right on the spot at power percent. Call Stop to stop.
func (c *Controller) Right(ctx context.Context, power float64) error {
	return c.Move(ctx, TurnRight, power)
}

// Stop drives both configured pins low.
func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	leftPin, rightPin := c.leftPin, c.rightPin
	c.leftLatched, c.rightLatched = 0, 0
	c.mu.Unlock()

	c.logger.Debugw("stopping", "left_pin", leftPin, "right_pin", rightPin)

	return multierr.Combine(
		c.out.SetLow(ctx, leftPin),
		c.out.SetLow(ctx, rightPin),
	)
}
