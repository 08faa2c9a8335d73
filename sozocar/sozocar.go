// Package sozocar implements the sozo robot car as a base.
package sozocar

/*
	The sozo car is a two-wheeled base whose wheels are continuous-rotation
	servos wired to two PWM capable pins of a board. There is no wheel feedback,
	so the base can be driven by power or by the timed motions exposed through
	DoCommand, but not by distance or velocity.
*/

import (
	"context"
	"math"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/rdk/components/base"
	"go.viam.com/rdk/components/board"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/operation"
	"go.viam.com/rdk/resource"
	"go.viam.com/rdk/spatialmath"

	"sozo-robot/drive"
	carutils "sozo-robot/utils"
)

// Model is the model for the sozo car.
var Model = carutils.SozoFamily.WithModel("sozo-car")

var errNoFeedback = errors.New("sozo car has no wheel feedback; use SetPower or the drive commands")

func init() {
	resource.RegisterComponent(
		base.API,
		Model,
		resource.Registration[base.Base, *Config]{
			Constructor: newSozoCar,
		},
	)
}

func newSozoCar(
	ctx context.Context,
	deps resource.Dependencies,
	conf resource.Config,
	logger logging.Logger,
) (base.Base, error) {
	c := &sozoCar{
		Named:  conf.ResourceName().AsNamed(),
		logger: logger,
		opMgr:  operation.NewSingleOperationManager(),
	}
	if err := c.Reconfigure(ctx, deps, conf); err != nil {
		return nil, err
	}
	return c, nil
}

// sozoCar implements a base.Base on top of a drive.Controller.
type sozoCar struct {
	resource.Named
	logger logging.Logger
	opMgr  *operation.SingleOperationManager

	mu         sync.Mutex
	controller *drive.Controller
	props      base.Properties
}

// Reconfigure resolves the board and applies the pins and wheel speeds of the new config.
func (c *sozoCar) Reconfigure(ctx context.Context, deps resource.Dependencies, conf resource.Config) error {
	newConf, err := resource.NativeConfig[*Config](conf)
	if err != nil {
		return err
	}
	b, err := resource.FromDependencies[board.Board](deps, board.Named(newConf.BoardName))
	if err != nil {
		return errors.Wrapf(err, "cannot find board %q", newConf.BoardName)
	}

	controller := drive.NewController(&boardOutput{board: b, pwmFreqHz: newConf.pwmFreqHz()}, c.logger)
	if newConf.Wheels.LeftPin != "" {
		controller.ConfigurePins(newConf.Wheels.LeftPin, newConf.Wheels.RightPin)
	}
	err = controller.ConfigureSpeed(
		carutils.IntOr(newConf.Wheels.LeftSpeed, drive.DefaultScale),
		carutils.IntOr(newConf.Wheels.RightSpeed, drive.DefaultScale),
	)
	if err != nil {
		return err
	}

	ctx, done := c.opMgr.New(ctx)
	defer done()

	c.mu.Lock()
	defer c.mu.Unlock()
	// the old pins may not be reachable through the new controller
	if c.controller != nil {
		if err := c.controller.Stop(ctx); err != nil {
			c.logger.Warnw("failed to stop wheels before reconfigure", "error", err)
		}
	}
	c.controller = controller
	c.props = base.Properties{
		WidthMeters:              float64(newConf.WidthMM) / 1000,
		WheelCircumferenceMeters: float64(newConf.WheelCircumferenceMM) / 1000,
	}
	left, right := controller.Pins()
	c.logger.Infow("configured sozo car", "board", newConf.BoardName, "left_pin", left, "right_pin", right)
	return nil
}

func (c *sozoCar) ctl() *drive.Controller {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

// SetPower drives along the larger of linear.Y and angular.Z, scaled to a
// power coefficient of up to 100. Positive angular.Z turns left.
func (c *sozoCar) SetPower(ctx context.Context, linear, angular r3.Vector, extra map[string]interface{}) error {
	ctx, done := c.opMgr.New(ctx)
	defer done()

	dir, power := powerToMotion(linear.Y, angular.Z)
	if power == 0 {
		return c.ctl().Stop(ctx)
	}
	return c.ctl().Move(ctx, dir, power)
}

// powerToMotion picks the motion for a linear and angular power in [-1, 1].
func powerToMotion(linearY, angularZ float64) (drive.Direction, float64) {
	if math.Abs(linearY) >= math.Abs(angularZ) {
		power := math.Min(math.Abs(linearY), 1) * drive.FullPower
		if linearY < 0 {
			return drive.Backward, power
		}
		return drive.Forward, power
	}
	power := math.Min(math.Abs(angularZ), 1) * drive.FullPower
	if angularZ < 0 {
		return drive.TurnRight, power
	}
	return drive.TurnLeft, power
}

// Stop stops both wheels and cancels any timed motion.
func (c *sozoCar) Stop(ctx context.Context, extra map[string]interface{}) error {
	c.opMgr.CancelRunning(ctx)
	return c.ctl().Stop(ctx)
}

// IsMoving reports whether either wheel is latched away from neutral.
func (c *sozoCar) IsMoving(ctx context.Context) (bool, error) {
	left, right := c.ctl().Latched()
	moving := func(pulse int) bool { return pulse != 0 && pulse != drive.NeutralPulse }
	return moving(left) || moving(right), nil
}

func (c *sozoCar) MoveStraight(ctx context.Context, distanceMm int, mmPerSec float64, extra map[string]interface{}) error {
	return errNoFeedback
}

func (c *sozoCar) Spin(ctx context.Context, angleDeg, degsPerSec float64, extra map[string]interface{}) error {
	return errNoFeedback
}

func (c *sozoCar) SetVelocity(ctx context.Context, linear, angular r3.Vector, extra map[string]interface{}) error {
	return errNoFeedback
}

func (c *sozoCar) Properties(ctx context.Context, extra map[string]interface{}) (base.Properties, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.props, nil
}

func (c *sozoCar) Geometries(ctx context.Context, extra map[string]interface{}) ([]spatialmath.Geometry, error) {
	return nil, nil
}

// Close stops the wheels.
func (c *sozoCar) Close(ctx context.Context) error {
	if err := c.Stop(ctx, nil); err != nil {
		c.logger.Warnw("failed to stop wheels on close", "error", err)
		return err
	}
	return nil
}
