package sozocar

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"sozo-robot/drive"
)

// DoCommand keys and the defaults of the drive blocks.
const (
	commandKey = "command"

	defaultDurationMs      = 1000
	defaultPowerAdjustment = 80
)

type (
	timedFunc  func(context.Context, time.Duration) error
	customFunc func(context.Context, time.Duration, float64) error
	powerFunc  func(context.Context, float64) error
)

// DoCommand runs one of the drive blocks, e.g.
// {"command": "custom_left", "duration_ms": 300, "power_adjustment": 80}.
func (c *sozoCar) DoCommand(ctx context.Context, cmd map[string]interface{}) (map[string]interface{}, error) {
	name, ok := cmd[commandKey].(string)
	if !ok {
		return nil, errors.Errorf("missing %q", commandKey)
	}
	ctl := c.ctl()

	power := map[string]powerFunc{
		"forward":  ctl.Forward,
		"backward": ctl.Backward,
		"left":     ctl.Left,
		"right":    ctl.Right,
	}
	timed := map[string]timedFunc{
		"drive_forwards":  ctl.DriveForwards,
		"drive_backwards": ctl.DriveBackwards,
		"turn_left":       ctl.TurnLeft,
		"turn_right":      ctl.TurnRight,
	}
	custom := map[string]customFunc{
		"custom_forwards":  ctl.CustomForwards,
		"custom_backwards": ctl.CustomBackwards,
		"custom_left":      ctl.CustomLeft,
		"custom_right":     ctl.CustomRight,
	}

	switch name {
	case "init_wheel":
		left, lok := cmd["left_pin"].(string)
		right, rok := cmd["right_pin"].(string)
		if !lok || !rok || left == "" || right == "" {
			return nil, errors.New("init_wheel needs left_pin and right_pin")
		}
		ctl.ConfigurePins(left, right)
	case "init_speed":
		_, lok := cmd["left_speed"]
		_, rok := cmd["right_speed"]
		if !lok || !rok {
			return nil, errors.New("init_speed needs left_speed and right_speed")
		}
		left, err := intArg(cmd, "left_speed", drive.DefaultScale)
		if err != nil {
			return nil, err
		}
		right, err := intArg(cmd, "right_speed", drive.DefaultScale)
		if err != nil {
			return nil, err
		}
		if err := ctl.ConfigureSpeed(left, right); err != nil {
			return nil, err
		}
	case "stop":
		if err := c.Stop(ctx, nil); err != nil {
			return nil, err
		}
	case "continuous_run":
		dirName, ok := cmd["direction"].(string)
		if !ok {
			return nil, errors.New("continuous_run needs a direction")
		}
		ctx, done := c.opMgr.New(ctx)
		defer done()
		dir, err := drive.ParseDirection(dirName)
		if err != nil {
			// same output as an unknown direction in ContinuousRun
			return nil, multierr.Combine(ctl.Stop(ctx), err)
		}
		if err := ctl.ContinuousRun(ctx, dir); err != nil {
			return nil, err
		}
	case "state":
	default:
		if err := c.runMotion(ctx, cmd, name, power, timed, custom); err != nil {
			return nil, err
		}
	}
	return c.state(ctl), nil
}

func (c *sozoCar) runMotion(
	ctx context.Context,
	cmd map[string]interface{},
	name string,
	power map[string]powerFunc,
	timed map[string]timedFunc,
	custom map[string]customFunc,
) error {
	if f, ok := power[name]; ok {
		p, err := floatArg(cmd, "power", drive.FullPower)
		if err != nil {
			return err
		}
		ctx, done := c.opMgr.New(ctx)
		defer done()
		return f(ctx, p)
	}

	d, err := intArg(cmd, "duration_ms", defaultDurationMs)
	if err != nil {
		return err
	}
	duration := time.Duration(d) * time.Millisecond

	if f, ok := timed[name]; ok {
		ctx, done := c.opMgr.New(ctx)
		defer done()
		return f(ctx, duration)
	}
	if f, ok := custom[name]; ok {
		adj, err := floatArg(cmd, "power_adjustment", defaultPowerAdjustment)
		if err != nil {
			return err
		}
		ctx, done := c.opMgr.New(ctx)
		defer done()
		return f(ctx, duration, adj)
	}
	return errors.Errorf("unknown command %q", name)
}

func (c *sozoCar) state(ctl *drive.Controller) map[string]interface{} {
	leftPin, rightPin := ctl.Pins()
	leftSpeed, rightSpeed := ctl.Scales()
	leftPulse, rightPulse := ctl.Latched()
	return map[string]interface{}{
		"left_pin":    leftPin,
		"right_pin":   rightPin,
		"left_speed":  leftSpeed,
		"right_speed": rightSpeed,
		"left_pulse":  leftPulse,
		"right_pulse": rightPulse,
	}
}

// floatArg reads a number from a command, which arrives as float64 over the wire.
func floatArg(cmd map[string]interface{}, key string, def float64) (float64, error) {
	v, ok := cmd[key]
	if !ok {
		return def, nil
	}
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	default:
		return 0, errors.Errorf("%s must be a number, got %T", key, v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.Errorf("%s must be a finite number, got %v", key, f)
	}
	return f, nil
}

// intArg reads a whole number from a command. Fractions are rejected, not truncated.
func intArg(cmd map[string]interface{}, key string, def int) (int, error) {
	f, err := floatArg(cmd, key, float64(def))
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, errors.Errorf("%s must be a whole number, got %v", key, f)
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, errors.Errorf("%s %v out of range", key, f)
	}
	return int(f), nil
}
