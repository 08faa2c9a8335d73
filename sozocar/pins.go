package sozocar

/*
	Servo pulses are produced with the board's PWM: the pin runs at the
	configured frequency and the duty cycle is the pulse width over the period.
*/

import (
	"context"

	"github.com/pkg/errors"
	"go.viam.com/rdk/components/board"
)

// boardOutput writes servo pulses to the GPIO pins of a board.
type boardOutput struct {
	board     board.Board
	pwmFreqHz uint
}

func (o *boardOutput) pin(name string) (board.GPIOPin, error) {
	p, err := o.board.GPIOPinByName(name)
	if err != nil {
		return nil, errors.Wrapf(err, "wheel pin %s", name)
	}
	return p, nil
}

// SetPulse sends a pulse train of pulseWidthUs microseconds on the named pin.
func (o *boardOutput) SetPulse(ctx context.Context, name string, pulseWidthUs int) error {
	p, err := o.pin(name)
	if err != nil {
		return err
	}
	if err := p.SetPWMFreq(ctx, o.pwmFreqHz, nil); err != nil {
		return errors.Wrapf(err, "servo set pwm frequency on pin %s failed", name)
	}
	if err := p.SetPWM(ctx, pulseWidthToDutyCycle(pulseWidthUs, o.pwmFreqHz), nil); err != nil {
		return errors.Wrapf(err, "servo set pwm duty cycle on pin %s failed", name)
	}
	return nil
}

// SetLow drives the named pin low.
func (o *boardOutput) SetLow(ctx context.Context, name string) error {
	p, err := o.pin(name)
	if err != nil {
		return err
	}
	if err := p.Set(ctx, false, nil); err != nil {
		return errors.Wrapf(err, "setting pin %s low failed", name)
	}
	return nil
}

// pulseWidthToDutyCycle changes a pulse width in microseconds into
// the fraction of a period at freqHz the pin is held high
func pulseWidthToDutyCycle(pulseWidthUs int, freqHz uint) float64 {
	periodUs := 1e6 / float64(freqHz)
	return float64(pulseWidthUs) / periodUs
}
