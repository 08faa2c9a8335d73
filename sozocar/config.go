package sozocar

import (
	"github.com/pkg/errors"
	"go.viam.com/rdk/resource"

	carutils "sozo-robot/utils"
)

const (
	defaultPWMFreqHz = 50
	// a 2400us pulse no longer fits in one period above this
	maxPWMFreqHz = 400
)

// Config is the config for a sozo car.
type Config struct {
	BoardName string               `json:"board"`
	Wheels    carutils.WheelConfig `json:"wheels,omitempty"`

	PWMFreqHz            int `json:"pwm_freq_hz,omitempty"`            // defaults to 50
	WidthMM              int `json:"width_mm,omitempty"`               // distance between the wheels, reported in properties
	WheelCircumferenceMM int `json:"wheel_circumference_mm,omitempty"` // reported in properties
}

// Validate ensures all parts of the config are valid and returns the board as a dependency.
func (conf *Config) Validate(path string) ([]string, []string, error) {
	if conf.BoardName == "" {
		return nil, nil, resource.NewConfigValidationFieldRequiredError(path, "board")
	}
	if err := conf.Wheels.Validate(path); err != nil {
		return nil, nil, err
	}
	if conf.PWMFreqHz != 0 {
		if err := carutils.ValidateRange(path, "pwm_freq_hz", conf.PWMFreqHz, 1, maxPWMFreqHz); err != nil {
			return nil, nil, err
		}
	}
	if conf.WidthMM < 0 || conf.WheelCircumferenceMM < 0 {
		return nil, nil, resource.NewConfigValidationError(path,
			errors.New("width_mm and wheel_circumference_mm cannot be negative"))
	}
	return []string{conf.BoardName}, nil, nil
}

func (conf *Config) pwmFreqHz() uint {
	if conf.PWMFreqHz == 0 {
		return defaultPWMFreqHz
	}
	return uint(conf.PWMFreqHz)
}
