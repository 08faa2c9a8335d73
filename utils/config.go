// Package carutils contains configuration shared by the sozo robot models.
package carutils

import (
	"github.com/pkg/errors"
	"go.viam.com/rdk/resource"
)

// SozoFamily is the model family for the sozo robot module.
var SozoFamily = resource.NewModelFamily("sozo", "sozo-robot")

// WheelConfig describes the pins and power scale of the two wheels.
type WheelConfig struct {
	LeftPin    string `json:"left_pin,omitempty"`
	RightPin   string `json:"right_pin,omitempty"`
	LeftSpeed  *int   `json:"left_speed,omitempty"`  // 0-100, defaults to 20
	RightSpeed *int   `json:"right_speed,omitempty"` // 0-100, defaults to 20
}

// Validate ensures the wheel speeds are in range and the pins are either both set or both left out.
func (conf *WheelConfig) Validate(path string) error {
	if (conf.LeftPin == "") != (conf.RightPin == "") {
		return resource.NewConfigValidationError(path,
			errors.New("left_pin and right_pin must be set together"))
	}
	if conf.LeftSpeed != nil {
		if err := ValidateRange(path, "left_speed", *conf.LeftSpeed, 0, 100); err != nil {
			return err
		}
	}
	if conf.RightSpeed != nil {
		if err := ValidateRange(path, "right_speed", *conf.RightSpeed, 0, 100); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRange returns a config validation error if value is outside [lo, hi].
func ValidateRange(path, field string, value, lo, hi int) error {
	if value < lo || value > hi {
		return resource.NewConfigValidationError(path,
			errors.Errorf("%s %d out of range [%d, %d]", field, value, lo, hi))
	}
	return nil
}

// IntOr returns *v, or def when v is nil.
func IntOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
