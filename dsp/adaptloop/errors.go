package adaptloop

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidChannels is returned for a channel count < 1.
	ErrInvalidChannels = errors.New("adaptloop: channel count must be >= 1")
	// ErrInvalidLoops is returned for a loop count < 1.
	ErrInvalidLoops = errors.New("adaptloop: loop count must be >= 1")
	// ErrInvalidConfig wraps every rejected configuration parameter.
	ErrInvalidConfig = errors.New("adaptloop: invalid configuration")
	// ErrNotConfigured is returned when processing before Configure succeeded.
	ErrNotConfigured = errors.New("adaptloop: bank is not configured")
	// ErrReleased is returned for any use of a bank after Release.
	ErrReleased = errors.New("adaptloop: bank has been released")
	// ErrLengthMismatch is returned when dst and src sizes differ.
	ErrLengthMismatch = errors.New("adaptloop: dst and src length mismatch")
	// ErrChannelMismatch is returned when a signal does not match the channel count.
	ErrChannelMismatch = errors.New("adaptloop: signal does not match channel count")
)

func validateFinitePositive(value float64, name string) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return fmt.Errorf("%w: %s must be > 0 and finite: %g", ErrInvalidConfig, name, value)
	}
	return nil
}

func validateTimeConstants(taus []float64) error {
	if len(taus) == 0 {
		return fmt.Errorf("%w: time constants must not be empty", ErrInvalidConfig)
	}
	for i, tau := range taus {
		if err := validateFinitePositive(tau, fmt.Sprintf("time constant %d", i)); err != nil {
			return err
		}
	}
	return nil
}

func validateMinLevel(level float64) error {
	if err := validateFinitePositive(level, "minimum level"); err != nil {
		return err
	}
	if level >= 1 {
		return fmt.Errorf("%w: minimum level must be < 1: %g", ErrInvalidConfig, level)
	}
	return nil
}
