package util

import (
	"fmt"
	"strconv"
	"time"
)

type InvalidDurationUnitError struct {
	Unit byte
}

func (e InvalidDurationUnitError) Error() string {
	return fmt.Sprintf("invalid duration unit: %q", string(e.Unit))
}

type InvalidDurationError struct {
	Value string
}

func (e InvalidDurationError) Error() string {
	return fmt.Sprintf("invalid duration: %q", e.Value)
}

// ParseDuration parses a duration with an optional unit suffix out of
// s (seconds), m (minutes), h (hours) or d (days). A bare number is
// treated as seconds.
func ParseDuration(value string) (time.Duration, error) {
	if value == "" {
		return 0, InvalidDurationError{Value: value}
	}

	unit := value[len(value)-1]

	if unit >= '0' && unit <= '9' {
		seconds, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return 0, InvalidDurationError{Value: value}
		}

		return time.Duration(seconds) * time.Second, nil
	}

	number, err := strconv.ParseUint(value[:len(value)-1], 10, 64)
	if err != nil {
		return 0, InvalidDurationError{Value: value}
	}

	switch unit {
	case 's':
		return time.Duration(number) * time.Second, nil
	case 'm':
		return time.Duration(number) * time.Minute, nil
	case 'h':
		return time.Duration(number) * time.Hour, nil
	case 'd':
		return time.Duration(number) * 24 * time.Hour, nil
	default:
		return 0, InvalidDurationUnitError{Unit: unit}
	}
}
