package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	testCases := []struct {
		value    string
		expected time.Duration
	}{
		{"90", 90 * time.Second},
		{"30s", 30 * time.Second},
		{"5m", 5 * time.Minute},
		{"2h", 2 * time.Hour},
		{"1d", 24 * time.Hour},
		{"0s", 0},
	}

	for _, testCase := range testCases {
		duration, err := ParseDuration(testCase.value)

		assert.NoError(t, err, testCase.value)
		assert.Equal(t, testCase.expected, duration, testCase.value)
	}
}

func TestParseDurationInvalid(t *testing.T) {
	for _, value := range []string{"", "s", "12x", "-5s", "five", "5 m"} {
		_, err := ParseDuration(value)

		assert.Error(t, err, value)
	}

	_, err := ParseDuration("10w")
	assert.ErrorAs(t, err, &InvalidDurationUnitError{})
}
