package util

import (
	"os"
)

// GetEnvironmentVariable returns the variable's value or fallback when
// it is unset or empty.
func GetEnvironmentVariable(name string, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}

	return fallback
}
