// Package sysutil holds process-level helpers used during server startup:
// log level selection and small environment-string checks.
package sysutil

import (
	"strings"

	"github.com/rs/zerolog"
)

// SetLogLevel sets zerolog's global level from a LOG_LEVEL-style string.
// Recognized values (case-insensitive, surrounding space ignored) are
// debug, info, warn/warning, error, fatal, and panic. Anything else,
// including an empty value, falls back to info.
func SetLogLevel(lvl string) {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// IsTruthy reports whether an environment flag value means enabled.
// "1", "true", "yes", "y", and "on" count, case-insensitively. Anything
// else, including empty, is false.
func IsTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// FirstNonEmpty returns the first value that is not blank after trimming,
// preserving the value's original spacing. It returns "" when every value
// is blank.
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
