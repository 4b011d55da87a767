// Package env reads configuration overrides from the process
// environment. Every getter falls back to its default when the variable
// is unset, blank, or cannot be parsed, so callers can layer environment
// overrides under flag values without error handling.
package env

import (
	"os"
	"strconv"
	"strings"
)

// Val returns the value of the named variable, or defaultVal when it is
// unset or blank. The value itself is not trimmed, so deliberate
// whitespace such as a trailing prompt space survives.
func Val(key, defaultVal string) string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return defaultVal
	}
	return v
}

// Int interprets the named variable as an integer, returning defaultVal
// when it is unset, blank, or not a number.
func Int(key string, defaultVal int) int {
	v := strings.TrimSpace(Val(key, ""))
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}

// Bool interprets the named variable as a boolean. The values "1",
// "yes", "true", and "on" read as true; "0", "no", "false", and "off"
// read as false; anything else returns defaultVal. Comparison is
// case-insensitive.
func Bool(key string, defaultVal bool) bool {
	switch strings.ToLower(strings.TrimSpace(Val(key, ""))) {
	case "1", "yes", "true", "on":
		return true
	case "0", "no", "false", "off":
		return false
	default:
		return defaultVal
	}
}
