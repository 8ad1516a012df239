package config

import (
	"os"
	"strconv"
	"time"
)

// fromEnv parses key with parse and falls back to def when the variable is unset, empty or malformed.
func fromEnv[T any](key string, def T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

// GetEnv reads a string variable.
func GetEnv(key, def string) string {
	return fromEnv(key, def, func(s string) (string, error) { return s, nil })
}

// GetEnvInt reads a base-10 integer variable.
func GetEnvInt(key string, def int) int {
	return fromEnv(key, def, strconv.Atoi)
}

// GetEnvDuration reads a variable in time.ParseDuration syntax, e.g. "15s".
func GetEnvDuration(key string, def time.Duration) time.Duration {
	return fromEnv(key, def, time.ParseDuration)
}

// GetEnvFloat reads a float variable.
func GetEnvFloat(key string, def float64) float64 {
	return fromEnv(key, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}
