// Package config provides environment-driven configuration for RepWise commands.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"
)

// Defaults used when the corresponding environment variable is unset or invalid.
const (
	DefaultAddr          = ":8080"
	DefaultBackend       = "mediapipe"
	DefaultExercise      = "bicep_curl"
	DefaultCooldown      = 3 * time.Second
	DefaultMinVisibility = 0.5
	DefaultLogLevel      = "info"
)

// Config holds the settings shared by the frame service and the live loop.
type Config struct {
	Addr          string
	DataDir       string
	CameraID      int
	Backend       string
	PythonPath    string
	PoseScript    string
	SpeechCommand string
	Cooldown      time.Duration
	MinVisibility float64
	Exercise      string
	LogLevel      string
}

// Load reads the configuration from the process environment.
func Load() Config {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads the configuration using the given lookup function.
func LoadFrom(getenv func(string) string) Config {
	cfg := Config{
		Addr:          stringOr(getenv("REPWISE_ADDR"), DefaultAddr),
		DataDir:       stringOr(getenv("REPWISE_DATA_DIR"), defaultDataDir()),
		CameraID:      intOr(getenv("REPWISE_CAMERA"), 0),
		Backend:       stringOr(getenv("REPWISE_BACKEND"), DefaultBackend),
		PythonPath:    getenv("REPWISE_PYTHON"),
		PoseScript:    getenv("REPWISE_POSE_SCRIPT"),
		SpeechCommand: stringOr(getenv("REPWISE_SPEECH_CMD"), DefaultSpeechCommand()),
		Cooldown:      durationOr(getenv("REPWISE_COOLDOWN"), DefaultCooldown),
		MinVisibility: floatOr(getenv("REPWISE_MIN_VISIBILITY"), DefaultMinVisibility),
		Exercise:      stringOr(getenv("REPWISE_EXERCISE"), DefaultExercise),
		LogLevel:      stringOr(getenv("REPWISE_LOG_LEVEL"), DefaultLogLevel),
	}

	if cfg.MinVisibility < 0 || cfg.MinVisibility > 1 {
		cfg.MinVisibility = DefaultMinVisibility
	}

	return cfg
}

// DBPath returns the path of the SQLite database inside the data directory.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "repwise.db")
}

// DefaultSpeechCommand returns the text-to-speech command for the current platform.
func DefaultSpeechCommand() string {
	if runtime.GOOS == "darwin" {
		return "say"
	}
	return "espeak-ng"
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".repwise"
	}
	return filepath.Join(home, ".repwise")
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intOr(v string, def int) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func floatOr(v string, def float64) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func durationOr(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return def
	}
	return d
}
