package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is read from the environment at startup.
type Config struct {
	Port          string
	FontDir       string
	FetchTimeout  time.Duration
	MaxImageBytes int64
}

const (
	defaultPort          = "8080"
	defaultFetchTimeout  = 12 * time.Second
	defaultMaxImageBytes = 10 << 20
)

// FromEnv reads PORT, OG_FONT_DIR, OG_FETCH_TIMEOUT and OG_MAX_IMAGE_BYTES.
func FromEnv() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	c := Config{
		Port:          getenv("PORT"),
		FontDir:       getenv("OG_FONT_DIR"),
		FetchTimeout:  defaultFetchTimeout,
		MaxImageBytes: defaultMaxImageBytes,
	}
	if c.Port == "" {
		c.Port = defaultPort
	}
	if v := getenv("OG_FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("OG_FETCH_TIMEOUT: %w", err)
		}
		c.FetchTimeout = d
	}
	if v := getenv("OG_MAX_IMAGE_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("OG_MAX_IMAGE_BYTES: invalid value %q", v)
		}
		c.MaxImageBytes = n
	}
	return c, nil
}
