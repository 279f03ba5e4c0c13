package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAddr  = ":8080"
	defaultDwell = 15 * time.Second
)

type Config struct {
	Addr  string
	Dwell time.Duration
}

// Load reads configuration from the environment. A .env file is applied
// first when present; everything has a default, so no .env is fine.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{Addr: defaultAddr, Dwell: defaultDwell}
	if v := os.Getenv("ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("FIRST_BLOOD_DWELL_SEC"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
			cfg.Dwell = time.Duration(sec) * time.Second
		}
	}
	return cfg
}
