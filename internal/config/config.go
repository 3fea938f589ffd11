// Package config reads the server configuration from the environment.
// A .env file, if present, is loaded by the entrypoint before FromEnv runs.
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr         string
	TickInterval time.Duration
	PoolCapacity int
}

func FromEnv() Config {
	cfg := Config{
		Addr:         ":8080",
		TickInterval: time.Minute,
		PoolCapacity: 10,
	}
	if v := os.Getenv("STACKPOT_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("STACKPOT_TICK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.TickInterval = d
		}
	}
	if v := os.Getenv("STACKPOT_POOL_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			cfg.PoolCapacity = n
		}
	}
	return cfg
}
