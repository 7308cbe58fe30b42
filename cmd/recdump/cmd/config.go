package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config carries the recdump settings that can be supplied in a TOML file.
// File values override the defaults; command line flags override both.
type Config struct {
	// ServerName overrides the SNI name sent during the dial handshake.
	// Defaults to the host part of the dialed address.
	ServerName string `toml:"server_name"`
	// RequestPath is the path requested over the captured connection.
	RequestPath string   `toml:"request_path"`
	DialTimeout duration `toml:"dial_timeout"`
}

type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	d.Duration = v
	return err
}

func defaultConfig() Config {
	return Config{
		RequestPath: "/",
		DialTimeout: duration{10 * time.Second},
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if !strings.HasPrefix(cfg.RequestPath, "/") {
		return Config{}, fmt.Errorf("config %s: request_path must start with /", path)
	}
	if cfg.DialTimeout.Duration <= 0 {
		return Config{}, fmt.Errorf("config %s: dial_timeout must be positive", path)
	}
	return cfg, nil
}
