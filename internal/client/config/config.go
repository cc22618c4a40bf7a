// Package config holds runtime settings for the admin CLI.
package config

import (
	"flag"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrijs2005/accountkeeper/internal/flagx"
)

// Config holds runtime settings for the admin CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the account service HTTP API.
//   - RequestTimeout: per-request timeout for API calls.
type Config struct {
	ServerEndpointAddr string
	RequestTimeout     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
}

type envConfig struct {
	ServerEndpointAddr string `env:"SERVER_ADDR"`
}

func parseEnv(config *Config) {
	cfg := envConfig{}
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}
	if cfg.ServerEndpointAddr != "" {
		config.ServerEndpointAddr = cfg.ServerEndpointAddr
	}
}

// parseFlags overlays the -s flag (server address) onto config. Arguments
// are pre-filtered so unknown flags belonging to other components are
// ignored.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s"})

	fs := flag.NewFlagSet("cli", flag.ContinueOnError)
	fs.StringVar(&config.ServerEndpointAddr, "s", config.ServerEndpointAddr, "server base URL")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment and command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
