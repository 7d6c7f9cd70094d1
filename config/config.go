// Package config collects the settings the kernel boots with from defaults,
// an optional .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sarchlab/userkernel/mem/vm"
)

// Environment variables read by Load.
const (
	EnvPageSize     = "USERKERNEL_PAGE_SIZE"
	EnvNumPhysPages = "USERKERNEL_NUM_PHYS_PAGES"
	EnvTraceDB      = "USERKERNEL_TRACE_DB"
	EnvMonitorPort  = "USERKERNEL_MONITOR_PORT"
	EnvOpenBrowser  = "USERKERNEL_OPEN_BROWSER"
)

// DefaultEnvFile is the file Load reads when it is given no file.
const DefaultEnvFile = ".env"

// ErrInvalidConfig is returned when a setting cannot be used.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the settings of a kernel run.
type Config struct {
	PageSize     uint64
	NumPhysPages int
	TraceDB      string
	MonitorPort  int
	OpenBrowser  bool
}

// Default returns the settings used when nothing else is given.
func Default() Config {
	return Config{
		PageSize:     1024,
		NumPhysPages: 32,
	}
}

// Load starts from the defaults and applies the given .env file and then the
// environment. An empty path reads DefaultEnvFile if it exists.
func Load(envFile string) (Config, error) {
	fileVars, err := readEnvFile(envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}

		v, ok := fileVars[key]

		return v, ok
	}

	c := Default()

	if err := c.apply(lookup); err != nil {
		return Config{}, err
	}

	return c, nil
}

func readEnvFile(envFile string) (map[string]string, error) {
	if envFile == "" {
		if _, err := os.Stat(DefaultEnvFile); err != nil {
			return nil, nil
		}

		envFile = DefaultEnvFile
	}

	vars, err := godotenv.Read(envFile)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", envFile, err)
	}

	return vars, nil
}

func (c *Config) apply(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPageSize); ok {
		n, err := strconv.ParseUint(v, 0, 64)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvPageSize, err)
		}

		c.PageSize = n
	}

	if v, ok := lookup(EnvNumPhysPages); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvNumPhysPages, err)
		}

		c.NumPhysPages = n
	}

	if v, ok := lookup(EnvTraceDB); ok {
		c.TraceDB = v
	}

	if v, ok := lookup(EnvMonitorPort); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvMonitorPort, err)
		}

		c.MonitorPort = n
	}

	if v, ok := lookup(EnvOpenBrowser); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvOpenBrowser, err)
		}

		c.OpenBrowser = b
	}

	return nil
}

// Validate checks that a kernel can boot with the settings.
func (c Config) Validate() error {
	if _, err := vm.NewGeometry(c.PageSize); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if c.NumPhysPages < 0 {
		return fmt.Errorf("%w: %d physical pages", ErrInvalidConfig, c.NumPhysPages)
	}

	if c.MonitorPort < 0 || c.MonitorPort > 65535 {
		return fmt.Errorf("%w: monitor port %d", ErrInvalidConfig, c.MonitorPort)
	}

	return nil
}
