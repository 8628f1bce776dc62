package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/mohammedALrabeai/salon-sub001/internal/logger"
)

const (
	defaultListenAddr          = "localhost:8000"
	defaultLoggingLevel        = logger.LevelInfo
	defaultEnvironment         = logger.EnvProduction
	defaultAccessTokenTTL      = 3600 // seconds
	defaultRefreshTokenTTLDays = 30
	defaultLoginMaxAttempts    = 5
	defaultLoginDecayMinutes   = 15
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the service will be run
	ListenAddr string

	// Database to connect to
	DatabaseDSN string

	// Environment (dev, prod)
	Environment string

	// Access token lifetime in seconds
	AccessTokenTTL int

	// Refresh token lifetime in days
	RefreshTokenTTLDays int

	// Failed logins allowed before the account is locked, and the decay
	// window in minutes
	LoginMaxAttempts  int
	LoginDecayMinutes int
}

func NewConfig() *Config {
	return &Config{
		LogLevel:            defaultLoggingLevel,
		ListenAddr:          defaultListenAddr,
		Environment:         defaultEnvironment,
		AccessTokenTTL:      defaultAccessTokenTTL,
		RefreshTokenTTLDays: defaultRefreshTokenTTLDays,
		LoginMaxAttempts:    defaultLoginMaxAttempts,
		LoginDecayMinutes:   defaultLoginDecayMinutes,
	}
}

// Load variables from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		return c.LoadEnv(func(key string) string {
			return envMap[key]
		})
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) error {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) error {
		return func(value string) error {
			if value != "" {
				*o = value
			}
			return nil
		}
	}
	setInt := func(o *int) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			parsed, err := strconv.Atoi(value)
			if err != nil {
				return err
			}
			*o = parsed
			return nil
		}
	}

	envMap := map[string]func(string) error{
		"RUN_ADDRESS":            setString(&c.ListenAddr),
		"DATABASE_URI":           setString(&c.DatabaseDSN),
		"LOG_LEVEL":              setString(&c.LogLevel),
		"ENVIRONMENT":            setString(&c.Environment),
		"ACCESS_TOKEN_TTL":       setInt(&c.AccessTokenTTL),
		"REFRESH_TOKEN_TTL_DAYS": setInt(&c.RefreshTokenTTLDays),
		"LOGIN_MAX_ATTEMPTS":     setInt(&c.LoginMaxAttempts),
		"LOGIN_DECAY_MINUTES":    setInt(&c.LoginDecayMinutes),
	}

	for key, parseFn := range envMap {
		if err := parseFn(getenv(key)); err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
	}

	return nil
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("salon", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")
	fs.IntVar(&c.AccessTokenTTL, "access-token-ttl", c.AccessTokenTTL, "Access token lifetime in seconds")
	fs.IntVar(&c.RefreshTokenTTLDays, "refresh-token-ttl-days", c.RefreshTokenTTLDays, "Refresh token lifetime in days")
	fs.IntVar(&c.LoginMaxAttempts, "login-max-attempts", c.LoginMaxAttempts, "Failed logins before lockout")
	fs.IntVar(&c.LoginDecayMinutes, "login-decay-minutes", c.LoginDecayMinutes, "Lockout decay window in minutes")

	return fs.Parse(args)
}
