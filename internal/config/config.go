// Package config loads the CouchDB connection settings from the
// environment. All four variables are required at startup — the server
// refuses to start without them rather than failing on the first request.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Environment variable names for the Amazing Marvin CouchDB sync backend.
const (
	EnvDBName     = "DB_NAME"
	EnvDBURL      = "DB_URL"
	EnvDBUsername = "DB_USERNAME"
	EnvDBPassword = "DB_PASSWORD"
)

// Config holds the connection parameters for the remote database.
type Config struct {
	DBName   string
	DBURL    string
	Username string
	Password string
}

// MissingVarsError reports which required environment variables were
// not set. It is fatal — there is no fallback configuration source.
type MissingVarsError struct {
	Vars []string
}

func (e *MissingVarsError) Error() string {
	return fmt.Sprintf("missing required environment variables: %s", strings.Join(e.Vars, ", "))
}

// FromEnv reads the connection settings from the environment and
// validates that all of them are present.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DBName:   os.Getenv(EnvDBName),
		DBURL:    os.Getenv(EnvDBURL),
		Username: os.Getenv(EnvDBUsername),
		Password: os.Getenv(EnvDBPassword),
	}

	var missing []string
	if cfg.DBName == "" {
		missing = append(missing, EnvDBName)
	}
	if cfg.DBURL == "" {
		missing = append(missing, EnvDBURL)
	}
	if cfg.Username == "" {
		missing = append(missing, EnvDBUsername)
	}
	if cfg.Password == "" {
		missing = append(missing, EnvDBPassword)
	}
	if len(missing) > 0 {
		return nil, &MissingVarsError{Vars: missing}
	}

	return cfg, nil
}

// BaseURL returns the database root URL all document requests are
// issued against.
func (c *Config) BaseURL() string {
	return strings.TrimRight(c.DBURL, "/") + "/" + c.DBName
}
