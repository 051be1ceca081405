// Package config provides secure configuration management for the punchcard application.
//
// This package handles loading configuration from environment variables and .env files.
// A .env file in the current working directory is loaded first (if present), and
// environment variables already set in the process take precedence over its values.
//
// The configuration structure uses struct tags to map environment variables
// to fields, supporting defaults through the caarlos0/env library.
//
// Example usage:
//
//	import "github.com/toozej/punchcard/pkg/config"
//
//	func main() {
//		conf := config.GetEnvVars()
//		fmt.Println(conf.Output)
//	}
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config represents the application configuration structure.
//
// Fields:
//   - Profile: optional benchmark profile file (.yaml, .yml or .hcl)
//   - Output: optional file used as the display surface instead of stdout
//   - Placeholder: text displayed when the native routine fails
//   - StoreDSN: SQLite DSN for the redeemed-card store; empty means in-memory
//   - Stub: when non-empty, the native routine is replaced by a stub returning this text
type Config struct {
	Profile     string `env:"PUNCHCARD_PROFILE"`
	Output      string `env:"PUNCHCARD_OUTPUT"`
	Placeholder string `env:"PUNCHCARD_PLACEHOLDER" envDefault:"punchcard: native routine unavailable"`
	StoreDSN    string `env:"PUNCHCARD_STORE_DSN"`
	Stub        string `env:"PUNCHCARD_STUB"`
}

// GetEnvVars loads and returns the application configuration from environment
// variables and an optional .env file in the current working directory.
//
// If the .env file exists but cannot be loaded, or if parsing fails, the
// function prints an error and exits with status code 1.
func GetEnvVars() Config {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("Error loading .env file: %s\n", err)
			os.Exit(1)
		}
	}

	var conf Config
	if err := env.Parse(&conf); err != nil {
		fmt.Printf("Error parsing environment variables: %s\n", err)
		os.Exit(1)
	}

	return conf
}
