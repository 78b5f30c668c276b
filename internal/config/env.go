package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables overriding the site paths.
const (
	EnvTemplatesDir = "MALVOLIO_TEMPLATES_DIR"
	EnvOutputDir    = "MALVOLIO_OUTPUT_DIR"
	EnvSourceDir    = "MALVOLIO_SOURCE_DIR"
	EnvLogLevel     = "MALVOLIO_LOG_LEVEL"
)

var envFiles = []string{".env", ".env.local"}

// LoadEnvFiles loads .env and .env.local when present. Variables already set in
// the process environment are never overwritten. It returns the files loaded.
func LoadEnvFiles() ([]string, error) {
	var loaded []string
	for _, name := range envFiles {
		if _, err := os.Stat(name); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return loaded, err
		}
		loaded = append(loaded, name)
	}
	return loaded, nil
}

// envOptions turns the MALVOLIO_* path variables into options.
func envOptions() []Option {
	var opts []Option
	if v := os.Getenv(EnvTemplatesDir); v != "" {
		opts = append(opts, WithTemplatesDir(v))
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		opts = append(opts, WithOutputDir(v))
	}
	if v := os.Getenv(EnvSourceDir); v != "" {
		opts = append(opts, WithSourceDir(v))
	}
	return opts
}
