package magickit

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gobeaver/beaver-kit/config"
)

type Config struct {
	// Traverse directories recursively
	Recursive bool `env:"MAGICKIT_RECURSIVE,default:false"`

	// Analyze one file at a time
	Sequential bool `env:"MAGICKIT_SEQUENTIAL,default:false"`

	// In-flight analysis cap, 0 picks a limit from the average file size
	Concurrency int `env:"MAGICKIT_CONCURRENCY,default:0"`

	// CPU pool size, 0 uses runtime.NumCPU()
	Workers int `env:"MAGICKIT_WORKERS,default:0"`

	// Fingerprint algorithm (md5, sha1, sha256, sha512, crc32, xxhash)
	ChecksumAlgorithm string `env:"MAGICKIT_CHECKSUM_ALGORITHM,default:sha256"`

	// Optional JSON file with extra signatures, appended after the built-ins
	SignaturesFile string `env:"MAGICKIT_SIGNATURES_FILE"`

	// File selection
	Include string `env:"MAGICKIT_INCLUDE"` // comma-separated globs
	Exclude string `env:"MAGICKIT_EXCLUDE"` // comma-separated globs

	// Organize settings
	Organize         bool   `env:"MAGICKIT_ORGANIZE,default:false"`
	OutputDir        string `env:"MAGICKIT_OUTPUT_DIR,default:OrganizedFiles"`
	OutputDriver     string `env:"MAGICKIT_OUTPUT_DRIVER,default:local"` // local, memory
	WriteConcurrency int    `env:"MAGICKIT_WRITE_CONCURRENCY,default:32"`

	// debug, info, warn, error
	LogLevel string `env:"MAGICKIT_LOG_LEVEL,default:info"`
}

// GetConfig returns config loaded from environment
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Concurrency < 0 {
		return fmt.Errorf("%w: concurrency must not be negative: %d", ErrNotAllowed, c.Concurrency)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative: %d", ErrNotAllowed, c.Workers)
	}
	if c.WriteConcurrency < 1 {
		return fmt.Errorf("%w: write concurrency must be at least 1: %d", ErrNotAllowed, c.WriteConcurrency)
	}
	if _, err := ParseChecksumAlgorithm(c.ChecksumAlgorithm); err != nil {
		return err
	}
	switch c.OutputDriver {
	case "local", "memory":
	default:
		return fmt.Errorf("%w: output driver %q", ErrNotSupported, c.OutputDriver)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log level %q", ErrNotSupported, c.LogLevel)
	}
	return nil
}

// Level maps LogLevel to a slog level, defaulting to info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// IncludePatterns splits Include on commas, dropping blanks.
func (c *Config) IncludePatterns() []string {
	return splitList(c.Include)
}

// ExcludePatterns splits Exclude on commas, dropping blanks.
func (c *Config) ExcludePatterns() []string {
	return splitList(c.Exclude)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
