package magickit

import (
	"errors"
	"log/slog"
	"reflect"
	"testing"
)

func TestGetConfig(t *testing.T) {
	defaults := Config{
		ChecksumAlgorithm: "sha256",
		OutputDir:         "OrganizedFiles",
		OutputDriver:      "local",
		WriteConcurrency:  32,
		LogLevel:          "info",
	}

	tests := []struct {
		name    string
		envVars map[string]string
		want    func() Config
	}{
		{
			name:    "default values",
			envVars: map[string]string{},
			want:    func() Config { return defaults },
		},
		{
			name: "analysis configuration",
			envVars: map[string]string{
				"BEAVER_MAGICKIT_RECURSIVE":          "true",
				"BEAVER_MAGICKIT_CONCURRENCY":        "12",
				"BEAVER_MAGICKIT_WORKERS":            "3",
				"BEAVER_MAGICKIT_CHECKSUM_ALGORITHM": "xxhash",
				"BEAVER_MAGICKIT_SIGNATURES_FILE":    "/etc/magickit/signatures.json",
			},
			want: func() Config {
				c := defaults
				c.Recursive = true
				c.Concurrency = 12
				c.Workers = 3
				c.ChecksumAlgorithm = "xxhash"
				c.SignaturesFile = "/etc/magickit/signatures.json"
				return c
			},
		},
		{
			name: "organize configuration",
			envVars: map[string]string{
				"BEAVER_MAGICKIT_ORGANIZE":          "true",
				"BEAVER_MAGICKIT_OUTPUT_DIR":        "/tmp/sorted",
				"BEAVER_MAGICKIT_OUTPUT_DRIVER":     "memory",
				"BEAVER_MAGICKIT_WRITE_CONCURRENCY": "4",
			},
			want: func() Config {
				c := defaults
				c.Organize = true
				c.OutputDir = "/tmp/sorted"
				c.OutputDriver = "memory"
				c.WriteConcurrency = 4
				return c
			},
		},
		{
			name: "selection configuration",
			envVars: map[string]string{
				"BEAVER_MAGICKIT_INCLUDE":    "*.jpg,*.png",
				"BEAVER_MAGICKIT_EXCLUDE":    "OrganizedFiles",
				"BEAVER_MAGICKIT_SEQUENTIAL": "true",
				"BEAVER_MAGICKIT_LOG_LEVEL":  "debug",
			},
			want: func() Config {
				c := defaults
				c.Include = "*.jpg,*.png"
				c.Exclude = "OrganizedFiles"
				c.Sequential = true
				c.LogLevel = "debug"
				return c
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := GetConfig()
			if err != nil {
				t.Fatalf("GetConfig() error = %v", err)
			}

			want := tt.want()
			if !reflect.DeepEqual(*cfg, want) {
				t.Errorf("GetConfig() = %+v, want %+v", *cfg, want)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			ChecksumAlgorithm: "sha256",
			OutputDir:         "OrganizedFiles",
			OutputDriver:      "local",
			WriteConcurrency:  32,
			LogLevel:          "info",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "negative concurrency", mutate: func(c *Config) { c.Concurrency = -1 }, wantErr: ErrNotAllowed},
		{name: "negative workers", mutate: func(c *Config) { c.Workers = -2 }, wantErr: ErrNotAllowed},
		{name: "zero write concurrency", mutate: func(c *Config) { c.WriteConcurrency = 0 }, wantErr: ErrNotAllowed},
		{name: "unknown checksum", mutate: func(c *Config) { c.ChecksumAlgorithm = "blake9" }, wantErr: ErrNotSupported},
		{name: "unknown driver", mutate: func(c *Config) { c.OutputDriver = "s3" }, wantErr: ErrNotSupported},
		{name: "unknown log level", mutate: func(c *Config) { c.LogLevel = "trace" }, wantErr: ErrNotSupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigPatterns(t *testing.T) {
	cfg := Config{Include: " *.jpg, ,*.png ", Exclude: ""}
	if got, want := cfg.IncludePatterns(), []string{"*.jpg", "*.png"}; !reflect.DeepEqual(got, want) {
		t.Errorf("IncludePatterns() = %v, want %v", got, want)
	}
	if got := cfg.ExcludePatterns(); len(got) != 0 {
		t.Errorf("ExcludePatterns() = %v, want empty", got)
	}
}

func TestConfigLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":      slog.LevelInfo,
		"info":  slog.LevelInfo,
		"DEBUG": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		cfg := Config{LogLevel: in}
		if got := cfg.Level(); got != want {
			t.Errorf("Level(%q) = %v, want %v", in, got, want)
		}
	}
}
