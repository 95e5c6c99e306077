// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads, saves and validates the ledger engine configuration.
//
// Values are layered: defaults, then the config file, then ROYALTY_*
// environment variables.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/bitfsorg/libroyalty-go/ingest"
	"github.com/bitfsorg/libroyalty-go/ledger"
	"github.com/bitfsorg/libroyalty-go/store"
	"github.com/bitfsorg/libroyalty-go/treasury"
)

// Config is the engine configuration.
type Config struct {
	DataDir        string `env:"ROYALTY_DATADIR"`
	Backend        string `env:"ROYALTY_BACKEND"`
	LogLevel       string `env:"ROYALTY_LOG_LEVEL"`
	LogFile        string `env:"ROYALTY_LOG_FILE"`
	MintFee        uint64 `env:"ROYALTY_MINT_FEE"`
	PlatformFeeBps uint16 `env:"ROYALTY_PLATFORM_FEE_BPS"`
	MaxBatchSize   int    `env:"ROYALTY_MAX_BATCH"`
	TxLogCap       int    `env:"ROYALTY_TXLOG_CAP"`
	ServiceName    string `env:"ROYALTY_SERVICE"`
	OTelEndpoint   string `env:"ROYALTY_OTEL_ENDPOINT"`
}

// DefaultDataDir returns ~/.royalty, or .royalty when the home directory
// cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".royalty"
	}
	return filepath.Join(home, ".royalty")
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		DataDir:        DefaultDataDir(),
		Backend:        store.BackendBolt,
		LogLevel:       "info",
		MintFee:        treasury.DefaultMintFee,
		PlatformFeeBps: treasury.DefaultPlatformFeeBps,
		MaxBatchSize:   ingest.DefaultMaxBatchSize,
		TxLogCap:       ledger.MaxTransactions,
		ServiceName:    "royalty-ledger",
	}
}

// ConfigPath returns the config file location inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config")
}

// LoadConfig reads a key = value file on top of DefaultConfig. Lines starting
// with # and blank lines are skipped; unknown keys are ignored.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, err := parseKeyValue(line)
		if err != nil {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineNo, line)
		}
		if err := cfg.set(key, value); err != nil {
			return cfg, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path, creating parent directories as needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# Royalty Ledger Configuration\n\n")
	fmt.Fprintf(&b, "datadir = %s\n", cfg.DataDir)
	fmt.Fprintf(&b, "backend = %s\n", cfg.Backend)
	fmt.Fprintf(&b, "loglevel = %s\n", cfg.LogLevel)
	fmt.Fprintf(&b, "logfile = %s\n", cfg.LogFile)
	b.WriteString("\n# Fees\n")
	fmt.Fprintf(&b, "mintfee = %d\n", cfg.MintFee)
	fmt.Fprintf(&b, "platformfeebps = %d\n", cfg.PlatformFeeBps)
	b.WriteString("\n# Limits\n")
	fmt.Fprintf(&b, "maxbatch = %d\n", cfg.MaxBatchSize)
	fmt.Fprintf(&b, "txlogcap = %d\n", cfg.TxLogCap)
	b.WriteString("\n# Telemetry\n")
	fmt.Fprintf(&b, "service = %s\n", cfg.ServiceName)
	fmt.Fprintf(&b, "otelendpoint = %s\n", cfg.OTelEndpoint)

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with ROYALTY_* variables from environ. A nil environ
// reads the process environment. Unset variables leave fields untouched.
func ApplyEnv(cfg *Config, environ map[string]string) error {
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEnv, err)
	}
	return nil
}

// Resolve loads the config file in dataDir (defaults when absent), applies
// the process environment and validates the result.
func Resolve(dataDir string) (Config, error) {
	cfg, err := LoadConfig(ConfigPath(dataDir))
	switch {
	case errors.Is(err, ErrConfigNotFound):
		cfg.DataDir = dataDir
	case err != nil:
		return cfg, err
	}
	if err := ApplyEnv(&cfg, nil); err != nil {
		return cfg, err
	}
	return cfg, ValidateConfig(cfg)
}

// parseKeyValue splits line on the first '='.
func parseKeyValue(line string) (string, string, error) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", ErrInvalidConfigLine
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", ErrInvalidConfigLine
	}
	return strings.ToLower(key), strings.TrimSpace(value), nil
}

func (c *Config) set(key, value string) error {
	switch key {
	case "datadir":
		c.DataDir = value
	case "backend":
		c.Backend = value
	case "loglevel":
		c.LogLevel = value
	case "logfile":
		c.LogFile = value
	case "mintfee":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfigValue, key, err)
		}
		c.MintFee = n
	case "platformfeebps":
		n, err := strconv.ParseUint(value, 10, 16)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfigValue, key, err)
		}
		c.PlatformFeeBps = uint16(n)
	case "maxbatch":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfigValue, key, err)
		}
		c.MaxBatchSize = n
	case "txlogcap":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfigValue, key, err)
		}
		c.TxLogCap = n
	case "service":
		c.ServiceName = value
	case "otelendpoint":
		c.OTelEndpoint = value
	}
	return nil
}
