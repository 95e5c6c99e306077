// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"strings"

	"github.com/bitfsorg/libroyalty-go/ledger"
	"github.com/bitfsorg/libroyalty-go/safemath"
	"github.com/bitfsorg/libroyalty-go/store"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validBackends lists the accepted store backends.
var validBackends = map[string]bool{
	store.BackendMemory: true,
	store.BackendBolt:   true,
	store.BackendSQLite: true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if !validBackends[cfg.Backend] {
		return ErrInvalidBackend
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	if cfg.PlatformFeeBps > safemath.TotalBasisPoints {
		return ErrInvalidFee
	}

	if cfg.MaxBatchSize < 1 {
		return ErrInvalidBatchSize
	}

	if cfg.TxLogCap < 1 || cfg.TxLogCap > ledger.MaxTransactions {
		return ErrInvalidTxLogCap
	}

	return nil
}
