// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrInvalidBackend indicates the store backend is not recognized.
	ErrInvalidBackend = errors.New("config: invalid backend (must be \"memory\", \"bolt\", or \"sqlite\")")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrInvalidFee indicates a platform fee above 10000 basis points.
	ErrInvalidFee = errors.New("config: platform fee must not exceed 10000 basis points")

	// ErrInvalidBatchSize indicates a non-positive maximum batch size.
	ErrInvalidBatchSize = errors.New("config: max batch size must be positive")

	// ErrInvalidTxLogCap indicates a transaction log capacity outside 1..100.
	ErrInvalidTxLogCap = errors.New("config: transaction log capacity must be between 1 and 100")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")

	// ErrInvalidConfigValue indicates a value that does not parse for its key.
	ErrInvalidConfigValue = errors.New("config: invalid configuration value")

	// ErrInvalidEnv indicates an environment override that does not parse.
	ErrInvalidEnv = errors.New("config: invalid environment override")
)
