// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devserveview

import (
	"fmt"
	"strings"

	"github.com/xmidt-org/devserve"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// FormatConsole is the human-readable log encoding.
	FormatConsole = "console"

	// FormatJSON is the structured log encoding.
	FormatJSON = "json"
)

// NewLogger creates a zap logger.  The debug level uses zap's development
// configuration and every other level uses the production configuration.
// The format is either FormatConsole or FormatJSON, with JSON as the default.
func NewLogger(level, format string) (*zap.Logger, error) {
	var (
		config zap.Config
		l      = zapcore.InfoLevel
	)

	if len(level) > 0 {
		var err error
		if l, err = zapcore.ParseLevel(level); err != nil {
			return nil, &devserve.ConfigurationError{
				Option: "log-level",
				Reason: err.Error(),
				Err:    err,
			}
		}
	}

	if l == zapcore.DebugLevel {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}

	config.Level = zap.NewAtomicLevelAt(l)
	switch strings.ToLower(format) {
	case FormatConsole:
		config.Encoding = FormatConsole
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true

	case FormatJSON, "":
		config.Encoding = FormatJSON

	default:
		return nil, &devserve.ConfigurationError{
			Option: "log-format",
			Reason: fmt.Sprintf("unsupported log format %q", format),
		}
	}

	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.MessageKey = "message"

	return config.Build()
}
