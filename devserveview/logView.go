// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devserveview

import (
	"github.com/xmidt-org/devserve"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogView writes each event as a zap entry whose message is the event key.
// Socket events are logged at debug, server errors at error, and everything
// else at info.
type LogView struct {
	Logger *zap.Logger
}

var _ devserve.View = LogView{}

// Write implements devserve.View.
func (lv LogView) Write(key string, value any, _ devserve.Config) {
	if lv.Logger == nil {
		return
	}

	if ce := lv.Logger.Check(levelOf(key), key); ce != nil {
		ce.Write(zap.Any("value", value))
	}
}

func levelOf(key string) zapcore.Level {
	switch key {
	case devserve.EventSocketNew, devserve.EventSocketClose, devserve.EventPluginLoad:
		return zapcore.DebugLevel

	case devserve.EventServerError:
		return zapcore.ErrorLevel

	case devserve.EventOptionIgnored:
		return zapcore.WarnLevel

	default:
		return zapcore.InfoLevel
	}
}
