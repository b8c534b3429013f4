// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

//go:build !linux && !darwin && !freebsd

package devserveplugin

import (
	"errors"
	"fmt"
)

// ErrPluginsNotSupported indicates that plugin modules cannot be opened on this platform.
var ErrPluginsNotSupported = errors.New("plugin modules are not supported on this platform")

// PluginSupported indicates whether plugin modules can be opened on this platform.
func PluginSupported() bool { return false }

// OpenModule always fails on this platform.
func OpenModule(path string) (Class, error) {
	return Class{}, fmt.Errorf("unable to open [%s]: %w", path, ErrPluginsNotSupported)
}
