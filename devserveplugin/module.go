// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

//go:build linux || darwin || freebsd

package devserveplugin

import (
	"errors"
	"fmt"
	"plugin"
	"reflect"
)

// ErrPluginsNotSupported indicates that plugin modules cannot be opened on this platform.
var ErrPluginsNotSupported = errors.New("plugin modules are not supported on this platform")

// PluginSupported indicates whether plugin modules can be opened on this platform.
func PluginSupported() bool { return true }

// OpenModule opens a Go plugin module and returns a Class for its exported
// constructor.  The constructor symbol may be declared either as a function or
// as a variable holding a function.
func OpenModule(path string) (Class, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return Class{}, err
	}

	s, err := p.Lookup(ConstructorSymbol)
	if err != nil {
		return Class{}, err
	}

	ctor := reflect.ValueOf(s)
	if ctor.Kind() == reflect.Ptr && ctor.Elem().Kind() == reflect.Func {
		ctor = ctor.Elem()
	}

	if ctor.Kind() != reflect.Func {
		return Class{}, fmt.Errorf("symbol %s is a %s, not a function", ConstructorSymbol, ctor.Type())
	}

	return NewClass(path, ctor.Interface())
}
