// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devserveplugin

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrInvalidConstructor indicates a constructor that is not a func() T or func() (T, error).
	ErrInvalidConstructor = errors.New("a plugin constructor must be a func() T or func() (T, error)")

	errorType = reflect.TypeOf((*error)(nil)).Elem()
)

// Class is a validated plugin constructor.  Creating a Class never creates
// a plugin.  The zero value is not usable.
type Class struct {
	name string
	ctor reflect.Value
	out  reflect.Type
}

// NewClass validates a constructor, which must be a function with no parameters
// returning a plugin and optionally an error.  Whether the plugin type satisfies
// the contract is not checked here.  Use Class.Satisfies for that.
func NewClass(name string, ctor interface{}) (Class, error) {
	cv := reflect.ValueOf(ctor)
	if !cv.IsValid() || cv.Kind() != reflect.Func || cv.IsNil() {
		return Class{}, fmt.Errorf("%w: %T", ErrInvalidConstructor, ctor)
	}

	ct := cv.Type()
	switch {
	case ct.NumIn() != 0 || ct.IsVariadic():
		return Class{}, fmt.Errorf("%w: %s", ErrInvalidConstructor, ct)

	case ct.NumOut() == 1:
	case ct.NumOut() == 2 && ct.Out(1) == errorType:

	default:
		return Class{}, fmt.Errorf("%w: %s", ErrInvalidConstructor, ct)
	}

	if len(name) == 0 {
		name = ct.Out(0).String()
	}

	return Class{
		name: name,
		ctor: cv,
		out:  ct.Out(0),
	}, nil
}

// MustClass is like NewClass, but panics on any error.
func MustClass(name string, ctor interface{}) Class {
	c, err := NewClass(name, ctor)
	if err != nil {
		panic(err)
	}

	return c
}

// Name is the logical name of this class.
func (c Class) Name() string {
	return c.name
}

// Type is the declared type of the plugins this class creates.
func (c Class) Type() reflect.Type {
	return c.out
}

// Satisfies tests if this class's declared plugin type fulfills the contract.
func (c Class) Satisfies() bool {
	return Satisfies(c.out)
}

// New creates a plugin.  A constructor that returns a nil plugin is an error.
func (c Class) New() (p interface{}, err error) {
	if !c.ctor.IsValid() {
		return nil, fmt.Errorf("%w: uninitialized class", ErrInvalidConstructor)
	}

	results := c.ctor.Call(nil)
	if len(results) > 1 && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}

	if rv := results[0]; !isNil(rv) {
		p = rv.Interface()
	} else {
		err = fmt.Errorf("constructor for [%s] returned a nil plugin", c.name)
	}

	return
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Invalid:
		return true

	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()

	default:
		return false
	}
}
