// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devservehttp

import (
	"reflect"

	"go.uber.org/multierr"
)

// Option represents something that can modify a target object.
type Option[T any] interface {
	Apply(*T) error
}

// OptionFunc is a closure type that can act as an Option.
type OptionFunc[T any] func(*T) error

func (of OptionFunc[T]) Apply(t *T) error {
	return of(t)
}

// Options is an aggregate Option that allows several options to
// be grouped together.
type Options[T any] []Option[T]

// Apply applies all the options in this slice, returning an
// aggregate error if any errors occurred.
func (o Options[T]) Apply(t *T) (err error) {
	for _, opt := range o {
		err = multierr.Append(err, opt.Apply(t))
	}

	return
}

// OptionClosure represents the closure types that are convertible
// into Option objects.
type OptionClosure[T any] interface {
	~func(*T) | ~func(*T) error
}

// AsOption converts a closure into an Option for a given target type.
// Named closure types are converted to their underlying function type.
func AsOption[T any, F OptionClosure[T]](f F) Option[T] {
	var (
		fv        = reflect.ValueOf(f)
		withError = reflect.TypeOf((func(*T) error)(nil))
	)

	if fv.Type().ConvertibleTo(withError) {
		return OptionFunc[T](fv.Convert(withError).Interface().(func(*T) error))
	}

	noError := fv.Convert(reflect.TypeOf((func(*T))(nil))).Interface().(func(*T))
	return OptionFunc[T](func(t *T) error {
		noError(t)
		return nil
	})
}

// ApplyOptions applies several options to a target, returning that same target.
func ApplyOptions[T any](t *T, opts ...Option[T]) (result *T, err error) {
	result = t
	err = Options[T](opts).Apply(result)
	return
}

// InvalidOption returns an Option that returns the given error.
func InvalidOption[T any](err error) Option[T] {
	return OptionFunc[T](func(_ *T) error {
		return err
	})
}
