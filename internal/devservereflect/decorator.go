// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devservereflect

// Decorate handles the general case of decorating an object T.
// The principal use case is for middleware and listener decoration.
//
// Decorators are executed in the order they are passed to this function,
// so the first decorator is the outermost.
func Decorate[T any, D ~func(T) T](t T, d ...D) T {
	for i := len(d) - 1; i >= 0; i-- {
		t = d[i](t)
	}

	return t
}
