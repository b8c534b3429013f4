// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devservetest

import (
	"strings"

	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/fx/fxtest"
)

// logWriter sends each write to a Testable's log.
type logWriter struct {
	t Testable
}

func (lw logWriter) Write(p []byte) (int, error) {
	lw.t.Logf("%s", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// Logger returns an fx.Option that routes the fx container's own output to
// the enclosing test's log.
func Logger(t any) fx.Option {
	tt := AsTestable(t)
	return fx.WithLogger(func() fxevent.Logger {
		return &fxevent.ConsoleLogger{W: logWriter{t: tt}}
	})
}

// NewApp creates an *fxtest.App using the enclosing test.
//
// The t parameter may supply a T() *testing.T method, as in the case of
// a stretchr test suite.  Or, it may implement fxtest.TB directly, as is
// the case with *testing.T and *testing.B.
func NewApp(t any, o ...fx.Option) *fxtest.App {
	tt := AsTestable(t)
	return fxtest.New(
		tt,
		append([]fx.Option{Logger(tt)}, o...)...,
	)
}

// NewErrApp creates an *fx.App which is expected to fail during construction.
// Prior to returning, this function asserts that there was an error.  The *fx.App
// is returned for any further assertions.
//
// Since an error is assumed to happen, the returned app has logging silenced.
func NewErrApp(t any, o ...fx.Option) *fx.App {
	app := fx.New(
		append(
			o,
			fx.NopLogger,
		)...,
	)

	assert.Error(AsTestable(t), app.Err())
	return app
}
