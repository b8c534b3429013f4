// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devserveplugin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNewClassValid(t *testing.T) {
	testData := []struct {
		name         string
		ctor         interface{}
		expectedName string
	}{
		{
			name:         "NoError",
			ctor:         func() appender { return appender{name: "one"} },
			expectedName: "devserveplugin.appender",
		},
		{
			name:         "WithError",
			ctor:         func() (*chatty, error) { return new(chatty), nil },
			expectedName: "*devserveplugin.chatty",
		},
		{
			name:         "Interface",
			ctor:         func() Middleware { return appender{} },
			expectedName: "devserveplugin.Middleware",
		},
	}

	for _, record := range testData {
		t.Run(record.name, func(t *testing.T) {
			var (
				assert  = assert.New(t)
				require = require.New(t)
			)

			c, err := NewClass("", record.ctor)
			require.NoError(err)
			assert.Equal(record.expectedName, c.Name())
			assert.True(c.Satisfies())

			p, err := c.New()
			assert.NoError(err)
			assert.NotNil(p)

			named, err := NewClass("custom", record.ctor)
			require.NoError(err)
			assert.Equal("custom", named.Name())
		})
	}
}

func testNewClassInvalid(t *testing.T) {
	var nilFunc func() appender

	testData := []struct {
		name string
		ctor interface{}
	}{
		{"Nil", nil},
		{"NilFunc", nilFunc},
		{"NotAFunc", appender{}},
		{"Parameters", func(string) appender { return appender{} }},
		{"Variadic", func(...string) appender { return appender{} }},
		{"NoResults", func() {}},
		{"SecondNotError", func() (appender, int) { return appender{}, 0 }},
		{"TooManyResults", func() (appender, int, error) { return appender{}, 0, nil }},
	}

	for _, record := range testData {
		t.Run(record.name, func(t *testing.T) {
			_, err := NewClass("test", record.ctor)
			assert.ErrorIs(t, err, ErrInvalidConstructor)
		})
	}
}

func testClassNewError(t *testing.T) {
	var (
		assert      = assert.New(t)
		expectedErr = errors.New("expected")
		c           = MustClass("test", func() (*chatty, error) { return nil, expectedErr })
	)

	p, err := c.New()
	assert.Nil(p)
	assert.ErrorIs(err, expectedErr)
}

func testClassNewNil(t *testing.T) {
	var (
		assert = assert.New(t)
		c      = MustClass("test", func() *chatty { return nil })
	)

	p, err := c.New()
	assert.Nil(p)
	assert.Error(err)
}

func testClassZero(t *testing.T) {
	var c Class
	_, err := c.New()
	assert.ErrorIs(t, err, ErrInvalidConstructor)
	assert.False(t, c.Satisfies())
}

func TestClass(t *testing.T) {
	t.Run("NewClassValid", testNewClassValid)
	t.Run("NewClassInvalid", testNewClassInvalid)
	t.Run("NewError", testClassNewError)
	t.Run("NewNil", testClassNewNil)
	t.Run("Zero", testClassZero)

	t.Run("MustClassPanics", func(t *testing.T) {
		assert.Panics(t, func() {
			MustClass("test", 123)
		})
	})

	t.Run("NotSatisfied", func(t *testing.T) {
		c := MustClass("test", func() noMiddleware { return noMiddleware{} })
		assert.False(t, c.Satisfies())
	})
}
