// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devserveapp_test

import (
	"context"
	"errors"
	"net/http"

	"github.com/stretchr/testify/mock"
	"github.com/xmidt-org/devserve"
	"github.com/xmidt-org/devserve/devserveplugin"
)

// body answers every request with fixed text.
type body struct {
	text string
}

func (b body) Middleware(devserve.Config, devserveplugin.App) ([]devserveplugin.Handler, error) {
	return []devserveplugin.Handler{
		func(http.Handler) http.Handler {
			return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
				rw.Write([]byte(b.text + r.Header.Get("X-Prefix")))
			})
		},
	}, nil
}

// prefix sets a request header seen by later plugins.
type prefix struct {
	value string
}

func (p prefix) Middleware(devserve.Config, devserveplugin.App) ([]devserveplugin.Handler, error) {
	return []devserveplugin.Handler{
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
				r.Header.Add("X-Prefix", p.value)
				next.ServeHTTP(rw, r)
			})
		},
	}, nil
}

// route contributes a route to the terminal router instead of a handler.
type route struct{}

func (route) Middleware(_ devserve.Config, app devserveplugin.App) ([]devserveplugin.Handler, error) {
	app.Router().HandleFunc("/route", func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusAccepted)
	})

	return nil, nil
}

type panics struct{}

func (panics) Middleware(devserve.Config, devserveplugin.App) ([]devserveplugin.Handler, error) {
	return []devserveplugin.Handler{
		func(http.Handler) http.Handler {
			return http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				panic("expected")
			})
		},
	}, nil
}

var errMiddleware = errors.New("expected middleware error")

type failing struct{}

func (failing) Middleware(devserve.Config, devserveplugin.App) ([]devserveplugin.Handler, error) {
	return nil, errMiddleware
}

type mockReadier struct {
	mock.Mock
}

func (m *mockReadier) Ready(ctx context.Context, app devserveplugin.App) error {
	return m.Called(ctx, app).Error(0)
}

func (m *mockReadier) ExpectReady() *mock.Call {
	return m.On("Ready", mock.Anything, mock.Anything)
}
