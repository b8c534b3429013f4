// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devserveplugin

import (
	"context"
	"net/http"

	"github.com/stretchr/testify/mock"
	"github.com/xmidt-org/devserve"
)

type mockMiddleware struct {
	mock.Mock
}

func (m *mockMiddleware) Middleware(cfg devserve.Config, app App) ([]Handler, error) {
	args := m.Called(cfg, app)
	hs, _ := args.Get(0).([]Handler)
	return hs, args.Error(1)
}

func (m *mockMiddleware) ExpectMiddleware(cfg, app interface{}) *mock.Call {
	return m.On("Middleware", cfg, app)
}

type mockReadier struct {
	mock.Mock
}

func (m *mockReadier) Ready(ctx context.Context, app App) error {
	return m.Called(ctx, app).Error(0)
}

func (m *mockReadier) ExpectReady(ctx, app interface{}) *mock.Call {
	return m.On("Ready", ctx, app)
}

// appender is a Middleware that appends its name to a shared request header,
// so that the composed order is visible in the request.
type appender struct {
	name string
}

func (a appender) Middleware(devserve.Config, App) ([]Handler, error) {
	return []Handler{
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
				r.Header.Add("X-Trace", a.name)
				next.ServeHTTP(rw, r)
			})
		},
	}, nil
}

func (a appender) Description() string {
	return "appends " + a.name
}

func (a appender) OptionDefinitions() []OptionDefinition {
	return []OptionDefinition{
		{Name: a.name + "-enabled", Type: Bool},
	}
}

// noMiddleware satisfies nothing.
type noMiddleware struct{}

// chatty relays an event when its middleware is requested.
type chatty struct {
	emit devserve.Emit
}

func (c *chatty) SetEmit(e devserve.Emit) {
	c.emit = e
}

func (c *chatty) Middleware(devserve.Config, App) ([]Handler, error) {
	c.emit("chatty.middleware", 123)
	return nil, nil
}
