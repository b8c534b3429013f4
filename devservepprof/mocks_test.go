// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devservepprof

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/mock"
	"github.com/xmidt-org/devserve"
)

type mockApp struct {
	mock.Mock
	router *mux.Router
}

func newMockApp() *mockApp {
	return &mockApp{router: mux.NewRouter()}
}

func (m *mockApp) Config() devserve.Config {
	return m.Called().Get(0).(devserve.Config)
}

func (m *mockApp) Server() *http.Server {
	return m.Called().Get(0).(*http.Server)
}

func (m *mockApp) Router() *mux.Router {
	return m.router
}

func (m *mockApp) Emit(key string, value any) {
	m.Called(key, value)
}

func (m *mockApp) ExpectEmit(key string, value any) *mock.Call {
	return m.On("Emit", key, value)
}
