// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devservebuiltin

import (
	"net/http"
	"net/http/httptest"

	"github.com/justinas/alice"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/devserve"
	"github.com/xmidt-org/devserve/devserveplugin"
)

// next is the terminal handler used in these tests.
var next = http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
	rw.WriteHeader(http.StatusTeapot)
	rw.Write([]byte("next"))
})

// serve builds a plugin's handlers in front of next and serves one request.
func serve(t require.TestingT, p devserveplugin.Middleware, cfg devserve.Config, request *http.Request) *httptest.ResponseRecorder {
	handlers, err := p.Middleware(cfg, nil)
	require.NoError(t, err)

	chain := alice.New()
	for _, h := range handlers {
		chain = chain.Append(alice.Constructor(h))
	}

	response := httptest.NewRecorder()
	chain.Then(next).ServeHTTP(response, request)
	return response
}
