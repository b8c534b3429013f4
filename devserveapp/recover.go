// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devserveapp

import (
	"fmt"
	"io"
	"net/http"

	"github.com/xmidt-org/devserve"
	"github.com/xmidt-org/devserve/internal/devservereflect"
	"github.com/xmidt-org/httpaux/recovery"
)

// RequestError is the value of a devserve.EventServerError event raised when a
// handler panics while serving a request.
type RequestError struct {
	Method string
	URL    string
	Panic  string
}

// recoverBody writes only the status text.  Panic values and stacks never reach the client.
func recoverBody(w io.Writer, _ interface{}, _ []byte) {
	io.WriteString(w, http.StatusText(http.StatusInternalServerError)) //nolint:errcheck
}

// Recover returns a middleware that confines a panicking handler to its own
// request.  The client receives a 500 and the panic is emitted as a server.error
// event.  http.ErrAbortHandler is panicked again after the event so that net/http
// can abort the connection.
func Recover(emit devserve.Emit) func(http.Handler) http.Handler {
	emit = devservereflect.Safe[devserve.Emit](emit, devserve.Discard)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, request *http.Request) {
			recovery.Middleware(
				recovery.WithStatusCode(http.StatusInternalServerError),
				recovery.WithRecoverBody(recoverBody),
				recovery.WithOnRecover(func(r interface{}, _ []byte) {
					emit(devserve.EventServerError, RequestError{
						Method: request.Method,
						URL:    request.URL.String(),
						Panic:  fmt.Sprint(r),
					})

					if r == http.ErrAbortHandler { //nolint:errorlint
						panic(r)
					}
				}),
			)(next).ServeHTTP(rw, request)
		})
	}
}
