// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devservebuiltin

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/xmidt-org/devserve"
	"github.com/xmidt-org/devserve/devserveplugin"
)

const (
	// RequestIDName is the name of the request-id plugin, without prefix.
	RequestIDName = "request-id"

	// DefaultRequestIDHeader is the header used when none is configured.
	DefaultRequestIDHeader = "X-Request-ID"
)

// RequestID ensures every request carries an identifier.  A request that arrives
// with one keeps it.  The identifier is echoed on the response.
type RequestID struct {
	// New generates identifiers.  If unset, random UUIDs are used.
	New func() string
}

// NewRequestID creates the request-id plugin.
func NewRequestID() *RequestID {
	return &RequestID{New: uuid.NewString}
}

// Description implements devserveplugin.Describer.
func (rid *RequestID) Description() string {
	return "assigns a unique identifier to each request"
}

// OptionDefinitions implements devserveplugin.OptionDefiner.
func (rid *RequestID) OptionDefinitions() []devserveplugin.OptionDefinition {
	return []devserveplugin.OptionDefinition{
		{Name: "request-id-header", Type: devserveplugin.String, Description: "the request id header (default X-Request-ID)"},
	}
}

// Middleware implements devserveplugin.Middleware.
func (rid *RequestID) Middleware(cfg devserve.Config, _ devserveplugin.App) ([]devserveplugin.Handler, error) {
	var o struct {
		Header string `mapstructure:"request-id-header"`
	}

	if err := cfg.Decode(&o); err != nil {
		return nil, &devserve.ConfigurationError{Option: "request-id-header", Reason: err.Error(), Err: err}
	}

	header := http.CanonicalHeaderKey(o.Header)
	if len(header) == 0 {
		header = DefaultRequestIDHeader
	}

	gen := rid.New
	if gen == nil {
		gen = uuid.NewString
	}

	return []devserveplugin.Handler{
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
				id := r.Header.Get(header)
				if len(id) == 0 {
					id = gen()
					r.Header.Set(header, id)
				}

				rw.Header().Set(header, id)
				next.ServeHTTP(rw, r)
			})
		},
	}, nil
}
