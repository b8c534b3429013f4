// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devservebuiltin

import (
	"net/http"
	"strings"

	"github.com/xmidt-org/devserve"
	"github.com/xmidt-org/devserve/devserveplugin"
	"github.com/xmidt-org/httpaux"
)

// HeaderName is the name of the header plugin, without prefix.
const HeaderName = "header"

// Header adds fixed headers to every response.  Each header option value has
// the form "Name: value".
type Header struct{}

// NewHeader creates the header plugin.
func NewHeader() *Header {
	return new(Header)
}

// Description implements devserveplugin.Describer.
func (h *Header) Description() string {
	return "adds fixed headers to every response"
}

// OptionDefinitions implements devserveplugin.OptionDefiner.
func (h *Header) OptionDefinitions() []devserveplugin.OptionDefinition {
	return []devserveplugin.OptionDefinition{
		{Name: "header", Type: devserveplugin.String, Multiple: true, Description: `a response header of the form "Name: value"`},
	}
}

// ParseHeaders parses "Name: value" strings.
func ParseHeaders(values []string) (http.Header, error) {
	header := make(http.Header, len(values))
	for _, v := range values {
		name, value, ok := strings.Cut(v, ":")
		name = strings.TrimSpace(name)
		if !ok || len(name) == 0 {
			return nil, &devserve.ConfigurationError{
				Option: "header",
				Reason: `"` + v + `" is not of the form "Name: value"`,
			}
		}

		header.Add(name, strings.TrimSpace(value))
	}

	return header, nil
}

// Middleware implements devserveplugin.Middleware.
func (h *Header) Middleware(cfg devserve.Config, _ devserveplugin.App) ([]devserveplugin.Handler, error) {
	v, _ := cfg.Get("header")
	header, err := ParseHeaders(stringsOf(v))
	if err != nil || len(header) == 0 {
		return nil, err
	}

	return []devserveplugin.Handler{setHeader(httpaux.NewHeader(header))}, nil
}

// setHeader sets h on each response before next runs, so next may still override it.
func setHeader(h httpaux.Header) devserveplugin.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			h.SetTo(rw.Header())
			next.ServeHTTP(rw, r)
		})
	}
}
