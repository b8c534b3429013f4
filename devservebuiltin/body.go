// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devservebuiltin

import (
	"net/http"
	"strconv"

	"github.com/xmidt-org/devserve"
	"github.com/xmidt-org/devserve/devserveplugin"
)

// BodyName is the name of the body plugin, without prefix.
const BodyName = "body"

// BodyOptions are the options read by the body plugin.
type BodyOptions struct {
	Body        string `mapstructure:"body"`
	Status      int    `mapstructure:"body-status"`
	ContentType string `mapstructure:"body-type"`
}

// Body answers every request with a fixed response.  Handlers after it in the
// stack never run.
type Body struct{}

// NewBody creates the body plugin.
func NewBody() *Body {
	return new(Body)
}

// Description implements devserveplugin.Describer.
func (b *Body) Description() string {
	return "answers every request with a fixed body"
}

// OptionDefinitions implements devserveplugin.OptionDefiner.
func (b *Body) OptionDefinitions() []devserveplugin.OptionDefinition {
	return []devserveplugin.OptionDefinition{
		{Name: "body", Type: devserveplugin.String, Description: "the response body"},
		{Name: "body-status", Type: devserveplugin.Int, Description: "the response status code (default 200)"},
		{Name: "body-type", Type: devserveplugin.String, Description: "the response content type"},
	}
}

// Middleware implements devserveplugin.Middleware.
func (b *Body) Middleware(cfg devserve.Config, _ devserveplugin.App) ([]devserveplugin.Handler, error) {
	o := BodyOptions{
		Status:      http.StatusOK,
		ContentType: "text/plain; charset=utf-8",
	}

	if err := cfg.Decode(&o); err != nil {
		return nil, &devserve.ConfigurationError{Option: "body", Reason: err.Error(), Err: err}
	}

	if o.Status < 100 || o.Status > 999 {
		return nil, &devserve.ConfigurationError{
			Option: "body-status",
			Reason: strconv.Itoa(o.Status) + " is not a valid status code",
		}
	}

	content := []byte(o.Body)
	return []devserveplugin.Handler{
		func(http.Handler) http.Handler {
			return http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
				rw.Header().Set("Content-Type", o.ContentType)
				rw.Header().Set("Content-Length", strconv.Itoa(len(content)))
				rw.WriteHeader(o.Status)
				rw.Write(content) //nolint:errcheck
			})
		},
	}, nil
}
