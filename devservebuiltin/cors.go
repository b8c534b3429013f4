// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devservebuiltin

import (
	"github.com/go-chi/cors"
	"github.com/xmidt-org/devserve"
	"github.com/xmidt-org/devserve/devserveplugin"
)

// CORSName is the name of the cors plugin, without prefix.
const CORSName = "cors"

// CORSOptions are the options read by the cors plugin.
type CORSOptions struct {
	Origins     interface{} `mapstructure:"cors-origin"`
	Methods     interface{} `mapstructure:"cors-methods"`
	Headers     interface{} `mapstructure:"cors-headers"`
	Expose      interface{} `mapstructure:"cors-expose"`
	Credentials bool        `mapstructure:"cors-credentials"`
	MaxAge      int         `mapstructure:"cors-max-age"`
}

// CORS answers preflight requests and adds cross-origin headers to responses.
type CORS struct{}

// NewCORS creates the cors plugin.
func NewCORS() *CORS {
	return new(CORS)
}

// Description implements devserveplugin.Describer.
func (c *CORS) Description() string {
	return "handles cross-origin resource sharing"
}

// OptionDefinitions implements devserveplugin.OptionDefiner.
func (c *CORS) OptionDefinitions() []devserveplugin.OptionDefinition {
	return []devserveplugin.OptionDefinition{
		{Name: "cors-origin", Type: devserveplugin.String, Multiple: true, Description: `allowed origins (default "*")`},
		{Name: "cors-methods", Type: devserveplugin.String, Multiple: true, Description: "allowed methods"},
		{Name: "cors-headers", Type: devserveplugin.String, Multiple: true, Description: "allowed request headers"},
		{Name: "cors-expose", Type: devserveplugin.String, Multiple: true, Description: "response headers exposed to clients"},
		{Name: "cors-credentials", Type: devserveplugin.Bool, Description: "allow credentials"},
		{Name: "cors-max-age", Type: devserveplugin.Int, Description: "seconds a preflight response may be cached"},
	}
}

// Options converts the plugin options into go-chi/cors options.
func (co CORSOptions) Options() cors.Options {
	o := cors.Options{
		AllowedOrigins:   stringsOf(co.Origins),
		AllowedMethods:   stringsOf(co.Methods),
		AllowedHeaders:   stringsOf(co.Headers),
		ExposedHeaders:   stringsOf(co.Expose),
		AllowCredentials: co.Credentials,
		MaxAge:           co.MaxAge,
	}

	if len(o.AllowedOrigins) == 0 {
		o.AllowedOrigins = []string{"*"}
	}

	return o
}

// Middleware implements devserveplugin.Middleware.
func (c *CORS) Middleware(cfg devserve.Config, _ devserveplugin.App) ([]devserveplugin.Handler, error) {
	var o CORSOptions
	if err := cfg.Decode(&o); err != nil {
		return nil, &devserve.ConfigurationError{Option: "cors", Reason: err.Error(), Err: err}
	}

	return []devserveplugin.Handler{
		cors.Handler(o.Options()),
	}, nil
}
