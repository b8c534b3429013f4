// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devservehttp

import (
	"fmt"

	"github.com/xmidt-org/devserve"
	"github.com/xmidt-org/devserve/devservetls"
)

// ServerOptions holds the transport options of a resolved configuration.  Only
// the options that do not fit a Go zero value are pointers.
type ServerOptions struct {
	Port     int    `mapstructure:"port"`
	Hostname string `mapstructure:"hostname"`

	HTTPS      bool   `mapstructure:"https"`
	HTTP2      bool   `mapstructure:"http2"`
	Key        string `mapstructure:"key"`
	Cert       string `mapstructure:"cert"`
	PFX        string `mapstructure:"pfx"`
	Passphrase string `mapstructure:"passphrase"`

	// MaxConnections limits simultaneous connections.  Nil means unlimited.
	MaxConnections *int `mapstructure:"max-connections"`

	// KeepAliveTimeout is in milliseconds.  Zero means connections never time out,
	// and nil means the transport default.
	KeepAliveTimeout *int `mapstructure:"keep-alive-timeout"`
}

// NewServerOptions decodes the transport options from a configuration.  Type errors
// are reported as a *devserve.ConfigurationError.
func NewServerOptions(cfg devserve.Config) (so ServerOptions, err error) {
	so.Port = devserve.DefaultPort
	if err = cfg.Decode(&so); err != nil {
		err = &devserve.ConfigurationError{
			Option: "server",
			Reason: err.Error(),
			Err:    err,
		}

		return
	}

	if so.Port < 0 || so.Port > 65535 {
		err = &devserve.ConfigurationError{
			Option: "port",
			Reason: fmt.Sprintf("%d is not a valid port", so.Port),
		}
	}

	return
}

// Binding returns the network binding described by these options.
func (so ServerOptions) Binding() Binding {
	return Binding{
		Hostname: so.Hostname,
		Port:     so.Port,
	}
}

// Credentials returns the TLS credential options.
func (so ServerOptions) Credentials() devservetls.Credentials {
	return devservetls.Credentials{
		Key:        so.Key,
		Cert:       so.Cert,
		PFX:        so.PFX,
		Passphrase: so.Passphrase,
	}
}
