// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devservehttp

import (
	"fmt"
	"time"

	"github.com/xmidt-org/devserve"
	"go.uber.org/multierr"
)

// Select decides the transport variant.  The rules are applied in order and the
// first match wins:
//
//   - exactly one of key and cert is an ErrInvalidTLSConfig configuration error
//   - both https and pfx is an ErrConflictingTLSConfig configuration error
//   - http2 selects HTTP2, and maxConnections or keepAliveTimeout is an error
//   - https, a key and cert pair, or pfx selects TLS
//   - otherwise, Plain is selected
//
// Every returned error is, or aggregates, *devserve.ConfigurationError values.
func Select(so ServerOptions) (Variant, error) {
	hasKey, hasCert := len(so.Key) > 0, len(so.Cert) > 0
	switch {
	case hasKey && !hasCert:
		return nil, &devserve.ConfigurationError{
			Option: "cert",
			Reason: "key was supplied without cert",
			Err:    devserve.ErrInvalidTLSConfig,
		}

	case hasCert && !hasKey:
		return nil, &devserve.ConfigurationError{
			Option: "key",
			Reason: "cert was supplied without key",
			Err:    devserve.ErrInvalidTLSConfig,
		}

	case so.HTTPS && len(so.PFX) > 0:
		return nil, &devserve.ConfigurationError{
			Option: "https,pfx",
			Err:    devserve.ErrConflictingTLSConfig,
		}

	case so.HTTP2:
		var err error
		if so.MaxConnections != nil {
			err = multierr.Append(err, unsupported("maxConnections"))
		}

		if so.KeepAliveTimeout != nil {
			err = multierr.Append(err, unsupported("keepAliveTimeout"))
		}

		if err != nil {
			return nil, err
		}

		return HTTP2{
			Binding:     so.Binding(),
			Credentials: so.Credentials(),
		}, nil
	}

	plain, err := newPlain(so)
	switch {
	case err != nil:
		return nil, err

	case so.HTTPS || hasKey || len(so.PFX) > 0:
		return TLS{
			Plain:       plain,
			Credentials: so.Credentials(),
		}, nil

	default:
		return plain, nil
	}
}

func unsupported(option string) error {
	return &devserve.ConfigurationError{
		Option: option,
		Reason: fmt.Sprintf("%s is not supported by the http2 transport", option),
		Err:    devserve.ErrUnsupportedOption,
	}
}

func newPlain(so ServerOptions) (p Plain, err error) {
	p.Binding = so.Binding()
	if so.MaxConnections != nil {
		if *so.MaxConnections < 1 {
			err = multierr.Append(err, &devserve.ConfigurationError{
				Option: "maxConnections",
				Reason: fmt.Sprintf("%d must be positive", *so.MaxConnections),
			})
		} else {
			mc := *so.MaxConnections
			p.MaxConnections = &mc
		}
	}

	if so.KeepAliveTimeout != nil {
		if *so.KeepAliveTimeout < 0 {
			err = multierr.Append(err, &devserve.ConfigurationError{
				Option: "keepAliveTimeout",
				Reason: fmt.Sprintf("%d must not be negative", *so.KeepAliveTimeout),
			})
		} else {
			kat := time.Duration(*so.KeepAliveTimeout) * time.Millisecond
			p.KeepAliveTimeout = &kat
		}
	}

	return
}

// SelectConfig decodes the transport options of a configuration, then selects a variant.
func SelectConfig(cfg devserve.Config) (Variant, error) {
	so, err := NewServerOptions(cfg)
	if err != nil {
		return nil, err
	}

	return Select(so)
}
