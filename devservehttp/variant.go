// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devservehttp

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/xmidt-org/devserve"
	"github.com/xmidt-org/devserve/devservetls"
	"golang.org/x/net/http2"
)

// Kind identifies a transport variant.
type Kind int

const (
	KindPlain Kind = iota
	KindTLS
	KindHTTP2
)

// String returns the option-style name of this kind.
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"

	case KindTLS:
		return "tls"

	case KindHTTP2:
		return "http2"

	default:
		return "unknown"
	}
}

// ServerFactory creates the *http.Server for a variant.  The emit closure receives
// the variant's server.config event before the server is returned, along with
// connection and error events for the server's lifetime.
type ServerFactory interface {
	NewServer(h http.Handler, emit devserve.Emit, opts ...Option[http.Server]) (*http.Server, error)
}

// Variant is the transport decision produced by Select.
type Variant interface {
	ServerFactory
	ListenerFactory

	// Kind is the transport variant.
	Kind() Kind

	// Address is the host:port the server binds to.
	Address() string

	// Settings are the transport settings that differ from their defaults.
	Settings() map[string]any
}

// Binding is the network address a server binds to.
type Binding struct {
	// Hostname is the interface to bind.  Empty binds every interface.
	Hostname string

	// Port is the TCP port.  Zero binds an ephemeral port.
	Port int
}

// Address returns the host:port form of this binding.
func (b Binding) Address() string {
	return net.JoinHostPort(b.Hostname, strconv.Itoa(b.Port))
}

func (b Binding) settings(s map[string]any) {
	if len(b.Hostname) > 0 {
		s["hostname"] = b.Hostname
	}

	if b.Port != devserve.DefaultPort {
		s["port"] = b.Port
	}
}

// Plain is the unencrypted HTTP/1.1 variant.
type Plain struct {
	Binding

	// MaxConnections limits simultaneous connections.  Nil means unlimited.
	MaxConnections *int

	// KeepAliveTimeout is the idle timeout for keep-alive connections.  A nil
	// value uses the transport default, and zero means never time out.
	KeepAliveTimeout *time.Duration
}

// Kind returns KindPlain.
func (p Plain) Kind() Kind { return KindPlain }

// Settings implements Variant.
func (p Plain) Settings() map[string]any {
	s := map[string]any{
		"variant": p.Kind().String(),
	}

	p.Binding.settings(s)
	if p.MaxConnections != nil {
		s["maxConnections"] = *p.MaxConnections
	}

	if p.KeepAliveTimeout != nil {
		s["keepAliveTimeout"] = *p.KeepAliveTimeout
	}

	return s
}

// options returns the server options derived from this variant.
func (p Plain) options() Options[http.Server] {
	var o Options[http.Server]
	if p.KeepAliveTimeout != nil {
		o = append(o, IdleTimeout(*p.KeepAliveTimeout))
	}

	return o
}

// NewServer implements ServerFactory.
func (p Plain) NewServer(h http.Handler, emit devserve.Emit, opts ...Option[http.Server]) (*http.Server, error) {
	return newServer(p, h, emit, append(p.options(), opts...)...)
}

// Listen implements ListenerFactory.
func (p Plain) Listen(ctx context.Context, s *http.Server) (net.Listener, error) {
	return p.listenerFactory().Listen(ctx, s)
}

func (p Plain) listenerFactory() DefaultListenerFactory {
	var f DefaultListenerFactory
	if p.MaxConnections != nil {
		f.Chain = NewListenerChain(LimitConnections(*p.MaxConnections))
	}

	return f
}

// TLS is the HTTPS variant over HTTP/1.1.
type TLS struct {
	Plain
	Credentials devservetls.Credentials
}

// Kind returns KindTLS.
func (t TLS) Kind() Kind { return KindTLS }

// Settings implements Variant.
func (t TLS) Settings() map[string]any {
	s := t.Plain.Settings()
	s["variant"] = t.Kind().String()
	credentialSettings(t.Credentials, s)
	return s
}

// NewServer implements ServerFactory.
func (t TLS) NewServer(h http.Handler, emit devserve.Emit, opts ...Option[http.Server]) (*http.Server, error) {
	tc, err := (&devservetls.Config{Credentials: t.Credentials}).New()
	if err != nil {
		return nil, credentialError(t.Credentials, err)
	}

	return newServer(t, h, emit, append(t.options(), append(opts, TLSConfig(tc))...)...)
}

// Listen implements ListenerFactory.
func (t TLS) Listen(ctx context.Context, s *http.Server) (net.Listener, error) {
	return t.listenerFactory().Listen(ctx, s)
}

// HTTP2 is the HTTPS variant that negotiates h2, falling back to HTTP/1.1.
// Its transport has no connection limit or keep-alive controls.
type HTTP2 struct {
	Binding
	Credentials devservetls.Credentials
}

// Kind returns KindHTTP2.
func (h2 HTTP2) Kind() Kind { return KindHTTP2 }

// Settings implements Variant.
func (h2 HTTP2) Settings() map[string]any {
	s := map[string]any{
		"variant": h2.Kind().String(),
	}

	h2.Binding.settings(s)
	credentialSettings(h2.Credentials, s)
	return s
}

// NewServer implements ServerFactory.
func (h2 HTTP2) NewServer(h http.Handler, emit devserve.Emit, opts ...Option[http.Server]) (*http.Server, error) {
	tc, err := (&devservetls.Config{
		Credentials: h2.Credentials,
		NextProtos:  []string{http2.NextProtoTLS, "http/1.1"},
	}).New()

	if err != nil {
		return nil, credentialError(h2.Credentials, err)
	}

	opts = append(opts, TLSConfig(tc), OptionFunc[http.Server](func(s *http.Server) error {
		return http2.ConfigureServer(s, new(http2.Server))
	}))

	return newServer(h2, h, emit, opts...)
}

// Listen implements ListenerFactory.
func (h2 HTTP2) Listen(ctx context.Context, s *http.Server) (net.Listener, error) {
	return DefaultListenerFactory{}.Listen(ctx, s)
}

func credentialSettings(c devservetls.Credentials, s map[string]any) {
	switch c.Source() {
	case devservetls.SourcePFX:
		s["pfx"] = c.PFX

	case devservetls.SourceKeyPair:
		s["key"] = c.Key
		s["cert"] = c.Cert
	}
}

// credentialError reports a failure to load credentials against the options that named them.
func credentialError(c devservetls.Credentials, err error) error {
	option := "https"
	switch c.Source() {
	case devservetls.SourcePFX:
		option = "pfx"

	case devservetls.SourceKeyPair:
		option = "key,cert"
	}

	return &devserve.ConfigurationError{
		Option: option,
		Reason: err.Error(),
		Err:    err,
	}
}

// newServer creates the server common to all variants, emitting the variant's
// settings first.
func newServer(v Variant, h http.Handler, emit devserve.Emit, opts ...Option[http.Server]) (*http.Server, error) {
	if emit == nil {
		emit = devserve.Discard
	}

	emit(devserve.EventServerConfig, v.Settings())
	s := &http.Server{
		Addr:              v.Address(),
		Handler:           h,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
	}

	base := Options[http.Server]{
		ConnStateEvents(emit),
		ErrorEvents(emit),
	}

	if _, err := ApplyOptions(s, append(base, opts...)...); err != nil {
		return nil, err
	}

	return s, nil
}
