// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devserveapp

import (
	"context"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/xmidt-org/devserve"
	"github.com/xmidt-org/devserve/devservehttp"
	"github.com/xmidt-org/devserve/devserveplugin"
	"go.uber.org/fx"
)

// ListeningEvent is the value of a devserve.EventServerListening event.
type ListeningEvent struct {
	// Variant is the transport variant, e.g. "plain" or "http2".
	Variant string

	// Addr is the address the socket is bound to.
	Addr string

	// URLs are the base URLs the server answers on.
	URLs []string
}

// Server is an assembled server.  It is the handle passed to plugins.
type Server struct {
	config      devserve.Config
	diagnostics *devserve.Diagnostics
	variant     devservehttp.Variant
	server      *http.Server
	router      *mux.Router
	stack       *devserveplugin.Stack

	lock sync.Mutex
	addr net.Addr
	urls []string
}

var _ devserveplugin.App = (*Server)(nil)

// Config returns the resolved configuration.
func (s *Server) Config() devserve.Config { return s.config }

// Server returns the underlying *http.Server.
func (s *Server) Server() *http.Server { return s.server }

// Router returns the terminal router.
func (s *Server) Router() *mux.Router { return s.router }

// Stack returns the plugin stack bound to this server.
func (s *Server) Stack() *devserveplugin.Stack { return s.stack }

// Variant returns the selected transport variant.
func (s *Server) Variant() devservehttp.Variant { return s.variant }

// Emit sends an event to this server's views.
func (s *Server) Emit(key string, value any) {
	s.diagnostics.Emit(key, value)
}

// Addr returns the address of the listening socket, or nil if the server has
// not started.
func (s *Server) Addr() net.Addr {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.addr
}

// URLs returns the base URLs this server answers on.  The result is empty until
// the server has started.
func (s *Server) URLs() []string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]string(nil), s.urls...)
}

// Module returns the fx.Option that binds this server to an fx.App lifecycle.  The
// server listens when the app starts and shuts down gracefully when the app stops.
// If the accept loop exits on its own, the enclosing app is shut down.
func (s *Server) Module() fx.Option {
	return fx.Options(
		fx.Supply(s),
		fx.Invoke(s.bind),
	)
}

func (s *Server) bind(l fx.Lifecycle, sh fx.Shutdowner) {
	l.Append(fx.Hook{
		OnStart: s.onStart(sh),
		OnStop:  devservehttp.ServerOnStop(s.server),
	})
}

func (s *Server) onStart(sh fx.Shutdowner) func(context.Context) error {
	start := devservehttp.ServerOnStart(
		s.server,
		devservehttp.NewListenerChain(s.bound).Factory(s.variant),
		s.closed,
		devservehttp.ShutdownOnExit(sh),
	)

	return func(ctx context.Context) error {
		if err := start(ctx); err != nil {
			return err
		}

		if err := s.stack.Ready(ctx, s); err != nil {
			s.server.Close()
			return err
		}

		return nil
	}
}

// bound records the address of the listener before the accept loop starts.
func (s *Server) bound(l net.Listener) net.Listener {
	s.listening(l.Addr())
	return l
}

func (s *Server) listening(addr net.Addr) {
	urls := listenURLs(s.scheme(), s.variant, addr)

	s.lock.Lock()
	s.addr = addr
	s.urls = urls
	s.lock.Unlock()

	s.Emit(devserve.EventServerListening, ListeningEvent{
		Variant: s.variant.Kind().String(),
		Addr:    addr.String(),
		URLs:    urls,
	})
}

func (s *Server) closed() {
	s.Emit(devserve.EventServerClose, s.Addr().String())
}

func (s *Server) scheme() string {
	if s.server.TLSConfig != nil {
		return "https"
	}

	return "http"
}

// listenURLs produces the base URLs for a bound socket.  A socket bound to every
// interface answers on each IPv4 address of the host.
func listenURLs(scheme string, v devservehttp.Variant, addr net.Addr) (urls []string) {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return []string{scheme + "://" + addr.String()}
	}

	if hostname, _, _ := net.SplitHostPort(v.Address()); len(hostname) > 0 {
		return []string{scheme + "://" + net.JoinHostPort(hostname, port)}
	}

	for _, ip := range interfaceIPv4() {
		urls = append(urls, scheme+"://"+net.JoinHostPort(ip, port))
	}

	if len(urls) == 0 {
		urls = append(urls, scheme+"://"+net.JoinHostPort(host, port))
	}

	return
}

func interfaceIPv4() (ips []string) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return
	}

	for _, a := range addrs {
		if ipnet, ok := a.(*net.IPNet); ok {
			if ip4 := ipnet.IP.To4(); ip4 != nil {
				ips = append(ips, ip4.String())
			}
		}
	}

	return
}
