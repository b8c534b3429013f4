// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devservehttp

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"

	"github.com/xmidt-org/devserve/internal/devservereflect"
	"go.uber.org/fx"
	"golang.org/x/net/netutil"
)

// ListenerFactory is a strategy for creating net.Listener instances.  Since any applied
// options may have changed the http.Server instance, this strategy is passed
// that server instance.
//
// The http.Server.Addr field should used as the address of the listener.  If the
// given server has a tls.Config set, the returned listener should create TLS connections
// with that configuration.
type ListenerFactory interface {
	// Listen creates the appropriate net.Listener, binding to a TCP address in
	// the process
	Listen(context.Context, *http.Server) (net.Listener, error)
}

// ListenerFactoryFunc is a closure type that implements ListenerFactory
type ListenerFactoryFunc func(context.Context, *http.Server) (net.Listener, error)

// Listen implements ListenerFactory
func (lff ListenerFactoryFunc) Listen(ctx context.Context, s *http.Server) (net.Listener, error) {
	return lff(ctx, s)
}

// ListenerConstructor is a decorator for net.Listener instances.
type ListenerConstructor func(net.Listener) net.Listener

// ListenerChain is a sequence of ListenerConstructors.  A ListenerChain is immutable,
// and will apply its constructors in order.  The zero value for this type is a valid,
// empty chain that will not decorate anything.
type ListenerChain struct {
	c []ListenerConstructor
}

// NewListenerChain creates a chain from a sequence of constructors.  The constructors
// are always applied in the order presented here.
func NewListenerChain(c ...ListenerConstructor) ListenerChain {
	return ListenerChain{
		c: append([]ListenerConstructor{}, c...),
	}
}

// Then decorates the given listener with all of the constructors
// applied, in the order they were presented to this chain.
func (lc ListenerChain) Then(next net.Listener) net.Listener {
	return devservereflect.Decorate(next, lc.c...)
}

// Factory decorates a ListenerFactory so that the factory's product, net.Listener,
// is decorated with the constructors in this chain.
func (lc ListenerChain) Factory(next ListenerFactory) ListenerFactory {
	if len(lc.c) > 0 {
		return ListenerFactoryFunc(func(ctx context.Context, s *http.Server) (net.Listener, error) {
			listener, err := next.Listen(ctx, s)
			if err == nil {
				listener = lc.Then(listener)
			}

			return listener, err
		})
	}

	return next
}

// LimitConnections returns a ListenerConstructor that allows at most n simultaneous
// connections.  Further connections wait in the kernel's accept queue.
func LimitConnections(n int) ListenerConstructor {
	return func(next net.Listener) net.Listener {
		return netutil.LimitListener(next, n)
	}
}

// DefaultListenerFactory is the default implementation of ListenerFactory.  The
// zero value of this type is a valid factory.
type DefaultListenerFactory struct {
	// ListenConfig is the object used to create the net.Listener
	ListenConfig net.ListenConfig

	// Network is the network to listen on, which must always be a TCP network.
	// If not set, "tcp" is used.
	Network string

	// Chain decorates the TCP listener.  It is applied before any TLS layer,
	// so that its constructors see raw connections.
	Chain ListenerChain
}

// Listen binds to the server's address.  An empty address binds an ephemeral
// loopback port.  If the server has a TLSConfig, the returned listener performs
// TLS handshakes.
func (f DefaultListenerFactory) Listen(ctx context.Context, server *http.Server) (l net.Listener, err error) {
	network := f.Network
	if len(network) == 0 {
		network = "tcp"
	}

	if server.Addr != "" {
		l, err = f.ListenConfig.Listen(ctx, network, server.Addr)
		if err != nil {
			return nil, err
		}
	} else {
		// if address is not defined use loopback
		l, err = f.ListenConfig.Listen(ctx, "tcp", "127.0.0.1:0")
		if err != nil {
			l, err = f.ListenConfig.Listen(ctx, "tcp6", "[::1]:0")
			if err != nil {
				return nil, err
			}
		}
	}

	l = f.Chain.Then(l)
	if server.TLSConfig != nil {
		l = tls.NewListener(l, server.TLSConfig)
	}

	return l, nil
}

// ServerExit is callback function run when the server exits its accept loop.
// A ServerExit function must never panic, or server cleanup will be interrupted.
type ServerExit func()

// ShutdownOnExit returns a ServerExit strategy that calls the supplied
// uber/fx Shutdowner when a server exits.  This ensures that if a given server
// exits its accept loop, the entire fx.App is stopped.
func ShutdownOnExit(shutdowner fx.Shutdowner, opts ...fx.ShutdownOption) ServerExit {
	return func() {
		shutdowner.Shutdown(opts...)
	}
}

// Servable describes the behavior of an object that implements an accept loop.
// *http.Server implements this interface.
type Servable interface {
	// Serve executes an accept loop using the given listener.  This method
	// does not return until the listener is closed.
	Serve(net.Listener) error
}

// Serve executes the given servable's accept loop using the supplied net.Listener.
// This function can be run as a goroutine.
//
// Any onExit functions will be called when the server's accept loop exits.
func Serve(s Servable, l net.Listener, onExit ...ServerExit) error {
	defer func() {
		for _, f := range onExit {
			f()
		}
	}()

	return s.Serve(l)
}

// ServerOnStart returns an fx.Hook.OnStart closure that starts the given server's
// accept loop.
func ServerOnStart(s *http.Server, f ListenerFactory, onExit ...ServerExit) func(context.Context) error {
	return func(ctx context.Context) error {
		listener, err := f.Listen(ctx, s)
		if err != nil {
			return err
		}

		go Serve(s, listener, onExit...)
		return nil
	}
}

// ServerOnStop returns an fx.Hook.OnStop closure that gracefully shuts down
// the given server.
func ServerOnStop(s *http.Server) func(context.Context) error {
	return s.Shutdown
}
