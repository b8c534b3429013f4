// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devserveapp

import (
	"context"
	"net/http"
	"os"
	"sync"

	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/xmidt-org/devserve"
	"github.com/xmidt-org/devserve/devservehttp"
	"github.com/xmidt-org/devserve/devserveplugin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Assembler creates servers.  An Assembler holds at most one server at a time.
//
// The zero value is usable:  it reads no stored configuration and logs nothing.
// Its Loader has no Registry, so only plugin files relative to the working
// directory resolve.  Compiled-in plugins require a Loader with a Registry.
type Assembler struct {
	// Defaults are the built-in defaults.  If unset, devserve.Defaults() is used.
	Defaults devserve.Config

	// Stored locates the stored configuration.  If nil, no stored configuration is read.
	Stored *devserve.StoredConfig

	// Loader resolves plugin references given by name or path.
	Loader devserveplugin.Loader

	// Logger is used for the fx container's own events.  If nil, fx output is discarded.
	Logger *zap.Logger

	// Views receive every diagnostic event.  A View found under the configuration's
	// view key is attached after these.
	Views []devserve.View

	// Options are additional fx options bound to each server's app, such as
	// profiling tied to the server's lifecycle.
	Options []fx.Option

	lock   sync.Mutex
	app    *fx.App
	server *Server
}

// Create assembles and starts a server.  The steps are, in order:
//
//   - resolve the configuration from defaults, stored configuration, and overrides
//   - attach views and emit the resolved configuration
//   - select the transport variant and create the *http.Server
//   - build the plugin stack
//   - bind the stack's handlers in front of the terminal router
//   - listen, then invoke any Ready plugins
//
// A failure at any step aborts the remaining steps, and no socket is left bound.
// Calling Create while this Assembler holds a server returns devserve.ErrAlreadyStarted.
func (a *Assembler) Create(ctx context.Context, overrides devserve.Config) (*Server, error) {
	a.lock.Lock()
	defer a.lock.Unlock()

	if a.app != nil {
		return nil, devserve.ErrAlreadyStarted
	}

	s, err := a.assemble(ctx, overrides)
	if err != nil {
		return nil, err
	}

	app := fx.New(
		a.fxLogger(),
		s.Module(),
		fx.Options(a.Options...),
	)

	if err := app.Err(); err != nil {
		return nil, err
	}

	if err := app.Start(ctx); err != nil {
		return nil, err
	}

	a.app = app
	a.server = s
	return s, nil
}

// Server returns the server currently held, if any.
func (a *Assembler) Server() *Server {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.server
}

// Done returns a channel that receives a signal when the held server's app is
// shut down, either by an OS signal or by the accept loop exiting.  If no server is
// held, this method returns nil.
func (a *Assembler) Done() <-chan os.Signal {
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.app == nil {
		return nil
	}

	return a.app.Done()
}

// Stop gracefully stops the held server and releases it, after which Create
// may be called again.  Stop does nothing if no server is held.
func (a *Assembler) Stop(ctx context.Context) error {
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.app == nil {
		return nil
	}

	err := a.app.Stop(ctx)
	a.app = nil
	a.server = nil
	return err
}

func (a *Assembler) fxLogger() fx.Option {
	if a.Logger == nil {
		return fx.NopLogger
	}

	return fx.WithLogger(func() fxevent.Logger {
		return &fxevent.ZapLogger{Logger: a.Logger}
	})
}

// resolve merges the configuration sources.
func (a *Assembler) resolve(overrides devserve.Config) (devserve.Config, error) {
	defaults := a.Defaults
	if defaults == nil {
		defaults = devserve.Defaults()
	}

	var stored devserve.Config
	if a.Stored != nil {
		var err error
		if stored, err = a.Stored.Load(); err != nil {
			return nil, err
		}
	}

	return devserve.ResolveConfig(defaults, stored, overrides), nil
}

// assemble performs every step of Create short of listening.
func (a *Assembler) assemble(ctx context.Context, overrides devserve.Config) (*Server, error) {
	cfg, err := a.resolve(overrides)
	if err != nil {
		return nil, err
	}

	diagnostics := devserve.NewDiagnostics(a.Views...)
	if v, ok := cfg.View().(devserve.View); ok {
		diagnostics.Attach(v)
	}

	diagnostics.SetConfig(cfg)
	diagnostics.Emit(devserve.EventConfig, cfg)

	s := &Server{
		config:      cfg,
		diagnostics: diagnostics,
		router:      mux.NewRouter(),
	}

	s.variant, err = devservehttp.SelectConfig(cfg)
	if err != nil {
		return nil, err
	}

	s.server, err = s.variant.NewServer(nil, diagnostics.Emitter())
	if err != nil {
		return nil, err
	}

	s.stack, err = devserveplugin.FromConfig(ctx, cfg, devserveplugin.BuildOptions{
		Loader: a.Loader,
		Emit:   diagnostics.Emitter(),
	})

	if err != nil {
		return nil, err
	}

	s.server.Handler, err = newHandler(s)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// newHandler composes the stack's handlers, in stack order, in front of the router.
func newHandler(s *Server) (http.Handler, error) {
	handlers, err := s.stack.Handlers(s.config, s)
	if err != nil {
		return nil, err
	}

	chain := alice.New(Recover(s.Emit))
	for _, h := range handlers {
		chain = chain.Append(alice.Constructor(h))
	}

	return chain.Then(s.router), nil
}
