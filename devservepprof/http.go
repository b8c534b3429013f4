// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devservepprof

import (
	"net/http/pprof"
	rpprof "runtime/pprof"
	"strings"

	"github.com/gorilla/mux"
	"github.com/xmidt-org/devserve"
	"github.com/xmidt-org/devserve/devserveplugin"
)

const (
	// Name is the name of the pprof plugin, without prefix.
	Name = "pprof"

	// DefaultPathPrefix is used as the path prefix for HTTP pprof handlers
	// when no pprof-prefix option is supplied.
	DefaultPathPrefix = "/debug/pprof"

	// EventMount is emitted with the path prefix once the pprof routes are mapped.
	EventMount = "pprof.mount"
)

// ConfigureRoutes adds the various pprof routes to a *mux.Router.  This
// function can be used as a standalone mechanism for adding pprof routes
// to any router.
//
// The typical way to use this function is to call it against a Subrouter, e.g.:
//
//	ConfigureRoutes(router.PathPrefix("/foo/").Subrouter())
//
// This function does not map pprof.Index for a path prefix with no trailing
// slash.  Mount handles that case.
func ConfigureRoutes(r *mux.Router) {
	r.Path("/").HandlerFunc(pprof.Index)
	r.Path("/cmdline").HandlerFunc(pprof.Cmdline)
	r.Path("/profile").HandlerFunc(pprof.Profile)
	r.Path("/symbol").HandlerFunc(pprof.Symbol)
	r.Path("/trace").HandlerFunc(pprof.Trace)

	// gorilla/mux matches more strictly than net/http.ServeMux, so each
	// profile needs its own route
	for _, p := range rpprof.Profiles() {
		r.Path("/" + p.Name()).HandlerFunc(pprof.Index)
	}
}

// Mount maps every pprof route under a path prefix and returns the normalized
// prefix.  The empty prefix means DefaultPathPrefix, and "/" maps the routes at the root.
func Mount(r *mux.Router, prefix string) string {
	if len(prefix) == 0 {
		prefix = DefaultPathPrefix
	}

	prefix = strings.TrimRight(prefix, "/")
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}

	// mapping to "" is valid when prefix was "/"
	if prefix != "/" {
		r.HandleFunc(prefix, pprof.Index)
	}

	ConfigureRoutes(r.PathPrefix(strings.TrimSuffix(prefix, "/") + "/").Subrouter())
	return prefix
}

// Plugin maps the pprof routes onto the server's terminal router.  It contributes
// no handlers of its own, so requests reach the routes only when every handler
// earlier in the stack passes them along.
type Plugin struct{}

// New creates the pprof plugin.
func New() *Plugin {
	return new(Plugin)
}

// Description implements devserveplugin.Describer.
func (p *Plugin) Description() string {
	return "serves runtime profiling data"
}

// OptionDefinitions implements devserveplugin.OptionDefiner.
func (p *Plugin) OptionDefinitions() []devserveplugin.OptionDefinition {
	return []devserveplugin.OptionDefinition{
		{Name: "pprof-prefix", Type: devserveplugin.String, Description: "the path prefix for profiling routes (default " + DefaultPathPrefix + ")"},
	}
}

// Middleware implements devserveplugin.Middleware.
func (p *Plugin) Middleware(cfg devserve.Config, app devserveplugin.App) ([]devserveplugin.Handler, error) {
	var o struct {
		Prefix string `mapstructure:"pprof-prefix"`
	}

	if err := cfg.Decode(&o); err != nil {
		return nil, &devserve.ConfigurationError{Option: "pprof-prefix", Reason: err.Error(), Err: err}
	}

	app.Emit(EventMount, Mount(app.Router(), o.Prefix))
	return nil, nil
}

// Register adds the pprof plugin to a registry.
func Register(r *devserveplugin.Registry) error {
	return r.RegisterFunc(devserveplugin.DefaultPrefix+Name, New)
}
