// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devserve

import "sync"

// Well-known diagnostic event keys emitted by this module.
const (
	EventConfig          = "config"
	EventPluginLoad      = "stack.plugin.load"
	EventStack           = "stack.build"
	EventServerConfig    = "server.config"
	EventServerListening = "server.listening"
	EventServerError     = "server.error"
	EventServerClose     = "server.close"
	EventSocketNew       = "server.socket.new"
	EventSocketClose     = "server.socket.close"
	EventOptionIgnored   = "option.ignored"
)

// Event is a named diagnostic datum.  Events exist for observability only and
// never drive control flow.
type Event struct {
	Key   string
	Value any
}

// Emit is the single diagnostics channel threaded through construction.  Components
// receive an Emit and call it synchronously, in the causal order of their operations.
type Emit func(key string, value any)

// Discard is an Emit that drops every event.
func Discard(string, any) {}

// View receives every diagnostic event together with the resolved configuration.
type View interface {
	Write(key string, value any, cfg Config)
}

// ViewFunc is a closure type that implements View.
type ViewFunc func(string, any, Config)

// Write implements View.
func (vf ViewFunc) Write(key string, value any, cfg Config) {
	vf(key, value, cfg)
}

// Diagnostics fans events out to attached views.  It is safe for concurrent use,
// as connection events arrive from the server's goroutines.  Views are invoked
// under a lock, so each view sees events in a single total order.
//
// A nil *Diagnostics is valid and discards everything.
type Diagnostics struct {
	lock  sync.Mutex
	cfg   Config
	views []View
}

// NewDiagnostics creates a Diagnostics with an initial set of views.  Nil views are skipped.
func NewDiagnostics(views ...View) *Diagnostics {
	d := new(Diagnostics)
	for _, v := range views {
		d.Attach(v)
	}

	return d
}

// Attach adds a view.  Events already emitted are not replayed.
func (d *Diagnostics) Attach(v View) {
	if d == nil || v == nil {
		return
	}

	d.lock.Lock()
	d.views = append(d.views, v)
	d.lock.Unlock()
}

// SetConfig establishes the configuration passed to views along with each event.
func (d *Diagnostics) SetConfig(cfg Config) {
	if d == nil {
		return
	}

	d.lock.Lock()
	d.cfg = cfg
	d.lock.Unlock()
}

// Emit dispatches an event to every attached view, in attachment order.
func (d *Diagnostics) Emit(key string, value any) {
	if d == nil {
		return
	}

	d.lock.Lock()
	defer d.lock.Unlock()
	for _, v := range d.views {
		v.Write(key, value, d.cfg)
	}
}

// Emitter returns this instance's Emit method as an Emit closure.  For a nil
// Diagnostics, Discard is returned.
func (d *Diagnostics) Emitter() Emit {
	if d == nil {
		return Discard
	}

	return d.Emit
}
