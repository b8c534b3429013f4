// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devserveplugin

import (
	"context"
	"net/http"
	"reflect"

	"github.com/gorilla/mux"
	"github.com/xmidt-org/devserve"
)

// Handler is a request handler contributed by a plugin.  It decorates the next
// handler in the stack, which it may or may not invoke.
type Handler func(http.Handler) http.Handler

// App is the handle passed to plugins.  It exposes the server being assembled.
type App interface {
	// Config returns the resolved configuration.
	Config() devserve.Config

	// Server returns the server that will carry the stack's handlers.
	Server() *http.Server

	// Router returns the terminal router.  Requests not answered by any
	// handler in the stack fall through to this router, which answers
	// with a 404 when no route matches.
	Router() *mux.Router

	// Emit sends a diagnostic event to the application's views.
	Emit(key string, value any)
}

// Middleware is the primary plugin capability.  The config passed is a private
// copy of the resolved configuration.  Nil handlers in the returned slice are ignored.
type Middleware interface {
	Middleware(config devserve.Config, app App) ([]Handler, error)
}

// OptionDefiner is implemented by plugins that recognize their own options.
type OptionDefiner interface {
	OptionDefinitions() []OptionDefinition
}

// Describer is implemented by plugins that have a human-readable description.
type Describer interface {
	Description() string
}

// Readier is implemented by plugins that need to act once the server is listening.
type Readier interface {
	Ready(ctx context.Context, app App) error
}

// Emitter is implemented by plugins that produce their own diagnostic events.
// The stack supplies an Emit that relays events upward unchanged.
type Emitter interface {
	SetEmit(devserve.Emit)
}

var (
	middlewareType = reflect.TypeOf((*Middleware)(nil)).Elem()
	readierType    = reflect.TypeOf((*Readier)(nil)).Elem()
)

// Satisfies tests if values of type t fulfill the plugin contract, i.e. implement
// either Middleware or Readier.  No value is created.
func Satisfies(t reflect.Type) bool {
	if t == nil {
		return false
	}

	return t.Implements(middlewareType) || t.Implements(readierType)
}

// OptionType describes the kind of value an option accepts.
type OptionType string

const (
	String   OptionType = "string"
	Bool     OptionType = "bool"
	Int      OptionType = "int"
	Duration OptionType = "duration"
)

// Option groups, used only for usage text.
const (
	GroupCore      = "core"
	GroupServer    = "server"
	GroupTLS       = "tls"
	GroupExtension = "extension"
)

// OptionDefinition declares an option recognized by a plugin.
type OptionDefinition struct {
	Name        string
	Type        OptionType
	Multiple    bool
	Description string

	// Group is the usage section for this option.  GroupExtension is used if unset.
	Group string
}

// Key returns the normalized configuration key for this option.
func (od OptionDefinition) Key() string {
	return devserve.NormalizeKey(od.Name)
}
