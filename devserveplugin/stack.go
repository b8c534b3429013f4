// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devserveplugin

import (
	"context"
	"fmt"

	"github.com/xmidt-org/devserve"
)

// LoadEvent is the value of a devserve.EventPluginLoad event.
type LoadEvent struct {
	// Reference is the configured reference.
	Reference string

	// Kind is the kind of reference.
	Kind ReferenceKind

	// Type is the type of the plugin created.
	Type string
}

// BuildOptions controls how a Stack is built.
type BuildOptions struct {
	// Loader resolves path references.
	Loader Loader

	// Emit receives diagnostic events, including those relayed from plugins.
	// If unset, events are discarded.
	Emit devserve.Emit
}

type entry struct {
	ref    Reference
	plugin interface{}
}

// Stack is an ordered, immutable collection of plugins.  Stacks are built once
// and never appended to.
type Stack struct {
	entries []entry
	emit    devserve.Emit
}

// Build creates a Stack from references, in order.  Path references are resolved
// with the options' Loader and every plugin is created exactly once.  The first failure
// aborts the build, and the returned error identifies the offending reference.
//
// References given as a Class or an instance are not checked against the plugin
// contract.  Such plugins contribute only the capabilities they implement.
func Build(ctx context.Context, refs []Reference, o BuildOptions) (*Stack, error) {
	s := &Stack{
		entries: make([]entry, 0, len(refs)),
		emit:    o.Emit,
	}

	if s.emit == nil {
		s.emit = devserve.Discard
	}

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p, err := s.create(ref, o.Loader)
		if err != nil {
			return nil, err
		}

		if e, ok := p.(Emitter); ok {
			e.SetEmit(s.relay)
		}

		s.entries = append(s.entries, entry{ref: ref, plugin: p})
		s.emit(devserve.EventPluginLoad, LoadEvent{
			Reference: ref.String(),
			Kind:      ref.Kind(),
			Type:      fmt.Sprintf("%T", p),
		})
	}

	s.emit(devserve.EventStack, s.Names())
	return s, nil
}

// FromConfig returns the stack described by a configuration's stack entry.  If the
// entry already holds a *Stack, that same instance is returned.
func FromConfig(ctx context.Context, cfg devserve.Config, o BuildOptions) (*Stack, error) {
	if s, ok := cfg.Stack().(*Stack); ok {
		return s, nil
	}

	refs, err := References(cfg.Stack())
	if err != nil {
		return nil, err
	}

	return Build(ctx, refs, o)
}

func (s *Stack) create(ref Reference, l Loader) (interface{}, error) {
	switch ref.Kind() {
	case InstanceKind:
		if ref.instance == nil {
			return nil, &devserve.PluginInvalidError{
				Reference: ref.String(),
				Reason:    "nil plugin instance",
			}
		}

		return ref.instance, nil

	case ClassKind:
		p, err := ref.class.New()
		if err != nil {
			return nil, &devserve.PluginInvalidError{
				Reference: ref.String(),
				Reason:    err.Error(),
			}
		}

		return p, nil

	default:
		c, err := l.Load(ref.path)
		if err != nil {
			return nil, err
		}

		p, err := c.New()
		if err != nil {
			return nil, &devserve.PluginInvalidError{
				Reference: ref.String(),
				Reason:    err.Error(),
			}
		}

		return p, nil
	}
}

// relay passes plugin events upward with no transformation.
func (s *Stack) relay(key string, value any) {
	s.emit(key, value)
}

// Len returns the number of plugins in this stack.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Plugins returns the plugins in stack order.
func (s *Stack) Plugins() []interface{} {
	plugins := make([]interface{}, len(s.entries))
	for i, e := range s.entries {
		plugins[i] = e.plugin
	}

	return plugins
}

// Names returns the reference names in stack order.
func (s *Stack) Names() []string {
	names := make([]string, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.ref.String()
	}

	return names
}

// Handlers collects the handlers of every Middleware plugin in stack order.
// Each plugin receives its own shallow copy of cfg.  Nil handlers are dropped.
//
// An error from any plugin stops collection and is returned, identifying the
// plugin.  Panics are not recovered.
func (s *Stack) Handlers(cfg devserve.Config, app App) ([]Handler, error) {
	var handlers []Handler
	for _, e := range s.entries {
		m, ok := e.plugin.(Middleware)
		if !ok {
			continue
		}

		hs, err := m.Middleware(cfg.Clone(), app)
		if err != nil {
			return nil, fmt.Errorf("middleware for plugin [%s] failed: %w", e.ref, err)
		}

		for _, h := range hs {
			if h != nil {
				handlers = append(handlers, h)
			}
		}
	}

	return handlers, nil
}

// OptionDefinitions returns every plugin's declared options, in stack order.
func (s *Stack) OptionDefinitions() (defs []OptionDefinition) {
	for _, e := range s.entries {
		if od, ok := e.plugin.(OptionDefiner); ok {
			for _, d := range od.OptionDefinitions() {
				if len(d.Group) == 0 {
					d.Group = GroupExtension
				}

				defs = append(defs, d)
			}
		}
	}

	return
}

// Descriptions returns "name: description" for each plugin that describes itself.
func (s *Stack) Descriptions() (d []string) {
	for _, e := range s.entries {
		if dr, ok := e.plugin.(Describer); ok {
			d = append(d, e.ref.String()+": "+dr.Description())
		}
	}

	return
}

// Ready invokes each Readier plugin in stack order.  The first error stops
// the sequence and is returned.
func (s *Stack) Ready(ctx context.Context, app App) error {
	for _, e := range s.entries {
		if r, ok := e.plugin.(Readier); ok {
			if err := r.Ready(ctx, app); err != nil {
				return fmt.Errorf("ready for plugin [%s] failed: %w", e.ref, err)
			}
		}
	}

	return nil
}
