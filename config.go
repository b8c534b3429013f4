// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devserve

import (
	"maps"
	"reflect"
	"slices"
	"strings"
)

const (
	// StackKey is the normalized configuration key holding the plugin stack.
	StackKey = "stack"

	// ViewKey is the normalized configuration key holding the diagnostics view.
	ViewKey = "view"

	// DefaultPort is the port used when no port is configured.
	DefaultPort = 8000
)

// NormalizeKey produces the canonical form of a configuration key.  Keys are
// compared case-insensitively and without regard to dashes or underscores, so
// that "maxConnections", "max-connections", "max_connections", and the lowercased
// "maxconnections" produced by viper all refer to the same option.
func NormalizeKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range strings.ToLower(key) {
		if r != '-' && r != '_' {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// Config is a resolved or partial configuration:  a mapping from normalized option
// names to values.  A Config is treated as an immutable value.  Operations in this
// package never modify a Config passed to them and instead return new values.
type Config map[string]any

// NewConfig creates a Config from an arbitrary map, normalizing keys at every level
// of nesting.  Values other than nested mappings are carried over by reference.
// When several keys normalize to the same key, the last in sorted order wins.
func NewConfig(m map[string]any) Config {
	c := make(Config, len(m))
	for _, k := range sortedKeys(m) {
		v := m[k]
		if nested, ok := asMapping(v); ok {
			v = map[string]any(NewConfig(nested))
		}

		c[NormalizeKey(k)] = v
	}

	return c
}

// Defaults returns the built-in defaults that every resolved configuration starts from.
func Defaults() Config {
	return Config{
		"port":   DefaultPort,
		StackKey: []any{},
	}
}

// Get returns the value for a key, which need not be normalized.
func (c Config) Get(key string) (v any, ok bool) {
	v, ok = c[NormalizeKey(key)]
	return
}

// IsSet tests if a key has a non-nil value in this configuration.
func (c Config) IsSet(key string) bool {
	v, ok := c.Get(key)
	return ok && v != nil
}

// Stack returns the raw stack entry.  For a resolved configuration, this is always
// a sequence of plugin references or an already built stack.
func (c Config) Stack() any {
	return c[StackKey]
}

// View returns the raw view entry, which may be nil.
func (c Config) View() any {
	return c[ViewKey]
}

// Clone returns a shallow copy of this configuration.
func (c Config) Clone() Config {
	clone := make(Config, len(c))
	for k, v := range c {
		clone[k] = v
	}

	return clone
}

// With returns a shallow copy of this configuration with one key set.
func (c Config) With(key string, v any) Config {
	clone := c.Clone()
	clone[NormalizeKey(key)] = v
	return clone
}

// Merge reconciles any number of configuration sources, applied left to right with
// later sources taking precedence.  For each key:
//
//   - two mappings are merged recursively with these same rules
//   - a non-empty incoming sequence replaces the accumulated value in full
//   - an empty incoming sequence never erases an accumulated value
//   - an incoming sequence is adopted as is when nothing has accumulated
//   - anything else is last-write-wins
//
// Sequences and other non-mapping values are never copied, so callers holding a
// reference, such as an already built stack, see the same instance afterward.
// Merge never fails.  Malformed values simply overwrite.
//
// Within one source, keys are applied in sorted order.  A source that spells the
// same key more than once, such as "max-connections" and "maxConnections", always
// resolves to the spelling that sorts last.
func Merge(sources ...Config) Config {
	merged := make(Config)
	for _, src := range sources {
		for _, k := range sortedKeys(src) {
			v := src[k]
			k = NormalizeKey(k)
			if acc, exists := merged[k]; exists {
				merged[k] = mergeValue(acc, v)
			} else {
				merged[k] = mergeValue(nil, v)
			}
		}
	}

	return merged
}

// ResolveConfig merges defaults, stored configuration, and caller overrides.  The
// result always has a stack entry.
func ResolveConfig(defaults, stored, overrides Config) Config {
	resolved := Merge(defaults, stored, overrides)
	if resolved[StackKey] == nil {
		resolved[StackKey] = []any{}
	}

	return resolved
}

func mergeValue(acc, in any) any {
	if inMap, ok := asMapping(in); ok {
		accMap, _ := asMapping(acc)
		return mergeMappings(accMap, inMap)
	}

	if isSequence(in) {
		switch {
		case acc == nil:
			return in

		case reflect.ValueOf(in).Len() == 0:
			return acc

		default:
			return in
		}
	}

	return in
}

// mergeMappings always produces a new map, so that nested mappings in the
// sources are never modified by subsequent merges.
func mergeMappings(acc, in map[string]any) map[string]any {
	merged := make(map[string]any, len(acc)+len(in))
	for _, k := range sortedKeys(acc) {
		merged[NormalizeKey(k)] = acc[k]
	}

	for _, k := range sortedKeys(in) {
		v := in[k]
		k = NormalizeKey(k)
		if existing, ok := merged[k]; ok {
			merged[k] = mergeValue(existing, v)
		} else {
			merged[k] = mergeValue(nil, v)
		}
	}

	return merged
}

func sortedKeys[M ~map[string]any](m M) []string {
	return slices.Sorted(maps.Keys(m))
}

// asMapping tests if v is a plain key/value mapping.  Only maps with string keys
// qualify.  Structs, pointers, and other class-like values are never mappings.
func asMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case nil:
		return nil, false

	case map[string]any:
		return m, true

	case Config:
		return m, true
	}

	mv := reflect.ValueOf(v)
	if mv.Kind() != reflect.Map || mv.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	m := make(map[string]any, mv.Len())
	for iter := mv.MapRange(); iter.Next(); {
		m[iter.Key().String()] = iter.Value().Interface()
	}

	return m, true
}

// isSequence tests if v is an ordered sequence.  Byte slices are treated as scalars.
func isSequence(v any) bool {
	if v == nil {
		return false
	}

	t := reflect.TypeOf(v)
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return t.Elem().Kind() != reflect.Uint8

	default:
		return false
	}
}
