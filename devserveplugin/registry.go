// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devserveplugin

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds compiled-in plugin classes by name.  It is safe for concurrent use.
type Registry struct {
	lock    sync.RWMutex
	classes map[string]Class
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		classes: make(map[string]Class),
	}
}

// Register adds a class under its name.  A class must satisfy the plugin contract
// to be registered, and names may not be registered twice.
func (r *Registry) Register(c Class) error {
	if !c.Satisfies() {
		return fmt.Errorf("class [%s] of type %s implements neither Middleware nor Readier", c.Name(), c.Type())
	}

	r.lock.Lock()
	defer r.lock.Unlock()
	if _, exists := r.classes[c.Name()]; exists {
		return fmt.Errorf("class [%s] is already registered", c.Name())
	}

	if r.classes == nil {
		r.classes = make(map[string]Class)
	}

	r.classes[c.Name()] = c
	return nil
}

// RegisterFunc is a convenience for creating and registering a Class.
func (r *Registry) RegisterFunc(name string, ctor interface{}) error {
	c, err := NewClass(name, ctor)
	if err == nil {
		err = r.Register(c)
	}

	return err
}

// Lookup returns the class registered under name.  A nil Registry is empty.
func (r *Registry) Lookup(name string) (c Class, ok bool) {
	if r != nil {
		r.lock.RLock()
		c, ok = r.classes[name]
		r.lock.RUnlock()
	}

	return
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() (names []string) {
	if r == nil {
		return
	}

	r.lock.RLock()
	names = make([]string, 0, len(r.classes))
	for n := range r.classes {
		names = append(names, n)
	}

	r.lock.RUnlock()
	sort.Strings(names)
	return
}
