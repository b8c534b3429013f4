// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devservetest

import (
	"sync"
	"time"

	"github.com/xmidt-org/devserve"
)

// Recorder is a devserve.View that keeps every event it receives.  It is safe
// for concurrent use.
type Recorder struct {
	lock   sync.Mutex
	events []devserve.Event
	cfg    devserve.Config
	signal chan struct{}
}

var _ devserve.View = (*Recorder)(nil)

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		signal: make(chan struct{}, 1),
	}
}

// Write implements devserve.View.
func (r *Recorder) Write(key string, value any, cfg devserve.Config) {
	r.lock.Lock()
	r.events = append(r.events, devserve.Event{Key: key, Value: value})
	r.cfg = cfg
	r.lock.Unlock()

	select {
	case r.signal <- struct{}{}:
	default:
	}
}

// Emit allows this Recorder to be used directly as a devserve.Emit.
func (r *Recorder) Emit(key string, value any) {
	r.Write(key, value, nil)
}

// Events returns a copy of the recorded events, in order.
func (r *Recorder) Events() []devserve.Event {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]devserve.Event(nil), r.events...)
}

// Keys returns the keys of the recorded events, in order.
func (r *Recorder) Keys() (keys []string) {
	for _, e := range r.Events() {
		keys = append(keys, e.Key)
	}

	return
}

// Config returns the configuration that accompanied the most recent event.
func (r *Recorder) Config() devserve.Config {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.cfg
}

// Find returns the first event with the given key.
func (r *Recorder) Find(key string) (devserve.Event, bool) {
	for _, e := range r.Events() {
		if e.Key == key {
			return e, true
		}
	}

	return devserve.Event{}, false
}

// FindAll returns every event with the given key, in order.
func (r *Recorder) FindAll(key string) (found []devserve.Event) {
	for _, e := range r.Events() {
		if e.Key == key {
			found = append(found, e)
		}
	}

	return
}

// Wait blocks until an event with the given key has been recorded or the timeout elapses.
func (r *Recorder) Wait(key string, timeout time.Duration) (devserve.Event, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		if e, ok := r.Find(key); ok {
			return e, true
		}

		select {
		case <-r.signal:
		case <-timer.C:
			return r.Find(key)
		}
	}
}
