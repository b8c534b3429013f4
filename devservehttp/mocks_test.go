// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devservehttp

import (
	"net"
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/xmidt-org/devserve"
)

type mockOption[T any] struct {
	mock.Mock
}

func (m *mockOption[T]) Apply(t *T) error {
	args := m.Called(t)
	return args.Error(0)
}

func (m *mockOption[T]) ExpectApply(t *T) *mock.Call {
	return m.On("Apply", t)
}

type mockOptionNoError[T any] struct {
	mock.Mock
}

func (m *mockOptionNoError[T]) Apply(t *T) {
	m.Called(t)
}

func (m *mockOptionNoError[T]) ExpectApply(t *T) *mock.Call {
	return m.On("Apply", t)
}

type mockServable struct {
	mock.Mock
}

func (m *mockServable) Serve(l net.Listener) error {
	return m.Called(l).Error(0)
}

func (m *mockServable) ExpectServe(l net.Listener) *mock.Call {
	return m.On("Serve", l)
}

// events records emitted events.  It is safe for concurrent use, since
// connection events arrive on server goroutines.
type events struct {
	lock sync.Mutex
	e    []devserve.Event
}

func (e *events) Emit(key string, value any) {
	e.lock.Lock()
	e.e = append(e.e, devserve.Event{Key: key, Value: value})
	e.lock.Unlock()
}

func (e *events) Keys() (keys []string) {
	e.lock.Lock()
	defer e.lock.Unlock()
	for _, v := range e.e {
		keys = append(keys, v.Key)
	}

	return
}

func (e *events) Find(key string) (v devserve.Event, ok bool) {
	e.lock.Lock()
	defer e.lock.Unlock()
	for _, candidate := range e.e {
		if candidate.Key == key {
			return candidate, true
		}
	}

	return
}
