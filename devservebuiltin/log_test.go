// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devservebuiltin

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/devserve"
	"github.com/xmidt-org/devserve/devserveplugin"
)

func TestLog(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		events []devserve.Event
		start  = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		ticks  = []time.Time{start, start.Add(5 * time.Millisecond)}

		l = NewLog()
	)

	var _ devserveplugin.Emitter = l
	l.now = func() (now time.Time) {
		now, ticks = ticks[0], ticks[1:]
		return
	}

	l.SetEmit(func(key string, value any) {
		events = append(events, devserve.Event{Key: key, Value: value})
	})

	request := httptest.NewRequest("GET", "/path?q=1", nil)
	request.RemoteAddr = "192.0.2.1:1234"
	response := serve(t, l, devserve.Config{}, request)
	assert.Equal(http.StatusTeapot, response.Code)

	require.Len(events, 1)
	assert.Equal(EventAccess, events[0].Key)
	assert.Equal(
		AccessEvent{
			Method:   "GET",
			URL:      "/path?q=1",
			Remote:   "192.0.2.1:1234",
			Status:   http.StatusTeapot,
			Size:     4,
			Duration: 5 * time.Millisecond,
		},
		events[0].Value,
	)
}

func TestLogImplicitStatus(t *testing.T) {
	var (
		assert = assert.New(t)
		status []int
		l      = NewLog()
	)

	l.SetEmit(func(_ string, value any) {
		status = append(status, value.(AccessEvent).Status)
	})

	handlers, err := l.Middleware(nil, nil)
	require.NoError(t, err)
	require.Len(t, handlers, 1)

	h := handlers[0](http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	w := handlers[0](http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.Write([]byte("x"))
		rw.WriteHeader(http.StatusNotFound)
	}))

	w.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	assert.Equal([]int{http.StatusOK, http.StatusOK}, status)
}

func TestLogDiscardsByDefault(t *testing.T) {
	assert.NotPanics(t, func() {
		serve(t, NewLog(), devserve.Config{}, httptest.NewRequest("GET", "/", nil))
	})
}

func TestLogSetNilEmit(t *testing.T) {
	l := NewLog()
	l.SetEmit(nil)
	assert.NotPanics(t, func() {
		serve(t, l, devserve.Config{}, httptest.NewRequest("GET", "/", nil))
	})
}

func TestLogPreservesFlusher(t *testing.T) {
	var (
		flushed bool
		l       = NewLog()
	)

	handlers, err := l.Middleware(nil, nil)
	require.NoError(t, err)
	require.Len(t, handlers, 1)

	h := handlers[0](http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		f, ok := rw.(http.Flusher)
		if ok {
			f.Flush()
			flushed = true
		}
	}))

	response := httptest.NewRecorder()
	h.ServeHTTP(response, httptest.NewRequest("GET", "/", nil))
	assert.True(t, flushed)
	assert.True(t, response.Flushed)
}
