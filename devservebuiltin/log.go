// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devservebuiltin

import (
	"net/http"
	"time"

	"github.com/xmidt-org/devserve"
	"github.com/xmidt-org/devserve/devserveplugin"
	"github.com/xmidt-org/devserve/internal/devservereflect"
	"github.com/xmidt-org/httpaux/observe"
)

const (
	// LogName is the name of the log plugin, without prefix.
	LogName = "log"

	// EventAccess is emitted by the log plugin once per request.
	EventAccess = "request.access"
)

// AccessEvent is the value of an EventAccess event.
type AccessEvent struct {
	Method   string
	URL      string
	Remote   string
	Status   int
	Size     int64
	Duration time.Duration
}

// Log emits an access event for every request through the stack's diagnostics.
// It should appear early in the stack so that it observes the handlers after it.
type Log struct {
	emit devserve.Emit
	now  func() time.Time
}

// NewLog creates the log plugin.
func NewLog() *Log {
	return &Log{
		emit: devserve.Discard,
		now:  time.Now,
	}
}

// Description implements devserveplugin.Describer.
func (l *Log) Description() string {
	return "emits an access event for each request"
}

// SetEmit implements devserveplugin.Emitter.
func (l *Log) SetEmit(emit devserve.Emit) {
	l.emit = devservereflect.Safe[devserve.Emit](emit, devserve.Discard)
}

// Middleware implements devserveplugin.Middleware.
func (l *Log) Middleware(devserve.Config, devserveplugin.App) ([]devserveplugin.Handler, error) {
	return []devserveplugin.Handler{
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
				var (
					start = l.now()
					ow    = observe.New(rw)
				)

				defer func() {
					status := ow.StatusCode()
					if status == 0 {
						// nothing written, so net/http sends an implicit 200
						status = http.StatusOK
					}

					l.emit(EventAccess, AccessEvent{
						Method:   r.Method,
						URL:      r.URL.String(),
						Remote:   r.RemoteAddr,
						Status:   status,
						Size:     ow.ContentLength(),
						Duration: l.now().Sub(start),
					})
				}()

				next.ServeHTTP(ow, r)
			})
		},
	}, nil
}
