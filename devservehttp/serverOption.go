// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devservehttp

import (
	"bytes"
	"crypto/tls"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/xmidt-org/devserve"
)

// DefaultReadHeaderTimeout bounds how long a client may take to send request headers.
const DefaultReadHeaderTimeout = 10 * time.Second

// ConnEvent is the value of socket events.
type ConnEvent struct {
	Local  string
	Remote string
	State  string
}

// ErrorEvent is the value of a devserve.EventServerError event.
type ErrorEvent struct {
	Message string
}

// ServerOption is a functional option for an *http.Server.
type ServerOption = Option[http.Server]

// IdleTimeout sets http.Server.IdleTimeout.  A zero duration disables the idle
// timeout entirely, so keep-alive connections never time out.
func IdleTimeout(d time.Duration) ServerOption {
	return AsOption[http.Server](func(s *http.Server) {
		s.IdleTimeout = d
		if d == 0 {
			// a zero IdleTimeout falls back to ReadTimeout, so keep that off as well
			s.ReadTimeout = 0
		}
	})
}

// TLSConfig sets http.Server.TLSConfig.
func TLSConfig(tc *tls.Config) ServerOption {
	return AsOption[http.Server](func(s *http.Server) {
		s.TLSConfig = tc
	})
}

// ConnStateEvents emits socket events as connections open and close.
func ConnStateEvents(emit devserve.Emit) ServerOption {
	return AsOption[http.Server](func(s *http.Server) {
		previous := s.ConnState
		s.ConnState = func(c net.Conn, state http.ConnState) {
			switch state {
			case http.StateNew:
				emit(devserve.EventSocketNew, newConnEvent(c, state))

			case http.StateClosed, http.StateHijacked:
				emit(devserve.EventSocketClose, newConnEvent(c, state))
			}

			if previous != nil {
				previous(c, state)
			}
		}
	})
}

func newConnEvent(c net.Conn, state http.ConnState) ConnEvent {
	return ConnEvent{
		Local:  c.LocalAddr().String(),
		Remote: c.RemoteAddr().String(),
		State:  state.String(),
	}
}

// errorWriter turns each log line from an http.Server into an event.
type errorWriter struct {
	emit devserve.Emit
}

func (ew errorWriter) Write(p []byte) (int, error) {
	ew.emit(devserve.EventServerError, ErrorEvent{
		Message: string(bytes.TrimSpace(p)),
	})

	return len(p), nil
}

// ErrorEvents routes the server's error log to server.error events.
func ErrorEvents(emit devserve.Emit) ServerOption {
	return ErrorLog(log.New(errorWriter{emit: emit}, "", 0))
}

// ErrorLog sets http.Server.ErrorLog.  This option overwrites any previous value
// for ErrorLog, even if its l parameter is nil.
func ErrorLog(l *log.Logger) ServerOption {
	return AsOption[http.Server](func(s *http.Server) {
		s.ErrorLog = l
	})
}
