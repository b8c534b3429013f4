// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devservetest

import (
	"net"
	"time"

	"github.com/stretchr/testify/require"
)

// FreePort returns a TCP port on 127.0.0.1 that was available when this function
// was called.
func FreePort(t any) int {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(AsTestable(t), err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

// Listening tests if something accepts TCP connections on an address.
func Listening(addr string) bool {
	c, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		return false
	}

	c.Close()
	return true
}
