// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package devservehttp selects and constructs the transport for a server.

Select applies a fixed decision table to the transport options of a resolved
configuration and returns one of three variants:  Plain, TLS, or HTTP2.  Each
variant carries only the fields it needs and knows how to create both its
*http.Server and its net.Listener.
*/
package devservehttp
