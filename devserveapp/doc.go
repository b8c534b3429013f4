// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package devserveapp assembles a running server from a configuration.

An Assembler resolves configuration, selects a transport variant, builds the
plugin stack, binds the stack's handlers in front of a terminal router, and then
starts an uber/fx application whose lifecycle owns the listening socket.  Every
step that can fail runs before the socket is bound.
*/
package devserveapp
