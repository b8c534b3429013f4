// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Devserve runs a local web server assembled from a stack of plugins.

Usage:

	devserve [flags]

Flags are read in two passes.  The first pass reads the core flags, which name
the stack and where plugin modules are found.  Once the stack is built, each
option the plugins declare becomes a flag, and the command line is parsed again
in full.  Only flags actually given are merged over the stored configuration.
*/
package main
