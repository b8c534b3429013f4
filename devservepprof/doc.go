// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package devservepprof exposes net/http/pprof through a plugin and binds CPU and
heap profiling to the lifecycle of a server's fx.App.
*/
package devservepprof
