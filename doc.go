// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// Package devserve is the core of a pluggable local web server.
//
// Configuration
//
// A Config is a flat namespace of normalized option names.  Merge reconciles
// defaults, stored configuration, and caller overrides.  Sequences are replaced
// rather than combined, and an empty sequence never erases what came before.
//
// Diagnostics
//
// Components report what they are doing through an Emit closure.  A Diagnostics
// instance fans those events out to any number of View implementations.
//
// Errors
//
// Startup failures carry a distinguishable kind (ConfigurationError,
// PluginNotFoundError, PluginInvalidError, ErrAlreadyStarted) and an associated
// process exit code through ExitCodeFor.
package devserve
