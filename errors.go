// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devserve

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidTLSConfig indicates that only one of key and cert was supplied.
	ErrInvalidTLSConfig = errors.New("key and cert must be supplied together")

	// ErrConflictingTLSConfig indicates that both https and pfx were supplied.
	ErrConflictingTLSConfig = errors.New("https and pfx are mutually exclusive")

	// ErrUnsupportedOption indicates an option that the selected transport cannot honor.
	ErrUnsupportedOption = errors.New("option is not supported by this transport")

	// ErrAlreadyStarted is returned when an assembler that already holds a server
	// is asked to create another one.
	ErrAlreadyStarted = errors.New("a server has already been created by this assembler")
)

// ConfigurationError describes malformed or conflicting options.  The Option field
// names the offending option, using the same spelling as the documentation.
type ConfigurationError struct {
	// Option is the name of the offending option.  It may be a comma-separated
	// list when the problem involves several options.
	Option string

	// Reason is a human-readable explanation.  If unset, Err's text is used.
	Reason string

	// Err is an optional sentinel that further classifies this error, e.g. ErrInvalidTLSConfig.
	Err error
}

// Error satisfies the error interface.
func (ce *ConfigurationError) Error() string {
	reason := ce.Reason
	if len(reason) == 0 && ce.Err != nil {
		reason = ce.Err.Error()
	}

	return fmt.Sprintf("configuration error [%s]: %s", ce.Option, reason)
}

// Unwrap returns the sentinel error, if any.
func (ce *ConfigurationError) Unwrap() error {
	return ce.Err
}

// ExitCode implements ExitCoder.
func (ce *ConfigurationError) ExitCode() int {
	return ConfigurationExitCode
}

// PluginNotFoundError indicates that no module resolved for a plugin reference.
type PluginNotFoundError struct {
	// Reference is the plugin reference as it was configured.
	Reference string

	// Searched lists the candidates that were tried, in order.
	Searched []string

	// Err is the optional underlying cause, e.g. lack of platform support.
	Err error
}

// Error satisfies the error interface.
func (pnfe *PluginNotFoundError) Error() string {
	var o strings.Builder
	fmt.Fprintf(&o, "plugin not found [%s]", pnfe.Reference)
	if len(pnfe.Searched) > 0 {
		fmt.Fprintf(&o, ", searched: %s", strings.Join(pnfe.Searched, ", "))
	}

	if pnfe.Err != nil {
		fmt.Fprintf(&o, ": %s", pnfe.Err)
	}

	return o.String()
}

// Unwrap returns the underlying cause, if any.
func (pnfe *PluginNotFoundError) Unwrap() error {
	return pnfe.Err
}

// ExitCode implements ExitCoder.
func (pnfe *PluginNotFoundError) ExitCode() int {
	return PluginNotFoundExitCode
}

// PluginInvalidError indicates that a module resolved for a plugin reference but
// does not satisfy the plugin contract.
type PluginInvalidError struct {
	// Reference is the plugin reference as it was configured.
	Reference string

	// Reason explains which part of the contract was not met.
	Reason string
}

// Error satisfies the error interface.
func (pie *PluginInvalidError) Error() string {
	return fmt.Sprintf("invalid plugin [%s]: %s", pie.Reference, pie.Reason)
}

// ExitCode implements ExitCoder.
func (pie *PluginInvalidError) ExitCode() int {
	return PluginInvalidExitCode
}
