// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package devserveplugin defines what a plugin is and how an ordered stack of
plugins is built from configuration.

A plugin is any value implementing one or more of the capability interfaces
in this package.  Middleware is the primary capability:  it contributes request
handlers, composed in stack order.  The remaining capabilities are optional.

Plugins are referenced from configuration by name or path, by Class, or
as an already constructed instance.  A Loader resolves names and paths,
consulting the filesystem and a Registry of compiled-in classes.
*/
package devserveplugin
