// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package devservetls produces the TLS configuration for secure server variants.

Credentials come from a PFX (PKCS#12) archive, a PEM key and certificate pair,
or, when neither is configured, a self-signed certificate for 127.0.0.1 and
localhost that is generated once per process.
*/
package devservetls
