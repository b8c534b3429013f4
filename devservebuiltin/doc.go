// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package devservebuiltin holds the plugins compiled into devserve.

Each plugin is registered under the devserve- prefix, so a stack entry of "cors"
resolves to "devserve-cors" with the default loader.  Every plugin reads its own
options from the resolved configuration when its handlers are requested.
*/
package devservebuiltin
