// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// Package devserveview renders diagnostic events.  LogView writes structured
// zap entries, and ConsoleView writes colored lines for a terminal.
package devserveview
