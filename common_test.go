// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devserve

type testError struct{}

func (te testError) Error() string {
	return "test error"
}
