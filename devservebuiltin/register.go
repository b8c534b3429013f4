// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devservebuiltin

import (
	"github.com/xmidt-org/devserve/devserveplugin"
	"go.uber.org/multierr"
)

// Register adds every builtin plugin to a registry.
func Register(r *devserveplugin.Registry) (err error) {
	for name, ctor := range map[string]interface{}{
		BodyName:      NewBody,
		HeaderName:    NewHeader,
		RequestIDName: NewRequestID,
		CORSName:      NewCORS,
		LogName:       NewLog,
	} {
		err = multierr.Append(
			err,
			r.RegisterFunc(devserveplugin.DefaultPrefix+name, ctor),
		)
	}

	return
}

// stringsOf interprets an option value that may be given once or several times.
// Strings are not split.
func stringsOf(v interface{}) (s []string) {
	switch vt := v.(type) {
	case string:
		if len(vt) > 0 {
			s = append(s, vt)
		}

	case []string:
		s = append(s, vt...)

	case []interface{}:
		for _, e := range vt {
			s = append(s, stringsOf(e)...)
		}
	}

	return
}
