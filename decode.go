// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devserve

import (
	"encoding"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// MatchNormalizedKeys configures the decoder to compare configuration keys
// and struct field names in their normalized form.  A field tagged "max-connections"
// thus matches the keys "maxConnections" and "maxconnections".
func MatchNormalizedKeys(dc *mapstructure.DecoderConfig) {
	dc.MatchName = func(mapKey, fieldName string) bool {
		return NormalizeKey(mapKey) == NormalizeKey(fieldName)
	}
}

// DefaultDecodeHooks sets the decode hooks to more useful defaults.
func DefaultDecodeHooks(dc *mapstructure.DecoderConfig) {
	dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		TextUnmarshalerHookFunc,
	)
}

var (
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// TextUnmarshalerHookFunc is a mapstructure.DecodeHookFunc that honors the destination
// type's encoding.TextUnmarshaler implementation, using it to convert the src.  The src
// parameter must be a string, or else this function does not attempt any conversion.
//
// In any case where this function does no conversion, it returns src and a nil error.  This
// is the contract required by mapstructure.DecodeHookFunc.
func TextUnmarshalerHookFunc(_, to reflect.Type, src interface{}) (interface{}, error) {
	if text, ok := src.(string); ok {
		switch {
		case to.Kind() != reflect.Ptr && reflect.PtrTo(to).Implements(textUnmarshalerType):
			ptr := reflect.New(to)
			tu := ptr.Interface().(encoding.TextUnmarshaler)
			err := tu.UnmarshalText([]byte(text))
			return ptr.Elem().Interface(), err

		case to.Kind() == reflect.Ptr && to.Elem().Kind() != reflect.Ptr && to.Implements(textUnmarshalerType):
			ptr := reflect.New(to.Elem())
			tu := ptr.Interface().(encoding.TextUnmarshaler)
			err := tu.UnmarshalText([]byte(text))
			return tu, err
		}
	}

	return src, nil
}

// Decode unmarshals this configuration into a target struct.  The defaults are
// weakly typed input, normalized key matching, and DefaultDecodeHooks.  Any
// supplied options are applied afterward.
//
// Decode never modifies this configuration.
func (c Config) Decode(target interface{}, opts ...viper.DecoderConfigOption) error {
	dc := mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	}

	MatchNormalizedKeys(&dc)
	DefaultDecodeHooks(&dc)
	for _, o := range opts {
		o(&dc)
	}

	decoder, err := mapstructure.NewDecoder(&dc)
	if err == nil {
		err = decoder.Decode(map[string]any(c))
	}

	return err
}
