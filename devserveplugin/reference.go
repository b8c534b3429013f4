// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devserveplugin

import (
	"fmt"
	"reflect"

	"github.com/xmidt-org/devserve"
)

// ReferenceKind identifies the variant held by a Reference.
type ReferenceKind int

const (
	// PathKind is a module name or file path, resolved through a Loader.
	PathKind ReferenceKind = iota

	// ClassKind is a Class, instantiated once when the stack is built.
	ClassKind

	// InstanceKind is an already constructed plugin, used as is.
	InstanceKind
)

// String returns a readable name for this kind.
func (rk ReferenceKind) String() string {
	switch rk {
	case PathKind:
		return "path"

	case ClassKind:
		return "class"

	case InstanceKind:
		return "instance"

	default:
		return "unknown"
	}
}

// Reference is one entry of a stack's configuration.
type Reference struct {
	kind     ReferenceKind
	path     string
	class    Class
	instance interface{}
}

// Path returns a Reference to a module name or file path.
func Path(p string) Reference {
	return Reference{kind: PathKind, path: p}
}

// ClassOf returns a Reference to a Class.
func ClassOf(c Class) Reference {
	return Reference{kind: ClassKind, class: c}
}

// Instance returns a Reference to a live plugin.
func Instance(p interface{}) Reference {
	return Reference{kind: InstanceKind, instance: p}
}

// Kind returns which variant this Reference holds.
func (r Reference) Kind() ReferenceKind {
	return r.kind
}

// String returns the name used for this reference in events and errors.
func (r Reference) String() string {
	switch r.kind {
	case PathKind:
		return r.path

	case ClassKind:
		return r.class.Name()

	default:
		return fmt.Sprintf("%T", r.instance)
	}
}

// ReferenceOf converts a single configuration value into a Reference:
//
//   - a Reference is used as is
//   - a string is a Path
//   - a Class, or a constructor func, is a class
//   - anything else is treated as a live instance
func ReferenceOf(v interface{}) (Reference, error) {
	switch vt := v.(type) {
	case nil:
		return Reference{}, &devserve.ConfigurationError{
			Option: devserve.StackKey,
			Reason: "a plugin reference cannot be nil",
		}

	case Reference:
		return vt, nil

	case string:
		if len(vt) == 0 {
			return Reference{}, &devserve.ConfigurationError{
				Option: devserve.StackKey,
				Reason: "a plugin reference cannot be blank",
			}
		}

		return Path(vt), nil

	case Class:
		return ClassOf(vt), nil

	case *Class:
		return ClassOf(*vt), nil
	}

	if reflect.TypeOf(v).Kind() == reflect.Func {
		c, err := NewClass("", v)
		if err != nil {
			return Reference{}, &devserve.ConfigurationError{
				Option: devserve.StackKey,
				Err:    err,
			}
		}

		return ClassOf(c), nil
	}

	return Instance(v), nil
}

// References converts the stack entry of a configuration into a slice of
// references.  A sequence yields one reference per element, in order.  A nil
// value yields an empty slice, and any other single value yields one reference.
func References(v interface{}) ([]Reference, error) {
	switch vt := v.(type) {
	case nil:
		return []Reference{}, nil

	case []Reference:
		return vt, nil
	}

	sv := reflect.ValueOf(v)
	if sv.Kind() != reflect.Slice && sv.Kind() != reflect.Array {
		r, err := ReferenceOf(v)
		if err != nil {
			return nil, err
		}

		return []Reference{r}, nil
	}

	refs := make([]Reference, 0, sv.Len())
	for i := 0; i < sv.Len(); i++ {
		r, err := ReferenceOf(sv.Index(i).Interface())
		if err != nil {
			return nil, err
		}

		refs = append(refs, r)
	}

	return refs, nil
}
