package core

import (
	"reflect"
	"strings"

	"github.com/kat-co/vala"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// IsSet checks that an interface-typed collaborator was provided. Unlike vala.IsNotNil it accepts
// implementations of any kind (struct values included); only a nil interface or a typed nil fails.
func IsSet(obtained interface{}, paramName string) vala.Checker {
	return func() (bool, string) {
		msg := "Parameter was nil: " + paramName
		if obtained == nil {
			return false, msg
		}
		switch v := reflect.ValueOf(obtained); v.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
			if v.IsNil() {
				return false, msg
			}
		}
		return true, msg
	}
}
