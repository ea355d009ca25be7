package model

import (
	"reflect"
	"strings"
)

// IsValueEmpty reports whether value is nil, a blank string, or an empty
// slice, map or Sequence.
func IsValueEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case *Sequence:
		return v == nil || v.Len() == 0
	case Reactive:
		return isNilPointer(value)
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.IsNil() || rv.Len() == 0
	case reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// isPropertyEmpty is IsValueEmpty except that the literal empty string is
// a value in its own right.
func isPropertyEmpty(value any) bool {
	if s, ok := value.(string); ok && s == "" {
		return false
	}
	return IsValueEmpty(value)
}

func isNilPointer(value any) bool {
	rv := reflect.ValueOf(value)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// isSequenceLike reports whether value is an ordered collection a Sequence
// can take its items from.
func isSequenceLike(value any) bool {
	_, ok := sequenceItems(value)
	return ok && value != nil
}

// sequenceItems converts nil, a *Sequence or any slice to a []any.
func sequenceItems(value any) ([]any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case []any:
		return v, true
	case *Sequence:
		if v == nil {
			return nil, true
		}
		return v.Items(), true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// IsTwoValueEquals compares values exactly: == for scalars, identity for
// reactive objects, element-wise for sequences, slices and maps, and
// reflect.DeepEqual for everything else. Strings are compared case
// sensitively and untrimmed.
func IsTwoValueEquals(x, y any) bool {
	return isTwoValueEquals(x, y)
}

func isTwoValueEquals(x, y any) bool {
	if x == nil || y == nil {
		return x == nil && y == nil
	}

	if xs, ok := x.(*Sequence); ok {
		x = xs.items
	}
	if ys, ok := y.(*Sequence); ok {
		y = ys.items
	}

	switch xv := x.(type) {
	case int:
		yv, ok := y.(int)
		return ok && xv == yv
	case int64:
		yv, ok := y.(int64)
		return ok && xv == yv
	case float64:
		yv, ok := y.(float64)
		return ok && xv == yv
	case string:
		yv, ok := y.(string)
		return ok && xv == yv
	case bool:
		yv, ok := y.(bool)
		return ok && xv == yv
	case Reactive:
		yv, ok := y.(Reactive)
		if !ok {
			return false
		}
		if isNilPointer(x) || isNilPointer(y) {
			return isNilPointer(x) && isNilPointer(y)
		}
		return xv.AsBase() == yv.AsBase()
	case []any:
		yv, ok := y.([]any)
		if !ok || len(xv) != len(yv) {
			return false
		}
		for i := range xv {
			if !isTwoValueEquals(xv[i], yv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		yv, ok := y.(map[string]any)
		if !ok || len(xv) != len(yv) {
			return false
		}
		for k, v := range xv {
			other, found := yv[k]
			if !found || !isTwoValueEquals(v, other) {
				return false
			}
		}
		return true
	default:
		// Fall back to reflect.DeepEqual for other slices, maps, structs.
		return reflect.DeepEqual(x, y)
	}
}
