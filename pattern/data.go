package pattern

import "reflect"

// asList returns data as a list if it is a slice or array other than a byte
// string.
func asList(data any) ([]any, bool) {
	switch v := data.(type) {
	case []any:
		return v, true
	case nil, string, []byte:
		return nil, false
	}

	rv := reflect.ValueOf(data)
	if k := rv.Kind(); k != reflect.Slice && k != reflect.Array {
		return nil, false
	}

	list := make([]any, rv.Len())
	for i := range list {
		list[i] = rv.Index(i).Interface()
	}

	return list, true
}

// isMapping reports whether data is a map of any type.
func isMapping(data any) bool {
	switch data.(type) {
	case map[string]any, map[any]any:
		return true
	case nil:
		return false
	}

	return reflect.ValueOf(data).Kind() == reflect.Map
}

// lookup returns the value of key in the mapping data. Keys are compared
// with [equal] when no identical key exists, so numeric keys of different
// kinds find each other.
func lookup(data, key any) (any, bool) {
	switch m := data.(type) {
	case map[string]any:
		if s, ok := key.(string); ok {
			v, ok := m[s]

			return v, ok
		}

		return nil, false

	case map[any]any:
		if hashable(key) {
			if v, ok := m[key]; ok {
				return v, true
			}
		}

		for k, v := range m {
			if equal(k, key) {
				return v, true
			}
		}

		return nil, false
	}

	rv := reflect.ValueOf(data)
	if key != nil {
		kv := reflect.ValueOf(key)
		if kv.Type().AssignableTo(rv.Type().Key()) && kv.Comparable() {
			if v := rv.MapIndex(kv); v.IsValid() {
				return v.Interface(), true
			}
		}
	}

	for it := rv.MapRange(); it.Next(); {
		if equal(it.Key().Interface(), key) {
			return it.Value().Interface(), true
		}
	}

	return nil, false
}

func hashable(v any) bool {
	return v == nil || reflect.TypeOf(v).Comparable()
}

// equal reports whether data equals the literal v.
//
// Numbers compare by value across integer and floating-point kinds, strings
// and booleans compare by value across named types, and lists and mappings
// compare element by element.
func equal(data, v any) bool {
	if data == nil || v == nil {
		return data == nil && v == nil
	}

	if la, ok := asList(data); ok {
		lb, ok := asList(v)
		if !ok || len(la) != len(lb) {
			return false
		}

		for i := range la {
			if !equal(la[i], lb[i]) {
				return false
			}
		}

		return true
	}

	if isMapping(data) {
		if !isMapping(v) {
			return false
		}

		ra, rb := reflect.ValueOf(data), reflect.ValueOf(v)
		if ra.Len() != rb.Len() {
			return false
		}

		for it := rb.MapRange(); it.Next(); {
			w, ok := lookup(data, it.Key().Interface())
			if !ok || !equal(w, it.Value().Interface()) {
				return false
			}
		}

		return true
	}

	ra, rb := reflect.ValueOf(data), reflect.ValueOf(v)

	if na, ok := number(ra); ok {
		nb, ok := number(rb)

		return ok && na.equal(nb)
	}

	switch {
	case ra.Kind() == reflect.String && rb.Kind() == reflect.String:
		return ra.String() == rb.String()
	case ra.Kind() == reflect.Bool && rb.Kind() == reflect.Bool:
		return ra.Bool() == rb.Bool()
	case ra.Type() == rb.Type() && ra.Comparable():
		return ra.Equal(rb)
	default:
		return reflect.DeepEqual(data, v)
	}
}

// numeric holds a number in the widest representation of its kind.
type numeric struct {
	i     int64
	u     uint64
	f     float64
	class uint8 // 1 signed, 2 unsigned, 3 float
}

func number(rv reflect.Value) (numeric, bool) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return numeric{i: rv.Int(), class: 1}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return numeric{u: rv.Uint(), class: 2}, true
	case reflect.Float32, reflect.Float64:
		return numeric{f: rv.Float(), class: 3}, true
	default:
		return numeric{}, false
	}
}

func (a numeric) float() float64 {
	switch a.class {
	case 1:
		return float64(a.i)
	case 2:
		return float64(a.u)
	default:
		return a.f
	}
}

func (a numeric) equal(b numeric) bool {
	switch {
	case a.class == 3 || b.class == 3:
		return a.float() == b.float()
	case a.class == b.class:
		return a.i == b.i && a.u == b.u
	case a.class == 1:
		return a.i >= 0 && uint64(a.i) == b.u
	default:
		return b.i >= 0 && uint64(b.i) == a.u
	}
}
