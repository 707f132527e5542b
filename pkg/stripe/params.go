package stripe

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
)

// Static errors for err113 compliance.
var (
	ErrUnsupportedValue = errors.New("unsupported parameter value")
	ErrValueOutOfRange  = errors.New("parameter value out of range")
)

// Value is a request parameter before encoding. The set of implementations is
// closed: Str, Int, Float, Bool, List, IndexedList and *Params. A nil Value
// means the parameter is absent and is never encoded.
type Value interface {
	appendPairs(dst []Pair, prefix string) []Pair
}

// Str is a string scalar.
type Str string

// Int is an integer scalar. Amounts are always expressed in the smallest
// currency unit.
type Int int64

// Float is a floating point scalar.
type Float float64

// Bool is a boolean scalar, encoded as true or false.
type Bool bool

// List is an ordered sequence encoded as repeated key[] pairs.
type List []Value

// IndexedList is an ordered sequence encoded as key[0], key[1], ...
// Use it for arrays of objects, which the API addresses by position.
type IndexedList []Value

type entry struct {
	key   string
	value Value
}

// Params is an ordered mapping from parameter name to Value. Entries encode
// in insertion order.
type Params struct {
	entries []entry
}

// NewParams creates an empty parameter mapping.
func NewParams() *Params {
	return &Params{}
}

// Set stores value under key. Setting an existing key replaces the value in
// place. A nil value marks the key absent.
func (p *Params) Set(key string, value Value) *Params {
	for i := range p.entries {
		if p.entries[i].key == key {
			p.entries[i].value = value

			return p
		}
	}

	p.entries = append(p.entries, entry{key: key, value: value})

	return p
}

// Get returns the value stored under key.
func (p *Params) Get(key string) (Value, bool) {
	if p == nil {
		return nil, false
	}

	for _, e := range p.entries {
		if e.key == key {
			return e.value, true
		}
	}

	return nil, false
}

// Keys returns the keys in insertion order, absent ones included.
func (p *Params) Keys() []string {
	if p == nil {
		return nil
	}

	keys := make([]string, 0, len(p.entries))
	for _, e := range p.entries {
		keys = append(keys, e.key)
	}

	return keys
}

// Len returns the number of keys, absent ones included.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}

	return len(p.entries)
}

// StrMap converts a string map (metadata, for instance) into Params with keys
// in sorted order. A nil map is absent.
func StrMap(m map[string]string) Value {
	if m == nil {
		return nil
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	params := NewParams()
	for _, k := range keys {
		params.Set(k, Str(m[k]))
	}

	return params
}

// Strs converts a string slice into a List. A nil slice is absent.
func Strs(values []string) Value {
	if values == nil {
		return nil
	}

	list := make(List, 0, len(values))
	for _, v := range values {
		list = append(list, Str(v))
	}

	return list
}

// OptStr returns Str(*v), or nil when v is nil.
func OptStr(v *string) Value {
	if v == nil {
		return nil
	}

	return Str(*v)
}

// OptInt returns Int(*v), or nil when v is nil.
func OptInt(v *int64) Value {
	if v == nil {
		return nil
	}

	return Int(*v)
}

// OptBool returns Bool(*v), or nil when v is nil.
func OptBool(v *bool) Value {
	if v == nil {
		return nil
	}

	return Bool(*v)
}

// OptEnum returns the wire value of *v, or nil when v is nil.
func OptEnum[E ~string](v *E) Value {
	if v == nil {
		return nil
	}

	return Str(string(*v))
}

// OptParams returns p as a Value, keeping a nil *Params absent.
func OptParams(p *Params) Value {
	if p == nil {
		return nil
	}

	return p
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// FromAny converts loosely typed input (decoded JSON, CLI flags, map
// literals) into a Value. Go maps are emitted in sorted key order so the
// result is deterministic. Nil input yields an absent Value.
func FromAny(input any) (Value, error) {
	switch typed := input.(type) {
	case nil:
		return nil, nil
	case Value:
		return typed, nil
	case string:
		return Str(typed), nil
	case bool:
		return Bool(typed), nil
	case int:
		return Int(typed), nil
	case int64:
		return Int(typed), nil
	case float64:
		return Float(typed), nil
	case fmt.Stringer:
		return Str(typed.String()), nil
	}

	rv := reflect.ValueOf(input)

	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, nil
		}

		return FromAny(rv.Elem().Interface())
	case reflect.String:
		return Str(rv.String()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if rv.Uint() > math.MaxInt64 {
			return nil, fmt.Errorf("%w: %d", ErrValueOutOfRange, rv.Uint())
		}

		return Int(int64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, nil
		}

		list := make(List, 0, rv.Len())

		for i := range rv.Len() {
			item, err := FromAny(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}

			list = append(list, item)
		}

		return list, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: map key type %s", ErrUnsupportedValue, rv.Type().Key())
		}

		if rv.IsNil() {
			return nil, nil
		}

		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}

		sort.Strings(keys)

		params := NewParams()

		for _, k := range keys {
			item, err := FromAny(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface())
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}

			params.Set(k, item)
		}

		return params, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, input)
	}
}

func (v Str) appendPairs(dst []Pair, prefix string) []Pair {
	return append(dst, Pair{Key: prefix, Value: string(v)})
}

func (v Int) appendPairs(dst []Pair, prefix string) []Pair {
	return append(dst, Pair{Key: prefix, Value: strconv.FormatInt(int64(v), 10)})
}

func (v Float) appendPairs(dst []Pair, prefix string) []Pair {
	return append(dst, Pair{Key: prefix, Value: strconv.FormatFloat(float64(v), 'f', -1, 64)})
}

func (v Bool) appendPairs(dst []Pair, prefix string) []Pair {
	return append(dst, Pair{Key: prefix, Value: strconv.FormatBool(bool(v))})
}

func (v List) appendPairs(dst []Pair, prefix string) []Pair {
	for _, item := range v {
		if item == nil {
			continue
		}

		dst = item.appendPairs(dst, prefix+"[]")
	}

	return dst
}

func (v IndexedList) appendPairs(dst []Pair, prefix string) []Pair {
	for i, item := range v {
		if item == nil {
			continue
		}

		dst = item.appendPairs(dst, prefix+"["+strconv.Itoa(i)+"]")
	}

	return dst
}

func (p *Params) appendPairs(dst []Pair, prefix string) []Pair {
	if p == nil {
		return dst
	}

	for _, e := range p.entries {
		if isAbsent(e.value) {
			continue
		}

		key := e.key
		if prefix != "" {
			key = prefix + "[" + e.key + "]"
		}

		dst = e.value.appendPairs(dst, key)
	}

	return dst
}

// isAbsent reports whether v is nil, including a typed nil *Params.
func isAbsent(v Value) bool {
	if v == nil {
		return true
	}

	p, ok := v.(*Params)

	return ok && p == nil
}
