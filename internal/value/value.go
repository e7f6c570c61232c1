package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
)

// String returns the lower-case JSON name of the kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Pair is a single object member.
type Pair struct {
	Key   string
	Value Value
}

// Field is shorthand for building a Pair.
func Field(key string, v Value) Pair { return Pair{Key: key, Value: v} }

// Value is a JSON-compatible dynamic value. The zero Value is null.
// Objects keep member order; numbers keep their literal text.
type Value struct {
	kind Kind
	b    bool
	s    string // string content or number literal
	obj  []Pair
	arr  []Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Int wraps an integer.
func Int(i int64) Value { return Value{kind: KindNumber, s: strconv.FormatInt(i, 10)} }

// Float wraps a float. NaN and infinities have no JSON form and become null.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return Value{kind: KindNumber, s: strconv.FormatFloat(f, 'f', -1, 64)}
}

// ParseNumber wraps a JSON number literal, rejecting anything that is not one.
func ParseNumber(text string) (Value, error) {
	t := strings.TrimSpace(text)
	if !isNumberLiteral(t) {
		return Value{}, fmt.Errorf("value: %q is not a JSON number", text)
	}
	return Value{kind: KindNumber, s: t}, nil
}

// Object builds an object from pairs. A repeated key keeps its first position and its last value.
func Object(pairs ...Pair) Value {
	v := Value{kind: KindObject, obj: make([]Pair, 0, len(pairs))}
	for _, p := range pairs {
		v.obj = setPair(v.obj, p.Key, p.Value)
	}
	return v
}

// Array builds an array.
func Array(vs ...Value) Value {
	out := make([]Value, len(vs))
	copy(out, vs)
	return Value{kind: KindArray, arr: out}
}

func setPair(obj []Pair, key string, v Value) []Pair {
	for i := range obj {
		if obj[i].Key == key {
			obj[i].Value = v
			return obj
		}
	}
	return append(obj, Pair{Key: key, Value: v})
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean and whether v is a boolean.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// Str returns the string content and whether v is a string.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// NumberText returns the number literal and whether v is a number.
func (v Value) NumberText() (string, bool) {
	if v.kind != KindNumber {
		return "", false
	}
	return v.s, true
}

// Float64 returns the number as float64.
func (v Value) Float64() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.s, 64)
	return f, err == nil
}

// Keys returns object keys in order; nil for non-objects.
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	keys := make([]string, len(v.obj))
	for i, p := range v.obj {
		keys[i] = p.Key
	}
	return keys
}

// Pairs returns a copy of the object members in order.
func (v Value) Pairs() []Pair {
	if v.kind != KindObject {
		return nil
	}
	out := make([]Pair, len(v.obj))
	copy(out, v.obj)
	return out
}

// Get looks up an object member.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	for _, p := range v.obj {
		if p.Key == key {
			return p.Value, true
		}
	}
	return Value{}, false
}

// With returns a copy of the object with key set. Non-objects are treated as empty objects.
func (v Value) With(key string, val Value) Value {
	out := Value{kind: KindObject, obj: make([]Pair, 0, len(v.obj)+1)}
	if v.kind == KindObject {
		out.obj = append(out.obj, v.obj...)
	}
	out.obj = setPair(out.obj, key, val)
	return out
}

// Elements returns a copy of the array elements; nil for non-arrays.
func (v Value) Elements() []Value {
	if v.kind != KindArray {
		return nil
	}
	out := make([]Value, len(v.arr))
	copy(out, v.arr)
	return out
}

// Len is the number of members or elements; zero for scalars.
func (v Value) Len() int {
	switch v.kind {
	case KindObject:
		return len(v.obj)
	case KindArray:
		return len(v.arr)
	default:
		return 0
	}
}

// IsEmpty reports null, an empty object or an empty array.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindObject, KindArray:
		return v.Len() == 0
	default:
		return false
	}
}

// Text is the string form used in URL paths and query strings.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber, KindString:
		return v.s
	default:
		b, _ := v.MarshalJSON()
		return string(b)
	}
}

// String implements fmt.Stringer with the JSON encoding.
func (v Value) String() string {
	b, _ := v.MarshalJSON()
	return string(b)
}

// MarshalJSON writes v keeping member order and without HTML escaping. json.Marshal
// escapes the result again; use a json.Encoder with SetEscapeHTML(false) to keep it verbatim.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) write(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		buf.WriteString(v.s)
	case KindString:
		return writeString(buf, v.s)
	case KindObject:
		buf.WriteByte('{')
		for i, p := range v.obj {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, p.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := p.Value.write(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case KindArray:
		buf.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := e.write(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		return fmt.Errorf("value: unknown kind %d", v.kind)
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

// UnmarshalJSON parses data into v.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// FromAny converts Go natives (as produced by encoding/json, yaml.v3 or mapstructure) into a Value.
// Maps with string keys are emitted in sorted key order.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case *Value:
		if t == nil {
			return Null(), nil
		}
		return *t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return ParseNumber(t.String())
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Value{kind: KindNumber, s: strconv.FormatUint(uint64(t), 10)}, nil
	case uint8:
		return Int(int64(t)), nil
	case uint16:
		return Int(int64(t)), nil
	case uint32:
		return Int(int64(t)), nil
	case uint64:
		return Value{kind: KindNumber, s: strconv.FormatUint(t, 10)}, nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]Pair, 0, len(keys))
		for _, k := range keys {
			ev, err := FromAny(t[k])
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			pairs = append(pairs, Pair{Key: k, Value: ev})
		}
		return Object(pairs...), nil
	case map[string]string:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]Pair, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, Pair{Key: k, Value: String(t[k])})
		}
		return Object(pairs...), nil
	case []any:
		out := make([]Value, 0, len(t))
		for i, e := range t {
			ev, err := FromAny(e)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			out = append(out, ev)
		}
		return Value{kind: KindArray, arr: out}, nil
	case []string:
		out := make([]Value, len(t))
		for i, e := range t {
			out[i] = String(e)
		}
		return Value{kind: KindArray, arr: out}, nil
	default:
		return Value{}, fmt.Errorf("value: unsupported type %T", x)
	}
}

// ToAny converts v into Go natives. Numbers become json.Number.
func (v Value) ToAny() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return json.Number(v.s)
	case KindString:
		return v.s
	case KindObject:
		m := make(map[string]any, len(v.obj))
		for _, p := range v.obj {
			m[p.Key] = p.Value.ToAny()
		}
		return m
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.ToAny()
		}
		return out
	default:
		return nil
	}
}

// Equal compares structurally. Object member order is ignored; numbers compare by value.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.s == b.s
	case KindNumber:
		if a.s == b.s {
			return true
		}
		fa, okA := a.Float64()
		fb, okB := b.Float64()
		return okA && okB && fa == fb
	case KindObject:
		if len(a.obj) != len(b.obj) {
			return false
		}
		for _, p := range a.obj {
			other, ok := b.Get(p.Key)
			if !ok || !Equal(p.Value, other) {
				return false
			}
		}
		return true
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	}
	return false
}
