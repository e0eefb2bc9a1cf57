package params

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Kind identifies the scalar type held by a Value
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "boolean"
	default:
		return "unknown"
	}
}

// Value is a single scalar parameter value.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
}

// String creates a string value
func String(s string) Value { return Value{kind: KindString, s: s} }

// Int creates an integer value
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float creates a float value
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Bool creates a boolean value
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// ValueOf converts a decoded TOML scalar into a Value.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case int64:
		return Int(x), nil
	case int:
		return Int(int64(x)), nil
	case float64:
		return Float(x), nil
	default:
		return Value{}, fmt.Errorf("unsupported value of type %s", describe(v))
	}
}

// Kind returns the scalar type of the value
func (v Value) Kind() Kind { return v.kind }

// Interface returns the value as a plain Go scalar.
func (v Value) Interface() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	default:
		return v.s
	}
}

// String renders the value the way it is substituted into command templates.
// Integers are decimal, booleans are "true"/"false", floats use the shortest
// decimal that round-trips and keep a ".0" when integral.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return v.s
	}
}

// Equal reports whether two values have the same kind and content
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	case KindBool:
		return v.b == o.b
	default:
		return v.s == o.s
	}
}

// MarshalJSON encodes the value as its native JSON type. Non-finite floats
// have no JSON form and are encoded as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindFloat && (math.IsInf(v.f, 0) || math.IsNaN(v.f)) {
		return json.Marshal(v.String())
	}
	return json.Marshal(v.Interface())
}

// MarshalYAML encodes the value as its native YAML scalar
func (v Value) MarshalYAML() (any, error) {
	return v.Interface(), nil
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "list"
	case map[string]any:
		return "table"
	case []map[string]any:
		return "array of tables"
	case time.Time, toml.LocalDate, toml.LocalTime, toml.LocalDateTime:
		return "date/time"
	default:
		return fmt.Sprintf("%T", v)
	}
}
