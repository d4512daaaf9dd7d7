package params

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// Path is a file or directory parameter value. Remote locations
// (any scheme:// URI) take precedence over the local path.
type Path struct {
	Local  string `json:"local,omitempty" yaml:"local,omitempty"`
	Remote string `json:"remote,omitempty" yaml:"remote,omitempty"`
}

// ParsePath classifies s as a remote URI or a local path.
// Local paths are made absolute.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Path{}, fmt.Errorf("empty path")
	}
	if strings.Contains(s, "://") {
		return Path{Remote: s}, nil
	}
	abs, err := filepath.Abs(s)
	if err != nil {
		return Path{}, fmt.Errorf("resolve %q: %w", s, err)
	}
	return Path{Local: abs}, nil
}

// String returns the location handed to the pipeline engine.
func (p Path) String() string {
	if p.Remote != "" {
		return p.Remote
	}
	return p.Local
}

// Value is a tagged parameter value. The zero Value is absent.
type Value struct {
	typ base
	s   string
	i   int64
	f   float64
	b   bool
	p   Path
}

// String returns a present string value.
func String(s string) Value { return Value{typ: baseString, s: s} }

// Int returns a present integer value.
func Int(i int64) Value { return Value{typ: baseInt, i: i} }

// Float returns a present float value.
func Float(f float64) Value { return Value{typ: baseFloat, f: f} }

// Bool returns a present boolean value.
func Bool(b bool) Value { return Value{typ: baseBool, b: b} }

// PathValue returns a present path value.
func PathValue(p Path) Value { return Value{typ: basePath, p: p} }

// Absent is the value of an optional parameter that was not supplied.
var Absent = Value{}

// Present reports whether the value carries data.
func (v Value) Present() bool { return v.typ != baseNone }

// StringValue returns the string payload.
func (v Value) StringValue() string { return v.s }

// IntValue returns the integer payload.
func (v Value) IntValue() int64 { return v.i }

// FloatValue returns the float payload.
func (v Value) FloatValue() float64 { return v.f }

// BoolValue returns the boolean payload.
func (v Value) BoolValue() bool { return v.b }

// PathValue returns the path payload.
func (v Value) PathValue() Path { return v.p }

// Interface returns the payload as a plain Go value for documents.
// Absent values return nil.
func (v Value) Interface() any {
	switch v.typ {
	case baseString:
		return v.s
	case baseInt:
		return v.i
	case baseFloat:
		return v.f
	case baseBool:
		return v.b
	case basePath:
		return v.p.String()
	}
	return nil
}

// Format renders the value as a single command-line token.
func (v Value) Format() string {
	switch v.typ {
	case baseString:
		return v.s
	case baseInt:
		return strconv.FormatInt(v.i, 10)
	case baseFloat:
		return formatFloat(v.f)
	case baseBool:
		return strconv.FormatBool(v.b)
	case basePath:
		return v.p.String()
	}
	return ""
}

// formatFloat produces the shortest round-trip form and always keeps a
// decimal point or exponent so floats are never mistaken for integers.
func formatFloat(f float64) string {
	abs := math.Abs(f)
	var s string
	if f == 0 || (abs >= 1e-4 && abs < 1e16) {
		s = strconv.FormatFloat(f, 'f', -1, 64)
	} else {
		s = strconv.FormatFloat(f, 'e', -1, 64)
	}
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

func (v Value) String() string {
	if !v.Present() {
		return "<absent>"
	}
	return v.Format()
}
