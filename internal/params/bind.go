package params

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Values holds one resolved value per registered parameter.
type Values struct {
	reg  *Registry
	vals map[string]Value
}

// Get returns the value bound to name; unregistered names are absent.
func (v Values) Get(name string) Value {
	return v.vals[name]
}

// Registry returns the registry the values were bound against.
func (v Values) Registry() *Registry {
	return v.reg
}

// Map returns the present values as plain Go values keyed by name.
func (v Values) Map() map[string]any {
	out := make(map[string]any, len(v.vals))
	for name, val := range v.vals {
		if val.Present() {
			out[name] = val.Interface()
		}
	}
	return out
}

// FieldError describes why one parameter could not be bound.
type FieldError struct {
	Name    string
	Message string
}

// BindError lists every parameter that failed to bind.
type BindError struct {
	Problems []FieldError
}

func (e *BindError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.Name + ": " + p.Message
	}
	return "invalid parameters: " + strings.Join(parts, "; ")
}

// Defaults binds no supplied values. It fails when the registry has
// required parameters.
func (r *Registry) Defaults() (Values, error) {
	return r.Bind(nil)
}

// Bind resolves raw values (from a YAML/JSON params document or CLI flag
// strings) against the registry. Keys missing from raw take the registry
// default; an explicit null makes an optional parameter absent. Only the type
// tag is checked, never ranges.
func (r *Registry) Bind(raw map[string]any) (Values, error) {
	vals := Values{reg: r, vals: make(map[string]Value, len(r.specs))}
	var problems []FieldError

	for _, s := range r.specs {
		rv, supplied := raw[s.Name]
		if !supplied {
			if s.Required() {
				problems = append(problems, FieldError{Name: s.Name, Message: "required"})
				continue
			}
			vals.vals[s.Name] = s.Default
			continue
		}
		v, err := decode(s, rv)
		if err != nil {
			problems = append(problems, FieldError{Name: s.Name, Message: err.Error()})
			continue
		}
		vals.vals[s.Name] = v
	}

	var unknown []string
	for name := range raw {
		if _, ok := r.index[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		problems = append(problems, FieldError{Name: name, Message: "unknown parameter"})
	}

	if len(problems) > 0 {
		return Values{}, &BindError{Problems: problems}
	}
	return vals, nil
}

// decode converts one raw value to the kind declared by s.
func decode(s Spec, raw any) (Value, error) {
	if raw == nil {
		if s.Kind.Optional() {
			return Absent, nil
		}
		return Absent, fmt.Errorf("required")
	}

	switch s.Kind.base() {
	case baseString:
		str, ok := raw.(string)
		if !ok {
			return Absent, fmt.Errorf("expected string, got %T", raw)
		}
		return String(str), nil

	case baseInt:
		switch n := raw.(type) {
		case int:
			return Int(int64(n)), nil
		case int64:
			return Int(n), nil
		case uint64:
			if n > math.MaxInt64 {
				return Absent, fmt.Errorf("integer %d out of range", n)
			}
			return Int(int64(n)), nil
		case float64:
			if n != math.Trunc(n) {
				return Absent, fmt.Errorf("expected integer, got %v", n)
			}
			return Int(int64(n)), nil
		case string:
			i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
			if err != nil {
				return Absent, fmt.Errorf("expected integer, got %q", n)
			}
			return Int(i), nil
		}
		return Absent, fmt.Errorf("expected integer, got %T", raw)

	case baseFloat:
		switch n := raw.(type) {
		case float64:
			return Float(n), nil
		case int:
			return Float(float64(n)), nil
		case int64:
			return Float(float64(n)), nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if err != nil {
				return Absent, fmt.Errorf("expected number, got %q", n)
			}
			return Float(f), nil
		}
		return Absent, fmt.Errorf("expected number, got %T", raw)

	case baseBool:
		switch b := raw.(type) {
		case bool:
			return Bool(b), nil
		case string:
			parsed, err := strconv.ParseBool(strings.TrimSpace(b))
			if err != nil {
				return Absent, fmt.Errorf("expected boolean, got %q", b)
			}
			return Bool(parsed), nil
		}
		return Absent, fmt.Errorf("expected boolean, got %T", raw)

	case basePath:
		switch p := raw.(type) {
		case string:
			parsed, err := ParsePath(p)
			if err != nil {
				return Absent, err
			}
			return PathValue(parsed), nil
		case Path:
			if p.String() == "" {
				return Absent, fmt.Errorf("empty path")
			}
			return PathValue(p), nil
		}
		return Absent, fmt.Errorf("expected path string, got %T", raw)
	}

	return Absent, fmt.Errorf("unsupported kind %s", s.Kind)
}
