// Package params declares the user-facing parameters of the isoseq workflow
// and turns supplied values into Nextflow flag groups.
package params

import "fmt"

// Spec declares one workflow parameter.
type Spec struct {
	Name        string
	Kind        Kind
	Default     Value
	Section     string // opens a UI group; empty means "same group as the previous spec"
	Description string
	Output      bool // directory is written by the pipeline
}

// Required reports whether the caller must supply a value.
func (s Spec) Required() bool {
	return !s.Kind.Optional()
}

// accepts reports whether v is a valid value for s. Absent values are only
// valid for optional kinds.
func (s Spec) accepts(v Value) bool {
	if !v.Present() {
		return s.Kind.Optional()
	}
	return v.typ == s.Kind.base()
}

// Section is a UI group of consecutive specs.
type Section struct {
	Title string
	Specs []Spec
}

// Registry is an immutable ordered set of parameter specs.
type Registry struct {
	specs []Spec
	index map[string]int
}

// NewRegistry builds a registry from specs in invocation order.
// Duplicate names, empty names and defaults that do not match the declared
// kind are programming errors and panic.
func NewRegistry(specs ...Spec) *Registry {
	r := &Registry{
		specs: make([]Spec, 0, len(specs)),
		index: make(map[string]int, len(specs)),
	}
	for _, s := range specs {
		if s.Name == "" {
			panic("params: spec with empty name")
		}
		if _, dup := r.index[s.Name]; dup {
			panic(fmt.Sprintf("params: duplicate spec %q", s.Name))
		}
		if s.Default.Present() && !s.accepts(s.Default) {
			panic(fmt.Sprintf("params: default for %q is %s, want %s", s.Name, s.Default.typ, s.Kind.base()))
		}
		if s.Required() && s.Default.Present() {
			panic(fmt.Sprintf("params: required spec %q must not have a default", s.Name))
		}
		if s.Output && s.Kind != KindDir {
			panic(fmt.Sprintf("params: only directories can be outputs (%q)", s.Name))
		}
		r.index[s.Name] = len(r.specs)
		r.specs = append(r.specs, s)
	}
	return r
}

// Lookup returns the spec registered under name.
func (r *Registry) Lookup(name string) (Spec, bool) {
	i, ok := r.index[name]
	if !ok {
		return Spec{}, false
	}
	return r.specs[i], true
}

// MustLookup is Lookup for names known at compile time.
func (r *Registry) MustLookup(name string) Spec {
	s, ok := r.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("params: no spec registered for %q", name))
	}
	return s
}

// All returns every spec in invocation order.
func (r *Registry) All() []Spec {
	out := make([]Spec, len(r.specs))
	copy(out, r.specs)
	return out
}

// Names returns the parameter names in invocation order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.specs))
	for i, s := range r.specs {
		names[i] = s.Name
	}
	return names
}

// Len returns the number of registered specs.
func (r *Registry) Len() int {
	return len(r.specs)
}

// Sections groups specs for form rendering. A spec with an empty Section
// stays in the group opened by the closest preceding titled spec.
func (r *Registry) Sections() []Section {
	var out []Section
	for _, s := range r.specs {
		if s.Section != "" || len(out) == 0 {
			out = append(out, Section{Title: s.Section})
		}
		last := &out[len(out)-1]
		last.Specs = append(last.Specs, s)
	}
	return out
}

// SectionOf returns the inherited section title of name.
func (r *Registry) SectionOf(name string) string {
	i, ok := r.index[name]
	if !ok {
		return ""
	}
	for ; i >= 0; i-- {
		if t := r.specs[i].Section; t != "" {
			return t
		}
	}
	return ""
}
