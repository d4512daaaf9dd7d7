package params

// FlagGroup returns the tokens one parameter contributes to the Nextflow
// command line: nothing when absent, "--name" alone for a true boolean,
// nothing for a false boolean, and "--name value" otherwise.
func FlagGroup(name string, v Value) []string {
	if !v.Present() {
		return nil
	}
	flag := "--" + name
	if v.typ == baseBool {
		if v.b {
			return []string{flag}
		}
		return nil
	}
	return []string{flag, v.Format()}
}

// Flags concatenates the flag groups of every registered parameter in
// registry order.
func (v Values) Flags() []string {
	if v.reg == nil {
		return nil
	}
	var out []string
	for _, s := range v.reg.specs {
		out = append(out, FlagGroup(s.Name, v.vals[s.Name])...)
	}
	return out
}
