package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/me/nfisoseq/internal/params"
)

// addParamFlags registers one flag per workflow parameter.
func addParamFlags(fs *pflag.FlagSet, reg *params.Registry) {
	for _, s := range reg.All() {
		usage := s.Description
		if s.Required() {
			usage += " (required)"
		}
		if s.Kind == params.KindOptionalBool {
			fs.Bool(s.Name, false, usage)
			continue
		}
		def := ""
		if s.Default.Present() {
			def = s.Default.Format()
		}
		fs.String(s.Name, def, usage)
	}
}

// paramFlagValues returns the parameter flags set on the command line.
func paramFlagValues(fs *pflag.FlagSet, reg *params.Registry) map[string]any {
	out := make(map[string]any)
	fs.Visit(func(f *pflag.Flag) {
		s, ok := reg.Lookup(f.Name)
		if !ok {
			return
		}
		if s.Kind == params.KindOptionalBool {
			out[f.Name] = f.Value.String() == "true"
			return
		}
		out[f.Name] = f.Value.String()
	})
	return out
}

// bindParams merges the optional params file with parameter flags, flags
// taking precedence, and binds the result.
func bindParams(cmd *cobra.Command, paramsFile string) (params.Values, error) {
	raw := map[string]any{}
	if paramsFile != "" {
		fromFile, err := params.ReadFile(paramsFile)
		if err != nil {
			return params.Values{}, err
		}
		raw = fromFile
	}
	for name, v := range paramFlagValues(cmd.Flags(), params.IsoSeq) {
		raw[name] = v
	}
	vals, err := params.IsoSeq.Bind(raw)
	if err != nil {
		return params.Values{}, fmt.Errorf("bind parameters: %w", err)
	}
	return vals, nil
}
