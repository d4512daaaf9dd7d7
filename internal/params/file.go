package params

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ReadFile loads a Nextflow-style params file. YAML and JSON are both
// accepted since JSON is valid YAML.
func ReadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read params file: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse params file %s: %w", path, err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}
