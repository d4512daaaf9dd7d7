package workflow

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/me/nfisoseq/internal/params"
	"github.com/me/nfisoseq/pkg/model"
)

// Workflow identity as seen by the host platform.
const (
	Name        = "nf_nf_core_isoseq"
	DisplayName = "nf-core/isoseq"
	Description = "Genome annotation with PacBio Iso-Seq. Takes raw subreads as input, " +
		"generates Full Length Non Chimeric (FLNC) reads, maps them to the reference " +
		"genome and clusters similar transcripts."
)

// Task names.
const (
	TaskInitialize = "initialize"
	TaskRuntime    = "nextflow_runtime"
)

// TaskProfile is the resource request of one step.
type TaskProfile struct {
	Name       string   `json:"name" yaml:"name"`
	CPU        float64  `json:"cpu" yaml:"cpu"`
	MemoryGiB  float64  `json:"memory_gib" yaml:"memory_gib"`
	StorageGiB int      `json:"storage_gib" yaml:"storage_gib"`
	DependsOn  []string `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
}

// ManifestParam describes one parameter for UI generation.
type ManifestParam struct {
	Name        string      `json:"name" yaml:"name"`
	Type        params.Kind `json:"type" yaml:"type"`
	Required    bool        `json:"required" yaml:"required"`
	Default     any         `json:"default,omitempty" yaml:"default,omitempty"`
	Section     string      `json:"section,omitempty" yaml:"section,omitempty"`
	Description string      `json:"description" yaml:"description"`
	Output      bool        `json:"output,omitempty" yaml:"output,omitempty"`
}

// Manifest is the static description of the workflow.
type Manifest struct {
	Name        string          `json:"name" yaml:"name"`
	DisplayName string          `json:"display_name" yaml:"display_name"`
	Description string          `json:"description" yaml:"description"`
	Parameters  []ManifestParam `json:"parameters" yaml:"parameters"`
	Tasks       []TaskProfile   `json:"tasks" yaml:"tasks"`
}

// Tasks returns the resource profiles of both steps in execution order.
func Tasks(storageGiB int) []TaskProfile {
	if storageGiB <= 0 {
		storageGiB = model.DefaultStorageGiB
	}
	return []TaskProfile{
		{Name: TaskInitialize, CPU: 0.25, MemoryGiB: 0.5, StorageGiB: 1},
		{Name: TaskRuntime, CPU: 4, MemoryGiB: 8, StorageGiB: storageGiB, DependsOn: []string{TaskInitialize}},
	}
}

// NewManifest builds the manifest for reg.
func NewManifest(reg *params.Registry, storageGiB int) Manifest {
	m := Manifest{
		Name:        Name,
		DisplayName: DisplayName,
		Description: Description,
		Tasks:       Tasks(storageGiB),
	}
	for _, s := range reg.All() {
		m.Parameters = append(m.Parameters, ManifestParam{
			Name:        s.Name,
			Type:        s.Kind,
			Required:    s.Required(),
			Default:     s.Default.Interface(),
			Section:     s.Section,
			Description: s.Description,
			Output:      s.Output,
		})
	}
	return m
}

// Encode renders m as "yaml" or "json".
func (m Manifest) Encode(format string) ([]byte, error) {
	switch format {
	case "", "yaml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return nil, fmt.Errorf("encode manifest: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode manifest: %w", err)
		}
		return buf.Bytes(), nil
	case "json":
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode manifest: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported format %q (want yaml or json)", format)
	}
}
