// Package nextflow builds and runs the Nextflow command line for the isoseq
// pipeline.
package nextflow

import (
	"path/filepath"
	"strings"

	"github.com/me/nfisoseq/internal/params"
	"github.com/me/nfisoseq/pkg/model"
)

// LogFileName is the log Nextflow writes into its launch directory.
const LogFileName = ".nextflow.log"

// Defaults of the runtime profile.
const (
	DefaultEngine     = "/root/nextflow"
	DefaultSharedDir  = "/nf-workdir"
	DefaultDescriptor = "main.nf"
	DefaultProfile    = "docker"
	DefaultConfigFile = "latch.config"
	DefaultNXFHome    = "/root/.nextflow"
	DefaultNXFOpts    = "-Xms2048M -Xmx8G -XX:ActiveProcessorCount=4"
)

// Config is the fixed part of the command line and environment.
type Config struct {
	Engine     string
	SharedDir  string
	Descriptor string // relative to SharedDir
	Profile    string
	ConfigFile string
	NXFHome    string
	NXFOpts    string
}

// DefaultConfig returns the profile used in the cluster.
func DefaultConfig() Config {
	return Config{
		Engine:     DefaultEngine,
		SharedDir:  DefaultSharedDir,
		Descriptor: DefaultDescriptor,
		Profile:    DefaultProfile,
		ConfigFile: DefaultConfigFile,
		NXFHome:    DefaultNXFHome,
		NXFOpts:    DefaultNXFOpts,
	}
}

// Invocation is a fully built Nextflow command. It is constructed once per
// execution and never mutated; accessors return copies.
type Invocation struct {
	program string
	args    []string
	env     []string // KEY=VALUE overlay, applied on top of the inherited environment
	dir     string
}

// Build assembles the command line:
//
//	<engine> run <shared>/<descriptor> -work-dir <shared> -profile <profile> -c <config> [--<param> <value>]...
//
// followed by one flag group per registered parameter in registry order.
func Build(cfg Config, vals params.Values, vol model.Volume) Invocation {
	args := []string{
		"run",
		filepath.Join(cfg.SharedDir, cfg.Descriptor),
		"-work-dir",
		cfg.SharedDir,
		"-profile",
		cfg.Profile,
		"-c",
		cfg.ConfigFile,
	}
	args = append(args, vals.Flags()...)

	return Invocation{
		program: cfg.Engine,
		args:    args,
		env: []string{
			"NXF_HOME=" + cfg.NXFHome,
			"NXF_OPTS=" + cfg.NXFOpts,
			"K8S_STORAGE_CLAIM_NAME=" + vol.Name,
			"NXF_DISABLE_CHECK_LATEST=true",
		},
		dir: cfg.SharedDir,
	}
}

// Program returns the engine binary path.
func (i Invocation) Program() string { return i.program }

// Args returns the arguments after the program.
func (i Invocation) Args() []string { return append([]string(nil), i.args...) }

// Argv returns program and arguments as one slice.
func (i Invocation) Argv() []string {
	return append([]string{i.program}, i.args...)
}

// Dir returns the working directory of the process.
func (i Invocation) Dir() string { return i.dir }

// EnvOverlay returns the KEY=VALUE pairs set on top of the inherited environment.
func (i Invocation) EnvOverlay() []string { return append([]string(nil), i.env...) }

// Environ merges the overlay into base. Overlay keys replace inherited ones;
// every other inherited variable is kept in order.
func (i Invocation) Environ(base []string) []string {
	overridden := make(map[string]struct{}, len(i.env))
	for _, kv := range i.env {
		overridden[envKey(kv)] = struct{}{}
	}
	out := make([]string, 0, len(base)+len(i.env))
	for _, kv := range base {
		if _, ok := overridden[envKey(kv)]; ok {
			continue
		}
		out = append(out, kv)
	}
	return append(out, i.env...)
}

// String renders the command line for display.
func (i Invocation) String() string {
	return strings.Join(i.Argv(), " ")
}

func envKey(kv string) string {
	if k, _, ok := strings.Cut(kv, "="); ok {
		return k
	}
	return kv
}

// LogPath returns where Nextflow leaves its log for cfg.
func LogPath(cfg Config) string {
	return filepath.Join(cfg.SharedDir, LogFileName)
}
