package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// FlagMappings maps CLI flag names to configuration keys.
var FlagMappings = map[string]string{
	"log-level":     "log.level",
	"log-format":    "log.format",
	"provision-url": "provision.url",
	"storage-gib":   "provision.storage_gib",
	"log-base":      "logs.base",
	"template-dir":  "runtime.template_dir",
	"shared-dir":    "runtime.shared_dir",
	"engine":        "runtime.engine",
	"addr":          "server.addr",
	"root":          "server.root",
}

// Loader handles configuration loading from multiple sources.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
}

// NewLoader creates a loader. envPrefix is given without the trailing
// delimiter; nesting uses a double underscore: ISOSEQ__LOGS__BASE -> logs.base.
func NewLoader(envPrefix string) *Loader {
	return &Loader{
		k:         koanf.New("."),
		envPrefix: envPrefix + "__",
	}
}

// LoadWithDefaults loads, from lowest to highest priority, the struct
// defaults, the YAML file at configPath (if set) and the environment.
// A configPath that does not exist is an error.
func (l *Loader) LoadWithDefaults(defaults any, configPath string) error {
	if defaults != nil {
		if err := l.k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
			return fmt.Errorf("failed to load defaults: %w", err)
		}
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return fmt.Errorf("config file not found: %s", configPath)
		}
		if err := l.k.Load(file.Provider(configPath), koanfyaml.Parser()); err != nil {
			return fmt.Errorf("failed to load config file: %w", err)
		}
	}

	envProvider := env.Provider(l.envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, l.envPrefix))
		return strings.ReplaceAll(key, "__", ".")
	})
	if err := l.k.Load(envProvider, nil); err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}
	return nil
}

// LoadFlags applies flags explicitly set by the user. Flags without a mapping
// are ignored. Call after LoadWithDefaults.
func (l *Loader) LoadFlags(flags *pflag.FlagSet, mappings map[string]string) error {
	if flags == nil {
		return nil
	}
	var errs []error
	flags.Visit(func(f *pflag.Flag) {
		if key, ok := mappings[f.Name]; ok {
			if err := l.k.Set(key, f.Value.String()); err != nil {
				errs = append(errs, fmt.Errorf("flag %s: %w", f.Name, err))
			}
		}
	})
	return errors.Join(errs...)
}

// Unmarshal decodes the configuration at path ("" for the root) into out.
func (l *Loader) Unmarshal(path string, out any) error {
	return l.k.Unmarshal(path, out)
}

// Set manually sets a configuration value.
func (l *Loader) Set(key string, value any) error {
	return l.k.Set(key, value)
}

// DumpYAML writes the merged configuration as YAML.
func (l *Loader) DumpYAML(w io.Writer) error {
	return yaml.NewEncoder(w).Encode(l.k.Raw())
}

// Load builds the effective configuration: defaults, then configPath, then
// ISOSEQ__* environment variables, then explicitly set flags. The result is
// validated.
func Load(configPath string, flags *pflag.FlagSet) (Config, error) {
	l, err := layered(configPath, flags)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := l.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Dump writes the merged, unvalidated configuration as YAML.
func Dump(w io.Writer, configPath string, flags *pflag.FlagSet) error {
	l, err := layered(configPath, flags)
	if err != nil {
		return err
	}
	return l.DumpYAML(w)
}

func layered(configPath string, flags *pflag.FlagSet) (*Loader, error) {
	l := NewLoader(EnvPrefix)
	if err := l.LoadWithDefaults(Default(), configPath); err != nil {
		return nil, err
	}
	if err := l.LoadFlags(flags, FlagMappings); err != nil {
		return nil, err
	}
	return l, nil
}
