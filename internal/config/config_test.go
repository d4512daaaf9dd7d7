package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"

	"github.com/me/nfisoseq/internal/execution"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "isoseq.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, `
provision:
  url: http://file.example/provision
  storage_gib: 200
  timeout: 2m
logs:
  base: s3://from-file/logs
log:
  level: debug
`)
	t.Setenv("ISOSEQ__LOGS__BASE", "s3://from-env/logs")
	t.Setenv("ISOSEQ__LOG__LEVEL", "warn")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	flags.String("log-format", "text", "")
	if err := flags.Parse([]string{"--log-level", "ERROR"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, flags)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Provision.URL != "http://file.example/provision" {
		t.Errorf("provision.url = %q", cfg.Provision.URL)
	}
	if cfg.Provision.StorageGiB != 200 {
		t.Errorf("provision.storage_gib = %d", cfg.Provision.StorageGiB)
	}
	if cfg.Provision.Timeout != 2*time.Minute {
		t.Errorf("provision.timeout = %v", cfg.Provision.Timeout)
	}
	if cfg.Logs.Base != "s3://from-env/logs" {
		t.Errorf("logs.base = %q, want env to beat the file", cfg.Logs.Base)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("log.level = %q, want the flag to win", cfg.Log.Level)
	}
	// Unset flags do not override lower layers.
	if cfg.Log.Format != "text" {
		t.Errorf("log.format = %q", cfg.Log.Format)
	}
	// Untouched keys keep their defaults.
	if cfg.Runtime.SharedDir != "/nf-workdir" {
		t.Errorf("runtime.shared_dir = %q", cfg.Runtime.SharedDir)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("Load() error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad url", func(c *Config) { c.Provision.URL = "not a url" }, "provision.url"},
		{"zero storage", func(c *Config) { c.Provision.StorageGiB = 0 }, "provision.storage_gib"},
		{"no engine", func(c *Config) { c.Runtime.Engine = "" }, "runtime.engine"},
		{"nested exclude", func(c *Config) { c.Runtime.Exclude = []string{"a/b"} }, "runtime.exclude[0]"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"bad name url", func(c *Config) { c.Identity.NameURL = "::" }, "identity.name_url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			var cerr *execution.ConfigurationError
			if !errors.As(err, &cerr) {
				t.Fatalf("Validate() error = %v, want ConfigurationError", err)
			}
			if cerr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cerr.Field, tt.field)
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestConversions(t *testing.T) {
	cfg := Default()
	cfg.Logs.Base = "s3://b/p"
	cfg.Logs.S3Region = "us-west-2"

	wf := cfg.Workflow()
	if wf.Nextflow.Engine != "/root/nextflow" || wf.TemplateDir != "/root" || wf.LogBase != "s3://b/p" {
		t.Errorf("Workflow() = %+v", wf)
	}
	if got := cfg.LogStore().S3.Region; got != "us-west-2" {
		t.Errorf("LogStore().S3.Region = %q", got)
	}
	if got := cfg.ProvisionClient(); got.StorageGiB != 100 || got.Timeout != time.Minute {
		t.Errorf("ProvisionClient() = %+v", got)
	}
	if got := cfg.EnvNames().ExecutionID; got != "FLYTE_INTERNAL_EXECUTION_ID" {
		t.Errorf("EnvNames().ExecutionID = %q", got)
	}
}

func TestLoader_DumpYAML(t *testing.T) {
	l := NewLoader(EnvPrefix)
	if err := l.LoadWithDefaults(Default(), ""); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := l.DumpYAML(&buf); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"provision:", "storage_gib: 100", "pipeline_id: nf_nf_core_isoseq"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("dump missing %q:\n%s", want, buf.String())
		}
	}
}
