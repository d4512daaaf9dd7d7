// Package config holds the layered configuration of the isoseq wrapper.
package config

import (
	"time"

	"github.com/me/nfisoseq/internal/execution"
	"github.com/me/nfisoseq/internal/logstore"
	"github.com/me/nfisoseq/internal/nextflow"
	"github.com/me/nfisoseq/internal/provision"
	"github.com/me/nfisoseq/internal/workdir"
	"github.com/me/nfisoseq/internal/workflow"
	"github.com/me/nfisoseq/pkg/model"
)

// EnvPrefix is the prefix of environment overrides, e.g.
// ISOSEQ__PROVISION__URL -> provision.url.
const EnvPrefix = "ISOSEQ"

// Config is the root configuration.
type Config struct {
	Provision ProvisionConfig `koanf:"provision"`
	Runtime   RuntimeConfig   `koanf:"runtime"`
	Logs      LogsConfig      `koanf:"logs"`
	Identity  IdentityConfig  `koanf:"identity"`
	Log       LogConfig       `koanf:"log"`
	Server    ServerConfig    `koanf:"server"`
}

// ProvisionConfig configures the storage provisioning client.
type ProvisionConfig struct {
	URL        string        `koanf:"url" validate:"required,url"`
	StorageGiB int           `koanf:"storage_gib" validate:"gt=0"`
	Timeout    time.Duration `koanf:"timeout" validate:"gt=0"`
}

// RuntimeConfig configures the working directory and the Nextflow process.
type RuntimeConfig struct {
	Engine      string   `koanf:"engine" validate:"required"`
	TemplateDir string   `koanf:"template_dir" validate:"required"`
	SharedDir   string   `koanf:"shared_dir" validate:"required"`
	Descriptor  string   `koanf:"descriptor" validate:"required"`
	Profile     string   `koanf:"profile" validate:"required"`
	ConfigFile  string   `koanf:"config_file"`
	NXFHome     string   `koanf:"nxf_home"`
	NXFOpts     string   `koanf:"nxf_opts"`
	Exclude     []string `koanf:"exclude" validate:"dive,required,excludesall=/"`
}

// LogsConfig configures where the Nextflow log is uploaded.
type LogsConfig struct {
	Base        string `koanf:"base" validate:"required"`
	PipelineID  string `koanf:"pipeline_id" validate:"required"`
	S3Region    string `koanf:"s3_region"`
	S3Endpoint  string `koanf:"s3_endpoint" validate:"omitempty,url"`
	S3PathStyle bool   `koanf:"s3_path_style"`
	HTTPToken   string `koanf:"http_token"`
}

// IdentityConfig selects where the execution identity comes from.
type IdentityConfig struct {
	ExecutionIDEnv   string `koanf:"execution_id_env" validate:"required"`
	ExecutionNameEnv string `koanf:"execution_name_env" validate:"required"`
	// NameURL is an optional endpoint resolving the execution name from the token.
	NameURL string `koanf:"name_url" validate:"omitempty,url"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn warning error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

// ServerConfig configures the local provisioning service.
type ServerConfig struct {
	Addr string `koanf:"addr" validate:"required"`
	Root string `koanf:"root" validate:"required"`
}

// Default returns the cluster profile.
func Default() Config {
	nf := nextflow.DefaultConfig()
	return Config{
		Provision: ProvisionConfig{
			URL:        provision.DefaultURL,
			StorageGiB: model.DefaultStorageGiB,
			Timeout:    60 * time.Second,
		},
		Runtime: RuntimeConfig{
			Engine:      nf.Engine,
			TemplateDir: workflow.DefaultTemplateDir,
			SharedDir:   nf.SharedDir,
			Descriptor:  nf.Descriptor,
			Profile:     nf.Profile,
			ConfigFile:  nf.ConfigFile,
			NXFHome:     nf.NXFHome,
			NXFOpts:     nf.NXFOpts,
			Exclude:     append([]string(nil), workdir.DefaultExclude...),
		},
		Logs: LogsConfig{
			Base:       "file:///tmp/nf-logs",
			PipelineID: workflow.DefaultPipelineID,
		},
		Identity: IdentityConfig{
			ExecutionIDEnv:   execution.DefaultExecutionIDEnv,
			ExecutionNameEnv: execution.DefaultExecutionNameEnv,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: ":8089",
			Root: "/tmp/isoseq-volumes",
		},
	}
}

// ProvisionClient returns the provisioning client configuration.
func (c Config) ProvisionClient() provision.Config {
	return provision.Config{
		URL:        c.Provision.URL,
		StorageGiB: c.Provision.StorageGiB,
		Timeout:    c.Provision.Timeout,
	}
}

// Nextflow returns the engine configuration.
func (c Config) Nextflow() nextflow.Config {
	return nextflow.Config{
		Engine:     c.Runtime.Engine,
		SharedDir:  c.Runtime.SharedDir,
		Descriptor: c.Runtime.Descriptor,
		Profile:    c.Runtime.Profile,
		ConfigFile: c.Runtime.ConfigFile,
		NXFHome:    c.Runtime.NXFHome,
		NXFOpts:    c.Runtime.NXFOpts,
	}
}

// Workflow returns the driver configuration.
func (c Config) Workflow() workflow.Config {
	return workflow.Config{
		Nextflow:    c.Nextflow(),
		TemplateDir: c.Runtime.TemplateDir,
		Exclude:     append([]string(nil), c.Runtime.Exclude...),
		LogBase:     c.Logs.Base,
		PipelineID:  c.Logs.PipelineID,
	}
}

// LogStore returns the log store configuration.
func (c Config) LogStore() logstore.Config {
	return logstore.Config{
		S3: logstore.S3Config{
			Region:       c.Logs.S3Region,
			Endpoint:     c.Logs.S3Endpoint,
			UsePathStyle: c.Logs.S3PathStyle,
		},
		HTTP: logstore.HTTPConfig{
			BearerToken: c.Logs.HTTPToken,
		},
	}
}

// EnvNames returns the environment variables holding the execution identity.
func (c Config) EnvNames() execution.EnvNames {
	return execution.EnvNames{
		ExecutionID:   c.Identity.ExecutionIDEnv,
		ExecutionName: c.Identity.ExecutionNameEnv,
	}
}
