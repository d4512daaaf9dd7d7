package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/nfisoseq/internal/execution"
	"github.com/me/nfisoseq/internal/logstore"
	"github.com/me/nfisoseq/internal/nextflow"
	"github.com/me/nfisoseq/internal/params"
	"github.com/me/nfisoseq/internal/provision"
	"github.com/me/nfisoseq/internal/workflow"
	"github.com/me/nfisoseq/pkg/model"
)

// addRuntimeFlags registers the config overrides shared by the commands that
// launch Nextflow.
func addRuntimeFlags(cmd *cobra.Command) {
	cmd.Flags().String("engine", "", "Nextflow executable (overrides runtime.engine)")
	cmd.Flags().String("template-dir", "", "Template directory copied into the shared dir (overrides runtime.template_dir)")
	cmd.Flags().String("shared-dir", "", "Shared volume mount (overrides runtime.shared_dir)")
	cmd.Flags().String("log-base", "", "Remote base for the Nextflow log (overrides logs.base)")
}

func addProvisionFlags(cmd *cobra.Command) {
	cmd.Flags().String("provision-url", "", "Storage provisioning endpoint (overrides provision.url)")
	cmd.Flags().Int("storage-gib", 0, "Requested volume size in GiB (overrides provision.storage_gib)")
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [params-file]",
		Short: "Provision storage and run nf-core/isoseq",
		Long: `Runs both steps in order: provision a shared volume, then stage the
template, launch Nextflow and upload its log. Parameters come from an optional
YAML/JSON params file; --<param> flags override it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vals, err := bindParams(cmd, firstArg(args))
			if err != nil {
				return err
			}
			d, err := newDriver(cmd.Context())
			if err != nil {
				return err
			}
			return d.Run(cmd.Context(), executionContext(), vals)
		},
	}
	addParamFlags(cmd.Flags(), params.IsoSeq)
	addRuntimeFlags(cmd)
	addProvisionFlags(cmd)
	return cmd
}

func newInitializeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "initialize",
		Short: "Provision the shared volume and print its name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDriver(cmd.Context())
			if err != nil {
				return err
			}
			vol, err := d.Initialize(cmd.Context(), executionContext())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), vol.Name)
			return nil
		},
	}
	addProvisionFlags(cmd)
	return cmd
}

func newRuntimeCmd() *cobra.Command {
	var pvc string

	cmd := &cobra.Command{
		Use:   "runtime --pvc <name> [params-file]",
		Short: "Run nf-core/isoseq on an already provisioned volume",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vals, err := bindParams(cmd, firstArg(args))
			if err != nil {
				return err
			}
			d, err := newDriver(cmd.Context())
			if err != nil {
				return err
			}
			return d.Runtime(cmd.Context(), executionContext(), model.Volume{Name: pvc}, vals)
		},
	}
	cmd.Flags().StringVar(&pvc, "pvc", "", "Name of the provisioned volume")
	cmd.MarkFlagRequired("pvc")
	addParamFlags(cmd.Flags(), params.IsoSeq)
	addRuntimeFlags(cmd)
	return cmd
}

// newDriver wires the driver from the loaded configuration.
func newDriver(ctx context.Context) (*workflow.Driver, error) {
	store, err := logstore.New(ctx, cfg.Logs.Base, cfg.LogStore())
	if err != nil {
		return nil, &execution.ConfigurationError{Field: "logs.base", Err: err}
	}
	names := execution.ChainNameResolver{execution.StaticNameResolver{}}
	if cfg.Identity.NameURL != "" {
		names = append(names, execution.NewHTTPNameResolver(cfg.Identity.NameURL, logger))
	}
	return workflow.New(
		cfg.Workflow(),
		provision.NewClient(cfg.ProvisionClient(), logger),
		nextflow.NewExecRunner(logger),
		store,
		logger,
		workflow.WithNameResolver(names),
	), nil
}

func executionContext() execution.Context {
	return execution.FromEnv(cfg.EnvNames())
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
