package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/nfisoseq/internal/config"
	"github.com/me/nfisoseq/internal/params"
	"github.com/me/nfisoseq/internal/workflow"
)

func newDescribeCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the workflow manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := workflow.NewManifest(params.IsoSeq, cfg.Provision.StorageGiB).Encode(format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format (yaml, json)")
	return cmd
}

func newParamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "List the workflow parameters by section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for i, sec := range params.IsoSeq.Sections() {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "%s\n", sec.Title)
				fmt.Fprintf(out, "  %-30s  %-16s  %-10s  %s\n", "NAME", "TYPE", "DEFAULT", "DESCRIPTION")
				for _, s := range sec.Specs {
					def := "-"
					switch {
					case s.Default.Present():
						def = s.Default.Format()
					case s.Required():
						def = "required"
					}
					fmt.Fprintf(out, "  %-30s  %-16s  %-10s  %s\n", s.Name, s.Kind, def, s.Description)
				}
			}
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Dump(cmd.OutOrStdout(), flagConfig, cmd.Flags())
		},
	}
}
