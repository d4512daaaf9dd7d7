package cli

import (
	"github.com/spf13/cobra"

	"github.com/me/nfisoseq/internal/server"
)

func newProvisionerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provisioner",
		Short: "Local storage provisioning service",
	}
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve POST /provision-storage backed by local directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := server.New(server.Config{Addr: cfg.Server.Addr, Root: cfg.Server.Root}, logger)
			return srv.ListenAndServe(cmd.Context())
		},
	}
	serve.Flags().String("addr", "", "Listen address (overrides server.addr)")
	serve.Flags().String("root", "", "Directory holding volumes (overrides server.root)")
	cmd.AddCommand(serve)
	return cmd
}
