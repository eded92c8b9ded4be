package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/opc-tools/opcdiag/cli/cmd/configuration"
	"github.com/opc-tools/opcdiag/cli/cmd/list"
	"github.com/opc-tools/opcdiag/cli/cmd/setup/hooks"
	"github.com/opc-tools/opcdiag/cli/cmd/show"
	"github.com/opc-tools/opcdiag/cli/cmd/version"
	"github.com/opc-tools/opcdiag/cli/internal/flags/log"
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	err := New().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "opc-diag [sub-command]",
		Short: "Inspect the physical form of OPC packages",
		Long: `opc-diag reads Open Packaging Conventions (OPC) packages, such as Office documents,
either from their zip archive or from a directory holding the expanded archive,
and shows the parts they are made of.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: hooks.PreRunE,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	configuration.RegisterConfigFlag(cmd)
	log.RegisterLoggingFlags(cmd.PersistentFlags())
	cmd.AddCommand(list.New())
	cmd.AddCommand(show.New())
	cmd.AddCommand(version.New())
	return cmd
}
