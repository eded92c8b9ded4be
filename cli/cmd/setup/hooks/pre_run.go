package hooks

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	cmdconfig "github.com/opc-tools/opcdiag/cli/cmd/configuration"
	diagctx "github.com/opc-tools/opcdiag/cli/internal/context"
	"github.com/opc-tools/opcdiag/cli/internal/flags/log"
)

// PreRunE loads the configuration, sets up the default logger and registers
// the command line context before any command runs.
func PreRunE(cmd *cobra.Command, _ []string) error {
	cfg, err := cmdconfig.GetConfigForCommand(cmd)
	if err != nil {
		return err
	}

	logger, err := log.GetBaseLogger(cmd, cfg.Log)
	if err != nil {
		return fmt.Errorf("could not retrieve logger: %w", err)
	}
	slog.SetDefault(logger)
	for _, source := range cfg.Sources() {
		slog.DebugContext(cmd.Context(), "using configuration file", slog.String("path", source))
	}

	cmd.SetContext(diagctx.WithConfiguration(cmd.Context(), cfg))
	diagctx.Register(cmd)

	// inherit IO from parent if exists
	if parent := cmd.Parent(); parent != nil {
		cmd.SetOut(parent.OutOrStdout())
		cmd.SetErr(parent.ErrOrStderr())
	}

	return nil
}
