package configuration

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opc-tools/opcdiag/configuration"
)

// RegisterConfigFlag adds the persistent --config flag to cmd.
func RegisterConfigFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().String(configuration.ConfigCommandArgument, "", fmt.Sprintf(`supply configuration by a given configuration file.
By default (without specifying a custom location with this flag), the files found at the well known locations are merged,
earlier locations taking precedence:
1. The path specified in the %s environment variable
2. $XDG_CONFIG_HOME/%[2]s/%[3]s
3. $HOME/.config/%[2]s/%[3]s
Using the option, only this configuration file is used instead of the lookup above.`,
		configuration.ConfigEnvironmentKey, configuration.ConfigDirectoryName, configuration.ConfigFileName))
}

// GetConfigForCommand resolves the configuration for cmd, honouring the --config flag.
func GetConfigForCommand(cmd *cobra.Command) (*configuration.Config, error) {
	path, _ := cmd.Flags().GetString(configuration.ConfigCommandArgument)
	cfg, err := configuration.Lookup(path)
	if err != nil {
		return nil, fmt.Errorf("could not get configuration: %w", err)
	}
	return cfg, nil
}
