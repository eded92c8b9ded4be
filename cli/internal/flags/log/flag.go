// Package log provides logging functionality for the opc-diag CLI.
// It supports different log formats (JSON, text), log levels (debug, info, warn, error),
// and output destinations (stdout, stderr).
package log

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/opc-tools/opcdiag/cli/internal/flags/enum"
	"github.com/opc-tools/opcdiag/configuration"
)

// Log format constants
const (
	FormatFlagName = "logformat" // Flag name for log format configuration

	FormatText = "text" // Human-readable text format, suitable for console output
	FormatJSON = "json" // JSON format for structured logging, suitable for machine processing
)

// Log level constants
const (
	LevelFlagName = "loglevel" // Flag name for log level configuration

	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Log output constants
const (
	OutputFlagName = "logoutput" // Flag name for log output configuration

	OutputStderr = "stderr" // Standard error keeps logs apart from blob content written to stdout
	OutputStdout = "stdout"
)

// RegisterLoggingFlags registers the logging-related flags with the provided flag set.
//
// Usage examples:
//
//	--logformat json     # Output logs in JSON format for machine processing
//	--loglevel debug     # Show all logs including debug information
//	--logoutput stdout   # Write logs to standard output
func RegisterLoggingFlags(flagset *pflag.FlagSet) {
	enum.Var(flagset, FormatFlagName, []string{
		FormatText,
		FormatJSON,
	}, `set the log output format that is used to print individual logs`)

	enum.Var(flagset, LevelFlagName, []string{
		LevelWarn,
		LevelDebug,
		LevelInfo,
		LevelError,
	}, `sets the logging level`)

	enum.Var(flagset, OutputFlagName, []string{
		OutputStderr,
		OutputStdout,
	}, `set the log output destination`)
}

// GetBaseLogger creates a new slog.Logger based on the command's flags.
// Values from cfg are used for flags that were not set explicitly.
func GetBaseLogger(cmd *cobra.Command, cfg configuration.LogConfig) (*slog.Logger, error) {
	flags := cmd.Flags()
	if err := applyDefault(flags, LevelFlagName, cfg.Level); err != nil {
		return nil, fmt.Errorf("invalid log level in configuration: %w", err)
	}
	if err := applyDefault(flags, FormatFlagName, cfg.Format); err != nil {
		return nil, fmt.Errorf("invalid log format in configuration: %w", err)
	}

	logLevel, err := loggerLevelFromCommand(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to get log level: %w", err)
	}

	format, err := enum.Get(flags, FormatFlagName)
	if err != nil {
		return nil, fmt.Errorf("failed to get the log format from the command flag: %w", err)
	}

	output, err := enum.Get(flags, OutputFlagName)
	if err != nil {
		return nil, fmt.Errorf("failed to get the log output from the command flag: %w", err)
	}

	var outputWriter io.Writer
	switch output {
	case OutputStdout:
		outputWriter = cmd.OutOrStdout()
	default:
		outputWriter = cmd.ErrOrStderr()
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(outputWriter, opts)
	case FormatText:
		handler = slog.NewTextHandler(outputWriter, opts)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	return slog.New(handler), nil
}

// applyDefault sets the flag to value unless it was set on the command line.
func applyDefault(flags *pflag.FlagSet, name, value string) error {
	flag := flags.Lookup(name)
	if value == "" || flag == nil || flag.Changed {
		return nil
	}
	return flag.Value.Set(value)
}

// loggerLevelFromCommand converts the log level string from the command flags
// to the corresponding slog.Level value.
func loggerLevelFromCommand(cmd *cobra.Command) (slog.Level, error) {
	logLevel, err := enum.Get(cmd.Flags(), LevelFlagName)
	if err != nil {
		return slog.LevelWarn, err
	}
	switch logLevel {
	case LevelDebug:
		return slog.LevelDebug, nil
	case LevelInfo:
		return slog.LevelInfo, nil
	case LevelWarn:
		return slog.LevelWarn, nil
	case LevelError:
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("invalid log level: %s", logLevel)
	}
}
