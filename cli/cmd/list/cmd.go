package list

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	diagctx "github.com/opc-tools/opcdiag/cli/internal/context"
	"github.com/opc-tools/opcdiag/cli/internal/flags/enum"
	"github.com/opc-tools/opcdiag/physpkg"
)

const (
	FlagOutput           = "output"
	FlagConcurrencyLimit = "concurrency-limit"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list {package}...",
		Aliases: []string{"ls", "parts"},
		Short:   "List the parts of one or more OPC packages",
		Long: `List the parts of one or more OPC packages.

A package is either a zip archive (such as a .docx, .xlsx or .pptx file) or a directory
holding the expanded contents of such an archive. Every part is listed with its URI,
its size in bytes and its sha256 digest.

Packages are read concurrently. If any package cannot be read, nothing is printed.`,
		Example: `list document.docx
list ./expanded-document --output json
list a.xlsx b.xlsx -oyaml`,
		Args:              cobra.MinimumNArgs(1),
		RunE:              ListParts,
		DisableAutoGenTag: true,
	}

	enum.VarP(cmd.Flags(), FlagOutput, "o", []string{"table", "yaml", "json"}, "output format of the part listing")
	cmd.Flags().Int(FlagConcurrencyLimit, runtime.NumCPU(), "maximum amount of packages read in parallel")

	return cmd
}

// ListParts reads every package given in args and prints its parts.
func ListParts(cmd *cobra.Command, args []string) error {
	output, err := enum.Get(cmd.Flags(), FlagOutput)
	if err != nil {
		return fmt.Errorf("getting output flag failed: %w", err)
	}
	limit, err := cmd.Flags().GetInt(FlagConcurrencyLimit)
	if err != nil {
		return fmt.Errorf("getting concurrency-limit flag failed: %w", err)
	}

	parts, err := readParts(cmd, args, limit)
	if err != nil {
		return err
	}

	data, err := encodeParts(output, parts)
	if err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return fmt.Errorf("writing part listing failed: %w", err)
	}
	return nil
}

func readParts(cmd *cobra.Command, paths []string, limit int) ([]Part, error) {
	ctx := cmd.Context()
	opts := diagctx.FromContext(ctx).Configuration().ReadOptions()

	perPackage := make([][]Part, len(paths))
	eg, egctx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}
	for i, path := range paths {
		eg.Go(func() error {
			pkg, err := physpkg.ReadWithOptions(egctx, path, opts)
			if err != nil {
				return fmt.Errorf("reading package %q failed: %w", path, err)
			}
			slog.DebugContext(egctx, "read package", slog.String("path", path), slog.String("format", pkg.Format().String()), slog.Int("parts", pkg.Len()))
			perPackage[i] = partsOf(path, pkg)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var parts []Part
	for _, p := range perPackage {
		parts = append(parts, p...)
	}
	return parts, nil
}
