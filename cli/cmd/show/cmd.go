package show

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opc-tools/opcdiag/blob"
	diagctx "github.com/opc-tools/opcdiag/cli/internal/context"
	"github.com/opc-tools/opcdiag/physpkg"
)

const FlagTail = "tail"

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show {package} {uri}",
		Short: "Write the content of a single part of an OPC package",
		Long: fmt.Sprintf(`Write the content of a single part of an OPC package to standard output.

The part is identified by its full URI as shown by the list command. With --%[1]s the
argument is matched against the trailing segments of all URIs instead, for example
"document.xml" finds "word/document.xml". If more than one URI ends in the given tail,
the command fails and names all candidates.`, FlagTail),
		Example: strings.TrimSpace(`
show document.docx word/document.xml
show ./expanded-document --tail .rels
`),
		Args:              cobra.ExactArgs(2),
		RunE:              ShowPart,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	cmd.Flags().Bool(FlagTail, false, "match the uri argument against URI tails instead of full URIs")

	return cmd
}

// ShowPart writes the bytes of the part args[1] of the package args[0].
func ShowPart(cmd *cobra.Command, args []string) (err error) {
	byTail, err := cmd.Flags().GetBool(FlagTail)
	if err != nil {
		return fmt.Errorf("getting tail flag failed: %w", err)
	}

	ctx := cmd.Context()
	opts := diagctx.FromContext(ctx).Configuration().ReadOptions()
	pkg, err := physpkg.ReadWithOptions(ctx, args[0], opts)
	if err != nil {
		return fmt.Errorf("reading package %q failed: %w", args[0], err)
	}

	var b *blob.Blob
	if byTail {
		b, err = pkg.GetByTail(args[1])
	} else {
		b, err = pkg.Get(args[1])
	}
	if errors.Is(err, physpkg.ErrBlobNotFound) && !byTail {
		if candidates := pkg.MatchTail(args[1]); len(candidates) > 0 {
			return fmt.Errorf("%w, did you mean one of: %s", err, strings.Join(candidates, ", "))
		}
	}
	if err != nil {
		return err
	}

	rc, err := b.ReadCloser()
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, rc.Close())
	}()
	_, err = io.Copy(cmd.OutOrStdout(), rc)
	return err
}
