package list

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"sigs.k8s.io/yaml"

	"github.com/opc-tools/opcdiag/physpkg"
)

// Part is a single listed part of a package.
type Part struct {
	Package string `json:"package"`
	Format  string `json:"format"`
	URI     string `json:"uri"`
	Size    int64  `json:"size"`
	Digest  string `json:"digest"`
}

func partsOf(path string, pkg physpkg.PhysPkg) []Part {
	parts := make([]Part, 0, pkg.Len())
	for uri, b := range pkg.All() {
		dig, _ := b.Digest()
		parts = append(parts, Part{
			Package: path,
			Format:  pkg.Format().String(),
			URI:     uri,
			Size:    b.Size(),
			Digest:  dig,
		})
	}
	return parts
}

func encodeParts(output string, parts []Part) ([]byte, error) {
	var data []byte
	var err error
	switch output {
	case "json":
		data, err = encodePartsAsNDJSON(parts)
	case "yaml":
		data, err = yaml.Marshal(parts)
	case "table":
		data = encodePartsAsTable(parts)
	default:
		err = fmt.Errorf("unknown output format: %q", output)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding part listing as %q failed: %w", output, err)
	}
	return data, nil
}

// encodePartsAsNDJSON writes one JSON document per line.
func encodePartsAsNDJSON(parts []Part) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	for _, part := range parts {
		if err := encoder.Encode(part); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func encodePartsAsTable(parts []Part) []byte {
	var buf bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.AppendHeader(table.Row{"Package", "Format", "URI", "Size", "Digest"})
	for _, part := range parts {
		t.AppendRow(table.Row{part.Package, part.Format, part.URI, part.Size, part.Digest})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
		{Number: 2, AutoMerge: true},
	})
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	t.Render()
	return buf.Bytes()
}
