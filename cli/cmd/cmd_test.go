package cmd_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"

	"github.com/opc-tools/opcdiag/cli/cmd"
	"github.com/opc-tools/opcdiag/cli/cmd/list"
	"github.com/opc-tools/opcdiag/physpkg"
)

var testParts = []struct {
	uri     string
	content string
}{
	{"[Content_Types].xml", `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`},
	{"_rels/.rels", `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"/>`},
	{"word/document.xml", `<w:document/>`},
	{"word/media/item.xml", `<media/>`},
	{"customXml/item.xml", `<custom/>`},
}

// isolateConfig makes sure no configuration of the host is picked up.
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("OPCDIAG_CONFIG", "")
}

// setupZipPackage writes the test parts as a zip archive and returns its path.
func setupZipPackage(t *testing.T) string {
	t.Helper()
	r := require.New(t)
	path := filepath.Join(t.TempDir(), "document.docx")
	f, err := os.Create(path)
	r.NoError(err)
	zw := zip.NewWriter(f)
	for _, part := range testParts {
		w, err := zw.Create(part.uri)
		r.NoError(err)
		_, err = w.Write([]byte(part.content))
		r.NoError(err)
	}
	r.NoError(zw.Close())
	r.NoError(f.Close())
	return path
}

// setupDirPackage writes the test parts as an expanded directory and returns its path.
func setupDirPackage(t *testing.T) string {
	t.Helper()
	r := require.New(t)
	dir := t.TempDir()
	for _, part := range testParts {
		path := filepath.Join(dir, filepath.FromSlash(part.uri))
		r.NoError(os.MkdirAll(filepath.Dir(path), 0o755))
		r.NoError(os.WriteFile(path, []byte(part.content), 0o644))
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := cmd.New()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func Test_List_Formats(t *testing.T) {
	isolateConfig(t)
	zipPath := setupZipPackage(t)
	dirPath := setupDirPackage(t)

	t.Run("table", func(t *testing.T) {
		r := require.New(t)
		out, err := run(t, "list", zipPath)
		r.NoError(err)
		r.Contains(out, "URI")
		r.Contains(out, "DIGEST")
		for _, part := range testParts {
			r.Contains(out, part.uri)
		}
	})

	t.Run("json", func(t *testing.T) {
		r := require.New(t)
		out, err := run(t, "list", zipPath, "--output", "json")
		r.NoError(err)

		var parts []list.Part
		scanner := bufio.NewScanner(strings.NewReader(out))
		for scanner.Scan() {
			var part list.Part
			r.NoError(json.Unmarshal(scanner.Bytes(), &part))
			parts = append(parts, part)
		}
		r.NoError(scanner.Err())
		r.Len(parts, len(testParts))
		for i, part := range parts {
			r.Equal(testParts[i].uri, part.URI, "zip parts are listed in archive order")
			r.Equal(int64(len(testParts[i].content)), part.Size)
			r.Equal(physpkg.FormatZip.String(), part.Format)
			r.True(strings.HasPrefix(part.Digest, "sha256:"))
		}
	})

	t.Run("yaml over several packages", func(t *testing.T) {
		r := require.New(t)
		out, err := run(t, "list", zipPath, dirPath, "-oyaml")
		r.NoError(err)

		var parts []list.Part
		r.NoError(yaml.Unmarshal([]byte(out), &parts))
		r.Len(parts, 2*len(testParts))

		digests := map[string]string{}
		for _, part := range parts {
			if part.Package == zipPath {
				digests[part.URI] = part.Digest
			}
		}
		for _, part := range parts {
			if part.Package == dirPath {
				r.Equal(physpkg.FormatDirectory.String(), part.Format)
				r.Equal(digests[part.URI], part.Digest, "both physical forms carry the same content")
			}
		}
	})

	t.Run("invalid output format", func(t *testing.T) {
		_, err := run(t, "list", zipPath, "-o", "xml")
		require.Error(t, err)
	})
}

func Test_List_Errors(t *testing.T) {
	isolateConfig(t)
	r := require.New(t)

	_, err := run(t, "list", filepath.Join(t.TempDir(), "missing.docx"))
	r.ErrorIs(err, physpkg.ErrPackageNotFound)

	corrupt := filepath.Join(t.TempDir(), "corrupt.docx")
	r.NoError(os.WriteFile(corrupt, []byte("not a zip archive"), 0o644))
	_, err = run(t, "list", setupZipPackage(t), corrupt)
	r.ErrorIs(err, physpkg.ErrInvalidPackage)

	_, err = run(t, "list")
	r.Error(err)
}

func Test_List_ConfigurationLimits(t *testing.T) {
	isolateConfig(t)
	r := require.New(t)

	cfg := filepath.Join(t.TempDir(), "config.yaml")
	r.NoError(os.WriteFile(cfg, []byte("read:\n  maxEntries: 2\n"), 0o644))

	_, err := run(t, "list", "--config", cfg, setupZipPackage(t))
	r.ErrorIs(err, physpkg.ErrInvalidPackage)

	_, err = run(t, "list", "--config", cfg, setupDirPackage(t))
	r.ErrorIs(err, physpkg.ErrInvalidPackage)

	invalid := filepath.Join(t.TempDir(), "config.yaml")
	r.NoError(os.WriteFile(invalid, []byte("unknown: true\n"), 0o644))
	_, err = run(t, "list", "--config", invalid, setupZipPackage(t))
	r.Error(err)
}

func Test_Show(t *testing.T) {
	isolateConfig(t)

	for name, path := range map[string]string{
		"zip":       setupZipPackage(t),
		"directory": setupDirPackage(t),
	} {
		t.Run(name, func(t *testing.T) {
			r := require.New(t)

			out, err := run(t, "show", path, "word/document.xml")
			r.NoError(err)
			r.Equal(`<w:document/>`, out)

			out, err = run(t, "show", path, "--tail", "document.xml")
			r.NoError(err)
			r.Equal(`<w:document/>`, out)

			out, err = run(t, "show", path, "--tail", ".rels")
			r.NoError(err)
			r.Contains(out, "<Relationships")

			_, err = run(t, "show", path, "--tail", "item.xml")
			r.ErrorIs(err, physpkg.ErrAmbiguousTail)
			r.ErrorContains(err, "word/media/item.xml")
			r.ErrorContains(err, "customXml/item.xml")

			_, err = run(t, "show", path, "document.xml")
			r.ErrorIs(err, physpkg.ErrBlobNotFound)
			r.ErrorContains(err, "word/document.xml")

			_, err = run(t, "show", path, "--tail", "missing.xml")
			r.ErrorIs(err, physpkg.ErrBlobNotFound)
		})
	}
}

func Test_Version(t *testing.T) {
	isolateConfig(t)
	r := require.New(t)

	out, err := run(t, "version")
	r.NoError(err)

	var info map[string]any
	r.NoError(json.Unmarshal([]byte(out), &info))
	r.Contains(info, "major")
	r.Contains(info, "goVersion")

	out, err = run(t, "version", "--format", "gobuildinfo")
	r.NoError(err)
	r.Contains(out, "go")
}

func Test_LogFlags(t *testing.T) {
	isolateConfig(t)
	r := require.New(t)

	out, err := run(t, "--loglevel", "debug", "--logformat", "json", "--logoutput", "stdout", "list", "-ojson", setupZipPackage(t))
	r.NoError(err)
	r.Contains(out, `"msg":"read package"`)

	cfg := filepath.Join(t.TempDir(), "config.yaml")
	r.NoError(os.WriteFile(cfg, []byte("read:\n  maxEntries: 100\n"), 0o644))
	out, err = run(t, "--config", cfg, "--loglevel", "debug", "--logformat", "json", "--logoutput", "stdout", "version")
	r.NoError(err)
	r.Contains(out, `"msg":"using configuration file"`)
	r.Contains(out, cfg)

	_, err = run(t, "--loglevel", "verbose", "version")
	r.Error(err)
}
