package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/danfe-zpl/internal/model"
	"github.com/rezonia/danfe-zpl/internal/storage"
)

const fixture = "testdata/nfe_proc.xml"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	resetFlags(rootCmd.PersistentFlags())
	for _, c := range rootCmd.Commands() {
		resetFlags(c.Flags())
	}

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

func xmlDirWith(t *testing.T, names ...string) string {
	t.Helper()

	data, err := os.ReadFile(fixture)
	require.NoError(t, err)

	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	return dir
}

func TestCommandsRegistered(t *testing.T) {
	names := make(map[string]*cobra.Command)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = c
	}
	for _, want := range []string{"generate", "info", "search", "batch", "serve"} {
		assert.Contains(t, names, want)
	}
}

func TestGenerate_Stdout(t *testing.T) {
	out, err := execute(t, "generate", fixture, "--stdout")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "^XA"))
	assert.Contains(t, out, "Numero 123/Serie 1")
	assert.Contains(t, out, "CPF: -")
	assert.Contains(t, out, "135250000000000 01/09/2025 08:55:07")
	assert.True(t, strings.HasSuffix(out, "^XZ\n"))
}

func TestGenerate_IncludeRecipientDocument(t *testing.T) {
	out, err := execute(t, "generate", fixture, "--stdout", "--include-recipient-document")
	require.NoError(t, err)
	assert.Contains(t, out, "CPF: 123.456.789-01")
}

func TestGenerate_SavesToOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels", "123.zpl")

	out, err := execute(t, "generate", fixture, "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "DANFE ZPL code generated and saved to: "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "^XA"))
	assert.True(t, strings.HasSuffix(string(data), "^XZ"))
}

func TestGenerate_PrintInfo(t *testing.T) {
	out, err := execute(t, "generate", fixture, "--stdout", "--print-info")
	require.NoError(t, err)

	assert.Contains(t, out, "Empresa LTDA")
	assert.Contains(t, out, "12.345.678/0001-95")
	assert.Contains(t, out, "R$ 1.500,00")
}

func TestGenerate_ByCode(t *testing.T) {
	dir := xmlDirWith(t, "nfe_000123.xml", "nfe_000456.xml")

	out, err := execute(t, "generate", "--code", "000123", "--xml-dir", dir, "--stdout")
	require.NoError(t, err)
	assert.Contains(t, out, "Numero 123/Serie 1")
}

func TestGenerate_CodeNotFound(t *testing.T) {
	dir := xmlDirWith(t, "nfe_000123.xml")

	_, err := execute(t, "generate", "--code", "999", "--xml-dir", dir, "--stdout")
	require.Error(t, err)

	var nfErr *model.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

func TestGenerate_CodeWithoutDirectory(t *testing.T) {
	_, err := execute(t, "generate", "--code", "000123", "--stdout")
	assert.ErrorIs(t, err, storage.ErrDirNotConfigured)
}

func TestGenerate_ArgumentErrors(t *testing.T) {
	_, err := execute(t, "generate")
	assert.EqualError(t, err, "an XML file or --code is required")

	_, err = execute(t, "generate", fixture, "--code", "123")
	assert.EqualError(t, err, "give either an XML file or --code, not both")
}

func TestGenerate_MissingFile(t *testing.T) {
	_, err := execute(t, "generate", filepath.Join(t.TempDir(), "missing.xml"), "--stdout")

	var nfErr *model.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

func TestRoot_InvalidFormat(t *testing.T) {
	_, err := execute(t, "info", fixture, "-f", "yaml")
	assert.EqualError(t, err, "unsupported output format: yaml")
}

func TestInfo_JSON(t *testing.T) {
	out, err := execute(t, "info", fixture, "-f", "json")
	require.NoError(t, err)

	var results []InfoResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)

	r := results[0]
	assert.Empty(t, r.Error)
	require.NotNil(t, r.Info)
	assert.Equal(t, "123", r.Info.Number)
	assert.Equal(t, "1", r.Info.Series)
	assert.Equal(t, "123.456.789-01", r.Info.Recipient.Document)
	assert.Equal(t, "1500.00", r.Info.Total)
	assert.Equal(t, "135250000000000", r.Info.Protocol)
}

func TestInfo_Table(t *testing.T) {
	out, err := execute(t, "info", fixture)
	require.NoError(t, err)

	assert.Contains(t, out, "File: "+fixture)
	assert.Contains(t, out, "=== NFe ===")
	assert.Contains(t, out, "João Silva")
	assert.Contains(t, out, "135250000000000")
}

func TestInfo_DirectoryWithBadFile(t *testing.T) {
	dir := xmlDirWith(t, "good.xml")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.xml"), []byte("<nfe"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))

	out, err := execute(t, "info", dir, "-f", "json")
	require.NoError(t, err)

	var results []InfoResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)

	assert.Equal(t, filepath.Join(dir, "bad.xml"), results[0].File)
	assert.NotEmpty(t, results[0].Error)
	assert.Equal(t, filepath.Join(dir, "good.xml"), results[1].File)
	assert.Empty(t, results[1].Error)
}

func TestSearch(t *testing.T) {
	dir := xmlDirWith(t, "nfe_000456.xml", "nfe_000123.xml")

	out, err := execute(t, "search", "--xml-dir", dir, "-f", "json")
	require.NoError(t, err)

	var list SearchResult
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Equal(t, []string{"nfe_000123.xml", "nfe_000456.xml"}, list.Files)
	assert.Equal(t, 2, list.Count)

	out, err = execute(t, "search", "000456", "--xml-dir", dir, "--workers", "2")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nfe_000456.xml")+"\n", out)
}

func TestSearch_InvalidWorkers(t *testing.T) {
	dir := xmlDirWith(t, "nfe_000123.xml")

	_, err := execute(t, "search", "--xml-dir", dir, "--workers", "-1")
	assert.Error(t, err)
}

func TestBatch(t *testing.T) {
	dir := xmlDirWith(t, "a.xml", "b.xml")
	outDir := t.TempDir()

	out, err := execute(t, "batch", dir, "--output-dir", outDir, "-f", "json")
	require.NoError(t, err)

	var results []BatchResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)

	for i, name := range []string{"a.zpl", "b.zpl"} {
		assert.Empty(t, results[i].Error)
		assert.Equal(t, filepath.Join(outDir, name), results[i].Output)

		data, err := os.ReadFile(filepath.Join(outDir, name))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "^XA"))
	}
}

func TestBatch_ReportsFailures(t *testing.T) {
	dir := xmlDirWith(t, "a.xml")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.xml"), []byte("not xml"), 0o644))

	out, err := execute(t, "batch", dir, "--output-dir", t.TempDir())
	require.EqualError(t, err, "1 of 2 files failed")

	assert.Contains(t, out, "FILE")
	assert.Contains(t, out, "ERROR:")
	assert.Contains(t, out, "NFe 123/1")
}

func TestBatch_SameNameInDifferentDirectories(t *testing.T) {
	first := xmlDirWith(t, "x.xml")
	second := xmlDirWith(t, "x.xml")
	outDir := t.TempDir()

	out, err := execute(t, "batch", filepath.Join(first, "x.xml"), filepath.Join(second, "x.xml"),
		"--output-dir", outDir, "-f", "json")
	require.EqualError(t, err, "1 of 2 files failed")

	var results []BatchResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)

	assert.Empty(t, results[0].Error)
	assert.Equal(t, filepath.Join(outDir, "x.zpl"), results[0].Output)

	assert.Empty(t, results[1].Output)
	assert.Contains(t, results[1].Error, filepath.Join(outDir, "x.zpl"))
	assert.Contains(t, results[1].Error, filepath.Join(first, "x.xml"))

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestInfo_DirectorySkipsUppercaseExtension(t *testing.T) {
	dir := xmlDirWith(t, "a.xml", "b.XML")

	out, err := execute(t, "info", dir, "-f", "json")
	require.NoError(t, err)

	var results []InfoResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, filepath.Join(dir, "a.xml"), results[0].File)
}

func TestNewPipeline_UsesConfiguration(t *testing.T) {
	dir := xmlDirWith(t, "nfe_000123.xml")
	_, err := execute(t, "search", "--xml-dir", dir)
	require.NoError(t, err)

	result := newPipeline(true).ProcessCode(context.Background(), "000123")
	require.NoError(t, result.Error)
	assert.Contains(t, result.Label.Code(), "CPF: 123.456.789-01")
}
