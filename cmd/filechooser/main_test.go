package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"filechooser/internal/config"
	"filechooser/internal/portal"
	"filechooser/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with a test configuration.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.SaveConfig(config.NewTestConfig(), cfgPath))

	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func fixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutils.CreateTestFilesWithDefault(t, dir)
	testutils.CreateTestFilesWithContent(t, dir, map[string]string{
		"docs/readme.md": "# docs",
		".hidden":        "secret",
	})
	return dir
}

func TestHelpListsCommands(t *testing.T) {
	out, _, err := run(t, "", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Available Commands:")
	for _, name := range []string{"pick", "list", "options"} {
		assert.Contains(t, out, name)
	}
}

func TestListJSON(t *testing.T) {
	dir := fixture(t)
	out, _, err := run(t, "", "list", dir, "--json")
	require.NoError(t, err)

	var l listing
	require.NoError(t, json.Unmarshal([]byte(out), &l))
	assert.Equal(t, dir, l.Dir)
	assert.Equal(t, 5, l.Total)
	assert.Equal(t, 4, l.Matched)
	assert.False(t, l.Truncated)

	names := make([]string, len(l.Entries))
	for i, e := range l.Entries {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"docs", "test1.txt", "test2.txt", "test3.jpg"}, names)
	assert.Equal(t, "directory", l.Entries[0].Kind)
	assert.Equal(t, []string{"text/plain"}, l.Entries[1].MimeTypes)
	assert.Equal(t, int64(14), l.Entries[1].Size)
	assert.True(t, l.Entries[1].Readable)
}

func TestListFlags(t *testing.T) {
	dir := fixture(t)

	t.Run("all", func(t *testing.T) {
		out, _, err := run(t, "", "list", dir, "--all", "--json")
		require.NoError(t, err)
		var l listing
		require.NoError(t, json.Unmarshal([]byte(out), &l))
		assert.Equal(t, ".hidden", l.Entries[0].Name)
	})

	t.Run("limit", func(t *testing.T) {
		out, _, err := run(t, "", "list", dir, "--limit", "2")
		require.NoError(t, err)
		assert.Contains(t, out, "showing 2 of 4 entries")
		assert.Contains(t, out, "docs/")
	})

	t.Run("filter", func(t *testing.T) {
		out, _, err := run(t, "", "list", dir, "--filter", "Images:image/*", "--json")
		require.NoError(t, err)
		var l listing
		require.NoError(t, json.Unmarshal([]byte(out), &l))
		require.Len(t, l.Entries, 2)
		assert.Equal(t, "test3.jpg", l.Entries[1].Name)
	})

	t.Run("search", func(t *testing.T) {
		out, _, err := run(t, "", "list", dir, "--search", "t2", "--json")
		require.NoError(t, err)
		var l listing
		require.NoError(t, json.Unmarshal([]byte(out), &l))
		require.Len(t, l.Entries, 1)
		assert.Equal(t, "test2.txt", l.Entries[0].Name)
	})
}

func TestListRejectsFile(t *testing.T) {
	dir := fixture(t)
	_, _, err := run(t, "", "list", filepath.Join(dir, "test1.txt"))
	require.Error(t, err)
}

func TestOptionsCommand(t *testing.T) {
	payload := `{"type":"open_file","multiple":true,"filters":[["Images",[[1,"image/*"]]]]}`

	out, _, err := run(t, payload, "options")
	require.NoError(t, err)
	opts, err := portal.Decode([]byte(out))
	require.NoError(t, err)
	assert.True(t, opts.Multiple)
	require.Len(t, opts.Filters, 1)
	assert.Equal(t, "Images", opts.Filters[0].Label)

	out, _, err = run(t, payload, "options", "--check")
	require.NoError(t, err)
	assert.Equal(t, "ok: open_file, multi selection of file entries, 2 filters\n", out)

	_, _, err = run(t, `{"type":"save_file","multiple":true}`, "options")
	require.Error(t, err)
}

func TestParseFilter(t *testing.T) {
	ff, err := parseFilter("Docs:*.md, text/plain")
	require.NoError(t, err)
	assert.Equal(t, "Docs", ff.Label)
	assert.Equal(t, []portal.Pattern{
		{Kind: portal.GlobPattern, Value: "*.md"},
		{Kind: portal.MimePattern, Value: "text/plain"},
	}, ff.Patterns)

	for _, bad := range []string{"", "Docs", ":*.md", "Docs:", "Docs: , "} {
		_, err := parseFilter(bad)
		assert.Error(t, err, bad)
	}
}
