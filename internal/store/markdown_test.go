package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/simonjohansson/kanbandesk/internal/model"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func splitFrontmatter(t *testing.T, data []byte) (cardFrontmatter, string) {
	t.Helper()
	raw := string(data)
	require.True(t, strings.HasPrefix(raw, "---\n"))
	rest := raw[4:]
	idx := strings.Index(rest, "\n---\n")
	require.GreaterOrEqual(t, idx, 0)
	var fm cardFrontmatter
	require.NoError(t, yaml.Unmarshal([]byte(rest[:idx]), &fm))
	return fm, rest[idx+5:]
}

func TestMarkdownExportWritesOneFilePerCard(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exporter, err := NewMarkdownExporter(dir)
	require.NoError(t, err)

	stale := filepath.Join(dir, "card-99.md")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))
	unrelated := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(unrelated, []byte("keep"), 0o644))

	written, err := exporter.Export(sampleColumns())
	require.NoError(t, err)
	require.Equal(t, 1, written)

	data, err := os.ReadFile(filepath.Join(dir, "card-7.md"))
	require.NoError(t, err)
	fm, body := splitFrontmatter(t, data)
	require.Equal(t, 7, fm.ID)
	require.Equal(t, "Write docs", fm.Title)
	require.Equal(t, "High", fm.Urgency)
	require.Equal(t, "To Do", fm.Column)
	require.Equal(t, "2025-06-01", fm.DueDate)
	require.Contains(t, body, "# Description\nDescribe the <board> format\n")
	require.Contains(t, body, "# Comment\nsoon\n")
	require.Contains(t, body, "| Created | sam")

	_, err = os.Stat(stale)
	require.True(t, errors.Is(err, os.ErrNotExist))
	_, err = os.Stat(unrelated)
	require.NoError(t, err)
}

func TestMarkdownExportRenameFailureLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	exporter, err := NewMarkdownExporter(dir)
	require.NoError(t, err)

	original := renameFile
	renameFile = func(string, string) error { return errors.New("rename failed") }
	t.Cleanup(func() { renameFile = original })

	_, err = exporter.Export([]*model.Column{model.NewColumn("A", model.NewCard())})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestNewMarkdownExporterRequiresDir(t *testing.T) {
	t.Parallel()

	_, err := NewMarkdownExporter("  ")
	require.Error(t, err)
}
