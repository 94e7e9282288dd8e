package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/simonjohansson/kanbandesk/internal/model"
	"gopkg.in/yaml.v3"
)

// MarkdownExporter writes one markdown file per card, with the card's
// metadata as YAML frontmatter. The directory is owned by the exporter:
// card files that no longer match a card on the board are removed.
type MarkdownExporter struct {
	dir string
}

var renameFile = os.Rename

func NewMarkdownExporter(dir string) (*MarkdownExporter, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("export directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &MarkdownExporter{dir: dir}, nil
}

type cardFrontmatter struct {
	ID       int    `yaml:"id"`
	Title    string `yaml:"title"`
	Owner    string `yaml:"owner,omitempty"`
	Urgency  string `yaml:"urgency"`
	Status   string `yaml:"status"`
	Column   string `yaml:"column"`
	Position int    `yaml:"position"`
	DueDate  string `yaml:"due_date,omitempty"`
}

// Export writes every card on the board and returns how many were written.
func (e *MarkdownExporter) Export(columns []*model.Column) (int, error) {
	keep := make(map[string]struct{})
	written := 0
	for _, column := range columns {
		for position, card := range column.Cards().Items() {
			data, err := renderCard(card, column.Title(), position)
			if err != nil {
				return written, fmt.Errorf("render card %d: %w", card.ID(), err)
			}
			name := cardFilename(card.ID())
			if err := writeFileAtomic(filepath.Join(e.dir, name), data, 0o644); err != nil {
				return written, err
			}
			keep[name] = struct{}{}
			written++
		}
	}
	if err := e.removeStale(keep); err != nil {
		return written, err
	}
	return written, nil
}

func (e *MarkdownExporter) removeStale(keep map[string]struct{}) error {
	entries, err := os.ReadDir(e.dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := cardIDFromFilename(entry.Name()); !ok {
			continue
		}
		if _, ok := keep[entry.Name()]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(e.dir, entry.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func renderCard(card *model.Card, column string, position int) ([]byte, error) {
	fm := cardFrontmatter{
		ID:       card.ID(),
		Title:    card.Title(),
		Owner:    card.Owner(),
		Urgency:  card.Urgency().String(),
		Status:   card.Status(),
		Column:   column,
		Position: position,
		DueDate:  card.FormatDueDate(),
	}
	yml, err := yaml.Marshal(&fm)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(yml)
	buf.WriteString("---\n")
	buf.WriteString("# Description\n")
	writeText(&buf, card.Description())
	buf.WriteString("\n# Comment\n")
	writeText(&buf, card.Comment())
	buf.WriteString("\n# History\n")
	history := card.History()
	if len(history) == 0 {
		buf.WriteString("(none)\n")
	}
	for _, entry := range history {
		buf.WriteString("## ")
		buf.WriteString(entry.Timestamp.UTC().Format(time.RFC3339))
		buf.WriteString(" | ")
		buf.WriteString(entry.PropertyChanged)
		buf.WriteString(" | ")
		buf.WriteString(entry.ChangedBy)
		buf.WriteByte('\n')
		fmt.Fprintf(&buf, "%q -> %q\n\n", entry.OldValue, entry.NewValue)
	}
	return buf.Bytes(), nil
}

func writeText(buf *bytes.Buffer, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		buf.WriteString("(none)\n")
		return
	}
	buf.WriteString(text)
	buf.WriteByte('\n')
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}

	tmpPath := tmp.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	if err := renameFile(tmpPath, path); err != nil {
		return err
	}

	cleanup = false
	return nil
}

func cardFilename(id int) string {
	return fmt.Sprintf("card-%d.md", id)
}

func cardIDFromFilename(name string) (int, bool) {
	if !strings.HasPrefix(name, "card-") || !strings.HasSuffix(name, ".md") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "card-"), ".md"))
	if err != nil {
		return 0, false
	}
	return n, true
}
