package kanban

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/simonjohansson/kanbandesk/internal/board"
)

const watchDebounce = 150 * time.Millisecond

type columnCount struct {
	Title string `json:"title"`
	Cards int    `json:"cards"`
}

// boardSnapshot is one line of `kanban watch` output.
type boardSnapshot struct {
	Timestamp time.Time     `json:"timestamp"`
	Path      string        `json:"path"`
	Cards     int           `json:"cards"`
	Overdue   int           `json:"overdue"`
	NextID    int           `json:"next_id"`
	Columns   []columnCount `json:"columns"`
}

func snapshotBoard(path string, b *board.Board, now time.Time) boardSnapshot {
	s := boardSnapshot{
		Timestamp: now.UTC(),
		Path:      path,
		NextID:    b.PeekNextID(),
		Columns:   make([]columnCount, 0, b.Columns().Len()),
	}
	for _, column := range b.Columns().Items() {
		s.Columns = append(s.Columns, columnCount{Title: column.Title(), Cards: column.CardCount()})
		s.Cards += column.CardCount()
		for _, card := range column.Cards().Items() {
			if card.IsOverdue(now) {
				s.Overdue++
			}
		}
	}
	return s
}

func FormatWatchLine(output Output, s boardSnapshot) (string, error) {
	if output == OutputJSON {
		raw, err := json.Marshal(s)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	parts := []string{
		s.Timestamp.Format(time.RFC3339),
		fmt.Sprintf("cards=%d", s.Cards),
		fmt.Sprintf("overdue=%d", s.Overdue),
	}
	for _, c := range s.Columns {
		parts = append(parts, fmt.Sprintf("%q=%d", c.Title, c.Cards))
	}
	return strings.Join(parts, " "), nil
}

// watchBoard calls onChange with a freshly loaded board every time the file
// at path settles after a change, until ctx is cancelled. The parent
// directory is watched so that editors which replace the file are seen too.
func watchBoard(ctx context.Context, path string, logger *slog.Logger, load func() (*board.Board, error), onChange func(*board.Board) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	target := filepath.Clean(path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return err
	}
	logger.Debug("watch: started", slog.String("path", target))

	var (
		debounce *time.Timer
		fire     <-chan time.Time
	)
	schedule := func() {
		if debounce == nil {
			debounce = time.NewTimer(watchDebounce)
			fire = debounce.C
			return
		}
		debounce.Reset(watchDebounce)
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Debug("watch: stopped")
			return nil

		case <-fire:
			b, err := load()
			if err != nil {
				// The file may be mid-write; the next event retries.
				logger.Warn("watch: reload failed", slog.String("path", target), slog.String("error", err.Error()))
				continue
			}
			if err := onChange(b); err != nil {
				return err
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("watch: change", slog.String("op", ev.Op.String()))
			schedule()

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: watcher error", slog.String("error", werr.Error()))
		}
	}
}
