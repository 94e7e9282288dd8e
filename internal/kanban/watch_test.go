package kanban

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/simonjohansson/kanbandesk/internal/board"
	"github.com/stretchr/testify/require"
)

var watchNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func testBoardWithCards(t *testing.T) *board.Board {
	t.Helper()
	b := board.New(
		board.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		board.WithUser("tester"),
		board.WithClock(func() time.Time { return watchNow }),
	)
	past := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	late := b.NewCard()
	late.SetTitle("Late")
	late.SetStatus("To Do")
	late.SetDueDate(&past)
	b.CommitNewCard(late)

	done := b.NewCard()
	done.SetTitle("Shipped")
	done.SetStatus("Done")
	b.CommitNewCard(done)
	return b
}

func TestSnapshotBoard(t *testing.T) {
	t.Parallel()

	s := snapshotBoard("/tmp/board.json", testBoardWithCards(t), watchNow)
	require.Equal(t, 2, s.Cards)
	require.Equal(t, 1, s.Overdue)
	require.Equal(t, 3, s.NextID)
	require.Equal(t, []columnCount{
		{Title: "To Do", Cards: 1},
		{Title: "In Progress", Cards: 0},
		{Title: "Review", Cards: 0},
		{Title: "Done", Cards: 1},
	}, s.Columns)
}

func TestFormatWatchLineJSON(t *testing.T) {
	t.Parallel()

	line, err := FormatWatchLine(OutputJSON, snapshotBoard("/tmp/board.json", testBoardWithCards(t), watchNow))
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &parsed))
	require.Equal(t, "/tmp/board.json", parsed["path"])
	require.EqualValues(t, 2, parsed["cards"])
	require.EqualValues(t, 1, parsed["overdue"])
}

func TestFormatWatchLineText(t *testing.T) {
	t.Parallel()

	line, err := FormatWatchLine(OutputText, snapshotBoard("/tmp/board.json", testBoardWithCards(t), watchNow))
	require.NoError(t, err)
	require.Contains(t, line, "2025-03-14T12:00:00Z")
	require.Contains(t, line, "cards=2")
	require.Contains(t, line, "overdue=1")
	require.Contains(t, line, `"In Progress"=0`)
}

func TestWatchBoardReloadsOnChange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "board.json")
	source := testBoardWithCards(t)
	_, err := source.SaveBoard(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	load := func() (*board.Board, error) {
		b := board.New(board.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), board.WithUser("tester"))
		return b, b.LoadBoardFile(path)
	}
	changes := make(chan int, 1)
	done := make(chan error, 1)
	go func() {
		done <- watchBoard(ctx, path, slog.New(slog.NewTextHandler(io.Discard, nil)), load, func(b *board.Board) error {
			select {
			case changes <- len(b.Summaries()):
			default:
			}
			return nil
		})
	}()

	extra := source.NewCard()
	extra.SetTitle("Extra")
	source.CommitNewCard(extra)

	// The watcher may not be registered yet, so keep saving until a reload
	// shows the new card. Writes to other files in the directory are ignored.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644)
		_, _ = source.SaveBoard(path)
		select {
		case n := <-changes:
			return n == 3
		case <-time.After(400 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
