package board

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/simonjohansson/kanbandesk/internal/model"
	"github.com/stretchr/testify/require"
)

func TestSaveThenLoadRestoresBoard(t *testing.T) {
	t.Parallel()

	b, pub := newTestBoard(t)
	first := addCard(t, b, "First", "To Do")
	second := addCard(t, b, "Second", "Review")
	b.MoveCard(first, b.Column("Done"))

	path := filepath.Join(t.TempDir(), "board.json")
	data, err := b.SaveBoard(path)
	require.NoError(t, err)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, data, onDisk)
	require.Equal(t, EventTypeBoardSaved, pub.events[len(pub.events)-1].Type)

	loaded, _ := newTestBoard(t, WithColumns())
	require.NoError(t, loaded.LoadBoardFile(path))

	require.Equal(t, columnTitles(b), columnTitles(loaded))
	gotFirst := loaded.FindCard(first.ID())
	require.NotNil(t, gotFirst)
	require.Equal(t, "Done", gotFirst.Status())
	require.Equal(t, first.History(), gotFirst.History())
	require.Equal(t, "Second", loaded.FindCard(second.ID()).Title())
	require.Equal(t, 3, loaded.PeekNextID())
}

func TestLoadBoardFromJSONReconcilesNextID(t *testing.T) {
	t.Parallel()

	b, pub := newTestBoard(t)
	doc := `[
  {"Title": "To Do", "Cards": [{"Id": 7, "Title": "Seven", "Status": "To Do", "Urgency": "Low"}]},
  {"Title": "Done", "Cards": [{"Id": 3, "Title": "Three", "Status": "Done"}]}
]`
	require.NoError(t, b.LoadBoardFromJSON([]byte(doc)))

	require.Equal(t, []string{"To Do", "Done"}, columnTitles(b))
	require.Equal(t, 8, b.PeekNextID())
	require.Equal(t, model.UrgencyLow, b.FindCard(7).Urgency())
	require.Equal(t, []EventType{EventTypeBoardLoaded}, pub.types())

	card := b.NewCard()
	require.Equal(t, 8, card.ID())
}

func TestLoadBoardFromJSONWithoutIDsKeepsAllocator(t *testing.T) {
	t.Parallel()

	b, _ := newTestBoard(t)
	addCard(t, b, "Old", "To Do")
	require.Equal(t, 2, b.PeekNextID())

	require.NoError(t, b.LoadBoardFromJSON([]byte(`[]`)))
	require.Empty(t, columnTitles(b))
	require.Equal(t, 2, b.PeekNextID())

	require.NoError(t, b.LoadBoardFromJSON([]byte(`[{"Title": "Inbox", "Cards": [{"Title": "no id"}]}]`)))
	require.Equal(t, []string{"Inbox"}, columnTitles(b))
	require.Equal(t, 2, b.PeekNextID())
}

func TestLoadBoardFromJSONNullIsNoOp(t *testing.T) {
	t.Parallel()

	b, pub := newTestBoard(t)
	require.NoError(t, b.LoadBoardFromJSON([]byte(`null`)))
	require.Equal(t, []string{"To Do", "In Progress", "Review", "Done"}, columnTitles(b))
	require.Empty(t, pub.events)
}

func TestLoadBoardFromJSONMalformedLeavesBoard(t *testing.T) {
	t.Parallel()

	b, _ := newTestBoard(t)
	addCard(t, b, "Keep", "To Do")

	err := b.LoadBoardFromJSON([]byte(`{"not": "an array"`))
	require.Error(t, err)
	require.Equal(t, CodeDataFormat, CodeOf(err))
	require.Equal(t, []string{"To Do", "In Progress", "Review", "Done"}, columnTitles(b))
	require.NotNil(t, b.FindCard(1))
	require.Equal(t, 2, b.PeekNextID())
}

func TestLoadBoardFileMissing(t *testing.T) {
	t.Parallel()

	b, _ := newTestBoard(t)
	err := b.LoadBoardFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	require.Equal(t, CodeNotFound, CodeOf(err))
}

func TestSaveBoardWithoutPathOnlySerializes(t *testing.T) {
	t.Parallel()

	b, pub := newTestBoard(t)
	addCard(t, b, "Draft", "To Do")
	pub.events = nil

	data, err := b.SaveBoard("  ")
	require.NoError(t, err)
	require.Contains(t, string(data), `"Title": "Draft"`)
	require.Empty(t, pub.events)

	marshalled, err := b.MarshalBoard()
	require.NoError(t, err)
	require.Equal(t, marshalled, data)
}

func TestSaveBoardUnwritableDirectory(t *testing.T) {
	t.Parallel()

	b, _ := newTestBoard(t)
	_, err := b.SaveBoard(filepath.Join(t.TempDir(), "missing", "board.json"))
	require.Error(t, err)
	require.Equal(t, CodeIO, CodeOf(err))
}

func TestLoadBoardFromJSONWarnsOnSharedIDs(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	b, _ := newTestBoard(t, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	doc := `[{"Title": "Legacy", "Cards": [{"Title": "a"}, {"Title": "b"}, {"Id": 4, "Title": "c"}, {"Id": 4, "Title": "d"}]}]`
	require.NoError(t, b.LoadBoardFromJSON([]byte(doc)))

	require.Contains(t, logs.String(), "level=WARN")
	require.Contains(t, logs.String(), "ids=\"[0 4]\"")
	require.Equal(t, "a", b.FindCard(0).Title())
	require.Equal(t, 5, b.PeekNextID())

	logs.Reset()
	require.NoError(t, b.LoadBoardFromJSON([]byte(`[{"Title": "Clean", "Cards": [{"Id": 1}, {"Id": 2}]}]`)))
	require.NotContains(t, logs.String(), "level=WARN")
}
