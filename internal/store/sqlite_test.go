package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/simonjohansson/kanbandesk/internal/model"
	"github.com/stretchr/testify/require"
)

func TestSQLiteProjectionRebuildAndQuery(t *testing.T) {
	t.Parallel()

	projection, err := NewSQLiteProjection(filepath.Join(t.TempDir(), "projection.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = projection.Close() })

	columns := sampleColumns()
	extra := model.NewCard()
	extra.SetID(8)
	extra.SetTitle("Ship")
	extra.SetOwner("alex")
	extra.SetUrgency(model.UrgencyLow)
	extra.SetStatus("Done")
	columns[1].Cards().Add(extra)

	require.NoError(t, projection.RebuildFromBoard(columns))

	all, err := projection.ListCards(CardQuery{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, 7, all[0].ID)
	require.Equal(t, "To Do", all[0].Column)
	require.Equal(t, 1, all[0].HistoryCount)
	require.NotNil(t, all[0].DueDate)
	require.Equal(t, 8, all[1].ID)
	require.Nil(t, all[1].DueDate)

	bySam, err := projection.ListCards(CardQuery{Owner: "SAM"})
	require.NoError(t, err)
	require.Len(t, bySam, 1)
	require.Equal(t, "Write docs", bySam[0].Title)

	low, err := projection.ListCards(CardQuery{Urgency: "low"})
	require.NoError(t, err)
	require.Len(t, low, 1)
	require.Equal(t, "Ship", low[0].Title)

	asOf := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	overdue, err := projection.ListCards(CardQuery{OverdueAsOf: &asOf})
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	require.Equal(t, 7, overdue[0].ID)

	history, err := projection.ListHistory(7)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, model.FieldCreated, history[0].PropertyChanged)

	// A rebuild replaces everything.
	require.NoError(t, projection.RebuildFromBoard([]*model.Column{model.NewColumn("Empty")}))
	all, err = projection.ListCards(CardQuery{})
	require.NoError(t, err)
	require.Empty(t, all)
	history, err = projection.ListHistory(7)
	require.NoError(t, err)
	require.Empty(t, history)
}
