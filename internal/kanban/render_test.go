package kanban

import (
	"testing"

	"github.com/simonjohansson/kanbandesk/internal/model"
	"github.com/stretchr/testify/require"
)

func TestRenderBoardShowsColumnsAndCards(t *testing.T) {
	t.Parallel()

	b := testBoardWithCards(t)
	out := RenderBoard(b.Columns().Items(), watchNow)

	require.Contains(t, out, "To Do (1)")
	require.Contains(t, out, "In Progress (0)")
	require.Contains(t, out, "Done (1)")
	require.Contains(t, out, "Late")
	require.Contains(t, out, "Shipped")
	require.Contains(t, out, "(empty)")
	require.Contains(t, out, "OVERDUE")
}

func TestRenderBoardEmpty(t *testing.T) {
	t.Parallel()

	require.Equal(t, "(no columns)", RenderBoard(nil, watchNow))
}

func TestUrgencyColorsAreDistinct(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, u := range model.Urgencies() {
		c := string(urgencyColor(u))
		require.False(t, seen[c], "color %s reused", c)
		seen[c] = true
	}
}
