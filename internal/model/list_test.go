package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListOperationsReportEachChange(t *testing.T) {
	t.Parallel()

	l := NewList("a", "b")
	var changes []ListChange[string]
	l.OnChange(func(c ListChange[string]) { changes = append(changes, c) })
	l.OnChange(nil)

	l.Add("c")
	l.Insert(0, "z")
	l.Insert(99, "tail")
	require.Equal(t, []string{"z", "a", "b", "c", "tail"}, l.Items())

	require.True(t, l.Remove("b"))
	require.False(t, l.Remove("missing"))
	l.RemoveAt(0)
	require.Equal(t, []string{"a", "c", "tail"}, l.Items())

	l.Move(0, 2)
	require.Equal(t, []string{"c", "tail", "a"}, l.Items())
	l.Move(1, 1)

	l.Reset([]string{"x"})
	require.Equal(t, 1, l.Len())
	require.Equal(t, "x", l.At(0))
	l.Clear()
	require.Zero(t, l.Len())

	kinds := make([]ChangeKind, 0, len(changes))
	for _, c := range changes {
		kinds = append(kinds, c.Kind)
	}
	require.Equal(t, []ChangeKind{
		ChangeAdd, ChangeAdd, ChangeAdd,
		ChangeRemove, ChangeRemove,
		ChangeMove,
		ChangeReset, ChangeReset,
	}, kinds)

	require.Equal(t, ListChange[string]{Kind: ChangeAdd, Item: "z", Index: 0, OldIndex: -1}, changes[1])
	require.Equal(t, ListChange[string]{Kind: ChangeMove, Item: "a", Index: 2, OldIndex: 0}, changes[5])
}

func TestListItemsIsACopy(t *testing.T) {
	t.Parallel()

	l := NewList(1, 2, 3)
	items := l.Items()
	items[0] = 42
	require.Equal(t, 1, l.At(0))
	require.True(t, l.Contains(3))
	require.Equal(t, -1, l.IndexOf(42))
}

func TestUrgencyTextRoundTrip(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(map[string]Urgency{"u": UrgencyHigh})
	require.NoError(t, err)
	require.JSONEq(t, `{"u":"High"}`, string(raw))

	var decoded map[string]Urgency
	require.NoError(t, json.Unmarshal([]byte(`{"a":"urgent","b":"ASAP","c":""}`), &decoded))
	require.Equal(t, UrgencyUrgent, decoded["a"])
	require.Equal(t, UrgencyUnknown, decoded["b"])
	require.Equal(t, UrgencyUnknown, decoded["c"])
	require.Equal(t, "Unknown", Urgency(99).String())
}
