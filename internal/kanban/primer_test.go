package kanban

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrimerTextIncludesCoreTemplates(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, printPrimer(OutputText, &out))
	raw := out.String()

	require.Contains(t, raw, "MOVE_CARD:")
	require.Contains(t, raw, "REMOVE_COLUMN:")
	require.Contains(t, raw, "QUERY_CARDS:")
	require.Contains(t, raw, "DEFAULT COLUMNS: To Do | In Progress | Review | Done")
	require.Contains(t, raw, "URGENCIES: Low | Medium | High | Urgent")
	require.Contains(t, raw, "kanban --output json")
}

func TestPrimerJSONIncludesContractSections(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, printPrimer(OutputJSON, &out))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &payload))

	require.Equal(t, "kanban", payload["name"])
	require.Equal(t, []any{"To Do", "In Progress", "Review", "Done"}, payload["default_columns"])
	require.Equal(t, "YYYY-MM-DD", payload["due_date_format"])

	commandTemplates, ok := payload["command_templates"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"add_card", "edit_card", "move_card", "find_cards", "rename_column", "export_cards", "watch_board"} {
		require.Contains(t, commandTemplates, key)
	}

	errorShape, ok := payload["error_shape"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, errorShape, "json")
	require.Len(t, errorShape["codes"], 6)

	rules, ok := payload["execution_rules"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, rules)
}
