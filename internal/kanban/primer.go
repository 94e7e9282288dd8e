package kanban

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/simonjohansson/kanbandesk/internal/board"
	"github.com/simonjohansson/kanbandesk/internal/model"
)

func printPrimer(output Output, stdout io.Writer) error {
	executionRules := []string{
		"Prefer `--output json` for any command whose output will be parsed.",
		"Run `kanban init` once; every other command needs an existing board file.",
		"Single-card commands take the numeric card id via `--id` (`-i`).",
		"Columns are addressed by exact title via `--title` (`-t`).",
		"A card's status is the title of the column holding it; `card move` and `card edit --status` keep them in sync.",
		"Renaming a column does not change the status of cards already in it.",
		"Only empty columns can be removed.",
		"`watch` is long-running and must be explicitly stopped by the caller.",
	}

	commandTemplates := map[string]string{
		"init_board":     "kanban --output json init",
		"show_board":     "kanban --output json show",
		"list_cards":     "kanban --output json card ls [--column \"$COLUMN\"] [--owner \"$OWNER\"] [--overdue]",
		"add_card":       "kanban --output json card add -t \"$TITLE\" [-s \"$COLUMN\"] [-u \"$URGENCY\"] [--due YYYY-MM-DD]",
		"show_card":      "kanban --output json card show -i \"$ID\"",
		"edit_card":      "kanban --output json card edit -i \"$ID\" [--title ...] [--owner ...] [--urgency ...] [--due ...] [--comment ...]",
		"move_card":      "kanban --output json card move -i \"$ID\" --to \"$COLUMN\"",
		"delete_card":    "kanban --output json card rm -i \"$ID\"",
		"card_history":   "kanban --output json card history -i \"$ID\"",
		"find_cards":     "kanban --output json card find \"$QUERY\"",
		"list_columns":   "kanban --output json column ls",
		"add_column":     "kanban --output json column add [-t \"$TITLE\"] [--after \"$COLUMN\"]",
		"remove_column":  "kanban --output json column rm -t \"$TITLE\"",
		"move_column":    "kanban --output json column mv -t \"$TITLE\" -n \"$INDEX\"",
		"rename_column":  "kanban --output json column rename -t \"$TITLE\" --to \"$NEW_TITLE\"",
		"export_cards":   "kanban --output json export [--dir \"$DIR\"]",
		"rebuild_sqlite": "kanban --output json rebuild",
		"query_cards":    "kanban --output json query [--owner ...] [--status ...] [--urgency ...] [--overdue]",
		"watch_board":    "kanban --output json watch",
	}

	errorShape := map[string]any{
		"json":  map[string]any{"status": "not_found", "error": "card 9 not found"},
		"text":  "error (not_found): card 9 not found",
		"codes": board.Codes(),
	}

	urgencies := make([]string, 0, len(model.Urgencies()))
	for _, u := range model.Urgencies() {
		urgencies = append(urgencies, u.String())
	}

	historyShape := map[string]any{
		"timestamp":  "2026-02-20T12:00:00Z",
		"property":   "Status",
		"old_value":  "To Do",
		"new_value":  "Done",
		"changed_by": "alice",
	}

	if output == OutputJSON {
		payload := map[string]any{
			"name":            "kanban",
			"mode":            "machine",
			"purpose":         "Single-user kanban board stored in one JSON file.",
			"default_columns": board.DefaultColumns,
			"urgencies":       urgencies,
			"due_date_format": "YYYY-MM-DD",
			"usage": map[string]any{
				"global_flags": []string{"--board", "--output", "--user", "--log-level"},
				"commands": []string{
					"init [--force]",
					"show",
					"card add|list|show|edit|move|delete|history|find",
					"column list|add|remove|move|rename",
					"export",
					"rebuild",
					"query",
					"watch",
					"primer",
				},
			},
			"execution_rules":   executionRules,
			"command_templates": commandTemplates,
			"error_shape":       errorShape,
			"history_shape":     historyShape,
		}
		raw, _ := json.Marshal(payload)
		_, _ = fmt.Fprintln(stdout, string(raw))
		return nil
	}

	lines := []string{
		"KANBAN PRIMER",
		"",
		"EXECUTION RULES",
	}
	for i, rule := range executionRules {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, rule))
	}
	lines = append(lines,
		"",
		"DEFAULT COLUMNS: "+strings.Join(board.DefaultColumns, " | "),
		"URGENCIES: "+strings.Join(urgencies, " | "),
		"DUE DATES: YYYY-MM-DD; a card due today or earlier is overdue",
		"",
		"COMMAND TEMPLATES",
	)
	for _, key := range []string{
		"init_board", "show_board", "list_cards", "add_card", "show_card", "edit_card", "move_card",
		"delete_card", "card_history", "find_cards", "list_columns", "add_column", "remove_column",
		"move_column", "rename_column", "export_cards", "rebuild_sqlite", "query_cards", "watch_board",
	} {
		lines = append(lines, strings.ToUpper(key)+": "+commandTemplates[key])
	}
	lines = append(lines,
		"",
		"ERROR SHAPE",
		"- text: error (<status>): <message>",
		"- json: {\"status\":\"<status>\",\"error\":\"<message>\"}",
		"- statuses: validation, not_found, conflict, data_format, io, internal",
	)
	_, _ = fmt.Fprintln(stdout, strings.Join(lines, "\n"))
	return nil
}
