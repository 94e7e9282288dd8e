package columncmd

import (
	"fmt"
	"io"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/simonjohansson/kanbandesk/internal/board"
	"github.com/simonjohansson/kanbandesk/internal/kanban/commands/common"
	"github.com/simonjohansson/kanbandesk/internal/model"
	"github.com/spf13/cobra"
)

type columnView struct {
	Index     int    `json:"index"`
	Title     string `json:"title"`
	CardCount int    `json:"card_count"`
}

func New(runtime common.Runtime, stdout io.Writer, emit common.EmitFunc, wrapErr common.WrapErrorFunc) *cobra.Command {
	columnCmd := &cobra.Command{
		Use:     "column",
		Aliases: []string{"columns", "col"},
		Short:   "Manage columns.",
		Long:    "List, add, remove, reorder and rename board columns.",
	}

	// finish saves the board and prints the resulting column layout.
	finish := func(b *board.Board, message string) error {
		if err := runtime.SaveBoard(b); err != nil {
			return wrapErr(err)
		}
		views := columnViews(b)
		text := message + "\n" + formatColumns(views)
		return emit(runtime.Output(), stdout, text, map[string]any{"columns": views})
	}

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List columns.",
		Example: strings.TrimSpace(`kanban column list
kanban col ls --output json`),
		RunE: func(_ *cobra.Command, _ []string) error {
			b, err := runtime.OpenBoard()
			if err != nil {
				return wrapErr(err)
			}
			views := columnViews(b)
			return emit(runtime.Output(), stdout, formatColumns(views), map[string]any{"columns": views})
		},
	}

	addCmd := &cobra.Command{
		Use:     "add",
		Aliases: []string{"insert"},
		Short:   "Add a column.",
		Long:    "Insert a column right after --after, or at the end of the board.",
		Example: strings.TrimSpace(`kanban column add --title Blocked --after "In Progress"
kanban col add`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := runtime.OpenBoard()
			if err != nil {
				return wrapErr(err)
			}
			title, _ := cmd.Flags().GetString("title")
			after, _ := cmd.Flags().GetString("after")

			var anchor *model.Column
			if strings.TrimSpace(after) != "" {
				if anchor, err = common.LookupColumn(b, after); err != nil {
					return wrapErr(err)
				}
			}
			column := b.InsertColumn(anchor, strings.TrimSpace(title))
			return finish(b, fmt.Sprintf("added column %q", column.Title()))
		},
	}
	addCmd.Flags().StringP("title", "t", "", "Column title (defaults to \""+board.DefaultColumnTitle+"\")")
	addCmd.Flags().StringP("after", "a", "", "Insert after this column")

	removeCmd := &cobra.Command{
		Use:     "remove",
		Aliases: []string{"rm"},
		Short:   "Remove an empty column.",
		Long:    "Remove a column. Columns that still hold cards are refused.",
		Example: strings.TrimSpace(`kanban column remove --title Blocked
kanban col rm -t Blocked`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := runtime.OpenBoard()
			if err != nil {
				return wrapErr(err)
			}
			title, _ := cmd.Flags().GetString("title")
			column, err := common.LookupColumn(b, title)
			if err != nil {
				return wrapErr(err)
			}
			if err := b.RemoveEmptyColumn(column); err != nil {
				return wrapErr(err)
			}
			return finish(b, fmt.Sprintf("removed column %q", column.Title()))
		},
	}
	removeCmd.Flags().StringP("title", "t", "", "Column title")
	_ = removeCmd.MarkFlagRequired("title")

	moveCmd := &cobra.Command{
		Use:     "move",
		Aliases: []string{"mv"},
		Short:   "Reorder a column.",
		Long:    "Move a column to a zero-based position. Positions past the end move it last.",
		Example: strings.TrimSpace(`kanban column move --title Done --index 0
kanban col mv -t Review -n 1`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := runtime.OpenBoard()
			if err != nil {
				return wrapErr(err)
			}
			title, _ := cmd.Flags().GetString("title")
			index, _ := cmd.Flags().GetInt("index")
			if err := validation.Validate(index, validation.Min(0)); err != nil {
				return wrapErr(board.Errorf(board.CodeValidation, "index: %s", err))
			}
			column, err := common.LookupColumn(b, title)
			if err != nil {
				return wrapErr(err)
			}
			b.MoveColumn(column, index)
			return finish(b, fmt.Sprintf("moved column %q", column.Title()))
		},
	}
	moveCmd.Flags().StringP("title", "t", "", "Column title")
	moveCmd.Flags().IntP("index", "n", 0, "Target position, starting at 0")
	_ = moveCmd.MarkFlagRequired("title")
	_ = moveCmd.MarkFlagRequired("index")

	renameCmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename a column.",
		Long: strings.TrimSpace(`Rename a column. Cards in it keep their current status until they are
moved; the new title only applies to later moves.`),
		Example: strings.TrimSpace(`kanban column rename --title Review --to QA`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := runtime.OpenBoard()
			if err != nil {
				return wrapErr(err)
			}
			title, _ := cmd.Flags().GetString("title")
			to, _ := cmd.Flags().GetString("to")
			to = strings.TrimSpace(to)
			if err := validation.Validate(to, validation.Required); err != nil {
				return wrapErr(board.Errorf(board.CodeValidation, "to: %s", err))
			}
			column, err := common.LookupColumn(b, title)
			if err != nil {
				return wrapErr(err)
			}
			if existing := b.Column(to); existing != nil && existing != column {
				return wrapErr(board.Errorf(board.CodeConflict, "a column named %q already exists", to))
			}
			b.RenameColumn(column, to)
			return finish(b, fmt.Sprintf("renamed column to %q", to))
		},
	}
	renameCmd.Flags().StringP("title", "t", "", "Current column title")
	renameCmd.Flags().String("to", "", "New column title")
	_ = renameCmd.MarkFlagRequired("title")
	_ = renameCmd.MarkFlagRequired("to")

	columnCmd.AddCommand(listCmd, addCmd, removeCmd, moveCmd, renameCmd)
	return columnCmd
}

func columnViews(b *board.Board) []columnView {
	columns := b.Columns().Items()
	out := make([]columnView, 0, len(columns))
	for i, column := range columns {
		out = append(out, columnView{Index: i, Title: column.Title(), CardCount: column.CardCount()})
	}
	return out
}

func formatColumns(views []columnView) string {
	if len(views) == 0 {
		return "(no columns)"
	}
	lines := make([]string, 0, len(views))
	for _, v := range views {
		lines = append(lines, fmt.Sprintf("%d. %s (%d)", v.Index, v.Title, v.CardCount))
	}
	return strings.Join(lines, "\n")
}
