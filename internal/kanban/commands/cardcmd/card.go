package cardcmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/simonjohansson/kanbandesk/internal/board"
	"github.com/simonjohansson/kanbandesk/internal/kanban/commands/common"
	"github.com/simonjohansson/kanbandesk/internal/model"
	"github.com/spf13/cobra"
)

func New(runtime common.Runtime, stdout io.Writer, emit common.EmitFunc, wrapErr common.WrapErrorFunc) *cobra.Command {
	cardCmd := &cobra.Command{
		Use:     "card",
		Aliases: []string{"cards"},
		Short:   "Manage cards.",
		Long:    "Add, list, show, edit, move, delete and search cards on the board.",
	}

	addCmd := &cobra.Command{
		Use:     "add",
		Aliases: []string{"create", "new"},
		Short:   "Add a card.",
		Long:    "Create a card in the column named by --status, or in the first column when none matches.",
		Example: strings.TrimSpace(`kanban card add --title "Fix login" --status "In Progress"
kanban cards new -t "Write docs" -u High --due 2025-06-01 -o sam`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := runtime.OpenBoard()
			if err != nil {
				return wrapErr(err)
			}

			title, _ := cmd.Flags().GetString("title")
			urgency, _ := cmd.Flags().GetString("urgency")
			due, _ := cmd.Flags().GetString("due")
			in := cardInput{Title: strings.TrimSpace(title), Urgency: strings.TrimSpace(urgency), DueDate: strings.TrimSpace(due)}
			if err := in.Validate(); err != nil {
				return wrapErr(err)
			}
			if b.Columns().Len() == 0 {
				return wrapErr(board.Errorf(board.CodeConflict, "board has no columns; add one with `kanban column add` first"))
			}

			card := b.NewCard()
			card.SetTitle(in.Title)
			if in.Urgency != "" {
				card.SetUrgency(model.ParseUrgency(in.Urgency))
			}
			card.SetDueDate(parseDueDate(in.DueDate))
			status, _ := cmd.Flags().GetString("status")
			card.SetStatus(strings.TrimSpace(status))
			owner, _ := cmd.Flags().GetString("owner")
			card.SetOwner(strings.TrimSpace(owner))
			description, _ := cmd.Flags().GetString("description")
			card.SetDescription(description)
			comment, _ := cmd.Flags().GetString("comment")
			card.SetComment(comment)

			b.CommitNewCard(card)
			if err := runtime.SaveBoard(b); err != nil {
				return wrapErr(err)
			}
			view := common.NewCardView(card, b.ColumnOf(card).Title(), runtime.Now())
			return emit(runtime.Output(), stdout, common.FormatCard(view), view)
		},
	}
	addCmd.Flags().StringP("title", "t", "", "Card title")
	addCmd.Flags().StringP("status", "s", "", "Column to place the card in (defaults to the first column)")
	addCmd.Flags().StringP("owner", "o", "", "Card owner")
	addCmd.Flags().StringP("description", "d", "", "Description text")
	addCmd.Flags().StringP("urgency", "u", "", "Urgency (Low|Medium|High|Urgent); defaults to Medium")
	addCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	addCmd.Flags().StringP("comment", "c", "", "Comment text")
	_ = addCmd.MarkFlagRequired("title")

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List cards.",
		Long:    "List cards in board order, optionally filtered by column, owner or overdue state.",
		Example: strings.TrimSpace(`kanban card list
kanban cards ls --column Review --owner sam
kanban card ls --overdue --output json`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := runtime.OpenBoard()
			if err != nil {
				return wrapErr(err)
			}

			column, _ := cmd.Flags().GetString("column")
			owner, _ := cmd.Flags().GetString("owner")
			overdue, _ := cmd.Flags().GetBool("overdue")
			column = strings.TrimSpace(column)
			owner = strings.TrimSpace(owner)
			today := runtime.Now().Format(model.DueDateLayout)

			cards := make([]model.CardSummary, 0)
			for _, c := range b.Summaries() {
				if column != "" && c.Column != column {
					continue
				}
				if owner != "" && !strings.EqualFold(c.Owner, owner) {
					continue
				}
				if overdue && (c.DueDate == nil || c.DueDate.Format(model.DueDateLayout) > today) {
					continue
				}
				cards = append(cards, c)
			}
			return emit(runtime.Output(), stdout, common.FormatSummaries(cards, runtime.Now()), map[string]any{"cards": cards})
		},
	}
	listCmd.Flags().StringP("column", "c", "", "Only cards in this column")
	listCmd.Flags().StringP("owner", "o", "", "Only cards with this owner (case-insensitive)")
	listCmd.Flags().Bool("overdue", false, "Only cards due today or earlier")

	showCmd := &cobra.Command{
		Use:     "show",
		Aliases: []string{"get"},
		Short:   "Show one card.",
		Long:    "Print every field of one card, including its history.",
		Example: strings.TrimSpace(`kanban card show --id 3
kanban cards get -i 3 --output json`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := runtime.OpenBoard()
			if err != nil {
				return wrapErr(err)
			}
			id, _ := cmd.Flags().GetInt("id")
			card, err := common.LookupCard(b, id)
			if err != nil {
				return wrapErr(err)
			}
			view := common.NewCardView(card, b.ColumnOf(card).Title(), runtime.Now())
			return emit(runtime.Output(), stdout, common.FormatCard(view), view)
		},
	}
	showCmd.Flags().IntP("id", "i", 0, "Card id")
	_ = showCmd.MarkFlagRequired("id")

	editCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a card.",
		Long: strings.TrimSpace(`Change one or more fields of a card. Only the flags you pass are changed.
Each changed field is recorded in the card history. Changing --status moves the
card to that column.`),
		Example: strings.TrimSpace(`kanban card edit --id 3 --owner sam --urgency Urgent
kanban card edit -i 3 --due ""
kanban card edit -i 3 --status Done --comment "shipped"`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := runtime.OpenBoard()
			if err != nil {
				return wrapErr(err)
			}
			id, _ := cmd.Flags().GetInt("id")
			card, err := common.LookupCard(b, id)
			if err != nil {
				return wrapErr(err)
			}

			edited := card.Clone()
			in := cardInput{Title: edited.Title()}
			flags := cmd.Flags()
			if flags.Changed("title") {
				v, _ := flags.GetString("title")
				in.Title = strings.TrimSpace(v)
			}
			if flags.Changed("urgency") {
				v, _ := flags.GetString("urgency")
				in.Urgency = strings.TrimSpace(v)
				if in.Urgency == "" {
					return wrapErr(board.Errorf(board.CodeValidation, "urgency: cannot be blank."))
				}
			}
			if flags.Changed("due") {
				v, _ := flags.GetString("due")
				in.DueDate = strings.TrimSpace(v)
			}
			if err := in.Validate(); err != nil {
				return wrapErr(err)
			}

			edited.SetTitle(in.Title)
			if in.Urgency != "" {
				edited.SetUrgency(model.ParseUrgency(in.Urgency))
			}
			if flags.Changed("due") {
				edited.SetDueDate(parseDueDate(in.DueDate))
			}
			if flags.Changed("owner") {
				v, _ := flags.GetString("owner")
				edited.SetOwner(strings.TrimSpace(v))
			}
			if flags.Changed("description") {
				v, _ := flags.GetString("description")
				edited.SetDescription(v)
			}
			if flags.Changed("status") {
				v, _ := flags.GetString("status")
				edited.SetStatus(strings.TrimSpace(v))
			}
			if flags.Changed("comment") {
				v, _ := flags.GetString("comment")
				edited.SetComment(v)
			}

			if err := b.EditCard(card, edited); err != nil {
				return wrapErr(err)
			}
			if err := runtime.SaveBoard(b); err != nil {
				return wrapErr(err)
			}
			view := common.NewCardView(card, b.ColumnOf(card).Title(), runtime.Now())
			return emit(runtime.Output(), stdout, common.FormatCard(view), view)
		},
	}
	editCmd.Flags().IntP("id", "i", 0, "Card id")
	editCmd.Flags().StringP("title", "t", "", "New title")
	editCmd.Flags().StringP("status", "s", "", "New status; moves the card to that column")
	editCmd.Flags().StringP("owner", "o", "", "New owner")
	editCmd.Flags().StringP("description", "d", "", "New description")
	editCmd.Flags().StringP("urgency", "u", "", "New urgency (Low|Medium|High|Urgent)")
	editCmd.Flags().String("due", "", "New due date (YYYY-MM-DD); empty clears it")
	editCmd.Flags().StringP("comment", "c", "", "New comment")
	_ = editCmd.MarkFlagRequired("id")

	moveCmd := &cobra.Command{
		Use:   "move",
		Short: "Move a card to another column.",
		Long:  "Move a card to the named column. Its status follows the column title.",
		Example: strings.TrimSpace(`kanban card move --id 3 --to Done
kanban cards move -i 3 -s "In Progress"`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := runtime.OpenBoard()
			if err != nil {
				return wrapErr(err)
			}
			id, _ := cmd.Flags().GetInt("id")
			card, err := common.LookupCard(b, id)
			if err != nil {
				return wrapErr(err)
			}
			to, _ := cmd.Flags().GetString("to")
			target, err := common.LookupColumn(b, to)
			if err != nil {
				return wrapErr(err)
			}

			b.MoveCard(card, target)
			if err := runtime.SaveBoard(b); err != nil {
				return wrapErr(err)
			}
			view := common.NewCardView(card, b.ColumnOf(card).Title(), runtime.Now())
			return emit(runtime.Output(), stdout, common.FormatCard(view), view)
		},
	}
	moveCmd.Flags().IntP("id", "i", 0, "Card id")
	moveCmd.Flags().StringP("to", "s", "", "Target column title")
	_ = moveCmd.MarkFlagRequired("id")
	_ = moveCmd.MarkFlagRequired("to")

	deleteCmd := &cobra.Command{
		Use:     "delete",
		Aliases: []string{"rm"},
		Short:   "Delete a card.",
		Long:    "Remove a card from the board. Its history goes with it.",
		Example: strings.TrimSpace(`kanban card delete --id 3
kanban cards rm -i 3`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := runtime.OpenBoard()
			if err != nil {
				return wrapErr(err)
			}
			id, _ := cmd.Flags().GetInt("id")
			card, err := common.LookupCard(b, id)
			if err != nil {
				return wrapErr(err)
			}
			if err := b.DeleteCard(card); err != nil {
				return wrapErr(err)
			}
			if err := runtime.SaveBoard(b); err != nil {
				return wrapErr(err)
			}
			return emit(runtime.Output(), stdout, fmt.Sprintf("deleted card %d", id), map[string]any{"id": id, "deleted": true})
		},
	}
	deleteCmd.Flags().IntP("id", "i", 0, "Card id")
	_ = deleteCmd.MarkFlagRequired("id")

	historyCmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"log"},
		Short:   "Show a card's history.",
		Long:    "Print the change history of one card, oldest first.",
		Example: strings.TrimSpace(`kanban card history --id 3
kanban cards log -i 3 --output json`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := runtime.OpenBoard()
			if err != nil {
				return wrapErr(err)
			}
			id, _ := cmd.Flags().GetInt("id")
			card, err := common.LookupCard(b, id)
			if err != nil {
				return wrapErr(err)
			}
			entries := common.NewHistory(card.History())
			return emit(runtime.Output(), stdout, common.FormatHistory(entries), map[string]any{"id": id, "history": entries})
		},
	}
	historyCmd.Flags().IntP("id", "i", 0, "Card id")
	_ = historyCmd.MarkFlagRequired("id")

	findCmd := &cobra.Command{
		Use:     "find <query>",
		Aliases: []string{"search"},
		Short:   "Fuzzy-search card titles.",
		Long:    "List cards whose title fuzzy-matches the query, best match first.",
		Example: strings.TrimSpace(`kanban card find login
kanban cards search "wrt dcs" --output json`),
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			b, err := runtime.OpenBoard()
			if err != nil {
				return wrapErr(err)
			}
			cards := FindCards(b, args[0])
			return emit(runtime.Output(), stdout, common.FormatSummaries(cards, runtime.Now()), map[string]any{"query": args[0], "cards": cards})
		},
	}

	cardCmd.AddCommand(addCmd, listCmd, showCmd, editCmd, moveCmd, deleteCmd, historyCmd, findCmd)
	return cardCmd
}

// FindCards ranks the board's cards by how well their titles match query.
func FindCards(b *board.Board, query string) []model.CardSummary {
	summaries := b.Summaries()
	titles := make([]string, len(summaries))
	for i, s := range summaries {
		titles[i] = s.Title
	}
	matches := fuzzy.Find(strings.TrimSpace(query), titles)
	out := make([]model.CardSummary, 0, len(matches))
	for _, match := range matches {
		out = append(out, summaries[match.Index])
	}
	return out
}
