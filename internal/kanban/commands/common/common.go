package common

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/simonjohansson/kanbandesk/internal/board"
	"github.com/simonjohansson/kanbandesk/internal/model"
)

// Runtime gives commands access to the open board. Every mutating command
// opens the board, applies one operation and saves it back.
type Runtime interface {
	Output() string
	Now() time.Time
	OpenBoard() (*board.Board, error)
	SaveBoard(b *board.Board) error
}

type EmitFunc func(output string, stdout io.Writer, text string, payload any) error

type WrapErrorFunc func(err error) error

type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Property  string    `json:"property"`
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
	ChangedBy string    `json:"changed_by"`
}

type CardView struct {
	ID          int            `json:"id"`
	Title       string         `json:"title"`
	Owner       string         `json:"owner"`
	Description string         `json:"description"`
	Urgency     string         `json:"urgency"`
	Status      string         `json:"status"`
	Column      string         `json:"column"`
	DueDate     string         `json:"due_date,omitempty"`
	Overdue     bool           `json:"overdue"`
	Comment     string         `json:"comment"`
	History     []HistoryEntry `json:"history"`
}

func NewHistory(entries []model.ActivityEntry) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryEntry{
			Timestamp: e.Timestamp,
			Property:  e.PropertyChanged,
			OldValue:  e.OldValue,
			NewValue:  e.NewValue,
			ChangedBy: e.ChangedBy,
		})
	}
	return out
}

func NewCardView(card *model.Card, column string, now time.Time) CardView {
	return CardView{
		ID:          card.ID(),
		Title:       card.Title(),
		Owner:       card.Owner(),
		Description: card.Description(),
		Urgency:     card.Urgency().String(),
		Status:      card.Status(),
		Column:      column,
		DueDate:     card.FormatDueDate(),
		Overdue:     card.IsOverdue(now),
		Comment:     card.Comment(),
		History:     NewHistory(card.History()),
	}
}

func FormatCard(v CardView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s\n", v.ID, v.Title)
	fmt.Fprintf(&b, "  status:   %s\n", v.Status)
	fmt.Fprintf(&b, "  urgency:  %s\n", v.Urgency)
	if v.Owner != "" {
		fmt.Fprintf(&b, "  owner:    %s\n", v.Owner)
	}
	if v.DueDate != "" {
		due := v.DueDate
		if v.Overdue {
			due += " (overdue)"
		}
		fmt.Fprintf(&b, "  due:      %s\n", due)
	}
	if v.Description != "" {
		fmt.Fprintf(&b, "  description:\n    %s\n", indent(v.Description))
	}
	if v.Comment != "" {
		fmt.Fprintf(&b, "  comment:\n    %s\n", indent(v.Comment))
	}
	fmt.Fprintf(&b, "  history:  %d entries", len(v.History))
	return b.String()
}

func FormatHistory(entries []HistoryEntry) string {
	if len(entries) == 0 {
		return "(no history)"
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s  %-11s %q -> %q  by %s",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Property, e.OldValue, e.NewValue, e.ChangedBy))
	}
	return strings.Join(lines, "\n")
}

func FormatSummaries(cards []model.CardSummary, now time.Time) string {
	if len(cards) == 0 {
		return "(no cards)"
	}
	today := now.Format(model.DueDateLayout)
	lines := make([]string, 0, len(cards))
	for _, c := range cards {
		line := fmt.Sprintf("#%-4d %-12s %-8s %s", c.ID, c.Column, c.Urgency, c.Title)
		if c.Owner != "" {
			line += " @" + c.Owner
		}
		if c.DueDate != nil {
			due := c.DueDate.Format(model.DueDateLayout)
			line += " due " + due
			if due <= today {
				line += " (overdue)"
			}
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// LookupColumn resolves a column by title or reports not_found.
func LookupColumn(b *board.Board, title string) (*model.Column, error) {
	title = strings.TrimSpace(title)
	column := b.Column(title)
	if column == nil {
		return nil, board.Errorf(board.CodeNotFound, "no column named %q", title)
	}
	return column, nil
}

func LookupCard(b *board.Board, id int) (*model.Card, error) {
	card := b.FindCard(id)
	if card == nil {
		return nil, board.Errorf(board.CodeNotFound, "card %d not found", id)
	}
	return card, nil
}

func indent(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\n", "\n    ")
}
