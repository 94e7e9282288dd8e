package kanban

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/simonjohansson/kanbandesk/internal/model"
)

const renderColumnWidth = 28

var (
	columnStyle = lipgloss.NewStyle().
			Width(renderColumnWidth).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	idStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	overdueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

func urgencyColor(u model.Urgency) lipgloss.Color {
	switch u {
	case model.UrgencyUrgent:
		return lipgloss.Color("9")
	case model.UrgencyHigh:
		return lipgloss.Color("214")
	case model.UrgencyMedium:
		return lipgloss.Color("11")
	case model.UrgencyLow:
		return lipgloss.Color("10")
	default:
		return lipgloss.Color("245")
	}
}

// RenderBoard draws the columns side by side. Cards due on or before now are
// flagged as overdue.
func RenderBoard(columns []*model.Column, now time.Time) string {
	if len(columns) == 0 {
		return "(no columns)"
	}
	views := make([]string, 0, len(columns))
	for _, column := range columns {
		views = append(views, renderColumn(column, now))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, views...)
}

func renderColumn(column *model.Column, now time.Time) string {
	lines := []string{headerStyle.Render(fmt.Sprintf("%s (%d)", column.Title(), column.CardCount()))}
	cards := column.Cards().Items()
	if len(cards) == 0 {
		lines = append(lines, mutedStyle.Render("(empty)"))
	}
	for _, card := range cards {
		lines = append(lines, renderCard(card, now))
	}
	return columnStyle.Render(strings.Join(lines, "\n"))
}

func renderCard(card *model.Card, now time.Time) string {
	urgency := lipgloss.NewStyle().Foreground(urgencyColor(card.Urgency())).Render(card.Urgency().String())
	parts := []string{idStyle.Render(fmt.Sprintf("#%d", card.ID())) + " " + card.Title()}

	meta := urgency
	if card.Owner() != "" {
		meta += " @" + card.Owner()
	}
	parts = append(parts, "  "+meta)

	if due := card.FormatDueDate(); due != "" {
		if card.IsOverdue(now) {
			parts = append(parts, "  "+overdueStyle.Render("due "+due+" OVERDUE"))
		} else {
			parts = append(parts, "  due "+due)
		}
	}
	return strings.Join(parts, "\n")
}
