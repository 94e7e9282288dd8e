package board

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/simonjohansson/kanbandesk/internal/model"
)

const DefaultColumnTitle = "New Column"

// DefaultColumns seed a new board, left to right.
var DefaultColumns = []string{"To Do", "In Progress", "Review", "Done"}

// Board owns the ordered columns of one open board together with the id
// allocator for its cards.
//
// A Board is not safe for concurrent use. Every method is expected to be
// called from the single goroutine that drives the user interface.
type Board struct {
	columns   *model.List[*model.Column]
	ids       *model.IDAllocator
	user      string
	now       func() time.Time
	logger    *slog.Logger
	publisher Publisher
}

type Option func(*Board)

func WithLogger(logger *slog.Logger) Option {
	return func(b *Board) {
		if logger != nil {
			b.logger = logger
		}
	}
}

func WithPublisher(p Publisher) Option {
	return func(b *Board) { b.publisher = p }
}

// WithUser fixes the identity stamped on history entries.
func WithUser(name string) Option {
	return func(b *Board) {
		if name = strings.TrimSpace(name); name != "" {
			b.user = name
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(b *Board) {
		if now != nil {
			b.now = now
		}
	}
}

func WithIDAllocator(ids *model.IDAllocator) Option {
	return func(b *Board) {
		if ids != nil {
			b.ids = ids
		}
	}
}

// WithColumns replaces the default seed columns.
func WithColumns(titles ...string) Option {
	return func(b *Board) {
		columns := make([]*model.Column, 0, len(titles))
		for _, title := range titles {
			columns = append(columns, model.NewColumn(title))
		}
		b.columns.Reset(columns)
	}
}

func New(opts ...Option) *Board {
	b := &Board{
		columns: model.NewList[*model.Column](),
		ids:     model.NewIDAllocator(1),
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, title := range DefaultColumns {
		b.columns.Add(model.NewColumn(title))
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.user == "" {
		b.user = CurrentUser()
	}
	return b
}

// Columns exposes the ordered column list. Subscribe to it with OnChange to
// follow structural changes.
func (b *Board) Columns() *model.List[*model.Column] {
	return b.columns
}

func (b *Board) User() string {
	return b.user
}

// Column returns the first column with the given title.
func (b *Board) Column(title string) *model.Column {
	for _, column := range b.columns.Items() {
		if column.Title() == title {
			return column
		}
	}
	return nil
}

// ColumnOf returns the column currently holding card.
func (b *Board) ColumnOf(card *model.Card) *model.Column {
	if card == nil {
		return nil
	}
	for _, column := range b.columns.Items() {
		if column.Cards().Contains(card) {
			return column
		}
	}
	return nil
}

func (b *Board) FindCard(id int) *model.Card {
	for _, column := range b.columns.Items() {
		for _, card := range column.Cards().Items() {
			if card.ID() == id {
				return card
			}
		}
	}
	return nil
}

// Summaries lists every card in board order.
func (b *Board) Summaries() []model.CardSummary {
	out := make([]model.CardSummary, 0)
	for _, column := range b.columns.Items() {
		for position, card := range column.Cards().Items() {
			out = append(out, model.CardSummary{
				ID:           card.ID(),
				Column:       column.Title(),
				Position:     position,
				Title:        card.Title(),
				Owner:        card.Owner(),
				Urgency:      card.Urgency().String(),
				Status:       card.Status(),
				DueDate:      card.DueDate(),
				HistoryCount: card.HistoryLen(),
			})
		}
	}
	return out
}

func (b *Board) PeekNextID() int {
	return b.ids.Peek()
}

func (b *Board) NextID() int {
	return b.ids.Next()
}

// NewCard stages a card for creation. It previews the next id without
// consuming it; CommitNewCard consumes it.
func (b *Board) NewCard() *model.Card {
	card := model.NewCard()
	card.SetID(b.ids.Peek())
	card.SetUrgency(model.DefaultUrgency)
	return card
}

// CommitNewCard assigns the next id to a staged card and places it.
func (b *Board) CommitNewCard(card *model.Card) {
	card.SetID(b.ids.Next())
	b.AddCardToColumn(card)
}

// AddCardToColumn appends card to the column named by its status, or to the
// first column when no column has that title, and records a Created entry.
func (b *Board) AddCardToColumn(card *model.Card) {
	target := b.Column(card.Status())
	if target == nil && b.columns.Len() > 0 {
		target = b.columns.At(0)
		card.SetStatus(target.Title())
	}
	if target != nil {
		target.Cards().Add(card)
	}

	card.AppendHistory(b.entry(model.FieldCreated, "", fmt.Sprintf("Title: %s, Status: %s", card.Title(), card.Status())))
	b.logger.Info("card created", "card_id", card.ID(), "status", card.Status())
	b.publish(EventTypeCardCreated, card.ID(), card.Status())
}

// InsertColumn adds a column right after `after`, or at the end when after
// is nil or not on the board.
func (b *Board) InsertColumn(after *model.Column, title string) *model.Column {
	if strings.TrimSpace(title) == "" {
		title = DefaultColumnTitle
	}
	column := model.NewColumn(title)
	if i := b.columns.IndexOf(after); after != nil && i >= 0 {
		b.columns.Insert(i+1, column)
	} else {
		b.columns.Add(column)
	}
	b.logger.Info("column added", "column", title, "index", b.columns.IndexOf(column))
	b.publish(EventTypeColumnAdded, 0, title)
	return column
}

// RemoveColumn drops column from the board. Cards it holds go with it; the
// caller is expected to have checked that it is empty.
func (b *Board) RemoveColumn(column *model.Column) {
	if !b.columns.Remove(column) {
		return
	}
	b.logger.Info("column removed", "column", column.Title())
	b.publish(EventTypeColumnRemoved, 0, column.Title())
}

// RemoveEmptyColumn removes column only when it holds no cards.
func (b *Board) RemoveEmptyColumn(column *model.Column) error {
	if column == nil || !b.columns.Contains(column) {
		return Errorf(CodeNotFound, "column not found")
	}
	if column.CardCount() > 0 {
		return Errorf(CodeConflict, "column %q still holds %d card(s); only empty columns can be deleted", column.Title(), column.CardCount())
	}
	b.RemoveColumn(column)
	return nil
}

// RenameColumn changes the title only. Cards keep their old status until
// they are moved.
func (b *Board) RenameColumn(column *model.Column, title string) {
	if column == nil || !b.columns.Contains(column) || column.Title() == title {
		return
	}
	old := column.Title()
	column.SetTitle(title)
	b.logger.Info("column renamed", "from", old, "to", title)
	b.publish(EventTypeColumnRenamed, 0, title)
}

// MoveCard is the only path that relocates a card between columns. It keeps
// the card's status equal to the title of the column that holds it.
func (b *Board) MoveCard(card *model.Card, target *model.Column) {
	source := b.ColumnOf(card)
	if source == nil || target == nil || source == target || !b.columns.Contains(target) {
		return
	}

	source.Cards().Remove(card)
	target.Cards().Add(card)

	oldStatus := card.Status()
	card.SetStatus(target.Title())
	card.AppendHistory(b.entry(model.FieldStatus, oldStatus, card.Status()))
	b.logger.Info("card moved", "card_id", card.ID(), "from", source.Title(), "to", target.Title())
	b.publish(EventTypeCardMoved, card.ID(), target.Title())
}

// MoveColumn relocates column to newIndex. Indexes past the end clamp to the
// last position.
func (b *Board) MoveColumn(column *model.Column, newIndex int) {
	oldIndex := b.columns.IndexOf(column)
	if oldIndex < 0 || newIndex < 0 || oldIndex == newIndex {
		return
	}
	if last := b.columns.Len() - 1; newIndex > last {
		newIndex = last
		if oldIndex == newIndex {
			return
		}
	}
	b.columns.Move(oldIndex, newIndex)
	b.logger.Info("column moved", "column", column.Title(), "from", oldIndex, "to", newIndex)
	b.publish(EventTypeColumnMoved, 0, column.Title())
}

// RecordCardHistory appends one entry per field that differs between card
// and edited. It does not apply the new values: call it before UpdateFrom so
// the old values are still on the card.
func (b *Board) RecordCardHistory(card, edited *model.Card) {
	record := func(field, oldValue, newValue string) {
		if oldValue != newValue {
			card.AppendHistory(b.entry(field, oldValue, newValue))
		}
	}

	record(model.FieldTitle, card.Title(), edited.Title())
	record(model.FieldOwner, card.Owner(), edited.Owner())
	record(model.FieldDescription, card.Description(), edited.Description())
	if card.Urgency() != edited.Urgency() {
		card.AppendHistory(b.entry(model.FieldUrgency, card.Urgency().String(), edited.Urgency().String()))
	}
	record(model.FieldStatus, card.Status(), edited.Status())
	// Due dates are calendar days; two instants on the same day are no change.
	record(model.FieldDueDate, card.FormatDueDate(), edited.FormatDueDate())
	record(model.FieldComment, card.Comment(), edited.Comment())
}

// EditCard commits a staged edit. A status change is applied as a move
// first, then the remaining differences are recorded and copied over.
func (b *Board) EditCard(card, edited *model.Card) error {
	current := b.ColumnOf(card)
	if current == nil {
		return Errorf(CodeNotFound, "card %d is not on the board", card.ID())
	}
	if edited.Status() != card.Status() {
		target := b.Column(edited.Status())
		if target == nil {
			return Errorf(CodeValidation, "no column named %q", edited.Status())
		}
		if target != current {
			b.MoveCard(card, target)
		}
	}

	b.RecordCardHistory(card, edited)
	card.UpdateFrom(edited)
	b.logger.Info("card updated", "card_id", card.ID(), "history_entries", card.HistoryLen())
	b.publish(EventTypeCardUpdated, card.ID(), card.Status())
	return nil
}

func (b *Board) DeleteCard(card *model.Card) error {
	column := b.ColumnOf(card)
	if column == nil {
		return Errorf(CodeNotFound, "card %d is not on the board", card.ID())
	}
	column.Cards().Remove(card)
	b.logger.Info("card deleted", "card_id", card.ID(), "column", column.Title())
	b.publish(EventTypeCardDeleted, card.ID(), column.Title())
	return nil
}

func (b *Board) entry(field, oldValue, newValue string) model.ActivityEntry {
	return model.ActivityEntry{
		Timestamp:       b.now(),
		PropertyChanged: field,
		OldValue:        oldValue,
		NewValue:        newValue,
		ChangedBy:       b.user,
	}
}

func (b *Board) publish(eventType EventType, cardID int, column string) {
	if b.publisher == nil {
		return
	}
	b.publisher.Publish(Event{
		Type:      eventType,
		CardID:    cardID,
		Column:    column,
		Timestamp: b.now().UTC(),
	})
}
