package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/simonjohansson/kanbandesk/internal/model"
)

type columnDocument struct {
	Title     string         `json:"Title"`
	IsEditing bool           `json:"IsEditing"`
	CardCount int            `json:"CardCount"`
	Cards     []cardDocument `json:"Cards"`
}

type cardDocument struct {
	ID          int                `json:"Id"`
	Title       string             `json:"Title"`
	Owner       string             `json:"Owner"`
	Description string             `json:"Description"`
	Urgency     string             `json:"Urgency"`
	Status      string             `json:"Status"`
	DueDate     *documentTime      `json:"DueDate"`
	Comment     string             `json:"Comment"`
	History     []activityDocument `json:"History"`
}

type activityDocument struct {
	Timestamp       documentTime `json:"Timestamp"`
	PropertyChanged string       `json:"PropertyChanged"`
	OldValue        string       `json:"OldValue"`
	NewValue        string       `json:"NewValue"`
	ChangedBy       string       `json:"ChangedBy"`
}

// documentTime accepts the timestamp shapes found in saved boards: RFC3339
// with an offset, zone-less date-times with up to seven fractional digits,
// and bare dates.
type documentTime struct {
	time.Time
}

var documentTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
	model.DueDateLayout,
}

func (t documentTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t *documentTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range documentTimeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", raw)
}

// EncodeBoard renders columns as the indented JSON board document.
func EncodeBoard(columns []*model.Column) ([]byte, error) {
	docs := make([]columnDocument, 0, len(columns))
	for _, column := range columns {
		docs = append(docs, encodeColumn(column))
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(docs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeBoard parses a board document. Keys match case-insensitively and
// unknown keys are ignored; CardCount is derived and never read back. A JSON
// null document yields nil columns and no error.
func DecodeBoard(data []byte) ([]*model.Column, error) {
	var docs []columnDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, err
	}
	if docs == nil {
		return nil, nil
	}
	columns := make([]*model.Column, 0, len(docs))
	for _, doc := range docs {
		columns = append(columns, decodeColumn(doc))
	}
	return columns, nil
}

func encodeColumn(column *model.Column) columnDocument {
	cards := column.Cards().Items()
	doc := columnDocument{
		Title:     column.Title(),
		IsEditing: column.IsEditing(),
		CardCount: len(cards),
		Cards:     make([]cardDocument, 0, len(cards)),
	}
	for _, card := range cards {
		doc.Cards = append(doc.Cards, encodeCard(card))
	}
	return doc
}

func encodeCard(card *model.Card) cardDocument {
	doc := cardDocument{
		ID:          card.ID(),
		Title:       card.Title(),
		Owner:       card.Owner(),
		Description: card.Description(),
		Urgency:     card.Urgency().String(),
		Status:      card.Status(),
		Comment:     card.Comment(),
		History:     make([]activityDocument, 0, card.HistoryLen()),
	}
	if due := card.DueDate(); due != nil {
		doc.DueDate = &documentTime{Time: *due}
	}
	for _, entry := range card.History() {
		doc.History = append(doc.History, activityDocument{
			Timestamp:       documentTime{Time: entry.Timestamp},
			PropertyChanged: entry.PropertyChanged,
			OldValue:        entry.OldValue,
			NewValue:        entry.NewValue,
			ChangedBy:       entry.ChangedBy,
		})
	}
	return doc
}

func decodeColumn(doc columnDocument) *model.Column {
	cards := make([]*model.Card, 0, len(doc.Cards))
	for _, cardDoc := range doc.Cards {
		cards = append(cards, decodeCard(cardDoc))
	}
	column := model.NewColumn(doc.Title, cards...)
	column.SetEditing(doc.IsEditing)
	return column
}

func decodeCard(doc cardDocument) *model.Card {
	card := model.NewCard()
	card.SetID(doc.ID)
	card.SetTitle(doc.Title)
	card.SetOwner(doc.Owner)
	card.SetDescription(doc.Description)
	card.SetUrgency(model.ParseUrgency(doc.Urgency))
	card.SetStatus(doc.Status)
	card.SetComment(doc.Comment)
	if doc.DueDate != nil {
		due := doc.DueDate.Time
		card.SetDueDate(&due)
	}
	for _, entry := range doc.History {
		card.AppendHistory(model.ActivityEntry{
			Timestamp:       entry.Timestamp.Time,
			PropertyChanged: entry.PropertyChanged,
			OldValue:        entry.OldValue,
			NewValue:        entry.NewValue,
			ChangedBy:       entry.ChangedBy,
		})
	}
	return card
}
