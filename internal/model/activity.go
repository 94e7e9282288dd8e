package model

import "time"

const (
	FieldCreated     = "Created"
	FieldTitle       = "Title"
	FieldOwner       = "Owner"
	FieldDescription = "Description"
	FieldUrgency     = "Urgency"
	FieldStatus      = "Status"
	FieldDueDate     = "DueDate"
	FieldComment     = "Comment"
)

// ActivityEntry records one property change on a card. Entries are values and
// are never modified once appended to a card's history.
type ActivityEntry struct {
	Timestamp       time.Time
	PropertyChanged string
	OldValue        string
	NewValue        string
	ChangedBy       string
}

type CardSummary struct {
	ID           int        `json:"id"`
	Column       string     `json:"column"`
	Position     int        `json:"position"`
	Title        string     `json:"title"`
	Owner        string     `json:"owner"`
	Urgency      string     `json:"urgency"`
	Status       string     `json:"status"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	HistoryCount int        `json:"history_count"`
}
