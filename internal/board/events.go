package board

import "time"

type EventType string

const (
	EventTypeCardCreated   EventType = "card.created"
	EventTypeCardMoved     EventType = "card.moved"
	EventTypeCardUpdated   EventType = "card.updated"
	EventTypeCardDeleted   EventType = "card.deleted"
	EventTypeColumnAdded   EventType = "column.added"
	EventTypeColumnRemoved EventType = "column.removed"
	EventTypeColumnRenamed EventType = "column.renamed"
	EventTypeColumnMoved   EventType = "column.moved"
	EventTypeBoardLoaded   EventType = "board.loaded"
	EventTypeBoardSaved    EventType = "board.saved"
)

type Event struct {
	Type      EventType `json:"type"`
	CardID    int       `json:"card_id,omitempty"`
	Column    string    `json:"column,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher receives board-level events after each successful operation.
type Publisher interface {
	Publish(event Event)
}

type PublisherFunc func(Event)

func (f PublisherFunc) Publish(event Event) {
	f(event)
}
