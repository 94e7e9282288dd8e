package model

import "time"

const DueDateLayout = "2006-01-02"

// Card is a single work item. Its history is append-only in normal operation.
type Card struct {
	id          int
	title       string
	owner       string
	description string
	urgency     Urgency
	status      string
	dueDate     *time.Time
	comment     string
	history     []ActivityEntry

	notifier notifier
}

func NewCard() *Card {
	return &Card{history: []ActivityEntry{}}
}

func (c *Card) Subscribe(o Observer) func() {
	return c.notifier.subscribe(o)
}

func (c *Card) ID() int             { return c.id }
func (c *Card) Title() string       { return c.title }
func (c *Card) Owner() string       { return c.owner }
func (c *Card) Description() string { return c.description }
func (c *Card) Urgency() Urgency    { return c.urgency }
func (c *Card) Status() string      { return c.status }
func (c *Card) Comment() string     { return c.comment }

// DueDate returns a copy of the due date, or nil when none is set.
func (c *Card) DueDate() *time.Time {
	return copyTime(c.dueDate)
}

func (c *Card) SetID(id int) {
	if c.id == id {
		return
	}
	c.id = id
	c.notifier.fieldChanged(c, "ID")
}

func (c *Card) SetTitle(v string) {
	setString(c, &c.title, v, FieldTitle)
}

func (c *Card) SetOwner(v string) {
	setString(c, &c.owner, v, FieldOwner)
}

func (c *Card) SetDescription(v string) {
	setString(c, &c.description, v, FieldDescription)
}

func (c *Card) SetStatus(v string) {
	setString(c, &c.status, v, FieldStatus)
}

func (c *Card) SetComment(v string) {
	setString(c, &c.comment, v, FieldComment)
}

func (c *Card) SetUrgency(u Urgency) {
	if c.urgency == u {
		return
	}
	c.urgency = u
	c.notifier.fieldChanged(c, FieldUrgency)
}

func (c *Card) SetDueDate(t *time.Time) {
	if sameDueDate(c.dueDate, t) {
		return
	}
	c.dueDate = copyTime(t)
	c.notifier.fieldChanged(c, FieldDueDate)
}

// FormatDueDate renders the due date as yyyy-MM-dd, or "" when unset.
func (c *Card) FormatDueDate() string {
	return formatDueDate(c.dueDate)
}

// IsOverdue reports whether the due date falls on or before the day of now.
func (c *Card) IsOverdue(now time.Time) bool {
	if c.dueDate == nil {
		return false
	}
	due := c.dueDate.Format(DueDateLayout)
	return due <= now.Format(DueDateLayout)
}

// History returns a copy of the change log in chronological order.
func (c *Card) History() []ActivityEntry {
	out := make([]ActivityEntry, len(c.history))
	copy(out, c.history)
	return out
}

func (c *Card) HistoryLen() int {
	return len(c.history)
}

func (c *Card) AppendHistory(entry ActivityEntry) {
	c.history = append(c.history, entry)
	c.notifier.collectionChanged(CollectionChange{
		Source:     c,
		Collection: "History",
		Kind:       ChangeAdd,
		Item:       entry,
		Index:      len(c.history) - 1,
		OldIndex:   -1,
	})
}

// Clone copies every field into a new card. The clone gets its own history
// slice and no observers, so an edit can be staged without touching c.
func (c *Card) Clone() *Card {
	history := make([]ActivityEntry, len(c.history))
	copy(history, c.history)
	return &Card{
		id:          c.id,
		title:       c.title,
		owner:       c.owner,
		description: c.description,
		urgency:     c.urgency,
		status:      c.status,
		dueDate:     copyTime(c.dueDate),
		comment:     c.comment,
		history:     history,
	}
}

// UpdateFrom copies the editable fields of other onto c. Id and history are
// left alone; record history with the board before calling this.
func (c *Card) UpdateFrom(other *Card) {
	c.SetTitle(other.title)
	c.SetOwner(other.owner)
	c.SetDescription(other.description)
	c.SetUrgency(other.urgency)
	c.SetStatus(other.status)
	c.SetDueDate(other.dueDate)
	c.SetComment(other.comment)
}

func setString(c *Card, dst *string, v, field string) {
	if *dst == v {
		return
	}
	*dst = v
	c.notifier.fieldChanged(c, field)
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func sameDueDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func formatDueDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DueDateLayout)
}

// FormatDueDate renders t as yyyy-MM-dd, or "" for nil.
func FormatDueDate(t *time.Time) string {
	return formatDueDate(t)
}
