package model

const CardCountField = "CardCount"

// Column is a named, ordered container of cards. The title doubles as the
// status value of the cards it holds.
type Column struct {
	title     string
	isEditing bool
	cards     *List[*Card]

	notifier notifier
}

// NewColumn builds a column whose card list reports a CardCount change after
// every structural change. Columns restored from a document must be built
// through here too, otherwise the count would not be observable.
func NewColumn(title string, cards ...*Card) *Column {
	c := &Column{title: title, cards: NewList(cards...)}
	c.cards.OnChange(func(change ListChange[*Card]) {
		c.notifier.collectionChanged(CollectionChange{
			Source:     c,
			Collection: "Cards",
			Kind:       change.Kind,
			Item:       change.Item,
			Index:      change.Index,
			OldIndex:   change.OldIndex,
		})
		c.notifier.fieldChanged(c, CardCountField)
	})
	return c
}

func (c *Column) Subscribe(o Observer) func() {
	return c.notifier.subscribe(o)
}

func (c *Column) Title() string {
	return c.title
}

// SetTitle renames the column. Cards keep whatever status they had.
func (c *Column) SetTitle(title string) {
	if c.title == title {
		return
	}
	c.title = title
	c.notifier.fieldChanged(c, "Title")
}

func (c *Column) IsEditing() bool {
	return c.isEditing
}

func (c *Column) SetEditing(v bool) {
	if c.isEditing == v {
		return
	}
	c.isEditing = v
	c.notifier.fieldChanged(c, "IsEditing")
}

func (c *Column) Cards() *List[*Card] {
	return c.cards
}

func (c *Column) CardCount() int {
	return c.cards.Len()
}
