package model

type ChangeKind string

const (
	ChangeAdd    ChangeKind = "add"
	ChangeRemove ChangeKind = "remove"
	ChangeMove   ChangeKind = "move"
	ChangeReset  ChangeKind = "reset"
)

type FieldChange struct {
	Source any
	Field  string
}

type CollectionChange struct {
	Source     any
	Collection string
	Kind       ChangeKind
	Item       any
	Index      int
	OldIndex   int
}

// Observer receives change notifications from cards and columns so a
// presentation layer can refresh without polling.
type Observer interface {
	OnFieldChanged(change FieldChange)
	OnCollectionChanged(change CollectionChange)
}

// ObserverFuncs adapts plain functions to Observer. Nil members are skipped.
type ObserverFuncs struct {
	Field      func(FieldChange)
	Collection func(CollectionChange)
}

func (o ObserverFuncs) OnFieldChanged(change FieldChange) {
	if o.Field != nil {
		o.Field(change)
	}
}

func (o ObserverFuncs) OnCollectionChanged(change CollectionChange) {
	if o.Collection != nil {
		o.Collection(change)
	}
}

type notifier struct {
	nextID    int
	observers map[int]Observer
	order     []int
}

func (n *notifier) subscribe(o Observer) func() {
	if o == nil {
		return func() {}
	}
	if n.observers == nil {
		n.observers = make(map[int]Observer)
	}
	id := n.nextID
	n.nextID++
	n.observers[id] = o
	n.order = append(n.order, id)
	return func() {
		if _, ok := n.observers[id]; !ok {
			return
		}
		delete(n.observers, id)
		for i, v := range n.order {
			if v == id {
				n.order = append(n.order[:i], n.order[i+1:]...)
				break
			}
		}
	}
}

func (n *notifier) snapshot() []Observer {
	out := make([]Observer, 0, len(n.order))
	for _, id := range n.order {
		out = append(out, n.observers[id])
	}
	return out
}

func (n *notifier) fieldChanged(source any, field string) {
	for _, o := range n.snapshot() {
		o.OnFieldChanged(FieldChange{Source: source, Field: field})
	}
}

func (n *notifier) collectionChanged(change CollectionChange) {
	for _, o := range n.snapshot() {
		o.OnCollectionChanged(change)
	}
}
