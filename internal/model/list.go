package model

type ListChange[T comparable] struct {
	Kind     ChangeKind
	Item     T
	Index    int
	OldIndex int
}

// List is an ordered sequence that reports every structural change to its
// hooks exactly once. It backs both a column's cards and a board's columns.
type List[T comparable] struct {
	items []T
	hooks []func(ListChange[T])
}

func NewList[T comparable](items ...T) *List[T] {
	l := &List[T]{}
	l.items = append(l.items, items...)
	return l
}

// OnChange registers a hook invoked after each structural change.
func (l *List[T]) OnChange(hook func(ListChange[T])) {
	if hook != nil {
		l.hooks = append(l.hooks, hook)
	}
}

func (l *List[T]) Len() int {
	return len(l.items)
}

func (l *List[T]) At(i int) T {
	return l.items[i]
}

// Items returns a copy of the sequence.
func (l *List[T]) Items() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

func (l *List[T]) IndexOf(item T) int {
	for i, v := range l.items {
		if v == item {
			return i
		}
	}
	return -1
}

func (l *List[T]) Contains(item T) bool {
	return l.IndexOf(item) >= 0
}

func (l *List[T]) Add(item T) {
	l.items = append(l.items, item)
	l.emit(ListChange[T]{Kind: ChangeAdd, Item: item, Index: len(l.items) - 1, OldIndex: -1})
}

// Insert places item at index; an out of range index appends.
func (l *List[T]) Insert(index int, item T) {
	if index < 0 || index >= len(l.items) {
		l.Add(item)
		return
	}
	l.items = append(l.items, item)
	copy(l.items[index+1:], l.items[index:])
	l.items[index] = item
	l.emit(ListChange[T]{Kind: ChangeAdd, Item: item, Index: index, OldIndex: -1})
}

func (l *List[T]) Remove(item T) bool {
	i := l.IndexOf(item)
	if i < 0 {
		return false
	}
	l.RemoveAt(i)
	return true
}

func (l *List[T]) RemoveAt(index int) {
	item := l.items[index]
	l.items = append(l.items[:index], l.items[index+1:]...)
	l.emit(ListChange[T]{Kind: ChangeRemove, Item: item, Index: -1, OldIndex: index})
}

// Move relocates one element, keeping the relative order of the others.
func (l *List[T]) Move(oldIndex, newIndex int) {
	if oldIndex == newIndex {
		return
	}
	item := l.items[oldIndex]
	l.items = append(l.items[:oldIndex], l.items[oldIndex+1:]...)
	l.items = append(l.items, item)
	copy(l.items[newIndex+1:], l.items[newIndex:len(l.items)-1])
	l.items[newIndex] = item
	l.emit(ListChange[T]{Kind: ChangeMove, Item: item, Index: newIndex, OldIndex: oldIndex})
}

func (l *List[T]) Clear() {
	l.Reset(nil)
}

// Reset replaces the whole sequence as a single change.
func (l *List[T]) Reset(items []T) {
	l.items = append([]T(nil), items...)
	var zero T
	l.emit(ListChange[T]{Kind: ChangeReset, Item: zero, Index: -1, OldIndex: -1})
}

func (l *List[T]) emit(change ListChange[T]) {
	for _, hook := range l.hooks {
		hook(change)
	}
}
