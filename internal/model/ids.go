package model

// IDAllocator hands out card ids. It is not safe for concurrent use; boards
// are driven from a single interaction thread.
type IDAllocator struct {
	next int
}

func NewIDAllocator(start int) *IDAllocator {
	return &IDAllocator{next: start}
}

// Peek returns the id the next call to Next will hand out.
func (a *IDAllocator) Peek() int {
	return a.next
}

func (a *IDAllocator) Next() int {
	id := a.next
	a.next++
	return id
}

func (a *IDAllocator) Reset(to int) {
	a.next = to
}
