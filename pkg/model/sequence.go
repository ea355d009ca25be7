package model

// ArrayChanges describes one structural edit of a Sequence.
type ArrayChanges struct {
	Index        int
	DeleteCount  int
	ItemsAdded   []any
	ItemsRemoved []any
}

// arrayInfo is the registry entry for a property holding a Sequence.
type arrayInfo struct {
	onPush       func(item any, index int)
	onRemove     func(item any)
	isItemValues bool
}

// Sequence is an ordered collection owned by a property of a Base. Every
// structural edit reports an ArrayChanges diff to the per-item callbacks,
// the owner's change pipeline and OnArrayChanged, in that order.
//
// Once the owner is disposed, edits still apply but nothing is notified.
type Sequence struct {
	items []any
	owner *Base
	name  string
	info  *arrayInfo

	// OnArrayChanged fires after the owner's pipeline for every diff.
	OnArrayChanged *Event[*Sequence, *ArrayChanges]
}

// NewSequence creates a detached sequence holding items. Detached
// sequences fire OnArrayChanged only.
func NewSequence(items ...any) *Sequence {
	s := &Sequence{
		info:           &arrayInfo{},
		OnArrayChanged: NewEvent[*Sequence, *ArrayChanges](),
	}
	s.items = append(s.items, items...)
	return s
}

func newOwnedSequence(owner *Base, name string, info *arrayInfo) *Sequence {
	s := &Sequence{
		owner: owner,
		name:  name,
		info:  info,
	}
	s.OnArrayChanged = addEvent[*Sequence, *ArrayChanges](owner)
	return s
}

// Name returns the owning property name.
func (s *Sequence) Name() string {
	return s.name
}

// Len returns the number of items.
func (s *Sequence) Len() int {
	return len(s.items)
}

// At returns the item at index i.
func (s *Sequence) At(i int) any {
	return s.items[i]
}

// Items returns a copy of the items.
func (s *Sequence) Items() []any {
	out := make([]any, len(s.items))
	copy(out, s.items)
	return out
}

// IndexOf returns the index of the first item equal to item, or -1.
func (s *Sequence) IndexOf(item any) int {
	for i, existing := range s.items {
		if isTwoValueEquals(existing, item) {
			return i
		}
	}
	return -1
}

// Push appends item and returns the new length.
func (s *Sequence) Push(item any) int {
	s.items = append(s.items, item)
	index := len(s.items) - 1
	s.emit(&ArrayChanges{
		Index:        index,
		ItemsAdded:   []any{item},
		ItemsRemoved: []any{},
	}, nil, []any{item}, index)
	return len(s.items)
}

// Unshift prepends item and returns the new length.
func (s *Sequence) Unshift(item any) int {
	s.items = append([]any{item}, s.items...)
	s.emit(&ArrayChanges{
		Index:        0,
		ItemsAdded:   []any{item},
		ItemsRemoved: []any{},
	}, nil, []any{item}, 0)
	return len(s.items)
}

// Shift removes and returns the first item. It reports false and emits
// nothing when the sequence is empty.
func (s *Sequence) Shift() (any, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	item := s.items[0]
	s.items[0] = nil
	s.items = s.items[1:]
	s.emit(&ArrayChanges{
		Index:        len(s.items),
		DeleteCount:  1,
		ItemsAdded:   []any{},
		ItemsRemoved: []any{item},
	}, []any{item}, nil, 0)
	return item, true
}

// Pop removes and returns the last item. It reports false and emits
// nothing when the sequence is empty.
func (s *Sequence) Pop() (any, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	last := len(s.items) - 1
	item := s.items[last]
	s.items[last] = nil
	s.items = s.items[:last]
	s.emit(&ArrayChanges{
		Index:        len(s.items),
		DeleteCount:  1,
		ItemsAdded:   []any{},
		ItemsRemoved: []any{item},
	}, []any{item}, nil, 0)
	return item, true
}

// Splice removes deleteCount items at start, inserts items there and
// returns the removed items. A negative start counts from the end; start
// and deleteCount are clamped to the sequence bounds.
func (s *Sequence) Splice(start, deleteCount int, items ...any) []any {
	n := len(s.items)
	if start < 0 {
		start += n
		if start < 0 {
			start = 0
		}
	}
	if start > n {
		start = n
	}
	if deleteCount < 0 {
		deleteCount = 0
	}
	if start+deleteCount > n {
		deleteCount = n - start
	}

	removed := make([]any, deleteCount)
	copy(removed, s.items[start:start+deleteCount])

	next := make([]any, 0, n-deleteCount+len(items))
	next = append(next, s.items[:start]...)
	next = append(next, items...)
	next = append(next, s.items[start+deleteCount:]...)
	s.items = next

	added := make([]any, len(items))
	copy(added, items)
	s.emit(&ArrayChanges{
		Index:        start,
		DeleteCount:  deleteCount,
		ItemsAdded:   added,
		ItemsRemoved: removed,
	}, removed, added, start)
	return removed
}

// assign replaces the whole content in place. Item-value sequences pass
// every raw item through the item-value factory first.
func (s *Sequence) assign(dest []any, typeName string, notify bool) {
	deleted := s.items
	s.items = make([]any, 0, len(dest))
	for _, item := range dest {
		if s.info.isItemValues {
			if f := itemValueFactory(); f != nil {
				item = f(item, typeName)
			}
		}
		s.items = append(s.items, item)
	}
	if deleted == nil {
		deleted = []any{}
	}
	onPush := s.info.onPush
	if !notify {
		onPush = nil
	}
	s.emitWith(&ArrayChanges{
		Index:        0,
		DeleteCount:  len(deleted),
		ItemsAdded:   s.Items(),
		ItemsRemoved: deleted,
	}, deleted, s.Items(), 0, s.info.onRemove, onPush)
}

func (s *Sequence) emit(changes *ArrayChanges, removed, added []any, addIndex int) {
	s.emitWith(changes, removed, added, addIndex, s.info.onRemove, s.info.onPush)
}

func (s *Sequence) emitWith(changes *ArrayChanges, removed, added []any, addIndex int,
	onRemove func(any), onPush func(any, int)) {
	if s.owner != nil && s.owner.IsDisposed() {
		return
	}
	if onRemove != nil {
		for _, item := range removed {
			onRemove(item)
		}
	}
	if onPush != nil {
		for i, item := range added {
			onPush(item, addIndex+i)
		}
	}
	if s.owner != nil {
		if !s.owner.IsLoadingFromJSON() {
			currentObserver().SequenceChanged(s.owner.GetType(), s.name, changes)
		}
		s.owner.propertyValueChanged(s.name, s, s, changes)
	}
	s.OnArrayChanged.Fire(s, changes)
}
