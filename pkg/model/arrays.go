package model

// CreateNewArray makes name a sequence property and stores an empty
// Sequence in it. onPush and onRemove, if not nil, are called for every
// item added to or removed from the sequence.
func (b *Base) CreateNewArray(name string, onPush func(item any, index int), onRemove func(item any)) *Sequence {
	info := &arrayInfo{onPush: onPush, onRemove: onRemove}
	if b.arraysInfo == nil {
		b.arraysInfo = make(map[string]*arrayInfo)
	}
	b.arraysInfo[name] = info
	seq := newOwnedSequence(b, name, info)
	b.setPropertyValueCore(name, seq)
	return seq
}

// EnsureArray returns the sequence of name, creating it with CreateNewArray
// if name is not a sequence property yet.
func (b *Base) EnsureArray(name string, onPush func(item any, index int), onRemove func(item any)) *Sequence {
	if b.arraysInfo[name] != nil {
		if seq := b.GetSequence(name); seq != nil {
			return seq
		}
	}
	return b.CreateNewArray(name, onPush, onRemove)
}

// CreateItemValues makes name a sequence of item values. Items added to it
// are given this object as owner, and raw items assigned wholesale are
// converted by the item-value factory.
func (b *Base) CreateItemValues(name string) *Sequence {
	seq := b.CreateNewArray(name, func(item any, _ int) {
		if o, ok := item.(OwnedItem); ok {
			o.SetLocOwner(b, name)
		}
	}, nil)
	b.arraysInfo[name].isItemValues = true
	return seq
}

// GetSequence returns the sequence stored in name, or nil.
func (b *Base) GetSequence(name string) *Sequence {
	seq, _ := b.getPropertyValueCore(name).(*Sequence)
	return seq
}

// IsItemValuesArray reports whether name was created by CreateItemValues.
func (b *Base) IsItemValuesArray(name string) bool {
	info := b.arraysInfo[name]
	return info != nil && info.isItemValues
}

// getItemValueType returns the item type for the item-value factory, or
// "" for the factory default.
func (b *Base) getItemValueType() string {
	if p, ok := b.self.(ItemValueTypeProvider); ok {
		return p.GetItemValueType()
	}
	return ""
}

// setArrayPropertyDirectly replaces the content of a sequence property in
// place.
func (b *Base) setArrayPropertyDirectly(name string, items []any, notify bool) {
	seq := b.GetSequence(name)
	if seq == nil {
		return
	}
	seq.assign(items, b.getItemValueType(), notify)
}

// ItemValuePropertyChanged fires OnItemValuePropertyChanged for a change
// of property name of item.
func (b *Base) ItemValuePropertyChanged(item any, name string, oldValue, newValue any) {
	var propertyName string
	if o, ok := item.(OwnedItem); ok {
		propertyName = o.OwnerPropertyName()
	}
	b.OnItemValuePropertyChanged.Fire(b, &ItemValuePropertyChangedEvent{
		Obj:          item,
		PropertyName: propertyName,
		Name:         name,
		OldValue:     oldValue,
		NewValue:     newValue,
	})
}
