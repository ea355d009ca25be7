package model

import "sort"

// GetPropertyValue returns the value of a property.
//
// When the stored value is empty, the declared metadata supplies the
// value: a non-empty, non-sequence default, false for boolean and switch
// properties, or the custom value provider of a custom property. The
// resolved default is computed on every call and never stored.
func (b *Base) GetPropertyValue(name string) any {
	return b.getPropertyValue(name, nil)
}

// GetPropertyValueOr is GetPropertyValue with a call-site default that
// takes precedence over the declared metadata.
func (b *Base) GetPropertyValueOr(name string, defaultValue any) any {
	return b.getPropertyValue(name, defaultValue)
}

// GetPropertyValueWithoutDefault returns the stored value.
func (b *Base) GetPropertyValueWithoutDefault(name string) any {
	return b.getPropertyValueCore(name)
}

func (b *Base) getPropertyValue(name string, defaultValue any) any {
	res := b.getPropertyValueCore(name)
	if !isPropertyEmpty(res) {
		return res
	}
	if defaultValue != nil {
		return defaultValue
	}
	prop := b.GetPropertyByName(name)
	if prop == nil || (prop.IsCustom() && b.isCreating) {
		return res
	}
	if dv := prop.DefaultValue(); !isPropertyEmpty(dv) && !isSequenceLike(dv) {
		return dv
	}
	if t := prop.Type(); t == "boolean" || t == "switch" {
		return false
	}
	if prop.IsCustom() {
		if v, ok := prop.GetValue(b); ok {
			return v
		}
	}
	return res
}

func (b *Base) getPropertyValueCore(name string) any {
	collectDependency(b, name)
	return b.propertyHash[name]
}

func (b *Base) setPropertyValueCore(name string, val any) bool {
	if b.rejectDisposed(name) {
		return false
	}
	b.propertyHash[name] = val
	return true
}

// rejectDisposed logs and reports a write to a disposed object.
func (b *Base) rejectDisposed(name string) bool {
	if !b.disposed {
		return false
	}
	Logger().Warn("attempt to set property of a disposed object",
		"property", name, "type", b.GetType())
	currentObserver().WriteRejected(b.GetType(), name)
	return true
}

// SetPropertyValue assigns a property and runs the change pipeline when
// the value changed.
//
// A property holding a Sequence keeps its container: assigning nil, a
// slice or another Sequence replaces the content in place and emits one
// diff. Writes to a disposed object are logged and dropped.
func (b *Base) SetPropertyValue(name string, val any) {
	if !b.IsLoadingFromJSON() {
		if prop := b.GetPropertyByName(name); prop != nil {
			val = prop.SettingValue(b, val)
		}
	}
	oldValue := b.GetPropertyValue(name)
	if seq, ok := oldValue.(*Sequence); ok && b.arraysInfo[name] != nil {
		if items, ok := sequenceItems(val); ok {
			if b.rejectDisposed(name) {
				return
			}
			if isTwoValueEquals(seq.items, items) || (len(seq.items) == 0 && len(items) == 0) {
				return
			}
			b.setArrayPropertyDirectly(name, items, true)
			return
		}
	}
	if !b.setPropertyValueCore(name, val) {
		return
	}
	if !isTwoValueEquals(oldValue, val) {
		b.propertyValueChanged(name, oldValue, val, nil)
	}
}

// ClearPropertyValue removes the stored value without notifying.
func (b *Base) ClearPropertyValue(name string) {
	if b.setPropertyValueCore(name, nil) {
		delete(b.propertyHash, name)
	}
}

// IteratePropertiesHash calls fn for every stored property name, in
// sorted order.
func (b *Base) IteratePropertiesHash(fn func(name string, value any)) {
	keys := make([]string, 0, len(b.propertyHash))
	for key := range b.propertyHash {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fn(key, b.propertyHash[key])
	}
}
