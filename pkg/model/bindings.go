package model

import (
	"maps"
	"sort"
)

// Bindings maps local property names to external value names. It is
// either empty or holds at least one entry.
type Bindings struct {
	obj        *Base
	properties []PropertyMeta
	filled     bool
	values     map[string]string
}

func newBindings(obj *Base) *Bindings {
	return &Bindings{obj: obj}
}

// GetType returns the serialization type name.
func (b *Bindings) GetType() string {
	return "bindings"
}

// GetNames returns the names of the owner's bindable properties that are
// currently visible.
func (b *Bindings) GetNames() []string {
	b.fillProperties()
	res := make([]string, 0, len(b.properties))
	for _, p := range b.properties {
		if p.IsVisible("", b.obj) {
			res = append(res, p.Name())
		}
	}
	return res
}

// GetProperties returns the owner's bindable properties.
func (b *Bindings) GetProperties() []PropertyMeta {
	b.fillProperties()
	res := make([]PropertyMeta, len(b.properties))
	copy(res, b.properties)
	return res
}

// SetBinding binds propertyName to valueName. An empty valueName removes
// the binding. Setting the current binding again does nothing.
func (b *Bindings) SetBinding(propertyName, valueName string) {
	oldValue := b.GetJSON()
	next := maps.Clone(b.values)
	if next == nil {
		next = make(map[string]string)
	}
	if valueName != "" {
		next[propertyName] = valueName
	} else {
		delete(next, propertyName)
	}
	if maps.Equal(oldValue, next) {
		return
	}
	if len(next) == 0 {
		next = nil
	}
	b.values = next
	b.onChangedJSON(oldValue)
}

// ClearBinding removes the binding of propertyName.
func (b *Bindings) ClearBinding(propertyName string) {
	b.SetBinding(propertyName, "")
}

// IsEmpty reports whether no binding is set.
func (b *Bindings) IsEmpty() bool {
	return len(b.values) == 0
}

// GetValueNameByPropertyName returns the value name bound to
// propertyName, or "".
func (b *Bindings) GetValueNameByPropertyName(propertyName string) string {
	return b.values[propertyName]
}

// GetPropertiesByValueName returns the sorted names of the properties
// bound to valueName.
func (b *Bindings) GetPropertiesByValueName(valueName string) []string {
	res := []string{}
	for key, value := range b.values {
		if value == valueName {
			res = append(res, key)
		}
	}
	sort.Strings(res)
	return res
}

// GetJSON returns a copy of the table, or nil when empty.
func (b *Bindings) GetJSON() map[string]string {
	if b.IsEmpty() {
		return nil
	}
	return maps.Clone(b.values)
}

// SetJSON replaces the whole table. The owner is notified even when the
// content is unchanged, unless the table was empty and value is empty.
func (b *Bindings) SetJSON(value map[string]string) {
	oldValue := b.GetJSON()
	if oldValue == nil && len(value) == 0 {
		return
	}
	b.values = nil
	if len(value) > 0 {
		b.values = maps.Clone(value)
	}
	b.onChangedJSON(oldValue)
}

func (b *Bindings) fillProperties() {
	if b.filled {
		return
	}
	b.filled = true
	for _, p := range b.obj.metadata().GetProperties(b.obj.GetType()) {
		if p.IsBindable() {
			b.properties = append(b.properties, p)
		}
	}
}

func (b *Bindings) onChangedJSON(oldValue map[string]string) {
	if b.obj != nil {
		b.obj.OnBindingChanged(oldValue, b.GetJSON())
	}
}
