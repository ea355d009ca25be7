package model

type propChangeFunc struct {
	name    string
	fn      func(newValue any)
	key     string
	removed bool
}

// RegisterFunctionOnPropertyValueChanged calls fn with the new value after
// every change of name. A non-empty key identifies the registration: a
// second registration with the same name and key replaces the first.
func (b *Base) RegisterFunctionOnPropertyValueChanged(name string, fn func(newValue any), key string) {
	if key != "" {
		for _, item := range b.onPropChangeFunctions {
			if item.name == name && item.key == key {
				item.fn = fn
				return
			}
		}
	}
	b.onPropChangeFunctions = append(b.onPropChangeFunctions, &propChangeFunc{
		name: name,
		fn:   fn,
		key:  key,
	})
}

// RegisterFunctionOnPropertiesValueChanged registers fn for each of names.
func (b *Base) RegisterFunctionOnPropertiesValueChanged(names []string, fn func(newValue any), key string) {
	for _, name := range names {
		b.RegisterFunctionOnPropertyValueChanged(name, fn, key)
	}
}

// UnRegisterFunctionOnPropertyValueChanged removes the registration of
// name with key.
func (b *Base) UnRegisterFunctionOnPropertyValueChanged(name, key string) {
	for i, item := range b.onPropChangeFunctions {
		if item.name == name && item.key == key {
			item.removed = true
			b.onPropChangeFunctions = append(b.onPropChangeFunctions[:i:i], b.onPropChangeFunctions[i+1:]...)
			return
		}
	}
}

// UnRegisterFunctionOnPropertiesValueChanged removes the registrations of
// names with key.
func (b *Base) UnRegisterFunctionOnPropertiesValueChanged(names []string, key string) {
	for _, name := range names {
		b.UnRegisterFunctionOnPropertyValueChanged(name, key)
	}
}

// notifyPropertyListeners calls the listeners of name registered when the
// fan-out starts. A listener removed by an earlier listener is skipped;
// one added during the fan-out first runs on the next change.
func (b *Base) notifyPropertyListeners(name string, newValue any) {
	var matched []*propChangeFunc
	for _, item := range b.onPropChangeFunctions {
		if item.name == name {
			matched = append(matched, item)
		}
	}
	for _, item := range matched {
		if !item.removed {
			item.fn(newValue)
		}
	}
}
