package model

// propertyValueChanged runs the change pipeline for one property. The
// steps run synchronously in a fixed order and never recover panics from
// handlers:
//
//  1. push the value to the bound external value name
//  2. the self OnPropertyValueChanged hook
//  3. OnPropertyChanged
//  4. the shared survey/self notifier
//  5. the expression property runner, if name is one
//  6. per-property listeners
//
// Nothing runs while the object is loading.
func (b *Base) propertyValueChanged(name string, oldValue, newValue any, changes *ArrayChanges) {
	if b.IsLoadingFromJSON() {
		return
	}
	b.updateBindings(name, newValue)
	if h, ok := b.self.(PropertyValueChangedHandler); ok {
		h.OnPropertyValueChanged(name, oldValue, newValue)
	}
	b.OnPropertyChanged.Fire(b, &PropertyChangedEvent{
		Name:         name,
		OldValue:     oldValue,
		NewValue:     newValue,
		ArrayChanges: changes,
	})
	b.doPropertyValueChangedCallback(name, oldValue, newValue, changes, b)
	b.checkConditionPropertyChanged(name)
	b.notifyPropertyListeners(name, newValue)
	currentObserver().PropertyChanged(b.GetType(), name)
}

func (b *Base) updateBindings(name string, value any) {
	valueName := b.bindings.GetValueNameByPropertyName(name)
	if valueName == "" {
		return
	}
	if u, ok := b.self.(BindingValueUpdater); ok {
		u.UpdateBindingValue(valueName, value)
	}
}

// SetPropertyValueChangedCallback installs the self notifier. It is called
// after the survey notifier, or alone when the object has no survey.
func (b *Base) SetPropertyValueChangedCallback(fn func(name string, oldValue, newValue any, sender *Base, changes *ArrayChanges)) {
	b.onPropertyValueChangedCallback = fn
}

// doPropertyValueChangedCallback invokes the survey notifier if there is
// a survey and the self notifier if one is set. Without a survey a self
// implementing PropertyChangedNotifier is used instead. Internal objects
// notify nobody.
func (b *Base) doPropertyValueChangedCallback(name string, oldValue, newValue any, changes *ArrayChanges, target *Base) {
	if in, ok := b.self.(InternalObject); ok && in.IsInternal() {
		return
	}
	if target == nil {
		target = b
	}
	notified := false
	if s := b.Survey(); s != nil {
		s.OnPropertyValueChangedCallback(name, oldValue, newValue, target, changes)
		notified = true
	} else if n, ok := b.self.(PropertyChangedNotifier); ok {
		n.OnPropertyValueChangedCallback(name, oldValue, newValue, target, changes)
		notified = true
	}
	if b.onPropertyValueChangedCallback != nil {
		b.onPropertyValueChangedCallback(name, oldValue, newValue, target, changes)
		notified = true
	}
	if !notified {
		Logger().Debug("property change has no notifier", "property", name, "type", b.GetType())
	}
}
