package model

// Capability interfaces implemented by types that embed Base. Base looks
// them up on the value passed to Init; Base itself implements none of
// them.

// Reactive is implemented by every type embedding Base.
type Reactive interface {
	AsBase() *Base
}

// PropertyValueChangedHandler is called after a property change, before
// OnPropertyChanged fires.
type PropertyValueChangedHandler interface {
	OnPropertyValueChanged(name string, oldValue, newValue any)
}

// BindingValueUpdater receives values of bound properties.
type BindingValueUpdater interface {
	UpdateBindingValue(valueName string, value any)
}

// PropertyChangedNotifier is the shared "property changed" notifier.
type PropertyChangedNotifier interface {
	OnPropertyValueChangedCallback(name string, oldValue, newValue any, sender *Base, changes *ArrayChanges)
}

// Survey is the owning survey-level object.
type Survey interface {
	PropertyChangedNotifier
	IsDesignMode() bool
	GetLocale() string
}

// SurveyProvider exposes the survey an object belongs to.
type SurveyProvider interface {
	GetSurvey() Survey
}

// ConditionDataProvider supplies data for expression properties.
type ConditionDataProvider interface {
	GetDataFilteredValues() map[string]any
	GetDataFilteredProperties() map[string]any
}

// ConditionRunGate overrides whether expression properties may run. By
// default they run unless the survey is in design mode.
type ConditionRunGate interface {
	CanRunConditions() bool
}

// ItemValueTypeProvider names the item type built by the item-value
// factory for this object's item-value sequences.
type ItemValueTypeProvider interface {
	GetItemValueType() string
}

// BaseCreatingHandler runs at the end of Init, while the object is still
// constructing.
type BaseCreatingHandler interface {
	OnBaseCreating()
}

// InternalObject suppresses the shared notifier when IsInternal is true.
type InternalObject interface {
	IsInternal() bool
}

// OwnedItem is implemented by items of item-value sequences.
type OwnedItem interface {
	SetLocOwner(owner *Base, propertyName string)
	OwnerPropertyName() string
}

// LocaleUser collects the locales its localized content uses.
type LocaleUser interface {
	AddUsedLocales(locales []string) []string
}

// SearchableLocKeysProvider limits SearchText to the named localizable
// strings. A nil result searches all of them.
type SearchableLocKeysProvider interface {
	GetSearchableLocKeys() []string
}
