package model

// PropertyChangedEvent is the payload of Base.OnPropertyChanged. For
// sequence edits OldValue and NewValue are the same *Sequence and
// ArrayChanges describes the edit.
type PropertyChangedEvent struct {
	Name         string
	OldValue     any
	NewValue     any
	ArrayChanges *ArrayChanges
}

// ItemValuePropertyChangedEvent is the payload of
// Base.OnItemValuePropertyChanged.
type ItemValuePropertyChangedEvent struct {
	// Obj is the item whose property changed.
	Obj any
	// PropertyName is the owner's property holding the item, e.g. "choices".
	PropertyName string
	// Name is the item's changed property, e.g. "text".
	Name     string
	OldValue any
	NewValue any
}

// Base is the reactive object embedded by every model type.
//
// Base is not safe for concurrent use.
type Base struct {
	id       uint64
	typeName string
	self     any
	provider MetadataProvider

	propertyHash       map[string]any
	localizableStrings map[string]LocalizableString
	customLocStrs      map[string]bool
	arraysInfo         map[string]*arrayInfo
	expressionInfo     map[string]*expressionRunnerInfo
	bindings           *Bindings

	eventList             []clearer
	onPropChangeFunctions []*propChangeFunc
	onPropertyValueChangedCallback func(name string, oldValue, newValue any, sender *Base, changes *ArrayChanges)

	disposed          bool
	isCreating        bool
	isLoadingFromJSON bool
	loadingOwner      *Base

	// OnPropertyChanged fires for every change of a property of this object.
	OnPropertyChanged *Event[*Base, *PropertyChangedEvent]

	// OnItemValuePropertyChanged fires when a property of an item held by an
	// item-value sequence of this object changes.
	OnItemValuePropertyChanged *Event[*Base, *ItemValuePropertyChangedEvent]
}

// Option configures a Base during Init.
type Option func(*Base)

// WithMetadata makes the object use p instead of the package provider.
func WithMetadata(p MetadataProvider) Option {
	return func(b *Base) {
		b.provider = p
	}
}

// New creates a standalone object of the given type.
func New(typeName string, opts ...Option) *Base {
	b := &Base{}
	b.Init(b, typeName, opts...)
	return b
}

// Init prepares an embedded Base. self is the embedding value; it is
// queried for the capability interfaces in hooks.go.
func (b *Base) Init(self any, typeName string, opts ...Option) {
	if self == nil {
		self = b
	}
	b.id = nextID()
	b.typeName = typeName
	b.self = self
	b.isCreating = true
	b.propertyHash = make(map[string]any)
	b.bindings = newBindings(b)
	b.OnPropertyChanged = addEvent[*Base, *PropertyChangedEvent](b)
	b.OnItemValuePropertyChanged = addEvent[*Base, *ItemValuePropertyChangedEvent](b)
	for _, opt := range opts {
		opt(b)
	}
	if h, ok := self.(BaseCreatingHandler); ok {
		h.OnBaseCreating()
	}
	b.isCreating = false
}

// addEvent creates an event that is cleared when b is disposed.
func addEvent[S any, O any](b *Base) *Event[S, O] {
	e := NewEvent[S, O]()
	b.eventList = append(b.eventList, e)
	return e
}

// AddEvent creates an event owned by b: it is cleared on Dispose.
func AddEvent[S any, O any](b *Base) *Event[S, O] {
	return addEvent[S, O](b)
}

// ID returns the unique object id.
func (b *Base) ID() uint64 {
	return b.id
}

// AsBase implements Reactive.
func (b *Base) AsBase() *Base {
	return b
}

// Self returns the embedding value passed to Init.
func (b *Base) Self() any {
	return b.self
}

// GetType returns the object type name used by the metadata provider.
func (b *Base) GetType() string {
	return b.typeName
}

// GetTemplate returns the rendering template name; it defaults to the
// type name.
func (b *Base) GetTemplate() string {
	return b.GetType()
}

// IsCreating reports whether Init is still running.
func (b *Base) IsCreating() bool {
	return b.isCreating
}

// Dispose clears every event, drops the self notifier and rejects all
// further writes. Calling it again has no effect.
func (b *Base) Dispose() {
	if b.disposed {
		return
	}
	for _, e := range b.eventList {
		e.Clear()
	}
	b.onPropertyValueChangedCallback = nil
	b.disposed = true
}

// IsDisposed reports whether Dispose was called.
func (b *Base) IsDisposed() bool {
	return b.disposed
}

func (b *Base) metadata() MetadataProvider {
	if b.provider != nil {
		return b.provider
	}
	return DefaultMetadataProvider()
}

// Metadata returns the provider used by this object.
func (b *Base) Metadata() MetadataProvider {
	return b.metadata()
}

// IsDescendantOf reports whether the object's type is typeName or
// inherits from it.
func (b *Base) IsDescendantOf(typeName string) bool {
	return b.metadata().IsDescendantOf(b.GetType(), typeName)
}

// GetPropertyByName returns the declared metadata of a property, or nil.
func (b *Base) GetPropertyByName(name string) PropertyMeta {
	return b.metadata().FindProperty(b.GetType(), name)
}

// IsPropertyVisible reports whether a declared property is visible.
// Undeclared properties are not visible.
func (b *Base) IsPropertyVisible(name string) bool {
	prop := b.GetPropertyByName(name)
	return prop != nil && prop.IsVisible("", b)
}

// Survey returns the owning survey, or nil.
func (b *Base) Survey() Survey {
	if p, ok := b.self.(SurveyProvider); ok {
		return p.GetSurvey()
	}
	return nil
}

// IsDesignMode reports whether the owning survey is being designed.
func (b *Base) IsDesignMode() bool {
	s := b.Survey()
	return s != nil && s.IsDesignMode()
}

// InSurvey reports whether the object belongs to a survey.
func (b *Base) InSurvey() bool {
	return b.Survey() != nil
}

// GetLocale returns the survey locale, or "".
func (b *Base) GetLocale() string {
	if s := b.Survey(); s != nil {
		return s.GetLocale()
	}
	return ""
}

// Bindings returns the binding table of this object.
func (b *Base) Bindings() *Bindings {
	return b.bindings
}

// OnBindingChanged reports a binding table change to the shared notifier
// as a change of the "bindings" property.
func (b *Base) OnBindingChanged(oldValue, newValue map[string]string) {
	if b.IsLoadingFromJSON() {
		return
	}
	var oldJSON, newJSON any
	if oldValue != nil {
		oldJSON = oldValue
	}
	if newValue != nil {
		newJSON = newValue
	}
	b.doPropertyValueChangedCallback("bindings", oldJSON, newJSON, nil, b)
}

// IsLoadingFromJSON reports whether this object, or its loading owner, is
// being loaded from serialized form.
func (b *Base) IsLoadingFromJSON() bool {
	if b.isLoadingFromJSON {
		return true
	}
	return b.loadingOwner != nil && b.loadingOwner.IsLoadingFromJSON()
}

// StartLoadingFromJSON suppresses the change pipeline until
// EndLoadingFromJSON.
func (b *Base) StartLoadingFromJSON() {
	b.isLoadingFromJSON = true
}

// EndLoadingFromJSON ends a load started by StartLoadingFromJSON.
func (b *Base) EndLoadingFromJSON() {
	b.isLoadingFromJSON = false
}

// SetLoadingOwner puts the object in owner's load scope.
func (b *Base) SetLoadingOwner(owner *Base) {
	b.loadingOwner = owner
}

// LoadingOwner returns the object whose load scope this object is in.
func (b *Base) LoadingOwner() *Base {
	return b.loadingOwner
}
