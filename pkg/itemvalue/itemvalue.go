// Package itemvalue implements the entries of choice lists: a value with
// a localized display text.
package itemvalue

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/vango-dev/formcore/pkg/locstr"
	"github.com/vango-dev/formcore/pkg/model"
	"github.com/vango-dev/formcore/pkg/schema"
)

// TypeName is the class name of item values.
const TypeName = "itemvalue"

var (
	registryMu sync.RWMutex
	registry   model.MetadataProvider
)

// ItemValue is one entry of an item-value sequence. Changes of its
// properties are reported to the owning object through
// ItemValuePropertyChanged.
type ItemValue struct {
	model.Base

	uid       uuid.UUID
	text      *locstr.String
	owner     *model.Base
	ownerProp string
}

// New creates an item with value and an optional default text.
func New(value any, text string) *ItemValue {
	return NewTyped(TypeName, value, text)
}

// NewTyped creates an item of a class derived from itemvalue.
func NewTyped(typeName string, value any, text string) *ItemValue {
	v := &ItemValue{uid: uuid.New()}
	var opts []model.Option
	if p := metadata(); p != nil {
		opts = append(opts, model.WithMetadata(p))
	}
	v.Init(v, typeName, opts...)
	v.text = locstr.New(&v.Base, "text")
	v.AddLocalizableString("text", v.text)

	v.StartLoadingFromJSON()
	v.SetPropertyValue("value", value)
	v.text.SetText(text)
	v.EndLoadingFromJSON()
	return v
}

func metadata() model.MetadataProvider {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry
}

// UID returns the stable identifier of the item.
func (v *ItemValue) UID() uuid.UUID {
	return v.uid
}

// Value returns the item value.
func (v *ItemValue) Value() any {
	return v.GetPropertyValue("value")
}

// SetValue sets the item value.
func (v *ItemValue) SetValue(value any) {
	v.SetPropertyValue("value", value)
}

// Text returns the display text, or the value formatted as text when no
// text is set.
func (v *ItemValue) Text() string {
	if t := v.GetLocalizableStringText("text", ""); t != "" {
		return t
	}
	if val := v.Value(); val != nil {
		return fmt.Sprint(val)
	}
	return ""
}

// SetText sets the display text for the current locale.
func (v *ItemValue) SetText(text string) {
	v.SetLocalizableStringText("text", text)
}

// LocText returns the localized text.
func (v *ItemValue) LocText() *locstr.String {
	return v.text
}

// HasText reports whether an explicit text is set in any locale.
func (v *ItemValue) HasText() bool {
	return !v.text.IsEmpty()
}

// SetLocOwner implements model.OwnedItem.
func (v *ItemValue) SetLocOwner(owner *model.Base, propertyName string) {
	v.owner = owner
	v.ownerProp = propertyName
}

// OwnerPropertyName implements model.OwnedItem.
func (v *ItemValue) OwnerPropertyName() string {
	return v.ownerProp
}

// LocOwner returns the object whose sequence holds the item.
func (v *ItemValue) LocOwner() *model.Base {
	return v.owner
}

// GetSurvey implements model.SurveyProvider through the owner, so the
// item's text follows the survey locale.
func (v *ItemValue) GetSurvey() model.Survey {
	if v.owner == nil {
		return nil
	}
	return v.owner.Survey()
}

// OnPropertyValueChanged implements model.PropertyValueChangedHandler.
func (v *ItemValue) OnPropertyValueChanged(name string, oldValue, newValue any) {
	if v.owner != nil {
		v.owner.ItemValuePropertyChanged(v, name, oldValue, newValue)
	}
}

// JSONValue returns the bare value when the item has no text, else an
// object with value and text.
func (v *ItemValue) JSONValue() any {
	if !v.HasText() {
		return v.Value()
	}
	return map[string]any{
		"value": v.Value(),
		"text":  v.text.JSONValue(),
	}
}

// String returns "value" or "value (text)".
func (v *ItemValue) String() string {
	if !v.HasText() {
		return fmt.Sprint(v.Value())
	}
	return fmt.Sprintf("%v (%s)", v.Value(), v.Text())
}

// Create builds an item from a raw entry: an existing *ItemValue is
// returned as is, a map with "value" and optional "text" keys and any
// other value becomes the item value.
func Create(item any, typeName string) any {
	if typeName == "" {
		typeName = TypeName
	}
	switch raw := item.(type) {
	case *ItemValue:
		return raw
	case map[string]any:
		v := NewTyped(typeName, raw["value"], "")
		if text, ok := raw["text"]; ok {
			v.text.SetJSONValue(text)
		}
		return v
	}
	return NewTyped(typeName, item, "")
}

// LocStrsChanged re-reports the texts of every item value in items.
func LocStrsChanged(items []any) {
	for _, item := range items {
		if v, ok := item.(*ItemValue); ok {
			v.LocStrsChanged()
		}
	}
}

// Register declares the itemvalue class in r and installs Create and
// LocStrsChanged as the item-value hooks of the model package.
func Register(r *schema.Registry) {
	r.AddClass(TypeName, "", func() model.Reactive { return New(nil, "") },
		schema.MustParseProperty("value"),
		schema.MustParseProperty("text:localizable"),
	)
	registryMu.Lock()
	registry = r
	registryMu.Unlock()

	model.SetItemValueFactory(Create)
	model.SetItemValueLocStrChanged(LocStrsChanged)
}
