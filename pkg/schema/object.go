package schema

import (
	"strings"

	"github.com/vango-dev/formcore/pkg/model"
)

// ValueSetter receives values pushed through bindings.
type ValueSetter interface {
	SetValue(name string, value any)
}

// SurveyMember is implemented by objects that can be attached to a
// survey.
type SurveyMember interface {
	SetSurvey(s model.Survey)
}

// Object is a generic model object whose behavior comes from its class
// declaration. On creation it sets up a sequence for each array and
// itemvalues property, a localizable string for each localizable
// property, and an expression property for each condition property. A
// condition property named "xIf" stores its result in "x".
type Object struct {
	model.Base

	registry *Registry
	survey   model.Survey
	parent   *Object
}

// NewObject creates an object of typeName described by r.
func NewObject(r *Registry, typeName string) *Object {
	o := &Object{registry: r}
	o.Init(o, typeName, model.WithMetadata(r))
	return o
}

// OnBaseCreating implements model.BaseCreatingHandler.
func (o *Object) OnBaseCreating() {
	for _, p := range o.registry.SchemaProperties(o.GetType()) {
		switch p.Type() {
		case TypeItemValues:
			o.CreateItemValues(p.Name())
		case TypeArray:
			o.CreateNewArray(p.Name(), func(item any, _ int) {
				o.adopt(item)
			}, func(item any) {
				if child, ok := item.(*Object); ok && child.parent == o {
					child.parent = nil
				}
			})
		case TypeLocalizable:
			o.CreateLocalizableString(p.Name())
		case TypeCondition:
			target := conditionTarget(p.Name())
			o.AddExpressionProperty(p.Name(), func(obj *model.Base, res any) {
				obj.SetPropertyValue(target, res)
			}, nil)
		}
	}
}

func conditionTarget(name string) string {
	if target, ok := strings.CutSuffix(name, "If"); ok && target != "" {
		return target
	}
	return name + "Result"
}

// adopt attaches a child pushed into one of o's sequences.
func (o *Object) adopt(item any) {
	if child, ok := item.(*Object); ok {
		child.parent = o
	}
	if m, ok := item.(SurveyMember); ok && o.survey != nil {
		m.SetSurvey(o.survey)
	}
}

// Parent returns the object whose sequence holds o, or nil.
func (o *Object) Parent() *Object {
	return o.parent
}

// Registry returns the registry describing o.
func (o *Object) Registry() *Registry {
	return o.registry
}

// GetSurvey implements model.SurveyProvider.
func (o *Object) GetSurvey() model.Survey {
	return o.survey
}

// SetSurvey attaches o and every object held by its sequences to s.
func (o *Object) SetSurvey(s model.Survey) {
	o.survey = s
	o.Walk(func(child *Object) {
		if child != o {
			child.survey = s
		}
	})
}

// GetDataFilteredValues implements model.ConditionDataProvider.
func (o *Object) GetDataFilteredValues() map[string]any {
	if p, ok := o.survey.(model.ConditionDataProvider); ok {
		return p.GetDataFilteredValues()
	}
	return nil
}

// GetDataFilteredProperties implements model.ConditionDataProvider.
func (o *Object) GetDataFilteredProperties() map[string]any {
	props := map[string]any{"object": o.GetPropertyValue("name")}
	if p, ok := o.survey.(model.ConditionDataProvider); ok {
		for k, v := range p.GetDataFilteredProperties() {
			props[k] = v
		}
	}
	return props
}

// UpdateBindingValue implements model.BindingValueUpdater.
func (o *Object) UpdateBindingValue(valueName string, value any) {
	if s, ok := o.survey.(ValueSetter); ok {
		s.SetValue(valueName, value)
	}
}

// Walk calls fn for o and, depth first, for every Object held by its
// array properties.
func (o *Object) Walk(fn func(*Object)) {
	fn(o)
	for _, p := range o.registry.SchemaProperties(o.GetType()) {
		if p.Type() != TypeArray && p.Type() != TypeObject {
			continue
		}
		switch v := o.GetPropertyValueWithoutDefault(p.Name()).(type) {
		case *model.Sequence:
			for _, item := range v.Items() {
				if child, ok := item.(*Object); ok {
					child.Walk(fn)
				}
			}
		case *Object:
			v.Walk(fn)
		}
	}
}

// FindByName returns the first object in o's tree whose "name" property
// equals name, or nil.
func (o *Object) FindByName(name string) *Object {
	var found *Object
	o.Walk(func(child *Object) {
		if found == nil && child.GetPropertyValue("name") == name {
			found = child
		}
	})
	return found
}
