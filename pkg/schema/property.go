package schema

import (
	"strconv"
	"strings"

	"github.com/mohae/deepcopy"

	"github.com/vango-dev/formcore/internal/errors"
	"github.com/vango-dev/formcore/pkg/model"
)

// Property types with special handling in Object and the serializer.
const (
	TypeString      = "string"
	TypeNumber      = "number"
	TypeBoolean     = "boolean"
	TypeSwitch      = "switch"
	TypeLocalizable = "localizable"
	TypeItemValues  = "itemvalues"
	TypeArray       = "array"
	TypeObject      = "object"
	TypeCondition   = "condition"
)

// Property is the declared metadata of one class property. It implements
// model.PropertyMeta.
type Property struct {
	name         string
	typ          string
	def          any
	custom       bool
	bindable     bool
	serializable bool
	className    string
	visibleIf    func(obj *model.Base) bool
	onSetValue   func(obj *model.Base, value any) any
	onGetValue   func(obj *model.Base) any
}

// PropertyOption configures a Property.
type PropertyOption func(*Property)

// WithType sets the property type. The default is "string".
func WithType(typ string) PropertyOption {
	return func(p *Property) {
		p.typ = typ
	}
}

// WithDefault sets the declared default value.
func WithDefault(v any) PropertyOption {
	return func(p *Property) {
		p.def = v
	}
}

// Custom marks a property added at runtime rather than declared with its
// class. Its defaults are not resolved while the object is constructing.
func Custom() PropertyOption {
	return func(p *Property) {
		p.custom = true
	}
}

// Bindable lets the property be bound to an external value name.
func Bindable() PropertyOption {
	return func(p *Property) {
		p.bindable = true
	}
}

// NotSerializable excludes the property from ToJSON.
func NotSerializable() PropertyOption {
	return func(p *Property) {
		p.serializable = false
	}
}

// WithClassName sets the element class of array and object properties.
func WithClassName(name string) PropertyOption {
	return func(p *Property) {
		p.className = name
	}
}

// WithVisibleIf sets the visibility predicate.
func WithVisibleIf(fn func(obj *model.Base) bool) PropertyOption {
	return func(p *Property) {
		p.visibleIf = fn
	}
}

// WithOnSetValue sets the coercion applied to values before they are
// stored.
func WithOnSetValue(fn func(obj *model.Base, value any) any) PropertyOption {
	return func(p *Property) {
		p.onSetValue = fn
	}
}

// WithOnGetValue sets the custom value provider used when the stored
// value is empty.
func WithOnGetValue(fn func(obj *model.Base) any) PropertyOption {
	return func(p *Property) {
		p.onGetValue = fn
	}
}

// NewProperty declares a property.
func NewProperty(name string, opts ...PropertyOption) *Property {
	p := &Property{
		name:         name,
		typ:          TypeString,
		serializable: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseProperty declares a property from "name" or "name:type". For array
// and object types the class follows a second colon: "pages:array:page".
func ParseProperty(decl string, opts ...PropertyOption) (*Property, error) {
	parts := strings.Split(decl, ":")
	if parts[0] == "" || len(parts) > 3 {
		return nil, errors.New("F022").WithSuggestion("Invalid declaration " + strconv.Quote(decl))
	}
	p := NewProperty(parts[0])
	if len(parts) > 1 {
		if parts[1] == "" {
			return nil, errors.New("F022").WithSuggestion("Missing type in " + strconv.Quote(decl))
		}
		p.typ = parts[1]
	}
	if len(parts) == 3 {
		p.className = parts[2]
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// MustParseProperty is ParseProperty for static declarations; it panics
// on a malformed declaration.
func MustParseProperty(decl string, opts ...PropertyOption) *Property {
	p, err := ParseProperty(decl, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Property) Name() string { return p.name }

func (p *Property) Type() string { return p.typ }

// ClassName returns the element class of array and object properties.
func (p *Property) ClassName() string { return p.className }

// DefaultValue returns a copy of the declared default, so composite
// defaults are never shared between objects.
func (p *Property) DefaultValue() any {
	if p.def == nil {
		return nil
	}
	return deepcopy.Copy(p.def)
}

func (p *Property) IsCustom() bool { return p.custom }

func (p *Property) IsBindable() bool { return p.bindable }

// IsSerializable reports whether ToJSON writes the property.
func (p *Property) IsSerializable() bool { return p.serializable }

func (p *Property) IsVisible(_ string, obj *model.Base) bool {
	return p.visibleIf == nil || p.visibleIf(obj)
}

// SettingValue coerces value: the declared hook if any, otherwise string
// input for number and boolean properties is parsed.
func (p *Property) SettingValue(obj *model.Base, value any) any {
	if p.onSetValue != nil {
		return p.onSetValue(obj, value)
	}
	s, ok := value.(string)
	if !ok {
		return value
	}
	switch p.typ {
	case TypeNumber:
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	case TypeBoolean, TypeSwitch:
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b
		}
	}
	return value
}

func (p *Property) GetValue(obj *model.Base) (any, bool) {
	if p.onGetValue == nil {
		return nil, false
	}
	return p.onGetValue(obj), true
}
