package schema

import (
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/formcore/internal/errors"
	"github.com/vango-dev/formcore/pkg/model"
)

// LoadedHandler is called by FromJSON after an object finished loading.
type LoadedHandler interface {
	OnLoaded()
}

// JSONValuer is implemented by localizable strings and items that have
// their own serialized form.
type JSONValuer interface {
	JSONValue() any
}

// JSONValueSetter is the inverse of JSONValuer.
type JSONValueSetter interface {
	SetJSONValue(value any)
}

// typeKey names the class of a nested object when it differs from the
// declared class.
const typeKey = "type"

// ToJSON returns the serialized form of obj: every serializable property
// whose stored value is not empty, and the bindings.
func (r *Registry) ToJSON(obj model.Reactive) map[string]any {
	b := obj.AsBase()
	res := make(map[string]any)
	for _, p := range r.SchemaProperties(b.GetType()) {
		if !p.IsSerializable() {
			continue
		}
		if v, ok := r.propertyJSON(b, p); ok {
			res[p.Name()] = v
		}
	}
	if bindings := b.Bindings().GetJSON(); bindings != nil {
		res["bindings"] = bindings
	}
	return res
}

func (r *Registry) propertyJSON(b *model.Base, p *Property) (any, bool) {
	switch p.Type() {
	case TypeLocalizable:
		if ls := b.GetLocalizableString(p.Name()); ls != nil {
			if jv, ok := ls.(JSONValuer); ok {
				v := jv.JSONValue()
				return v, !model.IsValueEmpty(v)
			}
			return ls.Text(), ls.Text() != ""
		}
	case TypeItemValues, TypeArray:
		seq := b.GetSequence(p.Name())
		if seq == nil || seq.Len() == 0 {
			return nil, false
		}
		items := make([]any, 0, seq.Len())
		for _, item := range seq.Items() {
			items = append(items, r.itemJSON(item, p))
		}
		return items, true
	}

	v := b.GetPropertyValueWithoutDefault(p.Name())
	if v == nil {
		return nil, false
	}
	if child, ok := v.(model.Reactive); ok {
		return r.itemJSON(child, p), true
	}
	if model.IsTwoValueEquals(v, p.DefaultValue()) {
		return nil, false
	}
	return v, true
}

func (r *Registry) itemJSON(item any, p *Property) any {
	if jv, ok := item.(JSONValuer); ok {
		return jv.JSONValue()
	}
	child, ok := item.(model.Reactive)
	if !ok {
		return item
	}
	res := r.ToJSON(child)
	if t := child.AsBase().GetType(); p.ClassName() != "" && t != p.ClassName() {
		res[typeKey] = t
	}
	return res
}

// FromJSON loads data into obj. The object is in loading state for the
// duration, so no change pipeline runs. Unknown keys are ignored.
func (r *Registry) FromJSON(obj model.Reactive, data map[string]any) error {
	b := obj.AsBase()
	b.StartLoadingFromJSON()
	defer b.EndLoadingFromJSON()

	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := data[key]
		if key == typeKey {
			continue
		}
		if key == "bindings" {
			b.Bindings().SetJSON(stringMap(value))
			continue
		}
		p := r.FindSchemaProperty(b.GetType(), key)
		if p == nil {
			model.Logger().Debug("ignoring unknown property", "property", key, "type", b.GetType())
			continue
		}
		if err := r.loadProperty(b, p, value); err != nil {
			return fmt.Errorf("%s.%s: %w", b.GetType(), key, err)
		}
	}

	if h, ok := b.Self().(LoadedHandler); ok {
		h.OnLoaded()
	}
	return nil
}

func (r *Registry) loadProperty(b *model.Base, p *Property, value any) error {
	switch p.Type() {
	case TypeLocalizable:
		ls := b.GetLocalizableString(p.Name())
		if ls == nil {
			b.SetPropertyValue(p.Name(), value)
			return nil
		}
		if js, ok := ls.(JSONValueSetter); ok {
			js.SetJSONValue(value)
		} else if s, ok := value.(string); ok {
			ls.SetText(s)
		}
		return nil
	case TypeArray:
		raw, ok := value.([]any)
		if !ok {
			return errors.Newf(errors.CategorySchema, "expected an array, got %T", value)
		}
		children := make([]any, 0, len(raw))
		for _, item := range raw {
			child, err := r.loadChild(b, p, item)
			if err != nil {
				return err
			}
			children = append(children, child)
		}
		b.SetPropertyValue(p.Name(), children)
		return nil
	case TypeObject:
		child, err := r.loadChild(b, p, value)
		if err != nil {
			return err
		}
		b.SetPropertyValue(p.Name(), child)
		return nil
	}
	b.SetPropertyValue(p.Name(), value)
	return nil
}

func (r *Registry) loadChild(owner *model.Base, p *Property, value any) (model.Reactive, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, errors.Newf(errors.CategorySchema, "expected an object, got %T", value)
	}
	className := p.ClassName()
	if t, ok := m[typeKey].(string); ok && t != "" {
		className = t
	}
	child, err := r.CreateClass(className)
	if err != nil {
		return nil, err
	}
	child.AsBase().SetLoadingOwner(owner)
	if err := r.FromJSON(child, m); err != nil {
		return nil, err
	}
	return child, nil
}

// Clone creates an object of the same class and loads obj's serialized
// form into it.
func (r *Registry) Clone(obj model.Reactive) (model.Reactive, error) {
	clone, err := r.CreateClass(obj.AsBase().GetType())
	if err != nil {
		return nil, err
	}
	if err := r.FromJSON(clone, r.ToJSON(obj)); err != nil {
		return nil, err
	}
	return clone, nil
}

// Unmarshal creates an object of typeName from a JSON document.
func (r *Registry) Unmarshal(data []byte, typeName string) (model.Reactive, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.New("F020").Wrap(err)
	}
	return r.load(m, typeName)
}

// Marshal returns the indented JSON document of obj.
func (r *Registry) Marshal(obj model.Reactive) ([]byte, error) {
	return json.MarshalIndent(r.ToJSON(obj), "", "  ")
}

// FromYAML creates an object of typeName from a YAML document.
func (r *Registry) FromYAML(data []byte, typeName string) (model.Reactive, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.New("F020").Wrap(err)
	}
	return r.load(m, typeName)
}

func (r *Registry) load(m map[string]any, typeName string) (model.Reactive, error) {
	if t, ok := m[typeKey].(string); ok && t != "" {
		typeName = t
	}
	obj, err := r.CreateClass(typeName)
	if err != nil {
		return nil, err
	}
	if err := r.FromJSON(obj, m); err != nil {
		return nil, errors.New("F020").Wrap(err)
	}
	return obj, nil
}

func stringMap(value any) map[string]string {
	switch v := value.(type) {
	case map[string]string:
		return v
	case map[string]any:
		res := make(map[string]string, len(v))
		for key, val := range v {
			if s, ok := val.(string); ok {
				res[key] = s
			}
		}
		return res
	}
	return nil
}
