package schema

import (
	"sort"
	"sync"

	"github.com/vango-dev/formcore/internal/errors"
	"github.com/vango-dev/formcore/pkg/model"
)

// Class is a registered object type.
type Class struct {
	Name   string
	Parent string

	properties []*Property
	creator    func() model.Reactive
}

// Properties returns the properties declared by the class itself.
func (c *Class) Properties() []*Property {
	out := make([]*Property, len(c.properties))
	copy(out, c.properties)
	return out
}

// Registry holds class declarations. It implements model.MetadataProvider
// and is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*Class
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]*Class)}
}

// AddClass declares a class. parent may be empty. creator may be nil, in
// which case CreateClass builds a generic Object.
func (r *Registry) AddClass(name, parent string, creator func() model.Reactive, props ...*Property) *Class {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := &Class{
		Name:       name,
		Parent:     parent,
		properties: props,
		creator:    creator,
	}
	r.classes[name] = c
	return c
}

// AddProperty adds a property to an existing class.
func (r *Registry) AddProperty(className string, p *Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.classes[className]
	if !ok {
		return errors.New("F021").WithSuggestion("Declare class " + className + " before adding properties")
	}
	for i, existing := range c.properties {
		if existing.name == p.name {
			c.properties[i] = p
			return nil
		}
	}
	c.properties = append(c.properties, p)
	return nil
}

// FindClass returns the class named name, or nil.
func (r *Registry) FindClass(name string) *Class {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.classes[name]
}

// ClassNames returns the sorted names of all classes.
func (r *Registry) ClassNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FindSchemaProperty returns the property of typeName or one of its
// ancestors, or nil.
func (r *Registry) FindSchemaProperty(typeName, propertyName string) *Property {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for c := r.classes[typeName]; c != nil; c = r.classes[c.Parent] {
		for _, p := range c.properties {
			if p.name == propertyName {
				return p
			}
		}
	}
	return nil
}

// FindProperty implements model.MetadataProvider.
func (r *Registry) FindProperty(typeName, propertyName string) model.PropertyMeta {
	if p := r.FindSchemaProperty(typeName, propertyName); p != nil {
		return p
	}
	return nil
}

// SchemaProperties returns all properties of typeName, ancestors first.
// A property redeclared by a descendant replaces the inherited one in
// place.
func (r *Registry) SchemaProperties(typeName string) []*Property {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var chain []*Class
	for c := r.classes[typeName]; c != nil; c = r.classes[c.Parent] {
		chain = append(chain, c)
	}
	var res []*Property
	index := make(map[string]int)
	for i := len(chain) - 1; i >= 0; i-- {
		for _, p := range chain[i].properties {
			if at, ok := index[p.name]; ok {
				res[at] = p
				continue
			}
			index[p.name] = len(res)
			res = append(res, p)
		}
	}
	return res
}

// GetProperties implements model.MetadataProvider.
func (r *Registry) GetProperties(typeName string) []model.PropertyMeta {
	props := r.SchemaProperties(typeName)
	res := make([]model.PropertyMeta, len(props))
	for i, p := range props {
		res[i] = p
	}
	return res
}

// IsDescendantOf implements model.MetadataProvider.
func (r *Registry) IsDescendantOf(typeName, ancestor string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for c := r.classes[typeName]; c != nil; c = r.classes[c.Parent] {
		if c.Name == ancestor {
			return true
		}
	}
	return typeName == ancestor
}

// CreateClass creates an object of the named class.
func (r *Registry) CreateClass(name string) (model.Reactive, error) {
	c := r.FindClass(name)
	if c == nil {
		return nil, errors.New("F021").WithSuggestion("Unknown class " + name)
	}
	if c.creator != nil {
		return c.creator(), nil
	}
	return NewObject(r, name), nil
}
