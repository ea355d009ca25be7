package model

import "sync"

// PropertyMeta is the declared metadata of one property.
type PropertyMeta interface {
	Name() string
	Type() string
	DefaultValue() any
	IsCustom() bool
	IsBindable() bool
	IsVisible(layout string, obj *Base) bool
	// SettingValue coerces a value before it is stored.
	SettingValue(obj *Base, value any) any
	// GetValue runs the custom value provider, if one is declared.
	GetValue(obj *Base) (any, bool)
}

// MetadataProvider answers property metadata queries by type name.
type MetadataProvider interface {
	FindProperty(typeName, propertyName string) PropertyMeta
	GetProperties(typeName string) []PropertyMeta
	IsDescendantOf(typeName, ancestor string) bool
}

type noMetadata struct{}

func (noMetadata) FindProperty(string, string) PropertyMeta { return nil }
func (noMetadata) GetProperties(string) []PropertyMeta     { return nil }
func (noMetadata) IsDescendantOf(typeName, ancestor string) bool {
	return typeName == ancestor
}

var (
	metadataMu       sync.RWMutex
	metadataProvider MetadataProvider = noMetadata{}
)

// SetMetadataProvider installs the provider used by objects that were not
// given one explicitly. nil restores the empty provider.
func SetMetadataProvider(p MetadataProvider) {
	metadataMu.Lock()
	defer metadataMu.Unlock()
	if p == nil {
		p = noMetadata{}
	}
	metadataProvider = p
}

// DefaultMetadataProvider returns the package-wide provider.
func DefaultMetadataProvider() MetadataProvider {
	metadataMu.RLock()
	defer metadataMu.RUnlock()
	return metadataProvider
}
