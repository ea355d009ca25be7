// Package schema declares form object classes and their properties, and
// serializes object trees to and from JSON and YAML.
//
// A Registry implements model.MetadataProvider, so objects created from it
// resolve defaults, coercion, visibility and bindable properties from the
// declarations:
//
//	r := schema.NewRegistry()
//	schema.DeclareFormClasses(r)
//	obj, err := r.Unmarshal(data, "survey")
//
// Classes without a creator are built as *Object, which wires sequences,
// localizable strings and condition properties from the class
// declaration.
package schema
