package schema

// DeclareFormClasses declares the survey object tree: a survey holds
// pages, a page holds question elements. Item values are declared by the
// itemvalue package.
func DeclareFormClasses(r *Registry) {
	r.AddClass("survey", "", nil,
		MustParseProperty("title:localizable"),
		MustParseProperty("description:localizable"),
		MustParseProperty("locale"),
		MustParseProperty("pages:array:page"),
		MustParseProperty("calculatedValues:array:calculatedvalue"),
	)
	r.AddClass("page", "", nil,
		MustParseProperty("name"),
		MustParseProperty("title:localizable"),
		MustParseProperty("visibleIf:condition"),
		MustParseProperty("visible:boolean", WithDefault(true), NotSerializable()),
		MustParseProperty("elements:array:question"),
	)
	r.AddClass("question", "", nil,
		MustParseProperty("name", Bindable()),
		MustParseProperty("title:localizable"),
		MustParseProperty("description:localizable"),
		MustParseProperty("isRequired:boolean"),
		MustParseProperty("visibleIf:condition"),
		MustParseProperty("enableIf:condition"),
		MustParseProperty("requiredIf:condition"),
		MustParseProperty("visible:boolean", WithDefault(true), NotSerializable()),
		MustParseProperty("enable:boolean", WithDefault(true), NotSerializable()),
		MustParseProperty("required:boolean", NotSerializable()),
		MustParseProperty("defaultValue", Bindable()),
	)
	r.AddClass("text", "question", nil,
		MustParseProperty("inputType", WithDefault("text")),
		MustParseProperty("placeholder:localizable"),
		MustParseProperty("min:number"),
		MustParseProperty("max:number"),
	)
	r.AddClass("comment", "text", nil,
		MustParseProperty("rows:number", WithDefault(4.0)),
	)
	r.AddClass("checkbox", "question", nil,
		MustParseProperty("choices:itemvalues"),
		MustParseProperty("hasOther:boolean"),
	)
	r.AddClass("dropdown", "checkbox", nil,
		MustParseProperty("placeholder:localizable"),
	)
	r.AddClass("calculatedvalue", "", nil,
		MustParseProperty("name"),
		MustParseProperty("expression:condition"),
		MustParseProperty("includeIntoResult:boolean"),
	)
}
