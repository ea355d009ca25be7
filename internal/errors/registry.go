package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://formcore.dev/docs/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Config (F001-F019)
	"F001": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "formcore.json or formcore.yaml could not be parsed.",
		DocURL:   docBase + "F001",
	},
	"F002": {
		Category: CategoryConfig,
		Message:  "Invalid log level",
		Detail:   "log.level must be one of debug, info, warn or error.",
		DocURL:   docBase + "F002",
	},
	"F003": {
		Category: CategoryConfig,
		Message:  "Invalid metrics namespace",
		Detail:   "metrics.namespace must be a valid Prometheus name: letters, digits and underscores, not starting with a digit.",
		DocURL:   docBase + "F003",
	},
	"F004": {
		Category: CategoryConfig,
		Message:  "Invalid locale",
		Detail:   "settings.locale must be a BCP 47 language tag such as \"en\" or \"de-CH\".",
		DocURL:   docBase + "F004",
	},

	// Schema (F020-F039)
	"F020": {
		Category: CategorySchema,
		Message:  "Invalid form definition",
		Detail:   "The form definition is not valid JSON or YAML.",
		DocURL:   docBase + "F020",
	},
	"F021": {
		Category: CategorySchema,
		Message:  "Unknown class",
		Detail:   "The object type is not registered with the class registry.",
		DocURL:   docBase + "F021",
	},
	"F022": {
		Category: CategorySchema,
		Message:  "Invalid property declaration",
		Detail:   "Property declarations have the form \"name\" or \"name:type\".",
		DocURL:   docBase + "F022",
	},

	// Expression (F040-F059)
	"F040": {
		Category: CategoryExpression,
		Message:  "Expression compile failed",
		Detail:   "The condition expression could not be translated or compiled.",
		DocURL:   docBase + "F040",
	},
	"F041": {
		Category: CategoryExpression,
		Message:  "Expression run failed",
		Detail:   "The condition expression raised an error while running.",
		DocURL:   docBase + "F041",
	},

	// CLI (F060-F079)
	"F060": {
		Category: CategoryCLI,
		Message:  "Form file not found",
		Detail:   "The form definition file does not exist or cannot be read.",
		DocURL:   docBase + "F060",
	},
	"F061": {
		Category: CategoryCLI,
		Message:  "Invalid property assignment",
		Detail:   "Assignments have the form path.property=value, where value is JSON or a bare string.",
		DocURL:   docBase + "F061",
	},
	"F062": {
		Category: CategoryCLI,
		Message:  "Object not found",
		Detail:   "No object in the form has the given name.",
		DocURL:   docBase + "F062",
	},

	// Model (F080-F099)
	"F080": {
		Category: CategoryModel,
		Message:  "Nested dependency collection",
		Detail:   "A computed value started collecting dependencies while another collection was open on the same goroutine.",
		DocURL:   docBase + "F080",
	},
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
