package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (E100-E199)
	// ============================================

	"E100": {
		Category: CategoryConfig,
		Message:  "Missing route configuration",
		Detail:   "The router was given no configuration. Pass at least an empty branch.",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Param tuple has wrong arity",
		Detail:   "A param is written as a 3-element array: [name, {required: bool}, children|null].",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Param definition is invalid",
		Detail:   "The second element of a param tuple must be an object whose \"required\" field is a boolean.",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Invalid route node",
		Detail:   "A route node must be a mapping (branch), a 3-element array (param) or null.",
	},
	"E104": {
		Category: CategoryConfig,
		Message:  "Invalid segment name",
		Detail:   "Branch keys and param names must be non-empty and may not contain '/', ':', '*', '?', '#' or whitespace.",
	},
	"E105": {
		Category: CategoryConfig,
		Message:  "Duplicate branch key",
		Detail:   "A branch lists the same key more than once.",
	},
	"E106": {
		Category: CategoryConfig,
		Message:  "Unknown param type",
		Detail:   "Supported param types are string, int, uint, float, bool and uuid.",
	},
	"E107": {
		Category: CategoryConfig,
		Message:  "Name collision in param state",
		Detail:   "A param chain or a param followed by a branch merges names into one state level; each name may appear only once.",
	},
	"E108": {
		Category: CategoryConfig,
		Message:  "Unsupported configuration format",
		Detail:   "Route configurations are read from .json, .yaml or .yml documents.",
	},
	"E109": {
		Category: CategoryConfig,
		Message:  "Configuration could not be read",
	},
	"E110": {
		Category: CategoryConfig,
		Message:  "Configuration document is not valid",
	},

	// ============================================
	// Navigation Errors (E200-E299)
	// ============================================

	"E200": {
		Category: CategoryNavigation,
		Message:  "Unknown navigation target",
		Detail:   "The path does not match any endpoint compiled from the route configuration.",
	},
	"E201": {
		Category: CategoryNavigation,
		Message:  "Invalid param value",
		Detail:   "The path segment could not be parsed with the param's type.",
	},
	"E202": {
		Category: CategoryNavigation,
		Message:  "Invalid path",
	},
	"E203": {
		Category: CategoryNavigation,
		Message:  "Segment does not fit the route configuration",
		Detail:   "Static branches take a string key; params take a value of their declared type.",
	},

	// ============================================
	// CLI / Tool Configuration Errors (E300-E399)
	// ============================================

	"E300": {
		Category: CategoryCLI,
		Message:  "Invalid tool configuration",
	},
	"E301": {
		Category: CategoryCLI,
		Message:  "Invalid port",
		Detail:   "The server port must be between 1 and 65535.",
	},
	"E302": {
		Category: CategoryCLI,
		Message:  "Invalid log configuration",
		Detail:   "log.level is one of debug, info, warn, error; log.format is text or json.",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
