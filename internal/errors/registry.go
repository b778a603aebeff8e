package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (E100-E109)
	// ============================================

	"E100": {
		Category: CategoryRuntime,
		Message:  "Unrecognized variant",
		Suggestion: "A node or property kind outside the closed set reached the engine. " +
			"Build nodes and values with the vdom constructors.",
	},
	"E101": {
		Category:   CategoryRuntime,
		Message:    "Invalid node",
		Suggestion: "Component nodes need a render function and elements need a tag.",
	},
	"E102": {
		Category:   CategoryRuntime,
		Message:    "Container not attached to document",
		Suggestion: "Create the container with Document.CreateElement or take it from Document.Body.",
	},
	"E103": {
		Category:   CategoryRuntime,
		Message:    "Root already mounted",
		Suggestion: "Call Unmount before mounting a new tree into the same Root.",
	},

	// ============================================
	// Controller Errors (E110-E119)
	// ============================================

	"E110": {
		Category:   CategoryController,
		Message:    "Unresolved controller dependency",
		Suggestion: "Bind the required controller on a descendant or ancestor element.",
	},
	"E111": {
		Category:   CategoryController,
		Message:    "Unresolved service",
		Suggestion: "Register the service type with Services.Register before mounting.",
	},
	"E112": {
		Category:   CategoryController,
		Message:    "Service dependency cycle",
		Suggestion: "Service dependencies must form a directed acyclic graph.",
	},
	"E113": {
		Category:   CategoryController,
		Message:    "Unknown controller method",
		Suggestion: "Event bindings must name an exported method with signature func(*dom.Event).",
	},
	"E114": {
		Category: CategoryController,
		Message:  "Controller construction failed",
	},
	"E115": {
		Category: CategoryController,
		Message:  "Service construction failed",
	},

	// ============================================
	// Scheduler Errors (E120-E129)
	// ============================================

	"E120": {
		Category:   CategoryScheduler,
		Message:    "Update storm",
		Suggestion: "A render or controller keeps scheduling state updates. Guard updates with a value check.",
	},
	"E121": {
		Category: CategoryScheduler,
		Message:  "Loop stopped",
	},

	// ============================================
	// Hydration Diagnostics (E130-E139)
	// ============================================

	"E130": {
		Category: CategoryHydration,
		Message:  "Hydration mismatch: element type differs",
	},
	"E131": {
		Category: CategoryHydration,
		Message:  "Hydration mismatch: text content differs",
	},
	"E132": {
		Category: CategoryHydration,
		Message:  "Hydration mismatch: missing node",
	},
	"E133": {
		Category: CategoryHydration,
		Message:  "Hydration mismatch: unexpected node",
	},
	"E134": {
		Category: CategoryHydration,
		Message:  "Hydration mismatch: attributes differ",
	},

	// ============================================
	// Config Errors (E140-E149)
	// ============================================

	"E140": {
		Category:   CategoryConfig,
		Message:    "Config file not found",
		Suggestion: "Create hydra.json, hydra.toml or hydra.yaml in the project root.",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Invalid config file",
	},
	"E142": {
		Category: CategoryConfig,
		Message:  "Unsupported config format",
	},
	"E143": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
	},

	// ============================================
	// Render / CLI Errors (E150-E159)
	// ============================================

	"E150": {
		Category: CategoryRender,
		Message:  "Snapshot publish failed",
	},
	"E151": {
		Category: CategoryCLI,
		Message:  "Unknown demo app",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
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
