package errors

// Template defines a registered error type.
type Template struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Config Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The elemkit configuration file is malformed.",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "Neither elemkit.json nor elemkit.yaml exists in the directory.",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid port number",
		Detail:   "The configured port number is outside 1-65535.",
	},
	"E123": {
		Category: CategoryConfig,
		Message:  "Invalid log level",
		Detail:   "The log level must be one of debug, info, warn or error.",
	},

	// ============================================
	// Construction Errors (E200-E209)
	// ============================================

	"E201": {
		Category:   CategoryEngine,
		Message:    "Unknown node type",
		Detail:     "A node must be exactly one of element, text, html or component.",
		Suggestion: "Set exactly one of tagName, text, html or component on the node",
	},
	"E202": {
		Category:   CategoryEngine,
		Message:    "Duplicate node id",
		Detail:     "Node ids must be unique within the tree owned by one Elem.",
		Suggestion: "Rename one of the nodes or drop its id",
	},
	"E203": {
		Category: CategoryEngine,
		Message:  "Invalid node id",
		Detail:   "Node ids must be strings.",
	},
	"E204": {
		Category: CategoryEngine,
		Message:  "Nil node",
		Detail:   "A node description, builder result or render container was nil.",
	},
	"E205": {
		Category:   CategoryEngine,
		Message:    "Unknown event handler",
		Detail:     "A decoded node names an event handler the resolver does not provide.",
		Suggestion: "Register the handler name with the resolver",
	},

	"E206": {
		Category:   CategoryEngine,
		Message:    "Malformed node description",
		Detail:     "The encoded node description could not be parsed.",
		Suggestion: "Check that the document is a single node object",
	},

	// ============================================
	// State Errors (E210-E219)
	// ============================================

	"E210": {
		Category:   CategoryEngine,
		Message:    "Already rendered",
		Detail:     "Render was called on an Elem that is currently rendered.",
		Suggestion: "Call Unrender before rendering again",
	},
	"E211": {
		Category:   CategoryEngine,
		Message:    "Cannot set root node while rendered",
		Detail:     "The node tree of a rendered Elem can only be changed through its mutators.",
		Suggestion: "Call Unrender before SetRootNode",
	},
	"E212": {
		Category: CategoryEngine,
		Message:  "Re-entrant render",
		Detail:   "Render, Unrender or SetRootNode was called while the same Elem was rendering.",
	},

	// ============================================
	// Addressing Errors (E220-E229)
	// ============================================

	"E220": {
		Category:   CategoryEngine,
		Message:    "Unknown node id",
		Detail:     "No node in the tree carries the requested id.",
		Suggestion: "Check the id against the node description",
	},

	// ============================================
	// Type Errors (E230-E239)
	// ============================================

	"E230": {
		Category: CategoryEngine,
		Message:  "Node must be of type element",
		Detail:   "Class, attribute, property, style, event and children operations require an element node.",
	},
	"E231": {
		Category: CategoryEngine,
		Message:  "Node must be of type component",
		Detail:   "The node does not wrap a component.",
	},

	// ============================================
	// Platform Errors (E240-E249)
	// ============================================

	"E240": {
		Category: CategoryEngine,
		Message:  "Markup insertion failed",
		Detail:   "The platform could not parse or insert raw markup.",
	},
	"E241": {
		Category: CategoryEngine,
		Message:  "Component render failed",
		Detail:   "A component wrapped by a node failed to render.",
	},

	// ============================================
	// Tool Errors (E300-E319)
	// ============================================

	"E300": {
		Category: CategoryTool,
		Message:  "Invalid scenario",
		Detail:   "The scenario file could not be decoded.",
	},
	"E301": {
		Category:   CategoryTool,
		Message:    "Unsupported scenario format",
		Detail:     "Scenario files must be .json, .yaml, .yml or .msgpack.",
		Suggestion: "Rename the file with a supported extension",
	},
	"E302": {
		Category: CategoryTool,
		Message:  "Unknown step operation",
		Detail:   "A scenario step names an operation the runner does not support.",
	},
	"E303": {
		Category: CategoryTool,
		Message:  "Step failed",
		Detail:   "A scenario step returned an error.",
	},
	"E304": {
		Category: CategoryTool,
		Message:  "Unknown component type",
		Detail:   "A component spec names a widget type the runner does not know.",
	},
	"E305": {
		Category: CategoryTool,
		Message:  "Snapshot write failed",
		Detail:   "The snapshot could not be written to its destination.",
	},
	"E306": {
		Category: CategoryTool,
		Message:  "Session not found",
		Detail:   "The inspector session id is unknown or has been closed.",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
