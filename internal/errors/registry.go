package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Engine Errors (B101-B199)
	// ============================================

	"B101": {
		Category: CategoryInvariant,
		Message:  "Duplicate key in sequence snapshot",
		Detail:   "Every item in one snapshot must map to a unique key. Check the key function supplied to EachOf.",
	},
	"B102": {
		Category: CategoryReconcile,
		Message:  "Patch references unknown key",
		Detail:   "A patch targeted a key with no registered fragment. The mount point's state is no longer trustworthy and it has been disposed.",
	},
	"B103": {
		Category: CategoryRender,
		Message:  "Item renderer failed",
		Detail:   "The renderer returned an error for a newly inserted key. No fragment was registered; the key will be retried on the next snapshot.",
	},
	"B104": {
		Category: CategoryStream,
		Message:  "Subscribe on closed source",
		Detail:   "The value stream was closed before the subscription was made.",
	},

	// ============================================
	// Protocol Errors (B201-B299)
	// ============================================

	"B201": {
		Category: CategoryProtocol,
		Message:  "Frame payload too large",
	},
	"B202": {
		Category: CategoryProtocol,
		Message:  "Malformed patch frame",
		Detail:   "The binary patch payload was truncated or contained an unknown opcode.",
	},

	// ============================================
	// Config Errors (B301-B399)
	// ============================================

	"B301": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
	},
	"B302": {
		Category: CategoryConfig,
		Message:  "Invalid port",
		Detail:   "The port must be between 1 and 65535.",
	},
}

// FromCode creates an error from a registered code.
// Unregistered codes produce a generic error carrying the code verbatim.
func FromCode(code string) *Error {
	tmpl, ok := registry[code]
	if !ok {
		return &Error{
			Code:     code,
			Category: CategoryInvariant,
			Message:  "unknown error",
		}
	}
	return &Error{
		Code:     code,
		Category: tmpl.Category,
		Message:  tmpl.Message,
		Detail:   tmpl.Detail,
	}
}

// IsRegistered returns true if the code is in the registry.
func IsRegistered(code string) bool {
	_, ok := registry[code]
	return ok
}

// Codes returns every registered error code in sorted order.
func Codes() []string {
	out := make([]string, 0, len(registry))
	for code := range registry {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
