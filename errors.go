package opspec

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeDeclarationConflict  = "declaration_conflict"
	CodeDiscriminatorMissing = "discriminator_missing"
	CodeVersionResolution    = "version_resolution"
	CodeMissingShape         = "missing_shape"
	CodeUnsupportedPayload   = "unsupported_payload"
)

// Issue represents a single description-generation error entry.
type Issue struct {
	Path    string // Operation identity (for example: "GET /pets/{id}").
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: offending variant label, conflicting option names, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"variant":"dog"}) for
	// observability.
	Params map[string]any
}

// Issues is a collection of generation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. discriminator_missing at GET /pets
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// OperationError pairs one routed operation's identity with the error that
// prevented its resolution. A generation pass collects these instead of
// aborting on the first failure.
type OperationError struct {
	Path   string
	Method string
	Err    error
}

func (e OperationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e OperationError) Unwrap() error { return e.Err }
