package opspec

// OperationContext identifies one routed operation for a single resolution
// pass: its path template, HTTP method, and the API version negotiated for the
// pass. Version is empty for unversioned APIs. The value is immutable and owned
// by the Resolver for the duration of one resolution.
type OperationContext struct {
	Path    string
	Method  string
	Version string
}

// Identity renders the conventional "METHOD /path" form used in error
// reporting.
func (op OperationContext) Identity() string {
	return op.Method + " " + op.Path
}
