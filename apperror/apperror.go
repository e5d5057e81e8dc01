// Package apperror provides a structured way to report the error kinds defined
// by the network-decayed aggregation engine: bad input edges, unknown nodes,
// calling the aggregation engine before preprocessing, unknown reducers, and a
// stale distance-table cache. It intentionally mirrors a plain Go error (it
// satisfies error and Unwrap) so callers who only want errors.Is/errors.As
// never need to import this package.
package apperror

import "fmt"

// Code identifies the kind of error, independent of its message.
type Code string

const (
	// CodeInvalidEdge is raised when a graph edge has a non-positive, NaN,
	// or infinite cost.
	CodeInvalidEdge Code = "INVALID_EDGE"

	// CodeUnknownNode is raised when a source or target id is not present
	// in the graph's id map.
	CodeUnknownNode Code = "UNKNOWN_NODE"

	// CodeNotPreprocessed is raised when Aggregate is called on a Network
	// before Preprocess has run.
	CodeNotPreprocessed Code = "NOT_PREPROCESSED"

	// CodeUnknownReducer is raised when a reducer name is not registered.
	CodeUnknownReducer Code = "UNKNOWN_REDUCER"

	// CodeStaleCache is raised when Aggregate is called with a decay cutoff
	// that exceeds the cutoff the cached distance table was built with.
	CodeStaleCache Code = "STALE_CACHE"

	// CodeMissingCoordinates is raised when a Network operation that
	// requires WithCoordinates (NearestNodes, Write) is called on a Network
	// built without them.
	CodeMissingCoordinates Code = "MISSING_COORDINATES"

	// CodeUnknownDecayKind is raised when a config-driven decay kind name
	// (e.g. NetworkConfig.DefaultDecayKind) is not one of the registered
	// catalogue variants.
	CodeUnknownDecayKind Code = "UNKNOWN_DECAY_KIND"
)

// Severity indicates how a caller should treat the error.
type Severity int

const (
	// SeverityError is a standard, fatal-for-the-call error.
	SeverityError Severity = iota
	// SeverityCritical indicates a severe, likely unrecoverable condition.
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	default:
		return "error"
	}
}

// Error is the structured error type returned by this module's public API.
type Error struct {
	Code     Code
	Message  string
	Field    string
	Details  map[string]any
	Cause    error
	Severity Severity
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any, for errors.Is/errors.As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, apperror.New(CodeX, "")) match on Code alone,
// ignoring Message/Field/Details/Cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New creates an Error with the given code and message at default severity.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message, Severity: SeverityError}
}

// Wrap creates an Error that chains an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause, Severity: SeverityError}
}

// WithField returns a copy of e with Field set.
func (e *Error) WithField(field string) *Error {
	c := *e
	c.Field = field
	return &c
}

// WithDetails returns a copy of e with Details merged in.
func (e *Error) WithDetails(details map[string]any) *Error {
	c := *e
	c.Details = details
	return &c
}

// InvalidEdge reports a malformed edge cost.
func InvalidEdge(message string) *Error {
	return New(CodeInvalidEdge, message)
}

// UnknownNode reports a node id absent from the graph's id map.
func UnknownNode(message string) *Error {
	return New(CodeUnknownNode, message)
}

// NotPreprocessed reports that Aggregate was called before Preprocess.
func NotPreprocessed(message string) *Error {
	return New(CodeNotPreprocessed, message)
}

// UnknownReducer reports an unregistered reducer name.
func UnknownReducer(message string) *Error {
	return New(CodeUnknownReducer, message)
}

// StaleCache reports a decay cutoff exceeding the cached table's cutoff.
func StaleCache(message string) *Error {
	return New(CodeStaleCache, message)
}

// MissingCoordinates reports a Network operation that requires
// WithCoordinates being called without them.
func MissingCoordinates(message string) *Error {
	return New(CodeMissingCoordinates, message)
}

// UnknownDecayKind reports a config-driven decay kind name that is not one
// of the registered catalogue variants.
func UnknownDecayKind(message string) *Error {
	return New(CodeUnknownDecayKind, message)
}
