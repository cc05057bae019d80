package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseCreate Phase = "create" // value construction
	PhaseFill   Phase = "fill"   // value extraction
	PhaseList   Phase = "list"   // list marshalling
	PhaseHandle Phase = "handle" // handle table operations
	PhaseGuest  Phase = "guest"  // guest surface registration and calls
	PhaseApp    Phase = "app"    // application lifecycle
	PhaseObject Phase = "object" // property object operations
	PhaseCodec  Phase = "codec"  // wire encoding/decoding
	PhaseConfig Phase = "config" // manifest loading
	PhaseParse  Phase = "parse"  // WIT/literal parsing
)

// Kind categorizes the error
type Kind string

const (
	KindTypeMismatch Kind = "type_mismatch"
	KindOutOfRange   Kind = "out_of_range"
	KindNotAList     Kind = "not_a_list"
	KindStaleHandle  Kind = "stale_handle"
	KindDoubleDelete Kind = "double_delete"
	KindNoRuntime    Kind = "no_runtime"
	KindNoMemory     Kind = "no_memory"
	KindNoExport     Kind = "no_export"
	KindUnsupported  Kind = "unsupported"
	KindInvalidData  Kind = "invalid_data"
	KindInvalidInput Kind = "invalid_input"
	KindNotFound     Kind = "not_found"
	KindRegistration Kind = "registration"
	KindClosed       Kind = "closed"
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Want   string
	Got    string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Want != "" || e.Got != "" {
		b.WriteString(": ")
		if e.Want != "" && e.Got != "" {
			b.WriteString("want ")
			b.WriteString(e.Want)
			b.WriteString(", got ")
			b.WriteString(e.Got)
		} else if e.Want != "" {
			b.WriteString("want ")
			b.WriteString(e.Want)
		} else {
			b.WriteString("got ")
			b.WriteString(e.Got)
		}
	}

	if e.Detail != "" {
		if e.Want != "" || e.Got != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Want sets the expected type or kind name
func (b *Builder) Want(t string) *Builder {
	b.err.Want = t
	return b
}

// Got sets the actual type or kind name
func (b *Builder) Got(t string) *Builder {
	b.err.Got = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// StaleHandle creates an error for an id that no longer maps to a live value
func StaleHandle(phase Phase, id uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindStaleHandle,
		Detail: fmt.Sprintf("handle %d is not live", id),
		Value:  id,
	}
}

// DoubleDelete creates an error for deleting an id that was already released
func DoubleDelete(id uint32) *Error {
	return &Error{
		Phase:  PhaseHandle,
		Kind:   KindDoubleDelete,
		Detail: fmt.Sprintf("handle %d already released or never issued", id),
		Value:  id,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, want, got string) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindTypeMismatch,
		Path:  path,
		Want:  want,
		Got:   got,
	}
}

// NotAList creates an error for list extraction from a non-list value
func NotAList(got string) *Error {
	return &Error{
		Phase: PhaseList,
		Kind:  KindNotAList,
		Want:  "List",
		Got:   got,
	}
}

// NoRuntime creates an error for task submission with no live runtime
func NoRuntime() *Error {
	return &Error{
		Phase:  PhaseApp,
		Kind:   KindNoRuntime,
		Detail: "no runtime registered for the application",
	}
}

// NoMemory creates an error for guest calls that need linear memory
func NoMemory(op string) *Error {
	return &Error{
		Phase:  PhaseGuest,
		Kind:   KindNoMemory,
		Detail: fmt.Sprintf("%s requires caller memory", op),
	}
}

// NoExport creates an error for a missing guest export
func NoExport(name string) *Error {
	return &Error{
		Phase:  PhaseGuest,
		Kind:   KindNoExport,
		Detail: fmt.Sprintf("calling module does not export %q", name),
	}
}

// OutOfRange creates an error for an index or value outside its domain
func OutOfRange(phase Phase, path []string, value any, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfRange,
		Path:   path,
		Detail: detail,
		Value:  value,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Closed creates an error for operations on a closed container
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s is closed", what),
	}
}

// Registration creates a guest surface registration error
func Registration(namespace, name string, cause error) *Error {
	return &Error{
		Phase:  PhaseGuest,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("register %s#%s", namespace, name),
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}
