package vision

import "fmt"

// ErrorKind tags an analysis failure with its place in the error taxonomy.
type ErrorKind int

const (
	// ErrInvalidReference means the input could not be resolved to a readable
	// artifact (bad path, unsupported URI scheme, missing file).
	ErrInvalidReference ErrorKind = iota

	// ErrUnreadableData means the reference resolved but the pixel data could
	// not be decoded.
	ErrUnreadableData

	// ErrExtractionFailure means a specific category's extraction, or a fatal
	// whole-image operation, failed.
	ErrExtractionFailure

	// ErrNoCategoriesRequested means the category list was empty or contained
	// only unrecognized tokens.
	ErrNoCategoriesRequested
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidReference:
		return "invalid-reference"
	case ErrUnreadableData:
		return "unreadable-data"
	case ErrExtractionFailure:
		return "extraction-failure"
	case ErrNoCategoriesRequested:
		return "no-categories-requested"
	default:
		return "unknown"
	}
}

// Error is the failure type surfaced by the preprocessor and orchestrator.
// Category is set only for extraction failures scoped to one category.
type Error struct {
	Kind     ErrorKind
	Category Category
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Category != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Category)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds a taxonomy error with a formatted message.
func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches a cause to a taxonomy error.
func WrapError(kind ErrorKind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// ExtractionError builds an extraction-failure error scoped to one category.
func ExtractionError(category Category, cause error) *Error {
	return &Error{
		Kind:     ErrExtractionFailure,
		Category: category,
		Message:  "extraction failed",
		Cause:    cause,
	}
}
