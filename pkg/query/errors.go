package query

import "fmt"

// ErrorKind classifies evaluation failures.
type ErrorKind int

const (
	// KindParse is a malformed script construct. Fatal to the run;
	// nothing is executed.
	KindParse ErrorKind = iota
	// KindUnsupported is a syntactically valid but unsupported construct
	// (call, unary operator, non-name assignment target). The run aborts
	// at the offending statement; earlier statements stay applied.
	KindUnsupported
	// KindUnresolved is a reference to a name with no declared marker.
	KindUnresolved
)

func (k ErrorKind) String() string {
	switch k {
	case KindParse:
		return "parse error"
	case KindUnsupported:
		return "unsupported construct"
	case KindUnresolved:
		return "unresolved reference"
	default:
		return "error"
	}
}

// EvalError is a single failure from interpreting a query script,
// carrying the source line it originates from.
type EvalError struct {
	Kind    ErrorKind
	Line    int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}
