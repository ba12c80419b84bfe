// Package errors provides error classification for termflow components.
// Configuration errors are raised where a value is applied, lifecycle errors are
// absorbed locally, fatal errors end the render loop. Nothing is retried.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// ErrorClass represents the classification of errors for handling purposes
type ErrorClass int

const (
	// ErrorInvalid represents invalid configuration such as an unknown color or property value
	ErrorInvalid ErrorClass = iota
	// ErrorLifecycle represents reads of state that is not ready yet, such as unmeasured layout
	ErrorLifecycle
	// ErrorFatal represents external resource failures that stop the render loop
	ErrorFatal
)

// String returns the string representation of ErrorClass
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorInvalid:
		return "invalid"
	case ErrorLifecycle:
		return "lifecycle"
	case ErrorFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Standard error variables
var (
	// Configuration
	ErrInvalidProperty = errors.New("invalid property value")
	ErrUnknownProperty = errors.New("unknown property")
	ErrInvalidColor    = errors.New("invalid color")
	ErrUnknownBorder   = errors.New("unknown border style")
	ErrInvalidConfig   = errors.New("invalid configuration")

	// Lifecycle
	ErrNotMeasured   = errors.New("node not measured")
	ErrNodeDisposed  = errors.New("node disposed")
	ErrNotStarted    = errors.New("component not started")
	ErrAlreadyExists = errors.New("already exists")

	// External resources
	ErrTerminalClosed     = errors.New("terminal closed")
	ErrNotTerminal        = errors.New("not a terminal")
	ErrLayoutUnavailable  = errors.New("layout engine unavailable")
	ErrStorageUnavailable = errors.New("storage unavailable")

	// Runtime wiring
	ErrUnknownChannel = errors.New("unknown channel")
)

// ClassifiedError wraps an error with its classification
type ClassifiedError struct {
	Class     ErrorClass
	Err       error
	Message   string
	Component string
	Operation string
}

// Error implements the error interface
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// IsInvalid checks if an error is a configuration error
func IsInvalid(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorInvalid
	}

	return errors.Is(err, ErrInvalidProperty) ||
		errors.Is(err, ErrUnknownProperty) ||
		errors.Is(err, ErrInvalidColor) ||
		errors.Is(err, ErrUnknownBorder) ||
		errors.Is(err, ErrInvalidConfig)
}

// IsLifecycle checks if an error reports state that is not ready yet
func IsLifecycle(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorLifecycle
	}

	return errors.Is(err, ErrNotMeasured) ||
		errors.Is(err, ErrNodeDisposed) ||
		errors.Is(err, ErrNotStarted)
}

// IsFatal checks if an error should stop the render loop
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorFatal
	}

	return errors.Is(err, ErrTerminalClosed) ||
		errors.Is(err, ErrNotTerminal) ||
		errors.Is(err, ErrLayoutUnavailable)
}

// Classify returns the error class for an error.
// Unclassified errors are treated as fatal: an unknown failure cannot be corrected by the next pass.
func Classify(err error) ErrorClass {
	switch {
	case IsInvalid(err):
		return ErrorInvalid
	case IsLifecycle(err):
		return ErrorLifecycle
	default:
		return ErrorFatal
	}
}

func newClassified(class ErrorClass, err error, component, operation, message string) *ClassifiedError {
	return &ClassifiedError{
		Class:     class,
		Err:       err,
		Message:   message,
		Component: component,
		Operation: operation,
	}
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// WrapInvalid wraps an error as a configuration error with context
func WrapInvalid(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorInvalid, wrappedErr, component, method, wrappedErr.Error())
}

// WrapLifecycle wraps an error as a lifecycle error with context
func WrapLifecycle(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorLifecycle, wrappedErr, component, method, wrappedErr.Error())
}

// WrapFatal wraps an error as fatal with context
func WrapFatal(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorFatal, wrappedErr, component, method, wrappedErr.Error())
}

// Invalidf builds a configuration error naming the offending input.
// When candidates are given, the closest one is offered as a suggestion.
func Invalidf(sentinel error, input string, candidates []string) error {
	if s := Suggest(input, candidates); s != "" {
		return fmt.Errorf("%w %q (did you mean %q?)", sentinel, input, s)
	}
	return fmt.Errorf("%w %q", sentinel, input)
}

// Suggest returns the candidate closest to input by edit distance.
// Returns empty string when nothing is close enough to be a plausible typo.
func Suggest(input string, candidates []string) string {
	if input == "" || len(candidates) == 0 {
		return ""
	}
	needle := strings.ToLower(input)
	limit := max(2, len(needle)/3)

	best, bestDist := "", limit+1
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)
	for _, c := range sorted {
		d := levenshtein.ComputeDistance(needle, strings.ToLower(c))
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
