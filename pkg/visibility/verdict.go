package visibility

import (
	"errors"
	"fmt"
)

// State is the tri-state outcome of an evaluation.
type State int

const (
	StateVisible State = iota
	StateHidden
	StateError
)

func (s State) String() string {
	switch s {
	case StateVisible:
		return "visible"
	case StateHidden:
		return "hidden"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "visible":
		*s = StateVisible
	case "hidden":
		*s = StateHidden
	case "error":
		*s = StateError
	default:
		return fmt.Errorf("visibility: unknown state %q", text)
	}
	return nil
}

// ErrorKind classifies why an evaluation failed. It is zero for visible and
// hidden verdicts.
type ErrorKind int

const (
	NoError ErrorKind = iota
	EmptyFieldName
	FieldNotFound
	TypeMismatch
	NoExpectedValues
	UnsupportedComparison
	EnumHasNoNames
	EnumValueNotFound
	UnsupportedValueType
)

var (
	ErrEmptyFieldName        = errors.New("visibility: compared field name is empty")
	ErrFieldNotFound         = errors.New("visibility: field not found")
	ErrTypeMismatch          = errors.New("visibility: type mismatch")
	ErrNoExpectedValues      = errors.New("visibility: no expected values")
	ErrUnsupportedComparison = errors.New("visibility: unsupported comparison")
	ErrEnumHasNoNames        = errors.New("visibility: enum has no names")
	ErrEnumValueNotFound     = errors.New("visibility: enum value not found")
	ErrUnsupportedValueType  = errors.New("visibility: unsupported value type")
)

func (k ErrorKind) String() string {
	switch k {
	case NoError:
		return ""
	case EmptyFieldName:
		return "emptyFieldName"
	case FieldNotFound:
		return "fieldNotFound"
	case TypeMismatch:
		return "typeMismatch"
	case NoExpectedValues:
		return "noExpectedValues"
	case UnsupportedComparison:
		return "unsupportedComparison"
	case EnumHasNoNames:
		return "enumHasNoNames"
	case EnumValueNotFound:
		return "enumValueNotFound"
	default:
		return "unsupportedValueType"
	}
}

func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText accepts the names produced by String; empty text is NoError.
func (k *ErrorKind) UnmarshalText(text []byte) error {
	for candidate := NoError; candidate <= UnsupportedValueType; candidate++ {
		if candidate.String() == string(text) {
			*k = candidate
			return nil
		}
	}
	return fmt.Errorf("visibility: unknown error kind %q", text)
}

// Sentinel returns the package-level error matching the kind, or nil.
func (k ErrorKind) Sentinel() error {
	switch k {
	case NoError:
		return nil
	case EmptyFieldName:
		return ErrEmptyFieldName
	case FieldNotFound:
		return ErrFieldNotFound
	case TypeMismatch:
		return ErrTypeMismatch
	case NoExpectedValues:
		return ErrNoExpectedValues
	case UnsupportedComparison:
		return ErrUnsupportedComparison
	case EnumHasNoNames:
		return ErrEnumHasNoNames
	case EnumValueNotFound:
		return ErrEnumValueNotFound
	default:
		return ErrUnsupportedValueType
	}
}

// Verdict is produced fresh on every evaluation. It is a comparable value:
// identical inputs yield verdicts that are equal under ==.
type Verdict struct {
	State   State     `json:"state"`
	Reason  ErrorKind `json:"reason,omitempty"`
	Message string    `json:"message,omitempty"`
}

// Visible is the verdict for a met condition.
func Visible() Verdict { return Verdict{State: StateVisible} }

// Hidden is the verdict for a condition that is not met.
func Hidden() Verdict { return Verdict{State: StateHidden} }

// Failed builds an error verdict.
func Failed(reason ErrorKind, format string, args ...any) Verdict {
	return Verdict{State: StateError, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

func verdictOf(met bool) Verdict {
	if met {
		return Visible()
	}
	return Hidden()
}

func (v Verdict) IsVisible() bool { return v.State == StateVisible }
func (v Verdict) IsHidden() bool  { return v.State == StateHidden }
func (v Verdict) IsError() bool   { return v.State == StateError }

func (v Verdict) String() string {
	if v.State == StateError {
		return "error: " + v.Message
	}
	return v.State.String()
}

// Err exposes an error verdict as an *EvalError; it returns nil otherwise.
func (v Verdict) Err() error {
	if v.State != StateError {
		return nil
	}
	return &EvalError{Kind: v.Reason, Message: v.Message}
}

// EvalError carries an error verdict through code paths that expect error
// values. It matches the kind's sentinel under errors.Is.
type EvalError struct {
	Kind    ErrorKind
	Message string
}

func (e *EvalError) Error() string {
	return "visibility: " + e.Message
}

func (e *EvalError) Is(target error) bool {
	return target != nil && target == e.Kind.Sentinel()
}
