package exprerr

import (
	"fmt"
)

type Kind string

const (
	KindLex        Kind = "lex"
	KindStructural Kind = "structural"
	KindArithmetic Kind = "arithmetic"
)

// Sentinels for errors.Is, matched by Kind only.
var (
	ErrLex        = &Error{Kind: KindLex, Offset: -1}
	ErrStructural = &Error{Kind: KindStructural, Offset: -1}
	ErrArithmetic = &Error{Kind: KindArithmetic, Offset: -1}
)

// Error is a classified failure of the expression pipeline.
//
// Offset is a byte offset into the input for lex errors, a token index for
// structural errors and -1 when no location applies.
type Error struct {
	Kind    Kind
	Offset  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s error", e.Kind)
	}

	if e.Offset < 0 {
		return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
	}

	return fmt.Sprintf("%s error at %d: %s", e.Kind, e.Offset, e.Message)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == e.Kind
}

func Lex(offset int, format string, args ...any) *Error {
	return &Error{Kind: KindLex, Offset: offset, Message: fmt.Sprintf(format, args...)}
}

func Structural(index int, format string, args ...any) *Error {
	return &Error{Kind: KindStructural, Offset: index, Message: fmt.Sprintf(format, args...)}
}

func Arithmetic(format string, args ...any) *Error {
	return &Error{Kind: KindArithmetic, Offset: -1, Message: fmt.Sprintf(format, args...)}
}
