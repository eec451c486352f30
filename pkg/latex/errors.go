package latex

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/gomathml/pkg/latex/macro"
	"github.com/yaklabco/gomathml/pkg/latex/scanner"
)

// ErrorKind classifies a parse failure.
type ErrorKind uint8

// Parse error kinds.
const (
	KindSyntax ErrorKind = iota
	KindBlockNotClosed
	KindOptionNotClosed
	KindUndefinedCommand
	KindUndefinedEnvironment
	KindEnvironmentMismatch
	KindEnvironmentNameMissing
	KindMatchingEndMissing
	KindDoubleSubscript
	KindDoubleSuperscript
	KindMissingSubscript
	KindMissingSuperscript
	KindTooFewColumns
	KindTooManyColumns
	KindNeedMoreParameters
	KindParameterTooLarge
	KindNeedPositiveNumber
	KindNeedParameter
	KindCircularReference
	KindUnregisteredEntity
	KindNeedBrace
	KindBraceNotClosed
	KindMacro
	KindTooDeep
)

//nolint:gochecknoglobals // Read-only lookup table.
var kindMessages = map[ErrorKind]string{
	KindSyntax:                 "Syntax error.",
	KindBlockNotClosed:         "Block not closed.",
	KindOptionNotClosed:        "Option not closed.",
	KindUndefinedCommand:       "Undefined command.",
	KindUndefinedEnvironment:   "Undefined environment.",
	KindEnvironmentMismatch:    "Environment mismatched.",
	KindEnvironmentNameMissing: "Environment name not exist.",
	KindMatchingEndMissing:     `Matching \end not exist.`,
	KindDoubleSubscript:        "Double subscript.",
	KindDoubleSuperscript:      "Double superscript.",
	KindMissingSubscript:       "Subscript not exist.",
	KindMissingSuperscript:     "Superscript not exist.",
	KindTooFewColumns:          "Need more column.",
	KindTooManyColumns:         "Too many column.",
	KindNeedMoreParameters:     "Need more parameter.",
	KindParameterTooLarge:      "Parameter # too large.",
	KindNeedPositiveNumber:     "Need positive number.",
	KindNeedParameter:          "Need parameter.",
	KindCircularReference:      "Circular reference.",
	KindUnregisteredEntity:     "Unregistered entity.",
	KindNeedBrace:              "Need brace here.",
	KindBraceNotClosed:         "Brace not closed.",
	KindMacro:                  "Error in macro.",
	KindTooDeep:                "Nesting too deep.",
}

// Message returns the default message for the kind.
func (k ErrorKind) Message() string {
	if msg, ok := kindMessages[k]; ok {
		return msg
	}
	return "Syntax error."
}

func (k ErrorKind) String() string {
	return strings.TrimSuffix(k.Message(), ".")
}

// ParseError is the only failure a parse reports. Done and Rest split the
// source at the failure point: Done is what was consumed and Rest is what
// remains, so Done+Rest is the source.
type ParseError struct {
	Kind ErrorKind
	// Message overrides the kind's message. Macro failures use it to carry
	// the inner failure.
	Message string
	Done    string
	Rest    string
}

func (e *ParseError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.Message()
}

// IsKind reports whether err is a *ParseError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var perr *ParseError
	return errors.As(err, &perr) && perr.Kind == kind
}

func newError(kind ErrorKind) *ParseError {
	return &ParseError{Kind: kind}
}

// macroFailure wraps an error raised while expanding a macro.
func macroFailure(inner *ParseError) *ParseError {
	return &ParseError{
		Kind:    KindMacro,
		Message: fmt.Sprintf(`Error in macro(%s "%s").`, inner.Error(), strings.TrimSpace(inner.Rest)),
	}
}

// asParseError converts scanner and macro errors. Other errors, such as a
// cancelled context, are returned unchanged with ok false.
func asParseError(err error) (*ParseError, bool) {
	var perr *ParseError
	if errors.As(err, &perr) {
		return perr, true
	}
	switch {
	case errors.Is(err, scanner.ErrBlockNotClosed):
		return newError(KindBlockNotClosed), true
	case errors.Is(err, scanner.ErrOptionNotClosed):
		return newError(KindOptionNotClosed), true
	}
	var merr *macro.Error
	if errors.As(err, &merr) {
		return &ParseError{Kind: fromMacroKind(merr.Kind)}, true
	}
	return nil, false
}

func fromMacroKind(kind macro.ErrorKind) ErrorKind {
	switch kind {
	case macro.KindNeedMoreParameter:
		return KindNeedMoreParameters
	case macro.KindParameterTooLarge:
		return KindParameterTooLarge
	case macro.KindNeedPositiveNumber:
		return KindNeedPositiveNumber
	case macro.KindNeedParameter:
		return KindNeedParameter
	case macro.KindBlockNotClosed:
		return KindBlockNotClosed
	case macro.KindOptionNotClosed:
		return KindOptionNotClosed
	default:
		return KindSyntax
	}
}
