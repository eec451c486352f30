package macro

// ErrorKind classifies a macro definition or expansion failure.
type ErrorKind uint8

const (
	KindSyntax ErrorKind = iota
	KindNeedNewCommand
	KindNeedParameter
	KindParameterTooLarge
	KindNeedPositiveNumber
	KindNeedBeginBlock
	KindNeedEndBlock
	KindOptionNotClosed
	KindBlockNotClosed
	KindNeedMoreParameter
)

// Message returns the user-facing message for the kind.
func (k ErrorKind) Message() string {
	switch k {
	case KindNeedNewCommand:
		return "Need newcommand."
	case KindNeedParameter:
		return "Need parameter."
	case KindParameterTooLarge:
		return "Parameter # too large."
	case KindNeedPositiveNumber:
		return "Need positive number."
	case KindNeedBeginBlock:
		return "Need begin block."
	case KindNeedEndBlock:
		return "Need end block."
	case KindOptionNotClosed:
		return "Option not closed."
	case KindBlockNotClosed:
		return "Block not closed."
	case KindNeedMoreParameter:
		return "Need more parameter."
	default:
		return "Syntax error."
	}
}

// Error is a macro failure. Done and Rest split the declaration source at
// the failure point; both are empty for expansion failures.
type Error struct {
	Kind ErrorKind
	Done string
	Rest string
}

func (e *Error) Error() string {
	return e.Kind.Message()
}
