package infix

import (
	"errors"
	"strconv"
)

// Kinds of parse errors. Every error returned from Parse matches exactly one
// of these with errors.Is.
var (
	// ErrLexical is the kind of errors in scanning tokens.
	ErrLexical = errors.New("lexical error")
	// ErrUnknownName is the kind of errors naming a function or operator
	// that isn't registered.
	ErrUnknownName = errors.New("unknown name")
	// ErrArity is the kind of errors calling a function with the wrong number
	// of arguments.
	ErrArity = errors.New("wrong number of arguments")
	// ErrMissingOperand is the kind of errors for operators lacking an operand.
	ErrMissingOperand = errors.New("missing operand")
	// ErrMalformed is the kind of errors in the structure of an expression.
	ErrMalformed = errors.New("malformed expression")
)

// OperatorError is an error indicating an operator token that is not
// understood by the parser. It implements InputError.
type OperatorError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the token that was not understood.
	Operator string
}

func (err *OperatorError) Error() string {
	return errpos(err.Col, "unknown operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int {
	return err.Col
}

func (err *OperatorError) Is(target error) bool {
	return target == ErrUnknownName
}

// FuncError is an error indicating a call of a function that isn't
// registered. It implements InputError.
type FuncError struct {
	// Col is the position of the function name.
	Col int
	// Name is the name that was called.
	Name string
}

func (err *FuncError) Error() string {
	return errpos(err.Col, "call of unknown function "+strconv.Quote(err.Name))
}

func (err *FuncError) Pos() int {
	return err.Col
}

func (err *FuncError) Is(target error) bool {
	return target == ErrUnknownName
}

// OperandError is an error indicating an operator missing an operand. It
// implements InputError.
type OperandError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the operator's symbol.
	Operator string
	// Right is whether the missing operand is the right one.
	Right bool
}

func (err *OperandError) Error() string {
	s := "left"
	if err.Right {
		s = "right"
	}
	return errpos(err.Col, "operator "+err.Operator+" has no "+s+" operand")
}

func (err *OperandError) Pos() int {
	return err.Col
}

func (err *OperandError) Is(target error) bool {
	return target == ErrMissingOperand
}

// SyntaxError is an error indicating operands that aren't separated by an
// operator, or a similar structural problem. It implements InputError.
type SyntaxError struct {
	// Col is the position of the offending term.
	Col int
	// Msg describes the problem.
	Msg string
}

func (err *SyntaxError) Error() string {
	return errpos(err.Col, err.Msg)
}

func (err *SyntaxError) Pos() int {
	return err.Col
}

func (err *SyntaxError) Is(target error) bool {
	return target == ErrMalformed
}

// BracketError is an error indicating mismatched brackets in the
// input. It implements InputError.
type BracketError struct {
	// Col is the position of the bracket.
	Col int
	// Left is the opening bracket.
	Left string
	// Right is the mismatched closing bracket.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	if err.Right == "" {
		return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
	}
	return errpos(err.Col, "mismatched bracket: "+err.Left+"expr"+err.Right)
}

func (err *BracketError) Pos() int {
	return err.Col
}

func (err *BracketError) Is(target error) bool {
	return target == ErrMalformed
}

// SeparatorError is an error indicating a comma outside a function's
// argument list. It implements InputError.
type SeparatorError struct {
	// Col is the position of the separator.
	Col int
	// Sep is the separator.
	Sep string
}

func (err *SeparatorError) Error() string {
	return errpos(err.Col, "invalid occurrence of separator "+strconv.Quote(err.Sep))
}

func (err *SeparatorError) Pos() int {
	return err.Col
}

func (err *SeparatorError) Is(target error) bool {
	return target == ErrMalformed
}

// CallError is an error indicating a function call with the wrong number of
// arguments. It implements InputError.
type CallError struct {
	// Col is the position of the function name.
	Col int
	// Func is the function name that was called.
	Func string
	// Len is the number of arguments the function call tried to imply.
	Len int
	// Want is the number of arguments the function takes.
	Want int
}

func (err *CallError) Error() string {
	return errpos(err.Col, "cannot call "+err.Func+" with "+strconv.Itoa(err.Len)+" arguments (want "+strconv.Itoa(err.Want)+")")
}

func (err *CallError) Pos() int {
	return err.Col
}

func (err *CallError) Is(target error) bool {
	return target == ErrArity
}

// EmptyExpressionError is an error indicating an empty subexpression. It
// implements InputError.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "no expression at end")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

func (err *EmptyExpressionError) Is(target error) bool {
	return target == ErrMalformed
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*FuncError)(nil)
	_ InputError = (*OperandError)(nil)
	_ InputError = (*SyntaxError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*SeparatorError)(nil)
	_ InputError = (*CallError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*LexError)(nil)
)
