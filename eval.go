package infix

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
)

// Eval evaluates the expression with the given variable values. Eval never
// modifies e or vars, so an expression may be evaluated any number of times
// and concurrently. If the expression is a single variable, the result is
// the value from vars. Whether literals and constants are copied into results
// is up to the parser's Copy option.
//
// If a variable in the expression has no value in vars, the error is a
// *NameError. If a function or operator rule panics with a *DomainError or a
// big.ErrNaN, Eval returns that as the error; any other panic propagates.
func (e *Expr[T]) Eval(vars map[string]T) (r T, err error) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		perr, ok := p.(error)
		if !ok {
			panic(p)
		}
		var de *DomainError
		if errors.As(perr, &de) || errors.As(perr, &big.ErrNaN{}) {
			var zero T
			r, err = zero, perr
			return
		}
		panic(p)
	}()
	return e.root.Eval(vars)
}

// NameError is an error from a lookup for a variable that has no value.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}

// DomainError is an error describing a function or operator applied to an
// argument outside its domain. Rules report it by panicking with a
// *DomainError, which Expr.Eval recovers.
type DomainError struct {
	// X is the out-of-domain argument.
	X any
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the function.
	Func string
}

func (err *DomainError) Error() string {
	r := "no arguments"
	if err.X != nil {
		r = fmt.Sprint(err.X)
	}
	r += " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}
