package infix

import (
	"strconv"
	"strings"
)

// Variadic is the arity of a function that accepts any number of arguments.
const Variadic = -1

// Descriptor describes a function that expressions can call. The parser
// never evaluates a descriptor; it calls New once for each call site.
type Descriptor[T any] interface {
	// Name is the name by which expressions call the function.
	Name() string
	// Arity is the number of arguments the function requires, or Variadic.
	Arity() int
	// New returns a fresh instance with no arguments.
	New() Function[T]
}

// Function is a function call in an expression tree.
type Function[T any] interface {
	Descriptor[T]
	Node[T]
	// Init binds the call's arguments. The parser calls Init exactly once on
	// each instance it obtains from New. Init returns a *CallError if the
	// number of arguments doesn't match the function's arity.
	Init(args []Node[T]) error
	// Initialized reports whether Init has succeeded.
	Initialized() bool
}

// Func is a Descriptor for a function implemented in Go.
type Func[T any] struct {
	name  string
	arity int
	fn    func(args []T) T
}

// Niladic creates a function of no arguments.
func Niladic[T any](name string, f func() T) *Func[T] {
	return &Func[T]{name: name, arity: 0, fn: func([]T) T { return f() }}
}

// Monadic creates a function of one argument.
func Monadic[T any](name string, f func(x T) T) *Func[T] {
	return &Func[T]{name: name, arity: 1, fn: func(args []T) T { return f(args[0]) }}
}

// Dyadic creates a function of two arguments.
func Dyadic[T any](name string, f func(x, y T) T) *Func[T] {
	return &Func[T]{name: name, arity: 2, fn: func(args []T) T { return f(args[0], args[1]) }}
}

// Fixed creates a function of exactly n arguments, which f receives in order.
func Fixed[T any](name string, n int, f func(args []T) T) *Func[T] {
	if n < 0 {
		panic("infix: negative arity " + strconv.Itoa(n) + " for " + name)
	}
	return &Func[T]{name: name, arity: n, fn: f}
}

// Polyadic creates a function of any number of arguments, including none.
func Polyadic[T any](name string, f func(args []T) T) *Func[T] {
	return &Func[T]{name: name, arity: Variadic, fn: f}
}

func (f *Func[T]) Name() string { return f.name }
func (f *Func[T]) Arity() int   { return f.arity }

func (f *Func[T]) New() Function[T] {
	return &call[T]{f: f}
}

func (f *Func[T]) String() string {
	if f.arity == Variadic {
		return f.name + "/..."
	}
	return f.name + "/" + strconv.Itoa(f.arity)
}

// call is a call of a Func.
type call[T any] struct {
	f    *Func[T]
	args []Node[T]
	init bool
}

func (c *call[T]) Name() string      { return c.f.name }
func (c *call[T]) Arity() int        { return c.f.arity }
func (c *call[T]) New() Function[T]  { return c.f.New() }
func (c *call[T]) Initialized() bool { return c.init }

func (c *call[T]) Init(args []Node[T]) error {
	if c.init {
		panic("infix: call to " + strconv.Quote(c.f.name) + " initialized twice")
	}
	if c.f.arity != Variadic && len(args) != c.f.arity {
		return &CallError{Func: c.f.name, Len: len(args), Want: c.f.arity}
	}
	c.args = args
	c.init = true
	return nil
}

func (c *call[T]) Eval(vars map[string]T) (T, error) {
	if !c.init {
		panic("infix: Eval on uninitialized call to " + strconv.Quote(c.f.name))
	}
	invoc := make([]T, len(c.args))
	for i, a := range c.args {
		v, err := a.Eval(vars)
		if err != nil {
			return v, err
		}
		invoc[i] = v
	}
	return c.f.fn(invoc), nil
}

func (c *call[T]) format(b *strings.Builder, square bool) {
	l, r := brackets(square)
	b.WriteByte(l)
	defer b.WriteByte(r)
	b.WriteString(c.f.name)
	al, ar := brackets(!square)
	b.WriteByte(al)
	for i, a := range c.args {
		if i > 0 {
			b.WriteString(", ")
		}
		writeNode(b, a, square)
	}
	b.WriteByte(ar)
}

// Define creates a function of len(params) arguments whose value is the
// formula body, parsed with p, with each argument bound to the parameter
// in the same position. Every variable in body must be a parameter. Because
// body is parsed before the function is registered, a defined function
// cannot call itself.
func Define[T any](p *Parser[T], name string, params []string, body string) (*Func[T], error) {
	seen := make(map[string]bool, len(params))
	for _, v := range params {
		if seen[v] {
			return nil, &ParamError{Func: name, Param: v, Dup: true}
		}
		seen[v] = true
	}
	ex, err := p.Parse(body)
	if err != nil {
		return nil, err
	}
	for _, v := range ex.Vars() {
		if !seen[v] {
			return nil, &ParamError{Func: name, Param: v}
		}
	}
	f := func(args []T) T {
		vars := make(map[string]T, len(params))
		for i, v := range params {
			vars[v] = args[i]
		}
		r, err := ex.root.Eval(vars)
		if err != nil {
			// All variables are bound, so this is a failure the caller's
			// Expr.Eval should report.
			panic(err)
		}
		return r
	}
	return Fixed(name, len(params), f), nil
}

// ParamError is an error defining a function whose parameter list doesn't
// suit its body.
type ParamError struct {
	// Func is the name of the function being defined.
	Func string
	// Param is the offending name.
	Param string
	// Dup is true if Param appears twice in the parameter list and false if
	// it is a variable in the body that isn't a parameter.
	Dup bool
}

func (err *ParamError) Error() string {
	if err.Dup {
		return "duplicate parameter " + strconv.Quote(err.Param) + " in definition of " + err.Func
	}
	return "variable " + strconv.Quote(err.Param) + " in definition of " + err.Func + " is not a parameter"
}
