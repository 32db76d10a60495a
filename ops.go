package infix

import (
	"strconv"
	"strings"
)

// Operator describes an infix operator.
type Operator[T any] struct {
	// Symbol is the rune that denotes the operator.
	Symbol rune
	// Prec is the operator's precedence. Operators with higher precedence
	// bind more tightly. Operators with equal precedence are left-associative.
	Prec int
	// Binary computes x op y.
	Binary func(x, y T) T
	// Unary computes op x when the operator begins an expression. If Unary
	// is nil, the operator must always have a left operand.
	Unary func(x T) T
}

// Name returns the operator's symbol as a string.
func (op *Operator[T]) Name() string {
	return string(op.Symbol)
}

// Arity is always 2.
func (op *Operator[T]) Arity() int {
	return 2
}

// New returns a node with no operands. Its Init takes two arguments, the
// first of which may be nil if the operator has a unary form.
func (op *Operator[T]) New() Function[T] {
	return op.node()
}

func (op *Operator[T]) node() *opnode[T] {
	return &opnode[T]{op: op}
}

func (op *Operator[T]) String() string {
	s := "operator " + strconv.QuoteRune(op.Symbol) + " prec " + strconv.Itoa(op.Prec)
	if op.Unary != nil {
		s += " unary"
	}
	return s
}

// opnode is an operator in an expression tree.
type opnode[T any] struct {
	op          *Operator[T]
	left, right Node[T]
	init        bool
}

func (n *opnode[T]) Name() string      { return n.op.Name() }
func (n *opnode[T]) Arity() int        { return 2 }
func (n *opnode[T]) New() Function[T]  { return n.op.node() }
func (n *opnode[T]) Initialized() bool { return n.init }

func (n *opnode[T]) Init(args []Node[T]) error {
	if len(args) != 2 {
		return &CallError{Func: n.op.Name(), Len: len(args), Want: 2}
	}
	if err := n.bind(args[0], args[1]); err != nil {
		return err
	}
	return nil
}

// bind sets the operands. left may be nil if the operator has a unary form.
// Panics if the node already has operands.
func (n *opnode[T]) bind(left, right Node[T]) *OperandError {
	if n.init {
		panic("infix: operator " + strconv.Quote(n.op.Name()) + " initialized twice")
	}
	switch {
	case right == nil:
		return &OperandError{Operator: n.op.Name(), Right: true}
	case left == nil && n.op.Unary == nil:
		return &OperandError{Operator: n.op.Name()}
	}
	n.left, n.right = left, right
	n.init = true
	return nil
}

func (n *opnode[T]) Eval(vars map[string]T) (T, error) {
	if !n.init {
		panic("infix: Eval on operator " + strconv.Quote(n.op.Name()) + " with no operands")
	}
	if n.left == nil {
		y, err := n.right.Eval(vars)
		if err != nil {
			return y, err
		}
		return n.op.Unary(y), nil
	}
	x, err := n.left.Eval(vars)
	if err != nil {
		return x, err
	}
	y, err := n.right.Eval(vars)
	if err != nil {
		return y, err
	}
	return n.op.Binary(x, y), nil
}

func (n *opnode[T]) String() string {
	var b strings.Builder
	n.format(&b, false)
	return b.String()
}

func (n *opnode[T]) format(b *strings.Builder, square bool) {
	l, r := brackets(square)
	b.WriteByte(l)
	defer b.WriteByte(r)
	if !n.init {
		b.WriteString(n.op.Name())
		return
	}
	if n.left == nil {
		b.WriteString(n.op.Name())
		writeNode(b, n.right, !square)
		return
	}
	writeNode(b, n.left, !square)
	b.WriteString(" " + n.op.Name() + " ")
	writeNode(b, n.right, !square)
}
