package infix

import (
	"strings"
)

// Node is a node in an expression tree. Eval computes the node's value with
// the given variable values. Evaluation never modifies a node.
type Node[T any] interface {
	Eval(vars map[string]T) (T, error)
}

// literal is a number or a constant.
type literal[T any] struct {
	// text is the number as written or the constant's name.
	text string
	v    T
	// copy, if not nil, copies v for each evaluation.
	copy func(T) T
}

func (n *literal[T]) Eval(map[string]T) (T, error) {
	if n.copy != nil {
		return n.copy(n.v), nil
	}
	return n.v, nil
}

// variable is a variable reference.
type variable[T any] struct {
	name string
}

func (n *variable[T]) Eval(vars map[string]T) (T, error) {
	v, ok := vars[n.name]
	if !ok {
		return v, &NameError{Name: n.name}
	}
	return v, nil
}

// formatter is a node that can write itself for Expr.String.
type formatter interface {
	format(b *strings.Builder, square bool)
}

func brackets(square bool) (byte, byte) {
	if square {
		return '[', ']'
	}
	return '(', ')'
}

func (n *literal[T]) format(b *strings.Builder, square bool) {
	l, r := brackets(square)
	b.WriteByte(l)
	b.WriteString(n.text)
	b.WriteByte(r)
}

func (n *variable[T]) format(b *strings.Builder, square bool) {
	l, r := brackets(square)
	b.WriteByte(l)
	b.WriteString(n.name)
	b.WriteByte(r)
}

// writeNode formats any node. Functions that don't format themselves show
// only their names.
func writeNode[T any](b *strings.Builder, n Node[T], square bool) {
	switch n := n.(type) {
	case formatter:
		n.format(b, square)
	case Function[T]:
		l, r := brackets(square)
		b.WriteByte(l)
		b.WriteString(n.Name())
		b.WriteString("[...]")
		b.WriteByte(r)
	default:
		b.WriteString("???")
	}
}
