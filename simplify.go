package infix

// term is an element of a flat list of operands and operators.
type term[T any] struct {
	n   Node[T]
	pos int
}

// pending returns the term's operator node if it has no operands yet.
func (t term[T]) pending() *opnode[T] {
	if op, ok := t.n.(*opnode[T]); ok && !op.init {
		return op
	}
	return nil
}

// simplify resolves a flat list of terms into a single tree. Operands must
// alternate with operators, except that the list may begin with an operator
// that has a unary form. Operators with the highest precedence are resolved
// first, from left to right.
func simplify[T any](terms []term[T]) (Node[T], error) {
	if op := terms[0].pending(); op != nil {
		var right Node[T]
		if len(terms) > 1 && terms[1].pending() == nil {
			right = terms[1].n
		}
		if err := op.bind(nil, right); err != nil {
			err.Col = terms[0].pos
			return nil, err
		}
		terms = append(terms[:1], terms[2:]...)
	}
	for i, t := range terms {
		op := t.pending()
		switch {
		case i%2 == 0 && op != nil:
			// 2*-3
			return nil, &SyntaxError{Col: t.pos, Msg: "operator " + op.op.Name() + " follows another operator"}
		case i%2 == 1 && op == nil:
			return nil, &SyntaxError{Col: t.pos, Msg: "expected operator"}
		}
	}
	if len(terms)%2 == 0 {
		t := terms[len(terms)-1]
		return nil, &OperandError{Col: t.pos, Operator: t.pending().op.Name(), Right: true}
	}
	for len(terms) > 1 {
		top := terms[1].pending().op.Prec
		for i := 3; i < len(terms); i += 2 {
			if p := terms[i].pending().op.Prec; p > top {
				top = p
			}
		}
		for i := 1; i < len(terms); {
			op := terms[i].pending()
			if op.op.Prec != top {
				i += 2
				continue
			}
			if err := op.bind(terms[i-1].n, terms[i+1].n); err != nil {
				err.Col = terms[i].pos
				return nil, err
			}
			terms[i-1] = term[T]{n: op, pos: terms[i-1].pos}
			terms = append(terms[:i], terms[i+2:]...)
		}
	}
	return terms[0].n, nil
}
