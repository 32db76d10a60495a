package infix

import (
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// BigFloat creates a parser over *big.Float computing to prec bits. If prec
// is 0, the precision is 64.
//
// Operators, from loosest to tightest: + and - (- also negates), then * and
// /, then ^. Functions: exp ln log sqrt abs of one argument; max and min of
// one or more. Constants: pi and e.
//
// Arguments outside a rule's domain, like 0/0, a negative base for ^ with an
// exponent that isn't an integer, or the square root of a negative number,
// cause Eval to return a *DomainError.
// Operations that produce NaN in other ways, like inf-inf, cause Eval to
// return a big.ErrNaN.
//
// Rules never modify their arguments, so the values of variables passed to
// Eval are left as they were. Results never share storage with the parsed
// expression or with the parser's constants.
func BigFloat(prec uint, opts ...Option) *Parser[*big.Float] {
	if prec == 0 {
		prec = 64
	}
	b := bigctx(prec)
	p := NewParser(b.parse, append([]Option{Copy(b.copy)}, opts...)...)
	p.AddOperator(&Operator[*big.Float]{
		Symbol: '+',
		Prec:   1,
		Binary: func(x, y *big.Float) *big.Float { return b.new().Add(x, y) },
	})
	p.AddOperator(&Operator[*big.Float]{
		Symbol: '-',
		Prec:   1,
		Binary: func(x, y *big.Float) *big.Float { return b.new().Sub(x, y) },
		Unary:  func(x *big.Float) *big.Float { return b.new().Neg(x) },
	})
	p.AddOperator(&Operator[*big.Float]{
		Symbol: '*',
		Prec:   2,
		Binary: func(x, y *big.Float) *big.Float { return b.new().Mul(x, y) },
	})
	p.AddOperator(&Operator[*big.Float]{
		Symbol: '/',
		Prec:   2,
		Binary: b.quo,
	})
	p.AddOperator(&Operator[*big.Float]{
		Symbol: '^',
		Prec:   3,
		Binary: b.pow,
	})

	p.AddFunc(Monadic("exp", func(x *big.Float) *big.Float { return bigfloat.Exp(b.new(), x) }))
	p.AddFunc(Monadic("ln", b.ln))
	p.AddFunc(Monadic("log", b.log10))
	p.AddFunc(Monadic("sqrt", b.sqrt))
	p.AddFunc(Monadic("abs", func(x *big.Float) *big.Float { return b.new().Abs(x) }))
	p.AddFunc(Polyadic("max", b.extreme("max", 1)))
	p.AddFunc(Polyadic("min", b.extreme("min", -1)))

	p.AddConst("pi", bigfloat.Pi(b.new()))
	p.AddConst("e", bigfloat.Exp(b.new(), big.NewFloat(1)))
	return p
}

// bigctx creates values at a fixed precision.
type bigctx uint

func (b bigctx) new() *big.Float {
	return new(big.Float).SetPrec(uint(b))
}

func (b bigctx) copy(x *big.Float) *big.Float {
	return b.new().Set(x)
}

func (b bigctx) parse(s string) (*big.Float, error) {
	r, _, err := b.new().Parse(s, 10)
	return r, err
}

func (b bigctx) quo(x, y *big.Float) *big.Float {
	// Guard against invalid divisions, 0/0 or inf/inf.
	if x.Sign() == 0 && y.Sign() == 0 || x.IsInf() && y.IsInf() {
		panic(&DomainError{X: y, Arg: 2, Func: "/"})
	}
	return b.new().Quo(x, y)
}

func (b bigctx) pow(x, y *big.Float) *big.Float {
	if x.Sign() >= 0 {
		return bigfloat.Pow(b.new(), x, y)
	}
	if !y.IsInt() {
		panic(&DomainError{X: x, Arg: 1, Func: "^"})
	}
	// (-x)^n is x^n with the sign flipped for odd n.
	r := bigfloat.Pow(b.new(), b.new().Neg(x), y)
	if n, _ := y.Int(nil); n.Bit(0) == 1 {
		r.Neg(r)
	}
	return r
}

func (b bigctx) sqrt(x *big.Float) *big.Float {
	if x.Sign() < 0 {
		panic(&DomainError{X: x, Arg: 1, Func: "sqrt"})
	}
	return b.new().Sqrt(x)
}

func (b bigctx) ln(x *big.Float) *big.Float {
	if x.Sign() < 0 {
		panic(&DomainError{X: x, Arg: 1, Func: "ln"})
	}
	return bigfloat.Log(b.new(), x)
}

func (b bigctx) log10(x *big.Float) *big.Float {
	if x.Sign() < 0 {
		panic(&DomainError{X: x, Arg: 1, Func: "log"})
	}
	r := bigfloat.Log(b.new(), x)
	ten := bigfloat.Log(b.new(), b.new().SetInt64(10))
	return r.Quo(r, ten)
}

// extreme creates a function returning the argument x for which x.Cmp(y) ==
// sign for all other arguments y.
func (b bigctx) extreme(name string, sign int) func([]*big.Float) *big.Float {
	return func(args []*big.Float) *big.Float {
		if len(args) == 0 {
			panic(&DomainError{Func: name})
		}
		r := args[0]
		for _, x := range args[1:] {
			if x.Cmp(r) == sign {
				r = x
			}
		}
		return b.new().Set(r)
	}
}
