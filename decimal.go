package infix

import (
	"math"

	"github.com/shopspring/decimal"
)

// Decimal creates a parser over arbitrary-precision decimals.
//
// Operators, from loosest to tightest: + and - (- also negates), then * / and
// %, then ^. The exponent of ^ is truncated to an integer. Functions: abs
// floor ceil of one argument; round and truncate of two, where the second
// argument is the number of decimal places; max min avg of one or more, and
// sum of any number.
// Constant: pi, to float64 precision.
//
// Division or remainder by zero, a place count for round or truncate outside
// the range of int32, and max, min, or avg of no arguments cause Eval to
// return a *DomainError.
func Decimal(opts ...Option) *Parser[decimal.Decimal] {
	p := NewParser(decimal.NewFromString, opts...)
	p.AddOperator(&Operator[decimal.Decimal]{
		Symbol: '+',
		Prec:   1,
		Binary: decimal.Decimal.Add,
	})
	p.AddOperator(&Operator[decimal.Decimal]{
		Symbol: '-',
		Prec:   1,
		Binary: decimal.Decimal.Sub,
		Unary:  decimal.Decimal.Neg,
	})
	p.AddOperator(&Operator[decimal.Decimal]{
		Symbol: '*',
		Prec:   2,
		Binary: decimal.Decimal.Mul,
	})
	p.AddOperator(&Operator[decimal.Decimal]{
		Symbol: '/',
		Prec:   2,
		Binary: nonzero("/", decimal.Decimal.Div),
	})
	p.AddOperator(&Operator[decimal.Decimal]{
		Symbol: '%',
		Prec:   2,
		Binary: nonzero("%", decimal.Decimal.Mod),
	})
	p.AddOperator(&Operator[decimal.Decimal]{
		Symbol: '^',
		Prec:   3,
		Binary: func(x, y decimal.Decimal) decimal.Decimal {
			if x.IsZero() && y.IntPart() < 0 {
				panic(&DomainError{X: y, Arg: 2, Func: "^"})
			}
			return x.Pow(y)
		},
	})

	p.AddFunc(Monadic("abs", decimal.Decimal.Abs))
	p.AddFunc(Monadic("floor", decimal.Decimal.Floor))
	p.AddFunc(Monadic("ceil", decimal.Decimal.Ceil))
	p.AddFunc(Dyadic("round", func(x, places decimal.Decimal) decimal.Decimal {
		return x.Round(digits("round", places))
	}))
	p.AddFunc(Dyadic("truncate", func(x, places decimal.Decimal) decimal.Decimal {
		return x.Truncate(digits("truncate", places))
	}))
	p.AddFunc(Polyadic("max", func(args []decimal.Decimal) decimal.Decimal {
		if len(args) == 0 {
			panic(&DomainError{Func: "max"})
		}
		return decimal.Max(args[0], args[1:]...)
	}))
	p.AddFunc(Polyadic("min", func(args []decimal.Decimal) decimal.Decimal {
		if len(args) == 0 {
			panic(&DomainError{Func: "min"})
		}
		return decimal.Min(args[0], args[1:]...)
	}))
	p.AddFunc(Polyadic("sum", sumd))
	p.AddFunc(Polyadic("avg", func(args []decimal.Decimal) decimal.Decimal {
		if len(args) == 0 {
			panic(&DomainError{Func: "avg"})
		}
		return sumd(args).Div(decimal.New(int64(len(args)), 0))
	}))

	p.AddConst("pi", decimal.NewFromFloat(math.Pi))
	return p
}

// nonzero guards a division-like operation against a zero divisor.
func nonzero(name string, f func(x, y decimal.Decimal) decimal.Decimal) func(x, y decimal.Decimal) decimal.Decimal {
	return func(x, y decimal.Decimal) decimal.Decimal {
		if y.IsZero() {
			panic(&DomainError{X: y, Arg: 2, Func: name})
		}
		return f(x, y)
	}
}

var (
	minPlaces = decimal.New(math.MinInt32, 0)
	maxPlaces = decimal.New(math.MaxInt32, 0)
)

// digits converts the place count argument of round or truncate, truncating
// any fraction.
func digits(name string, places decimal.Decimal) int32 {
	if places.LessThan(minPlaces) || places.GreaterThan(maxPlaces) {
		panic(&DomainError{X: places, Arg: 2, Func: name})
	}
	return int32(places.IntPart())
}

func sumd(args []decimal.Decimal) decimal.Decimal {
	r := decimal.Zero
	for _, x := range args {
		r = r.Add(x)
	}
	return r
}
