package infix

import (
	"math"
	"strconv"
)

// Float64 creates a parser over float64 with the usual arithmetic.
//
// Operators, from loosest to tightest: + and - (- also negates), then * / and
// % (remainder as by math.Mod), then ^ (math.Pow). Functions: sin cos tan asin
// acos atan sqrt exp ln log abs floor ceil of one argument; angle (as by
// math.Atan2) and hypot of two; max min sum avg of any number. Constants: pi
// and e.
//
// Results follow IEEE 754, so e.g. sqrt(-1) is NaN rather than an error.
func Float64(opts ...Option) *Parser[float64] {
	p := NewParser(parseFloat, opts...)
	p.AddOperator(&Operator[float64]{
		Symbol: '+',
		Prec:   1,
		Binary: func(x, y float64) float64 { return x + y },
	})
	p.AddOperator(&Operator[float64]{
		Symbol: '-',
		Prec:   1,
		Binary: func(x, y float64) float64 { return x - y },
		Unary:  func(x float64) float64 { return -x },
	})
	p.AddOperator(&Operator[float64]{
		Symbol: '*',
		Prec:   2,
		Binary: func(x, y float64) float64 { return x * y },
	})
	p.AddOperator(&Operator[float64]{
		Symbol: '/',
		Prec:   2,
		Binary: func(x, y float64) float64 { return x / y },
	})
	p.AddOperator(&Operator[float64]{Symbol: '%', Prec: 2, Binary: math.Mod})
	p.AddOperator(&Operator[float64]{Symbol: '^', Prec: 3, Binary: math.Pow})

	for _, f := range []*Func[float64]{
		Monadic("sin", math.Sin),
		Monadic("cos", math.Cos),
		Monadic("tan", math.Tan),
		Monadic("asin", math.Asin),
		Monadic("acos", math.Acos),
		Monadic("atan", math.Atan),
		Monadic("sqrt", math.Sqrt),
		Monadic("exp", math.Exp),
		Monadic("ln", math.Log),
		Monadic("log", math.Log10),
		Monadic("abs", math.Abs),
		Monadic("floor", math.Floor),
		Monadic("ceil", math.Ceil),
		Dyadic("angle", math.Atan2),
		Dyadic("hypot", math.Hypot),
		Polyadic("max", func(args []float64) float64 {
			r := math.Inf(-1)
			for _, x := range args {
				r = math.Max(r, x)
			}
			return r
		}),
		Polyadic("min", func(args []float64) float64 {
			r := math.Inf(1)
			for _, x := range args {
				r = math.Min(r, x)
			}
			return r
		}),
		Polyadic("sum", sumf),
		Polyadic("avg", func(args []float64) float64 {
			// avg() is 0/0, i.e. NaN.
			return sumf(args) / float64(len(args))
		}),
	} {
		p.AddFunc(f)
	}

	p.AddConst("pi", math.Pi)
	p.AddConst("e", math.E)
	return p
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func sumf(args []float64) float64 {
	var r float64
	for _, x := range args {
		r += x
	}
	return r
}
