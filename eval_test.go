package infix_test

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"math/big"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/zephyrtronium/infix"
)

// near reports whether got is within a relative tolerance of want.
func near(got, want float64) bool {
	return math.Abs(got-want) <= 1e-12*math.Max(1, math.Abs(want))
}

func testParser() *infix.Parser[float64] {
	p := infix.Float64()
	p.AddCustom(infix.Fixed("sos", 2, func(args []float64) float64 { return args[0] * args[1] }))
	p.AddFunc(infix.Fixed("tests", 4, func(args []float64) float64 {
		return args[0] + args[1] + args[2] + args[3]
	}))
	return p
}

func TestEval(t *testing.T) {
	type vv map[string]float64
	type vc struct {
		vars vv
		r    float64
	}
	ab := vv{"a": 10, "b": 13}
	cases := []struct {
		name string
		src  string
		r    []vc
	}{
		{"num", "1", []vc{{nil, 1}}},
		{"ident", "x", []vc{
			{vv{"x": 4}, 4},
			{vv{"x": 5}, 5},
			{vv{"x": 6}, 6},
		}},
		{"neg", "-x", []vc{
			{vv{"x": 4}, -4},
			{vv{"x": -5}, 5},
		}},
		{"sum-prod", "(a+b)*b", []vc{{ab, 299}}},
		{"sos", "sos(3,2)", []vc{{nil, 6}}},
		{"neg-parens", "-(((6)))", []vc{{nil, -6}}},
		{"neg-nested", "-(-(-(-(-(((21)))))))", []vc{{nil, -21}}},
		{"trig", "sin(pi/2)+2^4-1-1", []vc{{nil, 15}}},
		{"fixed4", "tests(1,2,3,1)", []vc{{nil, 7}}},
		{"add", "4+5+6", []vc{{nil, 4 + 5 + 6}}},
		{"sub", "4-5-6", []vc{{nil, 4 - 5 - 6}}},
		{"mul", "4*5*6", []vc{{nil, 4 * 5 * 6}}},
		{"div", "4/5/6", []vc{{nil, 4.0 / 5.0 / 6.0}}},
		{"pow-left", "2^3^2", []vc{{nil, 64}}},
		{"neg-pow", "-2^2", []vc{{nil, 4}}},
		{"mod", "10 % 4", []vc{{nil, 2}}},
		{"spaces", "1 2 3", []vc{{nil, 123}}},
		{"vars", "a*b-a", []vc{{ab, 120}, {vv{"a": 1, "b": 1}, 0}}},
		{"nested-calls", "sqrt(sos(a, 10) - 19*b + 211)", []vc{{ab, 8}}},
		{"pi", "pi", []vc{{nil, math.Pi}}},
		{"pi-sq", "pi*pi", []vc{{nil, math.Pi * math.Pi}}},
		{"e", "e", []vc{{nil, math.E}}},
		{"exp", "exp(1)", []vc{{nil, math.E}}},
		{"ln", "ln(e)", []vc{{nil, 1}}},
		{"log", "log(1000)", []vc{{nil, 3}}},
		{"cos", "cos(0)", []vc{{nil, 1}}},
		{"angle", "angle(1, 1)", []vc{{nil, math.Pi / 4}}},
		{"hypot", "hypot(3, 4)", []vc{{nil, 5}}},
		{"max", "max(a, b, 3)", []vc{{ab, 13}}},
		{"min", "min(a, b, 3)", []vc{{ab, 3}}},
		{"sum", "sum(1, 2, 3, 4)", []vc{{nil, 10}}},
		{"sum-none", "sum()", []vc{{nil, 0}}},
		{"avg", "avg(2, 4)", []vc{{nil, 3}}},
		{"floor-ceil", "floor(2.5) + ceil(2.5)", []vc{{nil, 5}}},
		{"func-as-var", "sin", []vc{{vv{"sin": 3}, 3}}},
		{"big", "123456789*987654321/987654321", []vc{{nil, 123456789}}},
	}
	p := testParser()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, err := p.Parse(c.src)
			if err != nil {
				t.Fatal(c.src, "failed to parse:", err)
			}
			for _, v := range c.r {
				r, err := e.Eval(v.vars)
				if err != nil {
					t.Errorf("%q with %v: %v", c.src, v.vars, err)
					continue
				}
				if !near(r, v.r) {
					t.Errorf("%q with %v: want %v, got %v", c.src, v.vars, v.r, r)
				}
			}
		})
	}
}

func TestEvalRepeat(t *testing.T) {
	p := testParser()
	e, err := p.Parse("-(a+b)*b^2/sos(a, b)")
	if err != nil {
		t.Fatal(err)
	}
	vars := map[string]float64{"a": 10, "b": 13}
	first, err := e.Eval(vars)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		r, err := e.Eval(vars)
		if err != nil {
			t.Fatal(err)
		}
		if r != first {
			t.Errorf("evaluation %d gave %v, first gave %v", i, r, first)
		}
	}
	if vars["a"] != 10 || vars["b"] != 13 {
		t.Errorf("bindings changed: %v", vars)
	}
}

func TestEvalUnbound(t *testing.T) {
	p := testParser()
	e, err := p.Parse("x + y")
	if err != nil {
		t.Fatal(err)
	}
	_, err = e.Eval(map[string]float64{"x": 1})
	var ne *infix.NameError
	if !errors.As(err, &ne) {
		t.Fatalf("wanted *NameError, got %#v", err)
	}
	if ne.Name != "y" {
		t.Errorf("wrong name: want y, got %q", ne.Name)
	}
}

func TestEvalUnbalanced(t *testing.T) {
	p := testParser()
	if r, err := p.Eval("(((-1", nil); err == nil {
		t.Errorf("(((-1 parsed and evaluated to %v", r)
	}
}

func TestArity(t *testing.T) {
	p := testParser()
	// Custom functions are listed last, in the order they were added.
	funcs := p.Funcs()
	if d := funcs[len(funcs)-2]; d.Name() != "sos" || d.Arity() != 2 {
		t.Fatalf("sos should be a custom function, have %v", d)
	}
	for _, src := range []string{"sos(1)", "sos(1, 2, 3)"} {
		_, err := p.Parse(src)
		if !errors.Is(err, infix.ErrArity) {
			t.Errorf("%q: wanted arity error, got %v", src, err)
			continue
		}
		var ce *infix.CallError
		if !errors.As(err, &ce) {
			t.Fatalf("%q: wanted *CallError, got %#v", src, err)
		}
		if ce.Func != "sos" || ce.Want != 2 {
			t.Errorf("%q: wrong error %+v", src, *ce)
		}
		msg := err.Error()
		for _, s := range []string{"sos", "2"} {
			if !strings.Contains(msg, s) {
				t.Errorf("%q: message %q doesn't mention %q", src, msg, s)
			}
		}
	}
}

func TestUnaryOnly(t *testing.T) {
	p := testParser()
	r, err := p.Eval("-5", nil)
	if err != nil {
		t.Fatal(err)
	}
	if r != -5 {
		t.Errorf("-5 evaluated to %v", r)
	}
	_, err = p.Parse("*5")
	var oe *infix.OperandError
	if !errors.As(err, &oe) {
		t.Fatalf("wanted *OperandError, got %#v", err)
	}
	if oe.Operator != "*" || oe.Right {
		t.Errorf("wrong error %+v", *oe)
	}
}

func TestEvalConcurrent(t *testing.T) {
	p := testParser()
	e, err := p.Parse("x^2 + 2*x + 1")
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(x float64) {
			defer wg.Done()
			vars := map[string]float64{"x": x}
			for j := 0; j < 100; j++ {
				r, err := e.Eval(vars)
				if err != nil {
					t.Error(err)
					return
				}
				if want := (x + 1) * (x + 1); r != want {
					t.Errorf("x=%v: want %v, got %v", x, want, r)
					return
				}
			}
		}(float64(i))
	}
	wg.Wait()
}

func TestBigFloat(t *testing.T) {
	cases := []struct {
		src  string
		want float64
	}{
		{"1+2*3", 7},
		{"-(2-5)", 3},
		{"1/4", 0.25},
		{"2^10", 1024},
		{"-2^2", 4},
		{"(-2)^3", -8},
		{"(-2)^(0-2)", 0.25},
		{"sqrt(16)", 4},
		{"abs(0-3)", 3},
		{"exp(0)", 1},
		{"ln(1)", 0},
		{"log(100)", 2},
		{"max(1, 5, 3)", 5},
		{"min(4, 2, 3)", 2},
		{"pi", math.Pi},
		{"e", math.E},
		{"x*x+x", 6},
	}
	p := infix.BigFloat(128)
	x := big.NewFloat(2)
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			r, err := p.Eval(c.src, map[string]*big.Float{"x": x})
			if err != nil {
				t.Fatal(err)
			}
			f, _ := r.Float64()
			if !near(f, c.want) {
				t.Errorf("%q: want %v, got %v", c.src, c.want, r)
			}
		})
	}
	if x.Cmp(big.NewFloat(2)) != 0 {
		t.Errorf("variable changed to %v", x)
	}
}

func TestBigFloatDomain(t *testing.T) {
	cases := []struct {
		src string
		fn  string
	}{
		{"sqrt(-1)", "sqrt"},
		{"ln(-2)", "ln"},
		{"0/0", "/"},
		{"(-2)^0.5", "^"},
		{"max()", "max"},
	}
	p := infix.BigFloat(64)
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			r, err := p.Eval(c.src, nil)
			var de *infix.DomainError
			if !errors.As(err, &de) {
				t.Fatalf("%q: wanted *DomainError, got %v (result %v)", c.src, err, r)
			}
			if de.Func != c.fn {
				t.Errorf("%q: wrong function: want %q, got %q", c.src, c.fn, de.Func)
			}
		})
	}
}

func TestBigFloatResultsOwned(t *testing.T) {
	p := infix.BigFloat(64)
	r, err := p.Eval("pi", nil)
	if err != nil {
		t.Fatal(err)
	}
	r.SetInt64(0)
	r, err = p.Eval("pi*2", nil)
	if err != nil {
		t.Fatal(err)
	}
	if f, _ := r.Float64(); !near(f, 2*math.Pi) {
		t.Errorf("pi*2 after changing a result: got %v", r)
	}

	e, err := p.Parse("2")
	if err != nil {
		t.Fatal(err)
	}
	a, _ := e.Eval(nil)
	a.Add(a, big.NewFloat(1))
	b, _ := e.Eval(nil)
	if b.Cmp(big.NewFloat(2)) != 0 {
		t.Errorf("literal changed to %v", b)
	}
	if a == b {
		t.Error("evaluations returned the same *big.Float")
	}
}

func TestCopy(t *testing.T) {
	var n int
	p := infix.Float64(infix.Copy(func(x float64) float64 {
		n++
		return x
	}))
	e, err := p.Parse("1 + pi*x")
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 3; i++ {
		if _, err := e.Eval(map[string]float64{"x": 2}); err != nil {
			t.Fatal(err)
		}
		// The literal and the constant, but not the variable.
		if n != 2*i {
			t.Errorf("after %d evaluations, copied %d values", i, n)
		}
	}
}

func TestCopyWrongType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Copy of int with a float64 parser didn't panic")
		}
	}()
	infix.NewParser(func(string) (float64, error) { return 0, nil }, infix.Copy(func(x int) int { return x }))
}

func TestDecimal(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"0.1+0.2", "0.3"},
		{"1-0.9", "0.1"},
		{"1.5*4", "6"},
		{"-2.5", "-2.5"},
		{"10 % 4", "2"},
		{"2^10", "1024"},
		{"round(2/3, 2)", "0.67"},
		{"truncate(2/3, 2)", "0.66"},
		{"abs(0-7)", "7"},
		{"floor(2.7) + ceil(2.1)", "5"},
		{"max(1, 5, 3)", "5"},
		{"min(4, 2, 3)", "2"},
		{"sum(0.1, 0.1, 0.1)", "0.3"},
		{"sum()", "0"},
		{"avg(1, 2)", "1.5"},
		{"price*qty", "59.97"},
	}
	p := infix.Decimal()
	vars := map[string]decimal.Decimal{
		"price": decimal.New(1999, -2),
		"qty":   decimal.New(3, 0),
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			r, err := p.Eval(c.src, vars)
			if err != nil {
				t.Fatal(err)
			}
			if r.String() != c.want {
				t.Errorf("%q: want %s, got %s", c.src, c.want, r)
			}
		})
	}
}

func TestDecimalDomain(t *testing.T) {
	p := infix.Decimal()
	for _, src := range []string{"1/0", "1 % (1-1)", "0^(0-1)", "avg()", "round(1, 4294967298)", "truncate(1, 0-4294967298)"} {
		_, err := p.Eval(src, nil)
		var de *infix.DomainError
		if !errors.As(err, &de) {
			t.Errorf("%q: wanted *DomainError, got %v", src, err)
		}
	}
}

func TestCache(t *testing.T) {
	p := infix.Float64(infix.CacheSize(4))
	a, err := p.Parse("x+1")
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.Parse("x+1")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("cached parse returned a different expression")
	}
	p.AddConst("x", 2)
	c, err := p.Parse("x+1")
	if err != nil {
		t.Fatal(err)
	}
	if c == a {
		t.Error("cache survived registry change")
	}
	if v := c.Vars(); len(v) != 0 {
		t.Errorf("x should be a constant, but vars are %q", v)
	}
	r, err := c.Eval(nil)
	if err != nil {
		t.Fatal(err)
	}
	if r != 3 {
		t.Errorf("want 3, got %v", r)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := infix.Float64(infix.Logger(l), infix.CacheSize(2))
	p.Parse("1+2")
	p.Parse("1+2")
	p.Parse("(")
	s := buf.String()
	for _, want := range []string{"parsed expression", "parse cache hit", "parse failed"} {
		if !strings.Contains(s, want) {
			t.Errorf("log doesn't contain %q:\n%s", want, s)
		}
	}
}

func TestDefine(t *testing.T) {
	p := infix.Float64()
	f, err := infix.Define(p, "hyp", []string{"a", "b"}, "sqrt(a^2+b^2)")
	if err != nil {
		t.Fatal(err)
	}
	p.AddFunc(f)
	r, err := p.Eval("hyp(3, 4) + hyp(5, 12)", nil)
	if err != nil {
		t.Fatal(err)
	}
	if r != 18 {
		t.Errorf("want 18, got %v", r)
	}

	var pe *infix.ParamError
	if _, err := infix.Define(p, "bad", []string{"a"}, "a+c"); !errors.As(err, &pe) || pe.Param != "c" || pe.Dup {
		t.Errorf("free variable: wanted ParamError for c, got %v", err)
	}
	if _, err := infix.Define(p, "bad", []string{"a", "a"}, "a"); !errors.As(err, &pe) || !pe.Dup {
		t.Errorf("duplicate: wanted ParamError, got %v", err)
	}
	if _, err := infix.Define(p, "bad", nil, "1+"); !errors.Is(err, infix.ErrMissingOperand) {
		t.Errorf("bad body: wanted missing operand, got %v", err)
	}
}

func TestDefineDomain(t *testing.T) {
	p := infix.BigFloat(64)
	f, err := infix.Define(p, "z", []string{"x"}, "x/x")
	if err != nil {
		t.Fatal(err)
	}
	p.AddFunc(f)
	_, err = p.Eval("z(0) + 1", nil)
	var de *infix.DomainError
	if !errors.As(err, &de) {
		t.Errorf("wanted *DomainError, got %v", err)
	}
}

func BenchmarkParse(b *testing.B) {
	p := testParser()
	for i := 0; i < b.N; i++ {
		p.Parse("sin(pi/2)+2^4-(a+b)*b/sos(3, 2)")
	}
}

func BenchmarkEval(b *testing.B) {
	p := testParser()
	e, err := p.Parse("sin(pi/2)+2^4-(a+b)*b/sos(3, 2)")
	if err != nil {
		b.Fatal(err)
	}
	vars := map[string]float64{"a": 10, "b": 13}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Eval(vars)
	}
}
