package infix

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Expr is a parsed expression. An Expr is immutable and safe to evaluate
// concurrently.
type Expr[T any] struct {
	// root is the root node of the expression.
	root Node[T]
	// names is the sorted list of variable names used in the expression.
	names []string
}

// Vars returns the variable names used when evaluating the expression.
func (e *Expr[T]) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// Root returns the root node of the expression tree.
func (e *Expr[T]) Root() Node[T] {
	return e.root
}

// String creates a string representation of the parsed expression, with
// alternating round and square brackets grouping each term.
func (e *Expr[T]) String() string {
	var b strings.Builder
	writeNode(&b, e.root, false)
	return b.String()
}

// Parser parses expressions over T using the operators, functions, and
// constants in its registry. The zero value is not usable; create one with
// NewParser or a preset.
//
// Parse may be called concurrently, but not concurrently with changes to the
// registry.
type Parser[T any] struct {
	*Registry[T]

	conv  func(string) (T, error)
	copy  func(T) T
	log   *slog.Logger
	cache *lru.Cache[string, cached[T]]
}

// cached is a parsed expression and the registry generation it was parsed
// under.
type cached[T any] struct {
	e   *Expr[T]
	gen uint64
}

// NewParser creates a parser with an empty registry. conv converts number
// literals, which are runs of digits and dots, to values.
func NewParser[T any](conv func(string) (T, error), opts ...Option) *Parser[T] {
	var cfg config
	for _, opt := range opts {
		cfg = opt.option(cfg)
	}
	p := Parser[T]{
		Registry: new(Registry[T]),
		conv:     conv,
		log:      cfg.log,
	}
	if p.log == nil {
		p.log = slog.Default()
	}
	if cfg.copy != nil {
		f, ok := cfg.copy.(func(T) T)
		if !ok {
			panic(fmt.Sprintf("infix: Copy option for %T used with a parser of a different type", cfg.copy))
		}
		p.copy = f
	}
	if cfg.cache > 0 {
		c, err := lru.New[string, cached[T]](cfg.cache)
		if err != nil {
			// Only possible for a non-positive size.
			panic(err)
		}
		p.cache = c
	}
	return &p
}

// Parse parses an expression. Names that are not registered constants and
// are not followed by an argument list are variables of the expression.
//
// Every error from Parse implements InputError and matches one of ErrLexical,
// ErrUnknownName, ErrArity, ErrMissingOperand, or ErrMalformed with errors.Is.
func (p *Parser[T]) Parse(src string) (*Expr[T], error) {
	if p.cache != nil {
		if c, ok := p.cache.Get(src); ok {
			if c.gen == p.gen {
				p.log.Debug("parse cache hit", slog.String("src", src))
				return c.e, nil
			}
			// The registry has changed since anything in the cache was
			// parsed.
			p.cache.Purge()
		}
	}
	e, err := p.parse(src)
	if err != nil {
		p.log.Debug("parse failed", slog.String("src", src), slog.Any("err", err))
		return nil, err
	}
	p.log.Debug("parsed expression", slog.String("src", src), slog.Any("vars", e.names))
	if p.cache != nil {
		p.cache.Add(src, cached[T]{e: e, gen: p.gen})
	}
	return e, nil
}

// Eval is a shortcut to parse an expression and evaluate it once.
func (p *Parser[T]) Eval(src string, vars map[string]T) (T, error) {
	e, err := p.Parse(src)
	if err != nil {
		var zero T
		return zero, err
	}
	return e.Eval(vars)
}

func (p *Parser[T]) parse(src string) (*Expr[T], error) {
	toks, err := lex(src, p.Registry)
	if err != nil {
		return nil, err
	}
	c := parsectx[T]{
		p:     p,
		toks:  toks,
		names: make(map[string]bool),
		end:   utf8.RuneCountInString(src) + 1,
	}
	args, err := c.level(nil, false)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, &EmptyExpressionError{Col: c.end}
	}
	ex := Expr[T]{
		root:  args[0],
		names: make([]string, 0, len(c.names)),
	}
	for k := range c.names {
		ex.names = append(ex.names, k)
	}
	sortstrs(ex.names)
	return &ex, nil
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// parsectx holds the state of a single parse.
type parsectx[T any] struct {
	p    *Parser[T]
	toks []lexToken
	// i is the index of the next token.
	i int
	// names is the set of variable names that have been seen this parse.
	names map[string]bool
	// end is the position just past the last rune of the input.
	end int
}

// level parses tokens up to the bracket that closes open, or to the end of
// input if open is nil. If call is true, the level is an argument list and
// commas separate arguments; otherwise a comma is an error. The result is
// one node per argument, or nil if the level is empty.
func (c *parsectx[T]) level(open *lexToken, call bool) ([]Node[T], error) {
	var (
		groups [][]term[T]
		cur    []term[T]
		// ends holds the token that ended each group.
		ends []lexToken
	)
loop:
	for c.i < len(c.toks) {
		tok := c.toks[c.i]
		c.i++
		switch tok.kind {
		case tokenNum:
			v, err := c.p.conv(tok.text)
			if err != nil {
				return nil, &LexError{Text: tok.text, Kind: "number", Col: tok.pos, Err: err}
			}
			cur = append(cur, term[T]{n: &literal[T]{text: tok.text, v: v, copy: c.p.copy}, pos: tok.pos})
		case tokenParam:
			cur = append(cur, term[T]{n: c.param(tok), pos: tok.pos})
		case tokenOp:
			r, _ := utf8.DecodeRuneInString(tok.text)
			op, ok := c.p.Operator(r)
			if !ok {
				return nil, &OperatorError{Col: tok.pos, Operator: tok.text}
			}
			cur = append(cur, term[T]{n: op.node(), pos: tok.pos})
		case tokenFunc:
			if c.i >= len(c.toks) || c.toks[c.i].text != "(" {
				// A function name used as an operand.
				cur = append(cur, term[T]{n: c.param(tok), pos: tok.pos})
				continue
			}
			fn, err := c.call(tok)
			if err != nil {
				return nil, err
			}
			cur = append(cur, term[T]{n: fn, pos: tok.pos})
		case tokenPunct:
			switch tok.text {
			case "(":
				args, err := c.level(&tok, false)
				if err != nil {
					return nil, err
				}
				if len(args) == 0 {
					return nil, &EmptyExpressionError{Col: c.toks[c.i-1].pos, End: ")"}
				}
				cur = append(cur, term[T]{n: args[0], pos: tok.pos})
			case ")":
				if open == nil {
					return nil, &BracketError{Col: tok.pos, Right: ")"}
				}
				groups = append(groups, cur)
				ends = append(ends, tok)
				break loop
			case ",":
				if !call {
					return nil, &SeparatorError{Col: tok.pos, Sep: ","}
				}
				groups = append(groups, cur)
				ends = append(ends, tok)
				cur = nil
			}
		default:
			panic("infix: invalid token " + tok.String())
		}
	}
	if len(ends) == 0 || ends[len(ends)-1].text != ")" {
		if open != nil {
			return nil, &BracketError{Col: c.end, Left: open.text}
		}
		groups = append(groups, cur)
		ends = append(ends, lexToken{pos: c.end})
	}
	if len(groups) == 1 && len(groups[0]) == 0 {
		return nil, nil
	}
	r := make([]Node[T], len(groups))
	for i, g := range groups {
		if len(g) == 0 {
			return nil, &EmptyExpressionError{Col: ends[i].pos, End: ends[i].text}
		}
		n, err := simplify(g)
		if err != nil {
			return nil, err
		}
		r[i] = n
	}
	return r, nil
}

// param creates the node for a constant or variable name.
func (c *parsectx[T]) param(tok lexToken) Node[T] {
	if v, ok := c.p.Const(tok.text); ok {
		return &literal[T]{text: tok.text, v: v, copy: c.p.copy}
	}
	c.names[tok.text] = true
	return &variable[T]{name: tok.text}
}

// call parses the argument list following a function name.
func (c *parsectx[T]) call(tok lexToken) (Node[T], error) {
	d, ok := c.p.Func(tok.text)
	if !ok {
		return nil, &FuncError{Col: tok.pos, Name: tok.text}
	}
	open := c.toks[c.i]
	c.i++
	args, err := c.level(&open, true)
	if err != nil {
		return nil, err
	}
	fn := d.New()
	if fn.Initialized() {
		panic("infix: New for " + d.Name() + " returned an initialized function")
	}
	if err := fn.Init(args); err != nil {
		var ce *CallError
		if errors.As(err, &ce) {
			ce.Col = tok.pos
		}
		return nil, err
	}
	return fn, nil
}
