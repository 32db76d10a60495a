package infix

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int8

const (
	tokenNone tokenKind = iota
	// tokenFunc is a name that calls a function. While the lexer is still
	// scanning a name, it is the tentative kind of any name.
	tokenFunc
	// tokenOp is an operator.
	tokenOp
	// tokenNum is a number literal.
	tokenNum
	// tokenPunct is an open or close bracket or a comma.
	tokenPunct
	// tokenParam is a constant or variable name.
	tokenParam
)

func (k tokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case tokenFunc:
		return "Func"
	case tokenOp:
		return "Op"
	case tokenNum:
		return "Num"
	case tokenPunct:
		return "Punct"
	case tokenParam:
		return "Param"
	default:
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// lookup is what the lexer needs to know about registered names.
type lookup interface {
	isOperator(r rune) bool
	isFunc(name string) bool
}

// punct reports whether r is an open or close bracket or a comma.
func punct(r rune) bool {
	return r == '(' || r == ')' || r == ','
}

type lexer struct {
	reg  lookup
	toks []lexToken
	buf  strings.Builder
	// kind is the tentative kind of the text in buf. It is not reset when buf
	// is flushed.
	kind tokenKind
	// start is the column of the first rune in buf.
	start int
	// prev is the last non-space rune scanned.
	prev rune
}

// lex splits src into tokens and classifies them against reg.
func lex(src string, reg lookup) ([]lexToken, error) {
	l := lexer{reg: reg}
	col := 0
	for _, r := range src {
		col++
		if unicode.IsSpace(r) {
			continue
		}
		switch {
		case '0' <= r && r <= '9', r == '.':
			if l.buf.Len() > 0 && l.kind != tokenNum {
				// x2
				l.buf.WriteRune(r)
				return nil, l.error("identifier", col)
			}
			l.write(r, tokenNum, col)
		case punct(r):
			last := l.flush()
			if r == '(' && last != nil && last.kind == tokenParam {
				last.kind = tokenFunc
			}
			l.toks = append(l.toks, lexToken{text: string(r), kind: tokenPunct, pos: col})
		case reg.isOperator(r):
			if l.kind == tokenFunc && l.prev != ')' {
				l.kind = tokenParam
			}
			l.flush()
			l.toks = append(l.toks, lexToken{text: string(r), kind: tokenOp, pos: col})
			l.kind = tokenOp
		case l.kind == tokenNum && l.buf.Len() > 0:
			// 2x
			l.buf.WriteRune(r)
			return nil, l.error("number", col)
		default:
			l.write(r, tokenFunc, col)
		}
		l.prev = r
	}
	if l.kind == tokenFunc && l.prev != ')' {
		l.kind = tokenParam
	}
	l.flush()
	return l.toks, nil
}

// write appends r to the buffered token and sets its tentative kind.
func (l *lexer) write(r rune, kind tokenKind, col int) {
	if l.buf.Len() == 0 {
		l.start = col
	}
	l.buf.WriteRune(r)
	l.kind = kind
}

// flush emits the buffered token, if any, and returns a pointer to it so the
// caller can reclassify it. The pointer is valid until the next token is
// emitted.
func (l *lexer) flush() *lexToken {
	if l.buf.Len() == 0 {
		return nil
	}
	text := l.buf.String()
	l.buf.Reset()
	l.toks = append(l.toks, lexToken{text: text, kind: l.classify(text, l.kind), pos: l.start})
	return &l.toks[len(l.toks)-1]
}

// classify resolves the tentative kind of a name.
func (l *lexer) classify(text string, kind tokenKind) tokenKind {
	if kind != tokenFunc {
		return kind
	}
	if r, sz := utf8.DecodeRuneInString(text); sz == len(text) && l.reg.isOperator(r) {
		return tokenOp
	}
	if l.reg.isFunc(text) {
		return tokenFunc
	}
	return tokenParam
}

func (l *lexer) error(kind string, col int) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  col,
	}
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning, either "number" or
	// "identifier".
	Kind string
	// Col is the total number of runes scanned by the lexer up to and
	// including this error.
	Col int
	// Err is the error from converting a number literal, if that is what
	// failed.
	Err error
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	s := "invalid " + err.Kind + " token at " + pos + ": " + err.Text
	if err.Err != nil {
		s += " (" + err.Err.Error() + ")"
	}
	return s
}

func (err *LexError) Pos() int {
	return err.Col
}

func (err *LexError) Unwrap() error {
	return err.Err
}

func (err *LexError) Is(target error) bool {
	return target == ErrLexical
}
