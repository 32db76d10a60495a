package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"

	"github.com/lmorg/readline"

	"github.com/zephyrtronium/infix"
)

// session reads expressions from the terminal until the user ends input. A
// line of the form "name = expr" sets a variable to the expression's value.
func session[T any](p *infix.Parser[T], vars map[string]T, verb string, w io.Writer) error {
	rl := readline.NewInstance()
	rl.SetPrompt("> ")
	rl.TabCompleter = func(line []rune, pos int, _ readline.DelayedTabContext) (string, []string, map[string]string, readline.TabDisplayType) {
		if pos > len(line) {
			pos = len(line)
		}
		word := lastWord(line[:pos])
		var s []string
		for _, name := range complete(p, vars, word) {
			s = append(s, name[len(word):])
		}
		return word, s, nil, readline.TabDisplayGrid
	}
	for {
		line, err := rl.Readline()
		if err != nil {
			// EOF or interrupt.
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fmt.Fprintln(w, step(p, vars, verb, line))
	}
}

// step evaluates one line of an interactive session and returns the text to
// show for it.
func step[T any](p *infix.Parser[T], vars map[string]T, verb, line string) string {
	name, src, assign := splitAssign(line)
	r, err := p.Eval(src, vars)
	if err != nil {
		var ierr infix.InputError
		if errors.As(err, &ierr) {
			return caret(src, ierr.Pos()) + err.Error()
		}
		return err.Error()
	}
	if assign {
		vars[name] = r
	}
	return fmt.Sprintf(verb, r)
}

// caret points to a column of src on the line below it.
func caret(src string, col int) string {
	if col < 1 {
		col = 1
	}
	return src + "\n" + strings.Repeat(" ", col-1) + "^\n"
}

// splitAssign splits "name = expr" into its parts. If line isn't an
// assignment, src is the entire line.
func splitAssign(line string) (name, src string, ok bool) {
	before, after, found := strings.Cut(line, "=")
	if !found {
		return "", line, false
	}
	name = strings.TrimSpace(before)
	if !isName(name) {
		return "", line, false
	}
	return name, strings.TrimSpace(after), true
}

func isName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// lastWord returns the name being typed at the end of line.
func lastWord(line []rune) string {
	i := len(line)
	for i > 0 && (line[i-1] == '_' || unicode.IsLetter(line[i-1]) || unicode.IsDigit(line[i-1])) {
		i--
	}
	return string(line[i:])
}

// complete lists the functions, constants, and variables that begin with
// prefix, in sorted order.
func complete[T any](p *infix.Parser[T], vars map[string]T, prefix string) []string {
	var r []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] && strings.HasPrefix(name, prefix) {
			seen[name] = true
			r = append(r, name)
		}
	}
	for _, name := range p.Names() {
		add(name)
	}
	for name := range vars {
		add(name)
	}
	sort.Strings(r)
	return r
}
