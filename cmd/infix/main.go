package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/zephyrtronium/infix"
)

type options struct {
	inname, verb, defs string
	given              [][2]string
	nl, echo, repl     bool
	args               []string
}

func main() {
	log.SetFlags(0)
	var (
		o       options
		num     string
		prec    uint
		cache   int
		verbose bool
	)
	addgiven := func(s string) error {
		name, val, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		o.given = append(o.given, [2]string{strings.TrimSpace(name), strings.TrimSpace(val)})
		return nil
	}
	flag.StringVar(&num, "num", "float", "number type: float, big, or decimal")
	flag.UintVar(&prec, "p", 64, "precision of calculations in bits, for -num big")
	flag.StringVar(&o.inname, "in", "", "input file (default stdin if no args given)")
	flag.StringVar(&o.verb, "fmt", "%v", "result formatting string")
	flag.Func("given", "name=value variable definition (any number of times)", addgiven)
	flag.StringVar(&o.defs, "defs", "", "YAML file of constants, variables, and functions")
	flag.BoolVar(&o.nl, "n", false, "parse separate input lines as separate expressions")
	flag.BoolVar(&o.echo, "echo", false, "print parse trees")
	flag.IntVar(&cache, "cache", 0, "number of parsed expressions to cache")
	flag.BoolVar(&o.repl, "i", false, "interactive session")
	flag.BoolVar(&verbose, "v", false, "log parser debug messages to stderr")
	flag.Parse()
	if prec == 0 {
		log.Fatal("precision must be positive")
	}
	o.args = flag.Args()

	var popts []infix.Option
	if verbose {
		h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		popts = append(popts, infix.Logger(slog.New(h)))
	}
	if cache > 0 {
		popts = append(popts, infix.CacheSize(cache))
	}

	var err error
	switch num {
	case "float":
		err = run(infix.Float64(popts...), &o, os.Stdout)
	case "big":
		err = run(infix.BigFloat(prec, popts...), &o, os.Stdout)
	case "decimal":
		err = run(infix.Decimal(popts...), &o, os.Stdout)
	default:
		log.Fatalf("unknown number type %q", num)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// run evaluates the expressions o describes with p and writes the results
// to w.
func run[T any](p *infix.Parser[T], o *options, w io.Writer) error {
	vars := make(map[string]T)
	if o.defs != "" {
		f, err := os.Open(o.defs)
		if err != nil {
			return err
		}
		d, err := loadDefs(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", o.defs, err)
		}
		if err := applyDefs(p, d, vars); err != nil {
			return fmt.Errorf("%s: %w", o.defs, err)
		}
	}
	for _, d := range o.given {
		r, err := p.Eval(d[1], vars)
		if err != nil {
			return fmt.Errorf("setting %s: %w", d[0], err)
		}
		vars[d[0]] = r
	}
	if o.repl {
		return session(p, vars, o.verb, w)
	}

	var srcs []string
	in, err := infile(o.inname, len(o.args) == 0)
	if err != nil {
		return err
	}
	if in != "" {
		srcs = append(srcs, o.split(in)...)
	}
	for _, arg := range o.args {
		srcs = append(srcs, o.split(arg)...)
	}

	var exprs []*infix.Expr[T]
	for _, src := range srcs {
		e, err := p.Parse(src)
		if err != nil {
			return fmt.Errorf("%q: %w", src, err)
		}
		exprs = append(exprs, e)
	}

	verb := o.verb + "\n"
	for _, e := range exprs {
		if o.echo {
			fmt.Fprintf(w, "%v : ", e)
		}
		r, err := e.Eval(vars)
		if err != nil {
			fmt.Fprintln(w, err)
			continue
		}
		fmt.Fprintf(w, verb, r)
	}
	return nil
}

// split divides an input into expressions. With -n, each non-blank line is
// an expression; otherwise the entire input is one.
func (o *options) split(s string) []string {
	if !o.nl {
		return []string{s}
	}
	var r []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			r = append(r, line)
		}
	}
	return r
}

func infile(inname string, std bool) (string, error) {
	var f *os.File
	switch {
	case inname != "" && inname != "-":
		in, err := os.Open(inname)
		if err != nil {
			return "", err
		}
		defer in.Close()
		f = in
	case inname == "-", std:
		f = os.Stdin
	}
	if f == nil {
		return "", nil
	}
	b, err := io.ReadAll(f)
	return string(b), err
}
