package infix

import (
	"log/slog"
	"strconv"
)

// Option is an option for creating a Parser.
type Option interface {
	option(config) config
}

// config holds the settings that options change.
type config struct {
	log   *slog.Logger
	cache int
	// copy is a func(T) T for the parser's T.
	copy  any
}

type (
	logopt   struct{ l *slog.Logger }
	cacheopt int
)

// Logger sets the logger to which a parser writes debug messages. The default
// is slog.Default.
func Logger(l *slog.Logger) Option {
	return logopt{l}
}

func (o logopt) option(c config) config {
	c.log = o.l
	return c
}

// CacheSize makes a parser keep up to n parsed expressions, keyed by their
// source text. Repeated calls to Parse with the same text return the same
// *Expr until the parser's registry changes. Panics if n is not positive.
func CacheSize(n int) Option {
	if n <= 0 {
		panic("infix: invalid cache size " + strconv.Itoa(n))
	}
	return cacheopt(n)
}

func (o cacheopt) option(c config) config {
	c.cache = int(o)
	return c
}

type copyopt[T any] func(T) T

// Copy makes a parser's expressions pass the values of number literals and
// constants through f each time they are evaluated. Types with shared storage,
// like *big.Float, need it so that callers can modify results without
// modifying parsed expressions or registered constants. NewParser panics if T
// is not the parser's value type.
func Copy[T any](f func(T) T) Option {
	return copyopt[T](f)
}

func (o copyopt[T]) option(c config) config {
	c.copy = (func(T) T)(o)
	return c
}
