package infix

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Registry holds the operators, functions, and constants that a Parser
// recognizes. Entries are templates: each use of an operator or function in
// an expression gets its own node from New.
//
// The zero value is an empty registry ready to use. A Registry must not be
// modified while a parse that uses it is in progress.
type Registry[T any] struct {
	ops    table[rune, *Operator[T]]
	funcs  [numClasses]table[string, Descriptor[T]]
	consts table[string, T]
	// gen counts modifications so that cached parses can be discarded.
	gen uint64
}

// funcClass is a group of functions. Lookups search classes in order.
type funcClass int8

const (
	classOne funcClass = iota
	classTwo
	classZero
	classCustom

	numClasses
)

// classOf gives the class in which AddFunc files a function of n arguments.
func classOf(n int) funcClass {
	switch n {
	case 0:
		return classZero
	case 1:
		return classOne
	case 2:
		return classTwo
	default:
		return classCustom
	}
}

// Const is a named constant.
type Const[T any] struct {
	Name  string
	Value T
}

// AddOperator registers an operator, replacing any operator with the same
// symbol. Panics if op has no binary rule or if its symbol is a digit, '.',
// a bracket, a comma, or whitespace.
func (r *Registry[T]) AddOperator(op *Operator[T]) {
	s := op.Symbol
	if '0' <= s && s <= '9' || s == '.' || punct(s) || unicode.IsSpace(s) || s == utf8.RuneError {
		panic("infix: cannot use " + strconv.QuoteRune(s) + " as an operator")
	}
	if op.Binary == nil {
		panic("infix: operator " + strconv.QuoteRune(s) + " has no binary rule")
	}
	r.ops.set(s, op)
	r.gen++
}

// RemoveOperator removes the operator with the given symbol. It returns false
// if there was no such operator.
func (r *Registry[T]) RemoveOperator(sym rune) bool {
	if !r.ops.del(sym) {
		return false
	}
	r.gen++
	return true
}

// Operator returns the operator with the given symbol.
func (r *Registry[T]) Operator(sym rune) (*Operator[T], bool) {
	return r.ops.get(sym)
}

// Operators returns the registered operators in the order they were added.
func (r *Registry[T]) Operators() []*Operator[T] {
	return r.ops.values()
}

// AddFunc registers a function according to its arity. Functions of zero,
// one, or two arguments each have their own class; any other arity is
// registered as a custom function. Within a class, the new function replaces
// any function of the same name.
func (r *Registry[T]) AddFunc(d Descriptor[T]) {
	r.funcs[classOf(d.Arity())].set(d.Name(), d)
	r.gen++
}

// AddCustom registers a function in the custom class regardless of its arity.
func (r *Registry[T]) AddCustom(d Descriptor[T]) {
	r.funcs[classCustom].set(d.Name(), d)
	r.gen++
}

// RemoveFunc removes every function with the given name. It returns false if
// there was no such function.
func (r *Registry[T]) RemoveFunc(name string) bool {
	ok := false
	for i := range r.funcs {
		if r.funcs[i].del(name) {
			ok = true
		}
	}
	if ok {
		r.gen++
	}
	return ok
}

// Func finds a function by name. One-argument functions are searched first,
// then two-argument, zero-argument, and custom functions, so a name
// registered in an earlier class shadows the same name in a later one.
func (r *Registry[T]) Func(name string) (Descriptor[T], bool) {
	for i := range r.funcs {
		if d, ok := r.funcs[i].get(name); ok {
			return d, true
		}
	}
	return nil, false
}

// Funcs returns the registered functions in lookup order, and within each
// class in the order they were added.
func (r *Registry[T]) Funcs() []Descriptor[T] {
	var v []Descriptor[T]
	for i := range r.funcs {
		v = append(v, r.funcs[i].values()...)
	}
	return v
}

// AddConst registers a constant, replacing any constant with the same name.
// Constants take precedence over variables of the same name.
func (r *Registry[T]) AddConst(name string, val T) {
	r.consts.set(name, val)
	r.gen++
}

// RemoveConst removes a constant. It returns false if there was no such
// constant.
func (r *Registry[T]) RemoveConst(name string) bool {
	if !r.consts.del(name) {
		return false
	}
	r.gen++
	return true
}

// Const returns the value of a constant.
func (r *Registry[T]) Const(name string) (T, bool) {
	return r.consts.get(name)
}

// Consts returns the registered constants in the order they were added.
func (r *Registry[T]) Consts() []Const[T] {
	v := make([]Const[T], 0, len(r.consts.keys))
	for _, k := range r.consts.keys {
		v = append(v, Const[T]{Name: k, Value: r.consts.m[k]})
	}
	return v
}

// Names returns the names of all registered functions and constants. Names
// registered in several places appear once.
func (r *Registry[T]) Names() []string {
	seen := make(map[string]bool)
	var v []string
	add := func(k string) {
		if !seen[k] {
			seen[k] = true
			v = append(v, k)
		}
	}
	for i := range r.funcs {
		for _, k := range r.funcs[i].keys {
			add(k)
		}
	}
	for _, k := range r.consts.keys {
		add(k)
	}
	return v
}

func (r *Registry[T]) isOperator(sym rune) bool {
	_, ok := r.ops.get(sym)
	return ok
}

func (r *Registry[T]) isFunc(name string) bool {
	_, ok := r.Func(name)
	return ok
}

// table is a map that remembers insertion order.
type table[K comparable, V any] struct {
	m    map[K]V
	keys []K
}

func (t *table[K, V]) set(k K, v V) {
	if t.m == nil {
		t.m = make(map[K]V)
	}
	if _, ok := t.m[k]; !ok {
		t.keys = append(t.keys, k)
	}
	t.m[k] = v
}

func (t *table[K, V]) get(k K) (V, bool) {
	v, ok := t.m[k]
	return v, ok
}

func (t *table[K, V]) del(k K) bool {
	if _, ok := t.m[k]; !ok {
		return false
	}
	delete(t.m, k)
	for i, x := range t.keys {
		if x == k {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
	return true
}

func (t *table[K, V]) values() []V {
	v := make([]V, 0, len(t.keys))
	for _, k := range t.keys {
		v = append(v, t.m[k])
	}
	return v
}
