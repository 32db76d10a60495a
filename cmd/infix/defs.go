package main

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/infix"
)

// defs is the content of a definitions file:
//
//	constants:
//	  - name: tau
//	    value: 2*pi
//	vars:
//	  - name: x
//	    value: "3"
//	functions:
//	  - name: sq
//	    params: [x]
//	    body: x*x
//
// Every value is an expression, evaluated with the constants, variables, and
// functions defined before it.
type defs struct {
	Constants []binding `yaml:"constants"`
	Vars      []binding `yaml:"vars"`
	Functions []formula `yaml:"functions"`
}

type binding struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

type formula struct {
	Name   string   `yaml:"name"`
	Params []string `yaml:"params"`
	Body   string   `yaml:"body"`
}

// loadDefs reads a definitions file. Unknown keys are errors. An empty file
// defines nothing.
func loadDefs(r io.Reader) (*defs, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var d defs
	if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	for _, b := range d.Constants {
		if b.Name == "" {
			return nil, errors.New("constant with no name")
		}
	}
	for _, b := range d.Vars {
		if b.Name == "" {
			return nil, errors.New("variable with no name")
		}
	}
	for _, f := range d.Functions {
		if f.Name == "" {
			return nil, errors.New("function with no name")
		}
	}
	return &d, nil
}

// applyDefs registers constants and functions with p and sets variables in
// vars. Constants are registered first, then variables are set, then
// functions are defined, each in file order.
func applyDefs[T any](p *infix.Parser[T], d *defs, vars map[string]T) error {
	for _, c := range d.Constants {
		v, err := p.Eval(c.Value, vars)
		if err != nil {
			return fmt.Errorf("constant %s: %w", c.Name, err)
		}
		p.AddConst(c.Name, v)
	}
	for _, b := range d.Vars {
		v, err := p.Eval(b.Value, vars)
		if err != nil {
			return fmt.Errorf("variable %s: %w", b.Name, err)
		}
		vars[b.Name] = v
	}
	for _, f := range d.Functions {
		fn, err := infix.Define(p, f.Name, f.Params, f.Body)
		if err != nil {
			return fmt.Errorf("function %s: %w", f.Name, err)
		}
		p.AddFunc(fn)
	}
	return nil
}
