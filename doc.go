// Package infix parses infix formulas over any numeric type into expression
// trees that can be evaluated many times with different variables.
//
// Nothing about arithmetic is built in. A Parser knows only the operators,
// functions, and constants registered with it, and it converts number
// literals with a function supplied by the caller. Float64, BigFloat, and
// Decimal return parsers preloaded with the usual operators and functions.
//
// Operators are single runes with an integer precedence. Higher precedence
// binds tighter, and operators of equal precedence combine left to right, so
// "2^3^2" is "(2^3)^2". An operator with a unary form may begin an expression
// or a bracketed group, as in "-(x+1)". The unary form takes the operand
// immediately after it, so "-2^2" is "(-2)^2". Operators may not follow other
// operators; write "2*(-3)" rather than "2*-3".
//
// A name immediately followed by an open bracket is a function call. Any other
// name is a constant if one is registered by that name and otherwise a
// variable, which is looked up when the expression is evaluated. Names and
// numbers cannot touch: "2x" and "x2" are both errors. Whitespace is ignored
// entirely, so "1 2" is the number 12.
//
// A Registry is not safe for concurrent modification, and it must not be
// modified while a parse that uses it is in progress. Parsed expressions are
// never modified and may be evaluated concurrently.
package infix
