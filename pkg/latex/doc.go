// Package latex parses LaTeX math into MathML element trees.
//
// A Parser owns a symbol table, a macro table and the handler tables for
// commands and environments. Each call to Parse runs a fresh session, so
// a configured Parser can be shared between goroutines.
//
// Parsing is a recursive descent over frames. A frame pairs a scanner with
// the container receiving its elements and the active font. Blocks,
// single-unit arguments, options and macro expansions get a frame with a
// scanner of their own; table cells and \left groups share the enclosing
// scanner. When a parse fails, each frame that owns a scanner appends its
// unconsumed source to the error, so the returned ParseError splits the
// input into the part that was consumed and the part that was not.
//
// Supported input covers numbers, letters, operators, sub and superscripts
// with primes, \frac, \sqrt, \stackrel, accents, font commands, \mbox,
// spacing commands, \left ... \right, \bigg, the array and matrix
// environments, \entity and user macros declared with \newcommand and
// \newenvironment.
package latex
