// Package gnu2demangle decodes GNU v2 C++ mangled symbol names into a typed
// AST (package cxxast) and renders them back as C++-style declarations.
//
// This is a thin facade over internal/parser, in the spirit of the teacher
// project's root pdb package wrapping internal/msf and internal/tpi: it owns
// no state of its own and only sequences the cursor and parser packages.
package gnu2demangle

import (
	"github.com/abelbriggs1/gnu2-demangler/cxxast"
	"github.com/abelbriggs1/gnu2-demangler/internal/parser"
)

// Parse decodes a mangled symbol into its AST. On failure it returns a
// *cxxast.ParseError describing what went wrong and where.
func Parse(mangled []byte) (*cxxast.CxxSymbol, error) {
	if len(mangled) == 0 {
		return nil, cxxast.NewParseError(cxxast.ErrUnexpectedEnd, 0, "empty input")
	}
	return parser.ParseSymbol(mangled)
}

// Demangle decodes mangled and renders it as a C++ declaration. Per the
// swallow-and-echo default (spec §7), any failure other than an internal
// invariant violation returns mangled unchanged as a string, with ok set to
// false; a *cxxast.ParseError with Err == cxxast.ErrInvariantViolated is
// returned as a hard error instead.
func Demangle(mangled []byte) (result string, ok bool, err error) {
	sym, parseErr := Parse(mangled)
	if parseErr == nil {
		return sym.String(), true, nil
	}

	var pe *cxxast.ParseError
	if asParseError(parseErr, &pe) && pe.Err == cxxast.ErrInvariantViolated {
		return "", false, pe
	}
	return string(mangled), false, nil
}

func asParseError(err error, target **cxxast.ParseError) bool {
	if pe, ok := err.(*cxxast.ParseError); ok {
		*target = pe
		return true
	}
	return false
}
