// Package parser implements the GNU v2 mangled-name grammar: the type
// parser (C3), the name parser (C4), and the top-level symbol parser (C5).
// Every entry point threads a *State explicitly; there is no package-level
// or goroutine-shared state.
package parser

import "github.com/abelbriggs1/gnu2-demangler/cxxast"

// State is the scratch state threaded through one parse_symbol invocation:
// the back-reference table described in spec §4.3. It is discarded once the
// top-level parse returns.
type State struct {
	// btypes holds one entry per top-level function-parameter-list type, in
	// the order parsed. Indices referenced by T/N-codes are 1-based into
	// this slice.
	btypes []cxxast.Type
}

// appendBtype records t as the next top-level parameter type.
func (s *State) appendBtype(t cxxast.Type) {
	s.btypes = append(s.btypes, t)
}

// btype returns the 1-based idx-th entry, and false if idx is out of range
// (including idx <= 0, or a forward reference to a slot not yet populated).
func (s *State) btype(idx int) (cxxast.Type, bool) {
	if idx <= 0 || idx > len(s.btypes) {
		return nil, false
	}
	return s.btypes[idx-1], true
}
