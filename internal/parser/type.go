package parser

import (
	"github.com/abelbriggs1/gnu2-demangler/cxxast"
	"github.com/abelbriggs1/gnu2-demangler/internal/cursor"
)

var singleLetterBuiltins = map[byte]cxxast.BuiltinKind{
	'v': cxxast.Void,
	'b': cxxast.Bool,
	'c': cxxast.Char,
	'w': cxxast.WChar,
	's': cxxast.Short,
	'i': cxxast.Int,
	'l': cxxast.Long,
	'x': cxxast.LongLong,
	'f': cxxast.Float,
	'd': cxxast.Double,
	'r': cxxast.LongDouble,
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// parseType is the C3 entry point: parse_type(cursor, state) -> Type.
// It does not append to btypes; only the top-level parameter-list loop
// (parseTopLevelParams, in symbol.go) does that, since only top-level parameter
// types are ever eligible for back-reference (spec §4.3 "Append-to-btypes
// policy").
func parseType(cur *cursor.Cursor, st *State) (cxxast.Type, error) {
	quals, err := parseQualPrefix(cur)
	if err != nil {
		return nil, err
	}

	inner, err := parseTypeCore(cur, st)
	if err != nil {
		return nil, err
	}

	if quals.Empty() {
		return inner, nil
	}
	if qt, ok := inner.(*cxxast.QualifiedType); ok {
		qt.Quals = qt.Quals.Merge(quals)
		return qt, nil
	}
	return &cxxast.QualifiedType{Quals: quals, Inner: inner}, nil
}

// parseQualPrefix consumes the run of C/V/U prefix bytes (spec §4.3 rule 1).
func parseQualPrefix(cur *cursor.Cursor) (cxxast.Quals, error) {
	var q cxxast.Quals
	for {
		b, ok := cur.Peek()
		if !ok {
			return q, nil
		}
		switch b {
		case 'C':
			cur.Take()
			q.Const = true
		case 'V':
			cur.Take()
			q.Volatile = true
		case 'U':
			cur.Take()
			q.Unsigned = true
		default:
			return q, nil
		}
	}
}

func parseTypeCore(cur *cursor.Cursor, st *State) (cxxast.Type, error) {
	b, ok := cur.Peek()
	if !ok {
		return nil, cxxast.NewParseError(cxxast.ErrUnexpectedEnd, cur.Position(), "expected a type code")
	}

	switch {
	case b == 'P':
		cur.Take()
		inner, err := parseType(cur, st)
		if err != nil {
			return nil, err
		}
		return &cxxast.PointerType{Inner: inner}, nil

	case b == 'R':
		cur.Take()
		inner, err := parseType(cur, st)
		if err != nil {
			return nil, err
		}
		return &cxxast.ReferenceType{Inner: inner}, nil

	case b == 'O':
		cur.Take()
		inner, err := parseType(cur, st)
		if err != nil {
			return nil, err
		}
		return &cxxast.RValueReferenceType{Inner: inner}, nil

	case b == 'A':
		cur.Take()
		return parseArray(cur, st)

	case b == 'F':
		cur.Take()
		return parseFunction(cur, st)

	case b == 'S':
		// Signed composite: only "Sc" (signed char) is defined (spec §4.3
		// rule 5). Generic C/V/U qualifiers are already consumed by
		// parseQualPrefix before we get here, so a bare 'S' only ever
		// introduces this composite.
		cur.Take()
		next, ok := cur.Peek()
		if !ok {
			return nil, cxxast.NewParseError(cxxast.ErrUnexpectedEnd, cur.Position(), "expected 'c' after 'S'")
		}
		if next != 'c' {
			return nil, cxxast.NewParseError(cxxast.ErrUnknownTypeCode, cur.Position(), "S"+string(next))
		}
		cur.Take()
		return &cxxast.QualifiedType{Quals: cxxast.Quals{Signed: true}, Inner: &cxxast.BuiltinType{Kind: cxxast.Char}}, nil

	case b == 'T':
		cur.Take()
		idx, err := cur.TakeDigits()
		if err != nil {
			return nil, cxxast.NewParseError(cxxast.ErrExpectedDigits, cur.Position(), "back-reference index")
		}
		t, ok := st.btype(idx)
		if !ok {
			return nil, cxxast.NewParseError(cxxast.ErrBackRefOutOfRange, cur.Position(), "T"+itoaDigits(idx))
		}
		return markBackReferenced(t), nil

	case isDigit(b) || b == 'Q' || b == 't':
		name, err := parseQualifiedName(cur, st)
		if err != nil {
			return nil, err
		}
		return &cxxast.NamedType{Name: name}, nil

	case b == 'K':
		return nil, cxxast.NewParseError(cxxast.ErrUnsupportedFeature, cur.Position(), "K (squangled name back-reference)")

	case b == 'B':
		return nil, cxxast.NewParseError(cxxast.ErrUnsupportedFeature, cur.Position(), "B (base-type back-reference)")

	case b == 'G':
		return nil, cxxast.NewParseError(cxxast.ErrUnsupportedFeature, cur.Position(), "G (fixed-width integer code)")

	case b == 'I':
		return nil, cxxast.NewParseError(cxxast.ErrUnsupportedFeature, cur.Position(), "I (fixed-width integer code)")

	case b == 'e':
		return nil, cxxast.NewParseError(cxxast.ErrUnsupportedFeature, cur.Position(), "e (ellipsis)")

	case b == 'n':
		return nil, cxxast.NewParseError(cxxast.ErrUnsupportedFeature, cur.Position(), "n (squangled repeated argument)")

	case b == 'M':
		return nil, cxxast.NewParseError(cxxast.ErrUnsupportedFeature, cur.Position(), "M (pointer to member)")

	default:
		if kind, ok := singleLetterBuiltins[b]; ok {
			cur.Take()
			return &cxxast.BuiltinType{Kind: kind}, nil
		}
		return nil, cxxast.NewParseError(cxxast.ErrUnknownTypeCode, cur.Position(), string(b))
	}
}

// markBackReferenced wraps t so the printer renders the historical "&&"
// in-band marker, without changing t's underlying structural meaning (spec
// §4.3 rule 7, §9 re-architecting note). Pointer and reference targets carry
// their own WasBackReferenced flag; any other kind is wrapped in a
// RValueReferenceType so the marker still prints for e.g. back-referenced
// builtins.
func markBackReferenced(t cxxast.Type) cxxast.Type {
	switch v := t.(type) {
	case *cxxast.PointerType:
		return &cxxast.PointerType{Inner: v.Inner, WasBackReferenced: true}
	case *cxxast.ReferenceType:
		return &cxxast.ReferenceType{Inner: v.Inner, WasBackReferenced: true}
	case *cxxast.RValueReferenceType:
		// Already prints the "&&" marker (a fresh 'O' parse); wrapping again
		// would double it.
		return v
	default:
		return &cxxast.RValueReferenceType{Inner: t}
	}
}

func parseArray(cur *cursor.Cursor, st *State) (cxxast.Type, error) {
	var length cxxast.ArrayLength
	if b, ok := cur.Peek(); ok && b == '_' {
		cur.Take()
	} else {
		n, err := cur.TakeDigits()
		if err != nil {
			return nil, cxxast.NewParseError(cxxast.ErrExpectedDigits, cur.Position(), "array length")
		}
		length = cxxast.ArrayLength{Known: true, N: n}
		if !cur.TakeIf('_') {
			return nil, cxxast.NewParseError(cxxast.ErrExpectedDigits, cur.Position(), "array length terminator '_'")
		}
	}
	inner, err := parseType(cur, st)
	if err != nil {
		return nil, err
	}
	return &cxxast.ArrayType{Length: length, Inner: inner}, nil
}

func parseFunction(cur *cursor.Cursor, st *State) (cxxast.Type, error) {
	var params []cxxast.Type
	for {
		if b, ok := cur.Peek(); ok && b == '_' {
			cur.Take()
			break
		}
		if b, ok := cur.Peek(); ok && b == 'e' {
			return nil, cxxast.NewParseError(cxxast.ErrUnsupportedFeature, cur.Position(), "e (ellipsis in F parameter list)")
		}
		p, err := parseType(cur, st)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
		if cur.EOF() {
			return nil, cxxast.NewParseError(cxxast.ErrUnexpectedEnd, cur.Position(), "expected '_' to close F parameter list")
		}
	}
	ret, err := parseType(cur, st)
	if err != nil {
		return nil, err
	}
	return &cxxast.FunctionType{Return: ret, Params: params}, nil
}

func itoaDigits(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
