package parser

import (
	"strconv"
	"strings"

	"github.com/abelbriggs1/gnu2-demangler/cxxast"
	"github.com/abelbriggs1/gnu2-demangler/internal/cursor"
)

// parseQualifiedName is the C4 entry point: parse_qualified_name(cursor) ->
// Name.
func parseQualifiedName(cur *cursor.Cursor, st *State) (cxxast.Name, error) {
	b, ok := cur.Peek()
	if !ok {
		return cxxast.Name{}, cxxast.NewParseError(cxxast.ErrUnexpectedEnd, cur.Position(), "expected a name")
	}

	switch b {
	case 'Q':
		cur.Take()
		n, err := parseQCount(cur)
		if err != nil {
			return cxxast.Name{}, err
		}
		if n == 0 {
			return cxxast.Name{}, cxxast.NewParseError(cxxast.ErrMalformedName, cur.Position(), "Q count is 0")
		}
		segs := make([]cxxast.NameSegment, 0, n)
		for i := 0; i < n; i++ {
			seg, err := parseIdentifierOrTemplate(cur, st)
			if err != nil {
				return cxxast.Name{}, err
			}
			segs = append(segs, seg)
		}
		return cxxast.Name{Segments: segs}, nil

	case 'K':
		return cxxast.Name{}, cxxast.NewParseError(cxxast.ErrUnsupportedFeature, cur.Position(), "K (squangled name back-reference)")

	default:
		seg, err := parseIdentifierOrTemplate(cur, st)
		if err != nil {
			return cxxast.Name{}, err
		}
		return cxxast.Name{Segments: []cxxast.NameSegment{seg}}, nil
	}
}

// parseQCount reads the segment count that follows 'Q': either a single
// digit, or (spec §4.4 rule 1) an extended "_<digits>_" form.
func parseQCount(cur *cursor.Cursor) (int, error) {
	b, ok := cur.Peek()
	if !ok {
		return 0, cxxast.NewParseError(cxxast.ErrUnexpectedEnd, cur.Position(), "expected Q count")
	}
	if b == '_' {
		cur.Take()
		n, err := cur.TakeDigits()
		if err != nil {
			return 0, cxxast.NewParseError(cxxast.ErrExpectedDigits, cur.Position(), "extended Q count")
		}
		if !cur.TakeIf('_') {
			return 0, cxxast.NewParseError(cxxast.ErrMalformedName, cur.Position(), "expected '_' to close extended Q count")
		}
		return n, nil
	}
	if !isDigit(b) {
		return 0, cxxast.NewParseError(cxxast.ErrMalformedName, cur.Position(), "expected Q count digit")
	}
	cur.Take()
	return int(b - '0'), nil
}

// parseIdentifierOrTemplate is the C4 entry point: parse_identifier_or_template(cursor)
// -> NameSegment.
func parseIdentifierOrTemplate(cur *cursor.Cursor, st *State) (cxxast.NameSegment, error) {
	b, ok := cur.Peek()
	if !ok {
		return cxxast.NameSegment{}, cxxast.NewParseError(cxxast.ErrUnexpectedEnd, cur.Position(), "expected an identifier")
	}

	if b == 't' {
		cur.Take()
		base, err := cur.TakeLengthPrefixedIdentifier()
		if err != nil {
			return cxxast.NameSegment{}, wrapCursorErr(cur, err, "templated identifier base")
		}
		countByte, err := cur.Take()
		if err != nil {
			return cxxast.NameSegment{}, cxxast.NewParseError(cxxast.ErrUnexpectedEnd, cur.Position(), "expected template argument count")
		}
		if !isDigit(countByte) {
			return cxxast.NameSegment{}, cxxast.NewParseError(cxxast.ErrMalformedName, cur.Position(), "expected template argument count digit")
		}
		argCount := int(countByte - '0')
		args := make([]cxxast.TemplateArg, 0, argCount)
		for i := 0; i < argCount; i++ {
			arg, err := parseTemplateArg(cur, st)
			if err != nil {
				return cxxast.NameSegment{}, err
			}
			args = append(args, arg)
		}
		return cxxast.NameSegment{Identifier: string(base), TemplateArgs: args}, nil
	}

	if isDigit(b) {
		ident, err := cur.TakeLengthPrefixedIdentifier()
		if err != nil {
			return cxxast.NameSegment{}, wrapCursorErr(cur, err, "length-prefixed identifier")
		}
		return cxxast.NameSegment{Identifier: string(ident)}, nil
	}

	return cxxast.NameSegment{}, cxxast.NewParseError(cxxast.ErrMalformedName, cur.Position(), "expected digit or 't'")
}

// parseTemplateArg parses one template argument (spec §4.4 rule 4): a type
// argument (Z<type>), a typed value argument (<type>L<literal>), or the
// unsupported template-template-parameter form (X...).
func parseTemplateArg(cur *cursor.Cursor, st *State) (cxxast.TemplateArg, error) {
	b, ok := cur.Peek()
	if !ok {
		return cxxast.TemplateArg{}, cxxast.NewParseError(cxxast.ErrUnexpectedEnd, cur.Position(), "expected a template argument")
	}

	if b == 'Z' {
		cur.Take()
		t, err := parseType(cur, st)
		if err != nil {
			return cxxast.TemplateArg{}, err
		}
		return cxxast.TemplateArg{Type: t}, nil
	}

	if b == 'X' {
		return cxxast.TemplateArg{}, cxxast.NewParseError(cxxast.ErrUnsupportedFeature, cur.Position(), "X (template template-parameter)")
	}

	t, err := parseType(cur, st)
	if err != nil {
		return cxxast.TemplateArg{}, err
	}
	if !cur.TakeIf('L') {
		return cxxast.TemplateArg{}, cxxast.NewParseError(cxxast.ErrMalformedName, cur.Position(), "expected 'L' before template value literal")
	}
	raw, err := cur.TakeLengthPrefixedIdentifier()
	if err != nil {
		return cxxast.TemplateArg{}, wrapCursorErr(cur, err, "template value literal")
	}
	lit, err := interpretLiteral(t, raw, cur.Position())
	if err != nil {
		return cxxast.TemplateArg{}, err
	}
	return cxxast.TemplateArg{Type: t, Value: &lit}, nil
}

func interpretLiteral(t cxxast.Type, raw []byte, pos int) (cxxast.Literal, error) {
	s := string(raw)

	bt, isBuiltin := t.(*cxxast.BuiltinType)
	if !isBuiltin {
		return cxxast.Literal{Kind: cxxast.LiteralSymbol, Symbol: s}, nil
	}

	switch bt.Kind {
	case cxxast.Bool:
		return cxxast.Literal{Kind: cxxast.LiteralBool, Bool: s == "1"}, nil
	case cxxast.Char:
		if len(raw) != 1 {
			return cxxast.Literal{}, cxxast.NewParseError(cxxast.ErrMalformedName, pos, "character literal must be one byte")
		}
		return cxxast.Literal{Kind: cxxast.LiteralChar, Char: raw[0]}, nil
	default:
		neg := strings.HasPrefix(s, "m")
		if neg {
			s = s[1:]
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return cxxast.Literal{}, cxxast.NewParseError(cxxast.ErrMalformedName, pos, "invalid integer literal")
		}
		if neg {
			n = -n
		}
		return cxxast.Literal{Kind: cxxast.LiteralInt, Int: n}, nil
	}
}

func wrapCursorErr(cur *cursor.Cursor, err error, detail string) error {
	switch err {
	case cursor.ErrExpectedDigits:
		return cxxast.NewParseError(cxxast.ErrExpectedDigits, cur.Position(), detail)
	case cursor.ErrUnexpectedEnd:
		return cxxast.NewParseError(cxxast.ErrUnexpectedEnd, cur.Position(), detail)
	default:
		return err
	}
}
