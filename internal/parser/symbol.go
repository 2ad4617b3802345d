package parser

import (
	"strings"

	"github.com/abelbriggs1/gnu2-demangler/cxxast"
	"github.com/abelbriggs1/gnu2-demangler/internal/cursor"
)

// ParseSymbol is the C5 entry point: parse_symbol(bytes) -> CxxSymbol.
func ParseSymbol(input []byte) (*cxxast.CxxSymbol, error) {
	return parseSymbolBytes(input)
}

func parseSymbolBytes(s []byte) (*cxxast.CxxSymbol, error) {
	if sym, err, handled := tryParseSpecialPrefix(s); handled {
		return sym, err
	}

	if sym, err, tried := tryParseFunction(s); tried {
		return sym, err
	}

	return parseDataSymbol(s)
}

var namedGlobalPrefixes = []struct {
	prefix string
	dtor   bool
}{
	{"_GLOBAL_$I$", false},
	{"_GLOBAL_$D$", true},
	{"_GLOBAL_.I.", false},
	{"_GLOBAL_.D.", true},
}

// tryParseSpecialPrefix implements symbol-parser step 1 (spec §4.5). The
// bool result reports whether a special prefix matched at all; when true,
// the error (possibly nil) is the final result for the whole symbol.
func tryParseSpecialPrefix(s []byte) (*cxxast.CxxSymbol, error, bool) {
	str := string(s)

	switch {
	case strings.HasPrefix(str, "_vt$"), strings.HasPrefix(str, "_vt."):
		return parseVtable(s[4:])
	case strings.HasPrefix(str, "__vt_"):
		return parseVtable(s[5:])
	}

	for _, g := range namedGlobalPrefixes {
		if strings.HasPrefix(str, g.prefix) {
			return parseGlobalKey(s[len(g.prefix):], g.dtor)
		}
	}

	switch {
	case strings.HasPrefix(str, "__$_"):
		return parseDtorPrefix(s[4:])
	case strings.HasPrefix(str, "_$_"):
		return parseDtorPrefix(s[3:])
	}

	if strings.HasPrefix(str, "__thunk_") {
		return parseVthunk(s[8:])
	}

	switch {
	case strings.HasPrefix(str, "__tf"):
		sym, err := parseTypeinfo(s[4:], cxxast.KindTypeinfoFn)
		return sym, err, true
	case strings.HasPrefix(str, "__ti"):
		sym, err := parseTypeinfo(s[4:], cxxast.KindTypeinfoNode)
		return sym, err, true
	}

	return nil, nil, false
}

func parseVtable(rest []byte) (*cxxast.CxxSymbol, error, bool) {
	cur := cursor.New(rest)
	name, err := parseQualifiedName(cur, &State{})
	if err != nil {
		return nil, err, true
	}
	if !cur.EOF() {
		return nil, cxxast.NewParseError(cxxast.ErrTrailingGarbage, cur.Position(), ""), true
	}
	return &cxxast.CxxSymbol{
		Kind: cxxast.KindVtable,
		Name: name,
		Type: &cxxast.NamedType{Name: name},
	}, nil, true
}

func parseDtorPrefix(rest []byte) (*cxxast.CxxSymbol, error, bool) {
	cur := cursor.New(rest)
	name, err := parseQualifiedName(cur, &State{})
	if err != nil {
		return nil, err, true
	}
	if !cur.EOF() {
		return nil, cxxast.NewParseError(cxxast.ErrTrailingGarbage, cur.Position(), ""), true
	}
	return &cxxast.CxxSymbol{
		Kind:  cxxast.KindFunction,
		Name:  appendImplicitSegment(name),
		Type:  &cxxast.FunctionType{},
		Flags: cxxast.SpecialFlags{IsDestructor: true},
	}, nil, true
}

func parseGlobalKey(rest []byte, dtor bool) (*cxxast.CxxSymbol, error, bool) {
	inner, err := parseGlobalKeyInner(rest, dtor)
	if err != nil {
		return nil, err, true
	}
	kind := cxxast.KindGlobalCtorKey
	if dtor {
		kind = cxxast.KindGlobalDtorKey
	}
	return &cxxast.CxxSymbol{
		Kind:        kind,
		Name:        inner.Name,
		Type:        inner.Type,
		InnerSymbol: inner,
	}, nil, true
}

// parseGlobalKeyInner resolves the symbol a _GLOBAL_$I$/$D$ key registers.
// It first tries a full recursive parse (the remainder may itself be a fully
// mangled function, per spec §4.5 step 1). Failing that, the common case is
// a bare (possibly qualified) class name, which keys that class's implicit
// default constructor/destructor.
func parseGlobalKeyInner(rest []byte, dtor bool) (*cxxast.CxxSymbol, error) {
	if sym, err := parseSymbolBytes(rest); err == nil {
		return sym, nil
	}

	cur := cursor.New(rest)
	name, err := parseQualifiedName(cur, &State{})
	if err != nil {
		return nil, err
	}
	if !cur.EOF() {
		return nil, cxxast.NewParseError(cxxast.ErrTrailingGarbage, cur.Position(), "")
	}
	return cxxast.NewDefaultCtor(name, dtor), nil
}

func parseVthunk(rest []byte) (*cxxast.CxxSymbol, error, bool) {
	cur := cursor.New(rest)
	neg := cur.TakeIf('n')
	delta, err := cur.TakeDigits()
	if err != nil {
		return nil, cxxast.NewParseError(cxxast.ErrExpectedDigits, cur.Position(), "thunk delta"), true
	}
	if neg {
		delta = -delta
	}
	if !cur.TakeIf('_') {
		return nil, cxxast.NewParseError(cxxast.ErrExpectedDigits, cur.Position(), "expected '_' after thunk delta"), true
	}
	wrapped, err := cur.TakeN(cur.Remaining())
	if err != nil {
		return nil, cxxast.NewParseError(cxxast.ErrUnexpectedEnd, cur.Position(), "thunk target"), true
	}
	inner, err := parseSymbolBytes(wrapped)
	if err != nil {
		return nil, err, true
	}
	return &cxxast.CxxSymbol{
		Kind:        cxxast.KindVthunk,
		Name:        inner.Name,
		Type:        inner.Type,
		ThunkDelta:  delta,
		InnerSymbol: inner,
		Flags:       cxxast.SpecialFlags{IsVirtualThunk: true},
	}, nil, true
}

func parseTypeinfo(rest []byte, kind cxxast.SymbolKind) (*cxxast.CxxSymbol, error) {
	cur := cursor.New(rest)
	t, err := parseType(cur, &State{})
	if err != nil {
		return nil, err
	}
	if !cur.EOF() {
		return nil, cxxast.NewParseError(cxxast.ErrTrailingGarbage, cur.Position(), "")
	}
	name := cxxast.Name{Segments: []cxxast.NameSegment{{Identifier: cxxast.String(t)}}}
	if nt, ok := t.(*cxxast.NamedType); ok {
		name = nt.Name
	}
	return &cxxast.CxxSymbol{Kind: kind, Name: name, InnerType: t}, nil
}

func appendImplicitSegment(n cxxast.Name) cxxast.Name {
	segs := make([]cxxast.NameSegment, len(n.Segments)+1)
	copy(segs, n.Segments)
	segs[len(segs)-1] = cxxast.NameSegment{Identifier: ""}
	return cxxast.Name{Segments: segs}
}

func isValidNameStart(b byte) bool {
	return isDigit(b) || b == 'Q' || b == 'K' || b == 't' || b == 'F'
}

// findSplitCandidates returns, in left-to-right order, every index of a
// "__" occurrence immediately followed by a valid name-start byte (spec
// §4.5 step 2).
func findSplitCandidates(s []byte) []int {
	var idxs []int
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '_' && s[i+1] == '_' && i+2 < len(s) && isValidNameStart(s[i+2]) {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// tryParseFunction implements symbol-parser steps 2-4: it tries each
// candidate split leftmost-first, retrying further right on failure (the
// historical tool's retry-forward behavior). The third result reports
// whether at least one valid split position existed; when false, the
// caller falls through to data-symbol parsing (step 2's explicit rule).
func tryParseFunction(s []byte) (*cxxast.CxxSymbol, error, bool) {
	candidates := findSplitCandidates(s)
	if len(candidates) == 0 {
		return nil, nil, false
	}

	var lastErr error
	for _, idx := range candidates {
		base := s[:idx]
		rest := s[idx+2:]
		sym, err := buildFunctionSymbol(base, rest)
		if err == nil {
			return sym, nil, true
		}
		lastErr = err
	}
	return nil, lastErr, true
}

func buildFunctionSymbol(base, rest []byte) (*cxxast.CxxSymbol, error) {
	st := &State{}
	cur := cursor.New(rest)

	var scope cxxast.Name
	hasScope := false
	if b, ok := cur.Peek(); ok && (isDigit(b) || b == 'Q' || b == 'K' || b == 't') {
		name, err := parseQualifiedName(cur, st)
		if err != nil {
			return nil, err
		}
		scope = name
		hasScope = true
	}

	var flags cxxast.SpecialFlags
	for {
		b, ok := cur.Peek()
		if !ok {
			break
		}
		if b == 'C' {
			cur.Take()
			flags.IsConstMemberFn = true
			continue
		}
		if b == 'V' {
			cur.Take()
			flags.IsVolatileMemberFn = true
			continue
		}
		break
	}

	var templateArgs []cxxast.TemplateArg
	if b, ok := cur.Peek(); ok && b == 'H' {
		cur.Take()
		countByte, err := cur.Take()
		if err != nil || !isDigit(countByte) {
			return nil, cxxast.NewParseError(cxxast.ErrMalformedName, cur.Position(), "expected template argument count after 'H'")
		}
		n := int(countByte - '0')
		for i := 0; i < n; i++ {
			arg, err := parseTemplateArg(cur, st)
			if err != nil {
				return nil, err
			}
			templateArgs = append(templateArgs, arg)
		}
	}

	hasF := false
	if b, ok := cur.Peek(); ok && b == 'F' {
		cur.Take()
		hasF = true
	}

	var retType cxxast.Type
	var params []cxxast.Type
	var err error
	switch {
	case templateArgs != nil:
		// Template functions always encode their return type explicitly
		// (spec §4.5 step 4), so their F-form closes with '_' + return.
		if !hasF {
			return nil, cxxast.NewParseError(cxxast.ErrMalformedName, cur.Position(), "template function requires an explicit F...return form")
		}
		params, err = parseTopLevelParams(cur, st, true)
		if err != nil {
			return nil, err
		}
		retType, err = parseType(cur, st)
		if err != nil {
			return nil, err
		}
	default:
		// Ordinary (non-template) functions never encode a return type,
		// whether or not 'F' introduces the parameter list; the list simply
		// runs until the cursor is exhausted.
		params, err = parseTopLevelParams(cur, st, false)
		if err != nil {
			return nil, err
		}
	}

	if !cur.EOF() {
		return nil, cxxast.NewParseError(cxxast.ErrTrailingGarbage, cur.Position(), "")
	}

	baseSeg, flagDelta, err := classifyBaseIdentifier(base, scope, hasScope)
	if err != nil {
		return nil, err
	}
	flags.IsConstructor = flags.IsConstructor || flagDelta.IsConstructor
	flags.IsDestructor = flags.IsDestructor || flagDelta.IsDestructor
	baseSeg.TemplateArgs = templateArgs

	var segs []cxxast.NameSegment
	if hasScope {
		segs = append(append(segs, scope.Segments...), baseSeg)
	} else {
		segs = []cxxast.NameSegment{baseSeg}
	}

	return &cxxast.CxxSymbol{
		Kind:  cxxast.KindFunction,
		Name:  cxxast.Name{Segments: segs},
		Type:  &cxxast.FunctionType{Return: retType, Params: params},
		Flags: flags,
	}, nil
}

// classifyBaseIdentifier implements symbol-parser step 3: detect an
// operator name, a constructor, or fall back to a plain identifier segment.
func classifyBaseIdentifier(base []byte, scope cxxast.Name, hasScope bool) (cxxast.NameSegment, cxxast.SpecialFlags, error) {
	code := string(base)
	hasOperatorPrefix := len(base) >= 2 && base[0] == '_' && base[1] == '_'
	if hasOperatorPrefix {
		code = string(base[2:])
	}

	if hasOperatorPrefix && len(code) >= 2 && code[0] == 'o' && code[1] == 'p' {
		typeCur := cursor.New([]byte(code[2:]))
		target, err := parseType(typeCur, &State{})
		if err == nil && typeCur.EOF() {
			return cxxast.NameSegment{Identifier: "operator " + cxxast.String(target)}, cxxast.SpecialFlags{}, nil
		}
	}

	if hasOperatorPrefix {
		if info, ok := cxxast.LookupOperator(code); ok {
			return cxxast.NameSegment{Identifier: "operator" + info.Symbol}, cxxast.SpecialFlags{}, nil
		}
	}

	if hasScope && len(scope.Segments) > 0 {
		class := scope.Segments[len(scope.Segments)-1].Identifier
		if len(base) == 0 || string(base) == class {
			return cxxast.NameSegment{Identifier: ""}, cxxast.SpecialFlags{IsConstructor: true}, nil
		}
	}

	return cxxast.NameSegment{Identifier: string(base)}, cxxast.SpecialFlags{}, nil
}

// parseTopLevelParams parses a function's parameter list, where every
// resulting type is a top-level parameter eligible for T/N back-reference
// (spec §4.3 "Append-to-btypes policy"). When explicitTerminator is true,
// parsing stops at a top-level '_' (the F...-form); otherwise it stops at
// end of input (the implicit form).
func parseTopLevelParams(cur *cursor.Cursor, st *State, explicitTerminator bool) ([]cxxast.Type, error) {
	var params []cxxast.Type
	for {
		if explicitTerminator {
			if b, ok := cur.Peek(); ok && b == '_' {
				cur.Take()
				break
			}
			if cur.EOF() {
				return nil, cxxast.NewParseError(cxxast.ErrUnexpectedEnd, cur.Position(), "expected '_' to close F parameter list")
			}
		} else if cur.EOF() {
			break
		}

		b, _ := cur.Peek()
		if b == 'e' {
			return nil, cxxast.NewParseError(cxxast.ErrUnsupportedFeature, cur.Position(), "e (ellipsis)")
		}
		if b == 'N' {
			cur.Take()
			countByte, err := cur.Take()
			if err != nil || !isDigit(countByte) {
				return nil, cxxast.NewParseError(cxxast.ErrMalformedName, cur.Position(), "expected repeat count after 'N'")
			}
			// A multi-digit count is written as a digit run closed by '_'
			// (e.g. "N12_1"); a digit run with no '_' after it is the index.
			run := 0
			for {
				nb, ok := cur.PeekAt(run)
				if !ok || !isDigit(nb) {
					break
				}
				run++
			}
			if nb, ok := cur.PeekAt(run); run > 0 && ok && nb == '_' {
				return nil, cxxast.NewParseError(cxxast.ErrUnsupportedFeature, cur.Position(), "multi-digit N repeat count")
			}
			count := int(countByte - '0')
			idx, err := cur.TakeDigits()
			if err != nil {
				return nil, cxxast.NewParseError(cxxast.ErrExpectedDigits, cur.Position(), "N repeat back-reference index")
			}
			t, ok := st.btype(idx)
			if !ok {
				return nil, cxxast.NewParseError(cxxast.ErrBackRefOutOfRange, cur.Position(), "N"+itoaDigits(idx))
			}
			for i := 0; i < count; i++ {
				params = append(params, t)
				st.appendBtype(t)
			}
			continue
		}

		t, err := parseType(cur, st)
		if err != nil {
			return nil, err
		}
		params = append(params, t)
		st.appendBtype(t)
	}
	return params, nil
}

func parseDataSymbol(s []byte) (*cxxast.CxxSymbol, error) {
	cur := cursor.New(s)
	st := &State{}
	name, err := parseQualifiedName(cur, st)
	if err != nil {
		return nil, err
	}
	typ, err := parseType(cur, st)
	if err != nil {
		return nil, err
	}
	if !cur.EOF() {
		return nil, cxxast.NewParseError(cxxast.ErrTrailingGarbage, cur.Position(), "")
	}
	return &cxxast.CxxSymbol{Kind: cxxast.KindData, Name: name, Type: typ}, nil
}
