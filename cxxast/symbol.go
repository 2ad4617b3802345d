package cxxast

import "strings"

// SymbolKind is the closed set of symbol kinds a mangled name can decode to.
type SymbolKind int

const (
	KindFunction SymbolKind = iota
	KindData
	KindVtable
	KindVthunk
	KindGlobalCtorKey
	KindGlobalDtorKey
	KindTypeinfoNode
	KindTypeinfoFn
	KindGuardVariable
)

// SpecialFlags is the bitset of qualifiers a CxxSymbol may carry.
type SpecialFlags struct {
	IsConstructor      bool
	IsDestructor       bool
	IsVirtualThunk     bool
	IsStaticMemberFn   bool
	IsConstMemberFn    bool
	IsVolatileMemberFn bool
}

// CxxSymbol is the root AST output of parsing one mangled symbol.
type CxxSymbol struct {
	Kind  SymbolKind
	Name  Name
	Type  Type // Function for function-like kinds; the owning class as a Named type for vtable/global keys; the declared type for data
	Flags SpecialFlags

	ThunkDelta int // valid only when Kind == KindVthunk

	// InnerSymbol holds the wrapped symbol for KindVthunk, KindGlobalCtorKey,
	// and KindGlobalDtorKey.
	InnerSymbol *CxxSymbol

	// InnerType holds the referenced type for KindTypeinfoNode and
	// KindTypeinfoFn.
	InnerType Type
}

func (s *CxxSymbol) String() string {
	switch s.Kind {
	case KindVtable:
		return s.Name.String() + " virtual table"
	case KindVthunk:
		return itoa(s.ThunkDelta) + " virtual thunk to " + s.InnerSymbol.String()
	case KindGlobalCtorKey:
		return "global constructors keyed to " + s.InnerSymbol.String()
	case KindGlobalDtorKey:
		return "global destructors keyed to " + s.InnerSymbol.String()
	case KindTypeinfoNode:
		return String(s.InnerType) + " type_info node"
	case KindTypeinfoFn:
		return String(s.InnerType) + " type_info function"
	case KindGuardVariable:
		return "guard variable for " + s.Name.String()
	case KindData:
		return s.dataString()
	default:
		return s.functionString()
	}
}

func (s *CxxSymbol) qualifierPrefix() string {
	if len(s.Name.Segments) <= 1 {
		return ""
	}
	scope := Name{Segments: s.Name.Segments[:len(s.Name.Segments)-1]}
	return scope.String() + "::"
}

// enclosingClass returns the identifier of the segment that names the class
// a constructor/destructor belongs to: the segment just before the implicit,
// empty innermost segment invariant 4 describes.
func (s *CxxSymbol) enclosingClass() string {
	n := len(s.Name.Segments)
	if n == 0 {
		return ""
	}
	if n == 1 {
		return s.Name.Segments[0].Identifier
	}
	return s.Name.Segments[n-2].Identifier
}

func (s *CxxSymbol) paramsString() string {
	fn, ok := s.Type.(*FunctionType)
	if !ok {
		return "(void)"
	}
	if len(fn.Params) == 0 {
		return "(void)"
	}
	parts := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		parts[i] = String(p)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (s *CxxSymbol) functionString() string {
	var b strings.Builder

	if s.Flags.IsStaticMemberFn {
		b.WriteString("static ")
	}

	fn, _ := s.Type.(*FunctionType)
	if fn != nil && fn.Return != nil && !s.Flags.IsConstructor && !s.Flags.IsDestructor {
		b.WriteString(String(fn.Return))
		b.WriteByte(' ')
	}

	b.WriteString(s.qualifierPrefix())
	switch {
	case s.Flags.IsConstructor:
		b.WriteString(s.enclosingClass())
	case s.Flags.IsDestructor:
		b.WriteByte('~')
		b.WriteString(s.enclosingClass())
	default:
		b.WriteString(s.Name.Base())
	}
	b.WriteString(s.paramsString())

	if s.Flags.IsConstMemberFn {
		b.WriteString(" const")
	}
	if s.Flags.IsVolatileMemberFn {
		b.WriteString(" volatile")
	}
	return b.String()
}

func (s *CxxSymbol) dataString() string {
	var b strings.Builder
	if s.Flags.IsStaticMemberFn {
		b.WriteString("static ")
	}
	if s.Type != nil {
		b.WriteString(String(s.Type))
		b.WriteByte(' ')
	}
	b.WriteString(s.Name.String())
	return b.String()
}

// NewDefaultCtor synthesizes the implicit, no-argument constructor call for
// className — used to render a _GLOBAL_$I$/$D$ key's remainder when that
// remainder is a bare class name rather than a fully mangled function (the
// common case: compiler-generated static-init registration keys the
// class's default constructor/destructor, not an explicitly named one).
func NewDefaultCtor(class Name, destructor bool) *CxxSymbol {
	segs := append(append([]NameSegment{}, class.Segments...), NameSegment{Identifier: ""})
	flags := SpecialFlags{IsConstructor: true}
	if destructor {
		flags = SpecialFlags{IsDestructor: true}
	}
	return &CxxSymbol{
		Kind:  KindFunction,
		Name:  Name{Segments: segs},
		Type:  &FunctionType{},
		Flags: flags,
	}
}
