// Package cxxast holds the tagged-variant AST produced by parsing a GNU v2
// mangled C++ symbol, along with the pretty-printer that renders it back as
// a C++ declaration.
//
// The AST is immutable once constructed: every node is built during a single
// parse and is safe to share and read concurrently afterward.
package cxxast

import "strings"

// Type is a C++ type: a builtin, a named (user-defined) type, or a
// pointer/reference/array/function/qualified composition of one.
//
// declare renders the type as a C declarator around an existing "core"
// declarator fragment (an already-rendered pointer/array/function suffix, or
// the empty string for a bare type). This is the standard inside-out
// declarator algorithm: each wrapping Type prepends or appends to core
// according to its own precedence before delegating to its inner Type.
type Type interface {
	declare(core string) string
}

// String renders t as a standalone C++ type name.
func String(t Type) string {
	if t == nil {
		return ""
	}
	return t.declare("")
}

// BuiltinKind enumerates the fixed set of GNU v2 fundamental types.
type BuiltinKind int

const (
	Void BuiltinKind = iota
	Bool
	Char
	SChar
	UChar
	WChar
	Short
	UShort
	Int
	UInt
	Long
	ULong
	LongLong
	ULongLong
	Float
	Double
	LongDouble
	Ellipsis // the "..." varargs sentinel; never wrapped in Qualified.
)

var builtinNames = map[BuiltinKind]string{
	Void:       "void",
	Bool:       "bool",
	Char:       "char",
	SChar:      "signed char",
	UChar:      "unsigned char",
	WChar:      "wchar_t",
	Short:      "short",
	UShort:     "unsigned short",
	Int:        "int",
	UInt:       "unsigned int",
	Long:       "long",
	ULong:      "unsigned long",
	LongLong:   "long long",
	ULongLong:  "unsigned long long",
	Float:      "float",
	Double:     "double",
	LongDouble: "long double",
	Ellipsis:   "...",
}

// BuiltinType is a fundamental C++ type.
type BuiltinType struct {
	Kind BuiltinKind
}

func (b *BuiltinType) declare(core string) string {
	name := builtinNames[b.Kind]
	if core == "" {
		return name
	}
	return name + " " + core
}

// NamedType references a user-defined class/struct/enum/typedef, possibly
// qualified and/or templated.
type NamedType struct {
	Name Name
}

func (n *NamedType) declare(core string) string {
	name := n.Name.String()
	if core == "" {
		return name
	}
	return name + " " + core
}

// PointerType is "inner *". WasBackReferenced mirrors ReferenceType's flag
// of the same name: set when this occurrence came from a T-code rather than
// a freshly parsed "P" encoding, so the printer can append the historical
// "&&" in-band marker (see ReferenceType).
type PointerType struct {
	Inner             Type
	WasBackReferenced bool
}

func (p *PointerType) declare(core string) string {
	marker := "*"
	if p.WasBackReferenced {
		marker = "*&&"
	}
	return p.Inner.declare(wrapDeclarator(p.Inner, marker+core))
}

// ReferenceType is "inner &". WasBackReferenced marks that this occurrence
// was produced by a T-code back-reference rather than by reading a fresh
// reference encoding; the printer renders that case as "&&" to match the
// historical tool's idiosyncratic in-band marker (see §4.3 in the spec) —
// this is purely a rendering hint and is not a real C++ rvalue reference.
type ReferenceType struct {
	Inner              Type
	WasBackReferenced  bool
}

func (r *ReferenceType) declare(core string) string {
	marker := "&"
	if r.WasBackReferenced {
		marker = "&&"
	}
	return r.Inner.declare(wrapDeclarator(r.Inner, marker+core))
}

// RValueReferenceType is "inner &&". The parser produces it for a fresh 'O'
// encoding, and for a T-code back-reference to a parameter that is not a
// pointer or reference (e.g. a back-referenced builtin), where it carries
// the same "&&" in-band marker ReferenceType describes.
type RValueReferenceType struct {
	Inner Type
}

func (r *RValueReferenceType) declare(core string) string {
	return r.Inner.declare(wrapDeclarator(r.Inner, "&&"+core))
}

// ArrayLength is a non-negative array length, or "unknown" when the length
// was omitted (A_ rather than A<n>_).
type ArrayLength struct {
	Known bool
	N     int
}

// ArrayType is "inner[N]" or "inner[]" when the length is unknown.
type ArrayType struct {
	Length ArrayLength
	Inner  Type
}

func (a *ArrayType) declare(core string) string {
	suffix := "[]"
	if a.Length.Known {
		suffix = "[" + itoa(a.Length.N) + "]"
	}
	return a.Inner.declare(core + suffix)
}

// FunctionType is a function's parameter list and optional return type.
type FunctionType struct {
	Return     Type // nil when unspecified (conventional for non-template functions)
	Params     []Type
	IsVariadic bool
}

func (f *FunctionType) declare(core string) string {
	var parts []string
	for _, p := range f.Params {
		parts = append(parts, String(p))
	}
	if len(parts) == 0 {
		parts = append(parts, "void")
	}
	if f.IsVariadic {
		parts = append(parts, "...")
	}
	full := core + "(" + strings.Join(parts, ", ") + ")"
	if f.Return == nil {
		return full
	}
	return f.Return.declare(full)
}

// Quals is the set of CV-qualifiers (plus the GNU sign toggle) a type may
// carry. Per invariant 5, CV-qualifiers never nest: repeated qualification
// is folded into the union of flags on a single Qualified wrapper.
//
// Canonical print order (an Open Question in the spec, decided here): const,
// volatile, then the sign toggle, e.g. "const unsigned int", never
// "unsigned const int".
type Quals struct {
	Const    bool
	Volatile bool
	Unsigned bool
	Signed   bool
}

func (q Quals) String() string {
	var parts []string
	if q.Const {
		parts = append(parts, "const")
	}
	if q.Volatile {
		parts = append(parts, "volatile")
	}
	if q.Unsigned {
		parts = append(parts, "unsigned")
	}
	if q.Signed {
		parts = append(parts, "signed")
	}
	return strings.Join(parts, " ")
}

// Empty reports whether no qualifier bit is set.
func (q Quals) Empty() bool {
	return !q.Const && !q.Volatile && !q.Unsigned && !q.Signed
}

// Merge returns the union of q and other.
func (q Quals) Merge(other Quals) Quals {
	return Quals{
		Const:    q.Const || other.Const,
		Volatile: q.Volatile || other.Volatile,
		Unsigned: q.Unsigned || other.Unsigned,
		Signed:   q.Signed || other.Signed,
	}
}

// QualifiedType is an inner Type plus the CV-qualifiers (and GNU sign
// toggle) it carries.
type QualifiedType struct {
	Quals Quals
	Inner Type
}

func (qt *QualifiedType) declare(core string) string {
	if qt.Quals.Empty() {
		return qt.Inner.declare(core)
	}
	switch qt.Inner.(type) {
	case *PointerType, *ReferenceType, *RValueReferenceType, *ArrayType, *FunctionType:
		// Qualifiers on a pointer/reference/array/function attach to the
		// declarator itself, printed right after it: "int *const".
		newCore := qt.Quals.String()
		if core != "" {
			newCore = newCore + " " + core
		}
		return qt.Inner.declare(newCore)
	default:
		// Qualifiers on a plain/named base type are a prefix: "const int".
		return qt.Quals.String() + " " + qt.Inner.declare(core)
	}
}

// wrapDeclarator parenthesizes marker when inner binds more tightly than a
// pointer/reference declarator (arrays and functions), matching the
// classic clockwise-spiral precedence rule.
func wrapDeclarator(inner Type, marker string) string {
	switch inner.(type) {
	case *ArrayType, *FunctionType:
		return "(" + marker + ")"
	default:
		return marker
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
