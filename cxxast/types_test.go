package cxxast

import "testing"

func TestBuiltinString(t *testing.T) {
	if got := String(&BuiltinType{Kind: Int}); got != "int" {
		t.Fatalf("got %q, want %q", got, "int")
	}
}

func TestPointerToNamed(t *testing.T) {
	typ := &PointerType{Inner: &NamedType{Name: Name{Segments: []NameSegment{{Identifier: "ivInteractor"}}}}}
	want := "ivInteractor *"
	if got := String(typ); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPointerBackReferencedMarker(t *testing.T) {
	typ := &PointerType{Inner: &BuiltinType{Kind: Int}, WasBackReferenced: true}
	want := "int *&&"
	if got := String(typ); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestReferenceBackReferencedMarker(t *testing.T) {
	typ := &ReferenceType{Inner: &BuiltinType{Kind: Int}, WasBackReferenced: true}
	want := "int &&"
	if got := String(typ); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestArrayOfPointers(t *testing.T) {
	// int *[10] -- array of 10 pointers to int.
	typ := &ArrayType{
		Length: ArrayLength{Known: true, N: 10},
		Inner:  &PointerType{Inner: &BuiltinType{Kind: Int}},
	}
	want := "int *[10]"
	if got := String(typ); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPointerToArrayNeedsParens(t *testing.T) {
	// int (*)[10] -- pointer to an array of 10 ints.
	typ := &PointerType{Inner: &ArrayType{Length: ArrayLength{Known: true, N: 10}, Inner: &BuiltinType{Kind: Int}}}
	want := "int (*)[10]"
	if got := String(typ); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPointerToFunctionNeedsParens(t *testing.T) {
	// void (*)(int) -- pointer to a function taking int, returning void.
	typ := &PointerType{
		Inner: &FunctionType{
			Return: &BuiltinType{Kind: Void},
			Params: []Type{&BuiltinType{Kind: Int}},
		},
	}
	want := "void (*)(int)"
	if got := String(typ); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFunctionNoParamsIsVoid(t *testing.T) {
	typ := &FunctionType{Return: &BuiltinType{Kind: Void}}
	want := "void (void)"
	if got := String(typ); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestQualifiedPrefixOnPlainType(t *testing.T) {
	typ := &QualifiedType{Quals: Quals{Const: true}, Inner: &BuiltinType{Kind: Int}}
	want := "const int"
	if got := String(typ); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestQualifiedSuffixOnPointer(t *testing.T) {
	// int *const -- a const pointer to int, qualifier attaches to the
	// declarator rather than prefixing the base type.
	typ := &QualifiedType{Quals: Quals{Const: true}, Inner: &PointerType{Inner: &BuiltinType{Kind: Int}}}
	want := "int *const"
	if got := String(typ); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestQualsCanonicalOrder(t *testing.T) {
	q := Quals{Unsigned: true, Const: true, Volatile: true}
	want := "const volatile unsigned"
	if got := q.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNameQualifiedString(t *testing.T) {
	n := Name{Segments: []NameSegment{{Identifier: "CsColor"}, {Identifier: "Data"}}}
	want := "CsColor::Data"
	if got := n.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got := n.Base(); got != "Data" {
		t.Fatalf("Base() = %q, want %q", got, "Data")
	}
}

func TestNameSegmentWithTemplateArgs(t *testing.T) {
	seg := NameSegment{
		Identifier: "Stack",
		TemplateArgs: []TemplateArg{
			{Type: &NamedType{Name: Name{Segments: []NameSegment{{Identifier: "ivInteractor"}}}}},
		},
	}
	want := "Stack<ivInteractor>"
	if got := seg.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestLiteralRendering(t *testing.T) {
	tests := []struct {
		lit  Literal
		want string
	}{
		{Literal{Kind: LiteralBool, Bool: true}, "true"},
		{Literal{Kind: LiteralBool, Bool: false}, "false"},
		{Literal{Kind: LiteralChar, Char: 'x'}, "'x'"},
		{Literal{Kind: LiteralInt, Int: -5}, "-5"},
		{Literal{Kind: LiteralSymbol, Symbol: "&foo"}, "&foo"},
	}
	for _, tt := range tests {
		if got := tt.lit.String(); got != tt.want {
			t.Fatalf("Literal(%+v).String() = %q, want %q", tt.lit, got, tt.want)
		}
	}
}
