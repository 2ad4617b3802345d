package parser

import (
	"errors"
	"testing"

	"github.com/abelbriggs1/gnu2-demangler/cxxast"
)

// Scenarios S1-S5 from the demangler's worked examples (S6, the no-split
// echo case, is TestParseSymbolS6NoValidSplit below).
func TestParseSymbolScenarios(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"S1 free function void params", "saveOnQuitOverlay__Fv", "saveOnQuitOverlay(void)", true},
		{"S2 member function one pointer param", "BgFilter__9ivTSolverP12ivInteractor", "ivTSolver::BgFilter(ivInteractor *)", true},
		{"S3 member function mixed params", "AddAlignment__9ivTSolverUiP12ivInteractorP7ivTGlue", "ivTSolver::AddAlignment(unsigned int, ivInteractor *, ivTGlue *)", true},
		{"S5 global constructor key", "_GLOBAL_$I$__Q27CsColor4Data", "global constructors keyed to CsColor::Data::Data(void)", true},
		{"S4 rvalue reference param", "GetBarInfo__15iv2_6_VScrollerP13ivPerspectiveOiT2", "iv2_6_VScroller::GetBarInfo(ivPerspective *, int &&, int &&)", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sym, err := ParseSymbol([]byte(tt.input))
			if tt.wantOK {
				if err != nil {
					t.Fatalf("ParseSymbol(%q): unexpected error: %v", tt.input, err)
				}
				if got := sym.String(); got != tt.want {
					t.Fatalf("ParseSymbol(%q).String() = %q, want %q", tt.input, got, tt.want)
				}
				return
			}
			if err == nil {
				t.Fatalf("ParseSymbol(%q): expected error, got %q", tt.input, sym.String())
			}
		})
	}
}

// S4's 'O' type code decodes as an rvalue-reference type prefix (see
// DESIGN.md), and the T2 back-reference to that second parameter reuses the
// same RValueReferenceType rather than wrapping it a second time.
func TestParseSymbolS4RValueReferenceCode(t *testing.T) {
	sym, err := ParseSymbol([]byte("GetBarInfo__15iv2_6_VScrollerP13ivPerspectiveOiT2"))
	if err != nil {
		t.Fatalf("ParseSymbol: %v", err)
	}
	fn, ok := sym.Type.(*cxxast.FunctionType)
	if !ok || len(fn.Params) != 3 {
		t.Fatalf("Type = %#v, want a *cxxast.FunctionType with 3 params", sym.Type)
	}
	for _, i := range []int{1, 2} {
		if _, ok := fn.Params[i].(*cxxast.RValueReferenceType); !ok {
			t.Fatalf("param %d is %T, want *cxxast.RValueReferenceType", i+1, fn.Params[i])
		}
	}
}

// S6: no valid name-start character follows the only "__" in the input, so
// there is no valid split and the fallback data-symbol parse also fails --
// the whole symbol fails to parse, which at the Demangle layer becomes an
// echo of the original input.
func TestParseSymbolS6NoValidSplit(t *testing.T) {
	if _, err := ParseSymbol([]byte("aa__aa")); err == nil {
		t.Fatal("expected a parse error for \"aa__aa\"")
	}
}

// The conversion-operator boundary case from §8: "__opi__1X" should parse
// as class X's operator-int conversion function.
func TestParseSymbolConversionOperator(t *testing.T) {
	sym, err := ParseSymbol([]byte("__opi__1X"))
	if err != nil {
		t.Fatalf("ParseSymbol: %v", err)
	}
	want := "X::operator int(void)"
	if got := sym.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestParseSymbolBoundaryEmptyInput(t *testing.T) {
	_, err := ParseSymbol(nil)
	if err == nil {
		t.Fatal("expected an error for empty input")
	}
	var pe *cxxast.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error is not a *cxxast.ParseError: %v", err)
	}
	if !errors.Is(err, cxxast.ErrUnexpectedEnd) {
		t.Fatalf("got %v, want ErrUnexpectedEnd", pe.Err)
	}
}

func TestParseSymbolBoundaryLengthPrefixTooLong(t *testing.T) {
	_, err := ParseSymbol([]byte("99short"))
	if !errors.Is(err, cxxast.ErrUnexpectedEnd) {
		t.Fatalf("got %v, want ErrUnexpectedEnd", err)
	}
}

func TestParseSymbolBoundaryQCountZero(t *testing.T) {
	_, err := ParseSymbol([]byte("_vt$Q0"))
	if !errors.Is(err, cxxast.ErrMalformedName) {
		t.Fatalf("got %v, want ErrMalformedName", err)
	}
}

func TestParseSymbolBoundaryBackRefOutOfRange(t *testing.T) {
	// T1 as the sole parameter, with nothing yet in btypes to reference.
	_, err := ParseSymbol([]byte("f__FT1"))
	if !errors.Is(err, cxxast.ErrBackRefOutOfRange) {
		t.Fatalf("got %v, want ErrBackRefOutOfRange", err)
	}
}

func TestVtableSymbol(t *testing.T) {
	sym, err := ParseSymbol([]byte("_vt$9ivTSolver"))
	if err != nil {
		t.Fatalf("ParseSymbol: %v", err)
	}
	if sym.Kind != cxxast.KindVtable {
		t.Fatalf("Kind = %v, want KindVtable", sym.Kind)
	}
	want := "ivTSolver virtual table"
	if got := sym.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBackReferencedParameter(t *testing.T) {
	// Two ivInteractor* params, the second a T-code back-reference to the
	// first; the printer renders the back-referenced occurrence with the
	// documented "&&" marker.
	sym, err := ParseSymbol([]byte("f__FP12ivInteractorT1"))
	if err != nil {
		t.Fatalf("ParseSymbol: %v", err)
	}
	fn, ok := sym.Type.(*cxxast.FunctionType)
	if !ok {
		t.Fatalf("Type is %T, want *cxxast.FunctionType", sym.Type)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("got %d params, want 2", len(fn.Params))
	}
	want := "f(ivInteractor *, ivInteractor *&&)"
	if got := sym.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
