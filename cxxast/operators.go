package cxxast

// VariadicArity marks an operator whose argument count is not fixed (the
// call and new/new[] forms): the demangler does not need an arity to
// render these, only the symbol.
const VariadicArity = -1

// OperatorInfo describes one mangled operator code: its printable C++
// symbol and the number of operands it conventionally takes. Ambiguities
// between e.g. prefix and postfix "++" are not encoded in the mangling and
// are not disambiguated here — both render as the same canonical symbol,
// per spec §4.2.
type OperatorInfo struct {
	Symbol string
	Arity  int
}

// operatorTable is the static bidirectional map between two-letter (or
// three-letter assignment) mangled operator codes and their printable
// forms, grounded on the OPERATORS table in
// original_source/gnu2_demangler/demangler.py. It covers the operators
// spec.md §4.2 calls out by name plus the GNU extensions the original
// recognizes beyond that illustrative list (max/min expressions and
// sizeof-as-operator).
var operatorTable = map[string]OperatorInfo{
	"nw":  {"new", VariadicArity},
	"dl":  {"delete", 1},
	"vn":  {"new[]", VariadicArity},
	"vd":  {"delete[]", 1},
	"pl":  {"+", 2},
	"mi":  {"-", 2},
	"ml":  {"*", 2},
	"dv":  {"/", 2},
	"md":  {"%", 2},
	"mm":  {"--", 1},
	"pp":  {"++", 1},
	"aS":  {"=", 2},
	"apl": {"+=", 2},
	"ami": {"-=", 2},
	"amu": {"*=", 2},
	"adv": {"/=", 2},
	"amd": {"%=", 2},
	"aad": {"&=", 2},
	"aor": {"|=", 2},
	"aer": {"^=", 2},
	"als": {"<<=", 2},
	"ars": {">>=", 2},
	"eq":  {"==", 2},
	"ne":  {"!=", 2},
	"lt":  {"<", 2},
	"gt":  {">", 2},
	"le":  {"<=", 2},
	"ge":  {">=", 2},
	"nt":  {"!", 1},
	"co":  {"~", 1},
	"aa":  {"&&", 2},
	"oo":  {"||", 2},
	"an":  {"&", 2},
	"or":  {"|", 2},
	"er":  {"^", 2},
	"ls":  {"<<", 2},
	"rs":  {">>", 2},
	"rm":  {"->*", 2},
	"rf":  {"->", 1},
	"cl":  {"()", VariadicArity},
	"vc":  {"[]", 2},
	"cm":  {",", 2},
	"ng":  {"-", 1}, // unary negate; "mi" covers the binary form
	"ps":  {"+", 1}, // unary plus
	"mx":  {">?", 2},      // GNU max-expression extension
	"mn":  {"<?", 2},      // GNU min-expression extension
	"sz":  {"sizeof", 1},  // GNU sizeof-as-operator extension
	"cn":  {"?:", 3},      // GNU conditional-operator extension
}

var operatorBySymbol = func() map[string]string {
	m := make(map[string]string, len(operatorTable))
	for code, info := range operatorTable {
		if _, exists := m[info.Symbol]; !exists {
			m[info.Symbol] = code
		}
	}
	return m
}()

// LookupOperator returns the OperatorInfo for a mangled code, and false if
// the code is not in the table.
func LookupOperator(code string) (OperatorInfo, bool) {
	info, ok := operatorTable[code]
	return info, ok
}

// OperatorCodeFor returns the mangled code for a printable operator symbol
// (the reverse of LookupOperator), and false if no operator renders as sym.
func OperatorCodeFor(sym string) (string, bool) {
	code, ok := operatorBySymbol[sym]
	return code, ok
}
