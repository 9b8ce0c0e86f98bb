package reporting

import "strings"

// Translation is a beginner-friendly reading of a compiler diagnostic.
type Translation struct {
	Pattern     string
	Title       string
	Explanation string
}

// translationRules are checked in order; the first pattern found in the
// excerpt wins. MSVC codes come first since the Windows harness uses cl.exe.
var translationRules = []Translation{
	{
		Pattern:     "error C2143",
		Title:       "Syntax error: missing ';' or malformed statement",
		Explanation: "The code is not grammatically valid at this point. The most common cause is a missing semicolon at the end of a statement. Check the reported line and the line just above it.",
	},
	{
		Pattern:     "error C2065",
		Title:       "Undeclared identifier",
		Explanation: "A variable or function name is used before it was declared. Look for typos, or declare it first. For 'cout' and 'cin' you usually need '#include <iostream>' and 'std::'.",
	},
	{
		Pattern:     "error LNK2019",
		Title:       "Link error: unresolved external symbol",
		Explanation: "A function is declared and called, but never defined. Check the function name for typos and make sure its body exists.",
	},
	{
		Pattern:     "error C2664",
		Title:       "Type error: wrong function argument",
		Explanation: "A function was called with an argument of the wrong type, for example a string where a number is expected. Check the parameter types of the function.",
	},
	{
		Pattern:     "error C2039",
		Title:       "Member access error",
		Explanation: "The code accesses a member that the class or struct does not have. Check the member name and whether it is public. Use '->' instead of '.' when accessing through a pointer.",
	},
	{
		Pattern:     "error C2059",
		Title:       "Syntax error",
		Explanation: "The code is not grammatically valid. Brackets '{', '(', '}', ')' may be unbalanced or a keyword may be misused. Start from the position the message reports.",
	},
	{
		Pattern:     "expected ';'",
		Title:       "Syntax error: missing ';' or malformed statement",
		Explanation: "The compiler expected a semicolon. Check the end of the reported line and the line above it.",
	},
	{
		Pattern:     "was not declared in this scope",
		Title:       "Undeclared identifier",
		Explanation: "A variable or function name is used where it is not visible. Look for typos, a missing declaration or a missing #include.",
	},
	{
		Pattern:     "use of undeclared identifier",
		Title:       "Undeclared identifier",
		Explanation: "A variable or function name is used where it is not visible. Look for typos, a missing declaration or a missing #include.",
	},
	{
		Pattern:     "undefined reference to",
		Title:       "Link error: unresolved external symbol",
		Explanation: "A function is declared and called, but never defined. Check the function name for typos and make sure its body exists.",
	},
	{
		Pattern:     "no matching function for call",
		Title:       "Type error: wrong function argument",
		Explanation: "No overload of the called function accepts these argument types. Compare the arguments with the function's parameters.",
	},
	{
		Pattern:     "no member named",
		Title:       "Member access error",
		Explanation: "The code accesses a member that the class or struct does not have. Check the member name, and use '->' when accessing through a pointer.",
	},
}

// TranslateBuildError finds the first known diagnostic in excerpt. Unknown
// errors return false and should be shown as they are.
func TranslateBuildError(excerpt string) (Translation, bool) {
	for _, rule := range translationRules {
		if strings.Contains(excerpt, rule.Pattern) {
			return rule, true
		}
	}
	return Translation{}, false
}
