package parse

import "fmt"

// Parse invokes the grammar matching language and returns a CST. Parse
// errors are local, not fatal (spec.md §4.1): a partially-recognized file
// still returns a CST with ErrorSpans flagged rather than an error, so the
// IR builder can still produce a partial document. Parse only returns an
// error for conditions that make lowering impossible outright (an
// unsupported language, or a tree-sitter parse that fails as a whole),
// matching the teacher's posture of wrapping
// hard I/O failures with fmt.Errorf while treating syntax recovery as data.
func Parse(filePath string, language Language, source []byte) (*CST, error) {
	switch language {
	case Go:
		return parseGo(filePath, source)
	case Java:
		return parseTreeSitter(filePath, Java, source)
	case JSX, JavaScript:
		return parseTreeSitter(filePath, language, source)
	default:
		return nil, fmt.Errorf("parse: unsupported language %q for %s", language, filePath)
	}
}
