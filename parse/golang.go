package parse

import (
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
)

// parseGo lowers Go source to an *ast.File using the standard library
// parser, matching the teacher's inspector/golang package. go/parser
// already recovers from syntax errors (it keeps parsing and returns a
// best-effort *ast.File alongside an ErrorList), which is exactly the
// "preserve recognized subtrees, flag error regions" behavior spec.md
// §4.1 requires — so a syntax error here becomes ErrorSpans, not a
// returned error.
func parseGo(filePath string, source []byte) (*CST, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filePath, source, parser.ParseComments|parser.AllErrors)
	cst := &CST{Language: Go, FilePath: filePath, Source: source}
	if file != nil {
		cst.Root = &GoRoot{FileSet: fset, File: file}
	}
	if err == nil {
		return cst, nil
	}
	if list, ok := err.(scanner.ErrorList); ok {
		for _, e := range list {
			offset := e.Pos.Offset
			cst.ErrorSpans = append(cst.ErrorSpans, ErrorSpan{StartByte: offset, EndByte: offset, Message: e.Msg})
		}
		return cst, nil // recognized subtrees (if any) are preserved in cst.Root; errors are data, not a failure
	}
	if file == nil {
		return cst, nil
	}
	cst.ErrorSpans = append(cst.ErrorSpans, ErrorSpan{Message: err.Error()})
	return cst, nil
}

// GoRoot is the concrete root stored in CST.Root for Go sources.
type GoRoot struct {
	FileSet *token.FileSet
	File    *ast.File
}
