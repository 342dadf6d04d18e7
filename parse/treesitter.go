package parse

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
)

// grammarFor resolves the tree-sitter grammar for a language, matching
// analyzer/java_analyzer.go and analyzer/jsx_analyzer.go's per-language
// parser setup (the teacher's generic analyzer.go holds a single
// sitter.Parser configured via WithLanguage; here each language gets its
// own grammar since JSX is lowered with the JavaScript grammar carrying
// its own extension logic upstream in go-tree-sitter).
func grammarFor(language Language) *sitter.Language {
	switch language {
	case Java:
		return java.GetLanguage()
	case JSX, JavaScript:
		return javascript.GetLanguage()
	}
	return nil
}

// parseTreeSitter parses source with the tree-sitter grammar for
// language. tree-sitter is error-tolerant by construction: a malformed
// region becomes an ERROR node rather than aborting the whole parse, so
// we walk the tree once to collect those into ErrorSpans, preserving
// spec.md §4.1's "preserve recognized subtrees and flag error regions"
// contract without needing a second recovery pass.
func parseTreeSitter(filePath string, language Language, source []byte) (*CST, error) {
	grammar := grammarFor(language)
	p := sitter.NewParser()
	p.SetLanguage(grammar)
	tree, err := p.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, err
	}
	cst := &CST{Language: language, FilePath: filePath, Source: source, Root: tree.RootNode()}
	collectErrorSpans(tree.RootNode(), source, &cst.ErrorSpans)
	return cst, nil
}

func collectErrorSpans(n *sitter.Node, source []byte, out *[]ErrorSpan) {
	if n == nil {
		return
	}
	if n.IsError() || n.IsMissing() {
		*out = append(*out, ErrorSpan{
			StartByte: int(n.StartByte()),
			EndByte:   int(n.EndByte()),
			Message:   "unrecognized syntax: " + n.Type(),
		})
		return // don't descend into an error node's children individually
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		collectErrorSpans(n.Child(i), source, out)
	}
}
