package lower

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codegraphlabs/semcore/acquire"
	"github.com/codegraphlabs/semcore/ir"
	"github.com/codegraphlabs/semcore/parse"
)

// LowerJSX builds an IRDocument from a tree-sitter JavaScript/JSX CST.
// The teacher's own jsx_analyzer.go leaves tree-sitter JSX parsing as an
// explicit stub (a TODO, never wired up); this picks up that TODO rather
// than inventing something unrelated to imitate: the javascript grammar
// already parses JSX's superset cleanly, so the walk below treats
// .jsx/.tsx the same as plain JavaScript and simply ignores JSX element
// nodes it doesn't model (spec.md §4.1's tolerant-parse contract).
func LowerJSX(sf *acquire.SourceFile, cst *parse.CST, resolver *ImportResolver) *ir.Document {
	doc := ir.NewDocument(string(sf.Language), sf.FilePath)
	b := NewBuilder(doc)
	if cst == nil || cst.Root == nil {
		b.Defect("no tree-sitter root produced for JavaScript/JSX source", "File", ir.Location{FilePath: sf.FilePath})
		return doc
	}
	root, ok := cst.Root.(*sitter.Node)
	if !ok {
		b.Defect("unexpected CST root type for JavaScript/JSX source", "File", ir.Location{FilePath: sf.FilePath})
		return doc
	}

	fileNode := b.NewNode(ir.File, sf.FilePath, sf.FilePath, sf.ContentHash, "0", tsLoc(sf.FilePath, root))
	fqn := ir.NewFQNBuilder(moduleFQNRoot(sf.FilePath))

	jx := &jsxLowerer{b: b, doc: doc, source: cst.Source, sf: sf, resolver: resolver, fileNode: fileNode, exportFQNs: map[string]*ir.Node{}}
	jx.walkTopLevel(root, fqn)
	return doc
}

func moduleFQNRoot(filePath string) string {
	return filePath
}

type jsxLowerer struct {
	b          *Builder
	doc        *ir.Document
	source     []byte
	sf         *acquire.SourceFile
	resolver   *ImportResolver
	fileNode   *ir.Node
	exportFQNs map[string]*ir.Node
}

func (jx *jsxLowerer) walkTopLevel(root *sitter.Node, fqn *ir.FQNBuilder) {
	for _, c := range tsChildren(root) {
		jx.lowerStatement(c, fqn)
	}
}

func (jx *jsxLowerer) lowerStatement(n *sitter.Node, fqn *ir.FQNBuilder) {
	switch n.Type() {
	case "import_statement":
		jx.lowerImport(n)
	case "class_declaration":
		jx.lowerClass(n, fqn)
	case "function_declaration", "generator_function_declaration":
		jx.lowerFunction(n, fqn, jx.fileNode)
	case "lexical_declaration", "variable_declaration":
		jx.lowerVarDecl(n, fqn)
	case "export_statement":
		for _, c := range tsChildren(n) {
			jx.lowerStatement(c, fqn)
		}
	}
}

func (jx *jsxLowerer) lowerImport(n *sitter.Node) {
	path := ""
	for _, c := range tsChildren(n) {
		if c.Type() == "string" {
			path = trimQuotes(tsText(c, jx.source))
		}
	}
	resolved := jx.resolver.Resolve(path)
	imp := &ir.Import{ModulePath: path, IsExternal: resolved.IsExternal, Confidence: resolved.Confidence, Location: tsLoc(jx.sf.FilePath, n)}
	jx.doc.Imports = append(jx.doc.Imports, imp)
	pos := jx.b.NextPosition(jx.sf.FilePath, ir.Import)
	in := jx.b.NewNode(ir.Import, path, jx.sf.FilePath+".import."+pos, contentHashOf(jx.source[n.StartByte():n.EndByte()]), pos, imp.Location)
	in.SetAttr("path", path)
	in.SetAttr("isExternal", resolved.IsExternal)
	jx.b.AddEdge(jx.fileNode, in, ir.Imports, nil)
}

func (jx *jsxLowerer) lowerClass(n *sitter.Node, fqn *ir.FQNBuilder) {
	name := tsFieldText(n, "name", jx.source)
	var childFQN *ir.FQNBuilder
	if name == "" {
		childFQN = fqn.PushAnonymous("class")
		name = lastSegment(childFQN.FQN())
	} else {
		childFQN = fqn.Push(name)
	}
	full := childFQN.FQN()
	loc := tsLoc(jx.sf.FilePath, n)
	cn := jx.b.NewNode(ir.Class, name, full, contentHashOf(jx.source[n.StartByte():n.EndByte()]), jx.b.NextPosition(jx.sf.FilePath, ir.Class), loc)
	jx.b.AddEdge(jx.fileNode, cn, ir.Contains, nil)
	jx.exportFQNs[name] = cn
	sym := ir.NewUnifiedSymbol("javascript", "npm", "", "", jx.sf.RepoID, jx.sf.FilePath, full, ir.DescriptorType, full, "class")
	jx.doc.UnifiedSymbols = append(jx.doc.UnifiedSymbols, sym)

	if heritage := tsFieldText(n, "superclass", jx.source); heritage != "" {
		target := jx.b.NewNode(ir.Class, heritage, placeholderFQN(heritage), "", jx.b.NextPosition(heritage, ir.Class), loc)
		jx.b.AddEdge(cn, target, ir.Inherits, nil)
	}

	body := n.ChildByFieldName("body")
	for _, member := range tsChildren(body) {
		if member.Type() == "method_definition" {
			jx.lowerFunction(member, childFQN, cn)
		}
	}
}

func (jx *jsxLowerer) lowerFunction(n *sitter.Node, fqn *ir.FQNBuilder, owner *ir.Node) {
	name := tsFieldText(n, "name", jx.source)
	var childFQN *ir.FQNBuilder
	if name == "" {
		childFQN = fqn.PushAnonymous("lambda")
		name = lastSegment(childFQN.FQN())
	} else {
		childFQN = fqn.Push(name)
	}
	full := childFQN.FQN()
	loc := tsLoc(jx.sf.FilePath, n)
	kind := ir.Function
	if owner.Kind == ir.Class {
		kind = ir.Method
	}
	fn := jx.b.NewNode(kind, name, full, contentHashOf(jx.source[n.StartByte():n.EndByte()]), jx.b.NextPosition(owner.FQN, kind), loc)
	jx.b.AddEdge(owner, fn, ir.Contains, nil)
	jx.exportFQNs[name] = fn
	descKind := ir.DescriptorCallable
	languageKind := "function"
	if kind == ir.Method {
		languageKind = "method"
	}
	sym := ir.NewUnifiedSymbol("javascript", "npm", "", "", jx.sf.RepoID, jx.sf.FilePath, full, descKind, full, languageKind)
	jx.doc.UnifiedSymbols = append(jx.doc.UnifiedSymbols, sym)

	params := n.ChildByFieldName("parameters")
	for _, p := range tsChildren(params) {
		if p.Type() != "identifier" {
			continue
		}
		pname := tsText(p, jx.source)
		ploc := tsLoc(jx.sf.FilePath, p)
		pn := jx.b.NewNode(ir.Parameter, pname, full+"."+pname, contentHashOf(jx.source[p.StartByte():p.EndByte()]), jx.b.NextPosition(full, ir.Parameter), ploc)
		jx.b.AddEdge(fn, pn, ir.Contains, nil)
	}

	body := n.ChildByFieldName("body")
	jx.walkFunctionBody(body, fn)
}

func (jx *jsxLowerer) lowerVarDecl(n *sitter.Node, fqn *ir.FQNBuilder) {
	for _, c := range tsChildren(n) {
		if c.Type() != "variable_declarator" {
			continue
		}
		name := tsFieldText(c, "name", jx.source)
		if name == "" {
			continue
		}
		if value := c.ChildByFieldName("value"); value != nil && (value.Type() == "arrow_function" || value.Type() == "function") {
			jx.lowerFunction(value, fqn.Push(name), jx.fileNode)
			continue
		}
		loc := tsLoc(jx.sf.FilePath, c)
		childFQN := fqn.Push(name).FQN()
		vn := jx.b.NewNode(ir.Variable, name, childFQN, contentHashOf(jx.source[c.StartByte():c.EndByte()]), jx.b.NextPosition(jx.sf.FilePath, ir.Variable), loc)
		jx.b.AddEdge(jx.fileNode, vn, ir.Contains, nil)
	}
}

func (jx *jsxLowerer) walkFunctionBody(n *sitter.Node, owner *ir.Node) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "call_expression":
		jx.lowerCall(n, owner)
	case "return_statement":
		jx.lowerReturn(n, owner)
	}
	for _, c := range tsChildren(n) {
		jx.walkFunctionBody(c, owner)
	}
}

func (jx *jsxLowerer) lowerCall(n *sitter.Node, owner *ir.Node) {
	fn := n.ChildByFieldName("function")
	name := tsText(fn, jx.source)
	loc := tsLoc(jx.sf.FilePath, n)
	pos := jx.b.NextPosition(owner.FQN, ir.Call)
	cn := jx.b.NewNode(ir.Call, name, owner.FQN+".call$"+pos, contentHashOf(jx.source[n.StartByte():n.EndByte()]), pos, loc)
	cn.SetAttr("calleeName", name)
	jx.b.AddEdge(owner, cn, ir.Contains, nil)
	jx.b.AddEdge(owner, cn, ir.Calls, nil)
	if target, known := jx.exportFQNs[name]; known {
		cn.SetAttr("resolved", true)
		jx.b.AddEdge(owner, target, ir.Calls, map[string]interface{}{"via": cn.ID})
	} else {
		cn.SetAttr("resolved", false)
	}
}

func (jx *jsxLowerer) lowerReturn(n *sitter.Node, owner *ir.Node) {
	loc := tsLoc(jx.sf.FilePath, n)
	pos := jx.b.NextPosition(owner.FQN, ir.Return)
	rn := jx.b.NewNode(ir.Return, "return", owner.FQN+".return$"+pos, contentHashOf(jx.source[n.StartByte():n.EndByte()]), pos, loc)
	jx.b.AddEdge(owner, rn, ir.Returns, nil)
}
