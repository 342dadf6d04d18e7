package lower

import (
	"fmt"
	"go/ast"
	"go/token"

	"github.com/codegraphlabs/semcore/acquire"
	"github.com/codegraphlabs/semcore/ir"
	"github.com/codegraphlabs/semcore/parse"
)

// LowerGo builds an IRDocument from a parsed Go file, matching
// inspector/golang's native-AST approach rather than tree-sitter (the
// teacher's own golang_analyzer.go reaches for go/ast when the source is
// plain Go for the same reason: the standard library's resolution
// already understands Go's scoping rules better than a generic grammar
// walk would). It implements spec.md §4.2 in full: FQN construction,
// stable-ID nodes, expression lowering, import resolution and
// UnifiedSymbol emission.
func LowerGo(sf *acquire.SourceFile, root *parse.GoRoot, resolver *ImportResolver) *ir.Document {
	doc := ir.NewDocument(string(parse.Go), sf.FilePath)
	b := NewBuilder(doc)
	if root == nil || root.File == nil {
		b.Defect("no AST produced for Go source", "File", ir.Location{FilePath: sf.FilePath})
		return doc
	}

	pkgName := "main"
	if root.File.Name != nil {
		pkgName = root.File.Name.Name
	}

	fileLoc := spanLoc(root.FileSet, sf.FilePath, root.File.Pos(), root.File.End())
	fileNode := b.NewNode(ir.File, sf.FilePath, sf.FilePath, sf.ContentHash, "0", fileLoc)

	fqn := ir.NewFQNBuilder(pkgName)

	g := &goLowerer{
		b:        b,
		doc:      doc,
		fset:     root.FileSet,
		sf:       sf,
		resolver: resolver,
		pkgName:  pkgName,
		fileNode: fileNode,
		funcFQNs: map[string]*ir.Node{},
	}

	g.lowerImports(root.File)

	// First pass: register every top-level func/method FQN so call-site
	// lowering can attempt same-file resolution regardless of declaration
	// order (spec.md §4.2 names this as best-effort, not guaranteed).
	for _, decl := range root.File.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok {
			g.registerFuncFQN(fn, fqn)
		}
	}

	for _, decl := range root.File.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			g.lowerGenDecl(d, fqn)
		case *ast.FuncDecl:
			g.lowerFuncDecl(d, fqn)
		}
	}

	return doc
}

type goLowerer struct {
	b        *Builder
	doc      *ir.Document
	fset     *token.FileSet
	sf       *acquire.SourceFile
	resolver *ImportResolver
	pkgName  string
	fileNode *ir.Node
	funcFQNs map[string]*ir.Node // bare function/method name -> node, populated once lowered
}

func spanLoc(fset *token.FileSet, filePath string, start, end token.Pos) ir.Location {
	loc := ir.Location{FilePath: filePath}
	if fset == nil {
		return loc
	}
	sp := fset.Position(start)
	ep := fset.Position(end)
	loc.StartByte, loc.StartLine, loc.StartCol = sp.Offset, sp.Line, sp.Column
	loc.EndByte, loc.EndLine, loc.EndCol = ep.Offset, ep.Line, ep.Column
	return loc
}

func (g *goLowerer) contentHash(start, end token.Pos) string {
	sp := g.fset.Position(start).Offset
	ep := g.fset.Position(end).Offset
	if sp < 0 || ep > len(g.sf.Bytes) || sp > ep {
		return g.sf.ContentHash
	}
	return contentHashOf(g.sf.Bytes[sp:ep])
}

func (g *goLowerer) lowerImports(file *ast.File) {
	for i, spec := range file.Imports {
		path := ""
		if spec.Path != nil {
			path = trimQuotes(spec.Path.Value)
		}
		alias := ""
		if spec.Name != nil {
			alias = spec.Name.Name
		}
		resolved := g.resolver.Resolve(path)
		imp := &ir.Import{
			ModulePath: path,
			IsWildcard: alias == "_",
			IsExternal: resolved.IsExternal,
			Confidence: resolved.Confidence,
			Location:   spanLoc(g.fset, g.sf.FilePath, spec.Pos(), spec.End()),
		}
		if alias != "" {
			imp.Aliases = map[string]string{path: alias}
		}
		if resolved.Confidence >= 1.0 {
			imp.ResolvedTarget = resolved.Target
		}
		g.doc.Imports = append(g.doc.Imports, imp)

		pos := g.b.NextPosition(g.pkgName, ir.Import)
		n := g.b.NewNode(ir.Import, path, g.pkgName+".import."+itoaSimple(i), g.sf.ContentHash, pos, imp.Location)
		n.SetAttr("path", path)
		n.SetAttr("isExternal", resolved.IsExternal)
		n.SetAttr("confidence", resolved.Confidence)
		if alias != "" {
			n.SetAttr("alias", alias)
		}
		g.b.AddEdge(g.fileNode, n, ir.Imports, nil)
	}
}

func (g *goLowerer) registerFuncFQN(fn *ast.FuncDecl, fqn *ir.FQNBuilder) {
	name := fqn.Push(funcFQNSegment(fn)).FQN()
	g.funcFQNs[fn.Name.Name] = nil // reserve; actual node attached once lowered
	_ = name
}

func funcFQNSegment(fn *ast.FuncDecl) string {
	if fn.Recv != nil && len(fn.Recv.List) > 0 {
		return receiverTypeName(fn.Recv.List[0].Type) + "." + fn.Name.Name
	}
	return fn.Name.Name
}

func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.Ident:
		return t.Name
	}
	return "<anon>"
}

func (g *goLowerer) lowerGenDecl(d *ast.GenDecl, fqn *ir.FQNBuilder) {
	switch d.Tok {
	case token.TYPE:
		for _, spec := range d.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			g.lowerTypeSpec(ts, fqn)
		}
	case token.VAR, token.CONST:
		for _, spec := range d.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			g.lowerValueSpec(vs, fqn, d.Tok == token.CONST)
		}
	}
}

func (g *goLowerer) lowerTypeSpec(ts *ast.TypeSpec, fqn *ir.FQNBuilder) {
	childFQN := fqn.Push(ts.Name.Name)
	name := childFQN.FQN()
	loc := spanLoc(g.fset, g.sf.FilePath, ts.Pos(), ts.End())
	hash := g.contentHash(ts.Pos(), ts.End())
	pos := g.b.NextPosition(g.pkgName, ir.Class)

	kind := ir.Class
	descKind := ir.DescriptorType
	languageKind := "struct"
	if _, ok := ts.Type.(*ast.InterfaceType); ok {
		kind = ir.Interface
		languageKind = "interface"
	}

	n := g.b.NewNode(kind, ts.Name.Name, name, hash, pos, loc)
	g.b.AddEdge(g.fileNode, n, ir.Contains, nil)
	g.emitUnifiedSymbol(n, name, descKind, languageKind)

	if st, ok := ts.Type.(*ast.StructType); ok && st.Fields != nil {
		for _, field := range st.Fields.List {
			for _, fname := range fieldNames(field) {
				floc := spanLoc(g.fset, g.sf.FilePath, field.Pos(), field.End())
				fpos := g.b.NextPosition(name, ir.Variable)
				fn := g.b.NewNode(ir.Variable, fname, name+"."+fname, g.contentHash(field.Pos(), field.End()), fpos, floc)
				fn.SetAttr("field", true)
				fn.SetAttr("type", exprString(field.Type))
				g.b.AddEdge(n, fn, ir.Contains, nil)
			}
		}
	}
	if it, ok := ts.Type.(*ast.InterfaceType); ok && it.Methods != nil {
		for _, m := range it.Methods.List {
			for _, mname := range fieldNames(m) {
				mpos := g.b.NextPosition(name, ir.Method)
				mloc := spanLoc(g.fset, g.sf.FilePath, m.Pos(), m.End())
				mn := g.b.NewNode(ir.Method, mname, name+"."+mname, g.contentHash(m.Pos(), m.End()), mpos, mloc)
				mn.SetAttr("abstract", true)
				g.b.AddEdge(n, mn, ir.Contains, nil)
				g.emitUnifiedSymbol(mn, name+"."+mname, ir.DescriptorCallable, "method")
			}
		}
	}
	if embeds := embeddedTypeNames(ts); len(embeds) > 0 {
		for _, e := range embeds {
			// Inherits target is resolved lazily by the semantic-graph layer
			// (the embedded type may live in another file); record a
			// placeholder node per spec.md §4.2 unresolved-reference semantics.
			target := g.b.NewNode(kind, e, placeholderFQN(e), "", g.b.NextPosition(e, kind), loc)
			g.b.AddEdge(n, target, ir.Inherits, map[string]interface{}{"embedded": true})
		}
	}
}

func embeddedTypeNames(ts *ast.TypeSpec) []string {
	st, ok := ts.Type.(*ast.StructType)
	if !ok || st.Fields == nil {
		return nil
	}
	var names []string
	for _, f := range st.Fields.List {
		if len(f.Names) == 0 { // embedded field: no explicit name
			names = append(names, exprString(f.Type))
		}
	}
	return names
}

func fieldNames(f *ast.Field) []string {
	if len(f.Names) == 0 {
		return []string{exprString(f.Type)}
	}
	names := make([]string, 0, len(f.Names))
	for _, n := range f.Names {
		names = append(names, n.Name)
	}
	return names
}

func (g *goLowerer) lowerValueSpec(vs *ast.ValueSpec, fqn *ir.FQNBuilder, isConst bool) {
	loc := spanLoc(g.fset, g.sf.FilePath, vs.Pos(), vs.End())
	hash := g.contentHash(vs.Pos(), vs.End())
	for _, ident := range vs.Names {
		if ident.Name == "_" {
			continue
		}
		childFQN := fqn.Push(ident.Name).FQN()
		pos := g.b.NextPosition(g.pkgName, ir.Variable)
		n := g.b.NewNode(ir.Variable, ident.Name, childFQN, hash, pos, loc)
		n.SetAttr("const", isConst)
		if vs.Type != nil {
			n.SetAttr("type", exprString(vs.Type))
		}
		g.b.AddEdge(g.fileNode, n, ir.Contains, nil)
	}
}

func (g *goLowerer) lowerFuncDecl(fn *ast.FuncDecl, fqn *ir.FQNBuilder) {
	childFQN := fqn.Push(funcFQNSegment(fn))
	name := childFQN.FQN()
	loc := spanLoc(g.fset, g.sf.FilePath, fn.Pos(), fn.End())
	hash := g.contentHash(fn.Pos(), fn.End())

	kind := ir.Function
	posCounterScope := g.pkgName
	if fn.Recv != nil {
		kind = ir.Method
		posCounterScope = receiverTypeName(fn.Recv.List[0].Type)
	}
	pos := g.b.NextPosition(posCounterScope, kind)
	fnNode := g.b.NewNode(kind, fn.Name.Name, name, hash, pos, loc)
	g.b.AddEdge(g.fileNode, fnNode, ir.Contains, nil)
	descKind := ir.DescriptorCallable
	languageKind := "function"
	if kind == ir.Method {
		languageKind = "method"
		fnNode.SetAttr("receiver", posCounterScope)
	}
	g.emitUnifiedSymbol(fnNode, name, descKind, languageKind)
	g.funcFQNs[fn.Name.Name] = fnNode

	if fn.Type != nil && fn.Type.Params != nil {
		for _, p := range fn.Type.Params.List {
			for _, pname := range fieldNames(p) {
				ppos := g.b.NextPosition(name, ir.Parameter)
				ploc := spanLoc(g.fset, g.sf.FilePath, p.Pos(), p.End())
				pn := g.b.NewNode(ir.Parameter, pname, name+"."+pname, g.contentHash(p.Pos(), p.End()), ppos, ploc)
				pn.SetAttr("type", exprString(p.Type))
				g.b.AddEdge(fnNode, pn, ir.Contains, nil)
			}
		}
	}

	if fn.Body == nil {
		return // external/assembly-linked declaration: no body to walk
	}

	fb := &funcBody{g: g, fqn: childFQN, owner: fnNode, ssaSeq: 0, locals: map[string]string{}}
	fb.walkStmts(fn.Body.List)
}

// funcBody lowers one function's statements into Call/Return IR nodes and
// a lightweight SSA-like Expression trail, matching spec.md §4.2's
// expression-lowering contract without attempting full SSA construction
// (that happens one layer up, in the semantic-graph DFG builder).
//
// branchPath threads spec.md §4.3's branching requirement down to
// semgraph/cfg.go without a new IR node kind: every Call/Return node
// gets a "branchPath" attr recording which if/else arm or loop body it
// lexically sits in (e.g. "if0.then", "for1.body"), joined with "/" for
// nested constructs. cfg.go reads this back to build real conditional
// split/merge blocks instead of one linear chain.
type funcBody struct {
	g          *goLowerer
	fqn        *ir.FQNBuilder
	owner      *ir.Node
	ssaSeq     int
	locals     map[string]string // identifier name -> defining expr/node ID (last writer in this function; no phi across branches yet)
	branchPath []string
	groupSeq   int
}

func (fb *funcBody) nextSSA() string {
	name := fmt.Sprintf("%%%d", fb.ssaSeq)
	fb.ssaSeq++
	return name
}

func (fb *funcBody) currentBranchPath() string {
	if len(fb.branchPath) == 0 {
		return ""
	}
	out := fb.branchPath[0]
	for _, seg := range fb.branchPath[1:] {
		out += "/" + seg
	}
	return out
}

// withBranch runs fn with segment pushed onto the branch path, for
// lowering one arm of an if/else or one loop body.
func (fb *funcBody) withBranch(segment string, fn func()) {
	fb.branchPath = append(fb.branchPath, segment)
	fn()
	fb.branchPath = fb.branchPath[:len(fb.branchPath)-1]
}

func (fb *funcBody) walkStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		fb.walkStmt(s)
	}
}

func (fb *funcBody) walkStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.ExprStmt:
		fb.lowerExpr(st.X)
	case *ast.AssignStmt:
		fb.lowerAssign(st)
	case *ast.ReturnStmt:
		fb.lowerReturn(st)
	case *ast.IfStmt:
		if st.Cond != nil {
			fb.lowerExpr(st.Cond)
		}
		group := fmt.Sprintf("if%d", fb.groupSeq)
		fb.groupSeq++
		if st.Body != nil {
			fb.withBranch(group+".then", func() { fb.walkStmts(st.Body.List) })
		}
		if st.Else != nil {
			fb.withBranch(group+".else", func() { fb.walkStmt(st.Else) })
		}
	case *ast.ForStmt:
		if st.Cond != nil {
			fb.lowerExpr(st.Cond)
		}
		group := fmt.Sprintf("for%d", fb.groupSeq)
		fb.groupSeq++
		if st.Body != nil {
			fb.withBranch(group+".body", func() { fb.walkStmts(st.Body.List) })
		}
	case *ast.RangeStmt:
		if st.X != nil {
			fb.lowerExpr(st.X)
		}
		group := fmt.Sprintf("for%d", fb.groupSeq)
		fb.groupSeq++
		if st.Body != nil {
			fb.withBranch(group+".body", func() { fb.walkStmts(st.Body.List) })
		}
	case *ast.BlockStmt:
		fb.walkStmts(st.List)
	case *ast.SwitchStmt:
		if st.Tag != nil {
			fb.lowerExpr(st.Tag)
		}
		for _, c := range st.Body.List {
			if cc, ok := c.(*ast.CaseClause); ok {
				group := fmt.Sprintf("switch%d", fb.groupSeq)
				fb.groupSeq++
				fb.withBranch(group+".then", func() { fb.walkStmts(cc.Body) })
			}
		}
	case *ast.GoStmt:
		fb.lowerExpr(st.Call)
	case *ast.DeferStmt:
		// A defer's call runs on every exit path (normal and panic),
		// spec.md §4.3's "finally blocks attach to both normal and
		// exceptional exits" — modeled the same way a bare top-level
		// statement is, since it always executes regardless of branch.
		fb.lowerExpr(st.Call)
	case *ast.DeclStmt:
		if gd, ok := st.Decl.(*ast.GenDecl); ok {
			fb.g.lowerGenDecl(gd, fb.fqn)
		}
	}
}

func (fb *funcBody) lowerAssign(st *ast.AssignStmt) {
	var rhsIDs []string
	for _, rhs := range st.Rhs {
		if id := fb.lowerExpr(rhs); id != "" {
			rhsIDs = append(rhsIDs, id)
		}
	}
	loc := spanLoc(fb.g.fset, fb.g.sf.FilePath, st.Pos(), st.End())
	expr := &ir.Expression{
		ID:       fb.g.b.Doc.Meta.SourceFile + "#expr#" + fb.nextSSA(),
		Op:       ir.OpAssign,
		SSAName:  fb.nextSSA(),
		Operands: rhsIDs,
		Location: loc,
	}
	fb.g.doc.Expressions = append(fb.g.doc.Expressions, expr)

	// Record each LHS identifier's current definition (the RHS
	// expression/call/node ID feeding it) so a later read of the name
	// threads the def-use chain through query/traversal.go's Dfg step.
	// Last-writer-wins, no phi merge across branches yet (semgraph/cfg.go
	// tracks real branch blocks now, but the DFG layer still needs a
	// dedicated SSA-renaming pass to fold per-arm defs into a phi).
	for i, lhs := range st.Lhs {
		ident, ok := lhs.(*ast.Ident)
		if !ok || ident.Name == "_" {
			continue
		}
		if target, known := fb.g.funcFQNs[ident.Name]; known && target != nil {
			fb.g.b.AddEdge(fb.owner, target, ir.Writes, nil)
		}
		if i < len(rhsIDs) {
			fb.locals[ident.Name] = rhsIDs[i]
		} else {
			fb.locals[ident.Name] = expr.ID
		}
	}
}

func (fb *funcBody) lowerReturn(st *ast.ReturnStmt) {
	loc := spanLoc(fb.g.fset, fb.g.sf.FilePath, st.Pos(), st.End())
	hash := fb.g.contentHash(st.Pos(), st.End())
	pos := fb.g.b.NextPosition(fb.owner.FQN, ir.Return)
	rn := fb.g.b.NewNode(ir.Return, "return", fb.owner.FQN+".return$"+pos, hash, pos, loc)
	if bp := fb.currentBranchPath(); bp != "" {
		rn.SetAttr("branchPath", bp)
	}
	fb.g.b.AddEdge(fb.owner, rn, ir.Returns, nil)
	for _, r := range st.Results {
		fb.lowerExpr(r)
	}
}

func (fb *funcBody) lowerExpr(e ast.Expr) string {
	if e == nil {
		return ""
	}
	loc := spanLoc(fb.g.fset, fb.g.sf.FilePath, e.Pos(), e.End())
	switch ex := e.(type) {
	case *ast.CallExpr:
		return fb.lowerCall(ex, loc)
	case *ast.BinaryExpr:
		lhs := fb.lowerExpr(ex.X)
		rhs := fb.lowerExpr(ex.Y)
		expr := &ir.Expression{ID: fb.exprID(), Op: ir.OpBinary, SSAName: fb.nextSSA(), Operands: nonEmpty(lhs, rhs), Location: loc, Attrs: map[string]interface{}{"operator": ex.Op.String()}}
		fb.g.doc.Expressions = append(fb.g.doc.Expressions, expr)
		return expr.ID
	case *ast.SelectorExpr:
		base := fb.lowerExpr(ex.X)
		expr := &ir.Expression{ID: fb.exprID(), Op: ir.OpSelector, SSAName: fb.nextSSA(), Operands: nonEmpty(base), Location: loc, Attrs: map[string]interface{}{"selector": ex.Sel.Name}}
		fb.g.doc.Expressions = append(fb.g.doc.Expressions, expr)
		return expr.ID
	case *ast.BasicLit:
		expr := &ir.Expression{ID: fb.exprID(), Op: ir.OpLiteral, SSAName: fb.nextSSA(), Value: ex.Value, Location: loc, TypeKnown: true, Type: ex.Kind.String()}
		fb.g.doc.Expressions = append(fb.g.doc.Expressions, expr)
		return expr.ID
	case *ast.Ident:
		if id, ok := fb.locals[ex.Name]; ok {
			return id // threads the def-use chain back to the identifier's last assignment in this function
		}
		return "" // a parameter, package-level var, or unassigned name: no local def to thread
	case *ast.IndexExpr:
		base := fb.lowerExpr(ex.X)
		idx := fb.lowerExpr(ex.Index)
		expr := &ir.Expression{ID: fb.exprID(), Op: ir.OpIndex, SSAName: fb.nextSSA(), Operands: nonEmpty(base, idx), Location: loc}
		fb.g.doc.Expressions = append(fb.g.doc.Expressions, expr)
		return expr.ID
	case *ast.UnaryExpr:
		operand := fb.lowerExpr(ex.X)
		expr := &ir.Expression{ID: fb.exprID(), Op: ir.OpUnary, SSAName: fb.nextSSA(), Operands: nonEmpty(operand), Location: loc, Attrs: map[string]interface{}{"operator": ex.Op.String()}}
		fb.g.doc.Expressions = append(fb.g.doc.Expressions, expr)
		return expr.ID
	default:
		return ""
	}
}

func (fb *funcBody) exprID() string {
	return fb.g.sf.FilePath + "#expr#" + itoaSimple(len(fb.g.doc.Expressions))
}

func (fb *funcBody) lowerCall(ex *ast.CallExpr, loc ir.Location) string {
	calleeName, resolved := calleeIdentifier(ex.Fun)
	hash := fb.g.contentHash(ex.Pos(), ex.End())
	pos := fb.g.b.NextPosition(fb.owner.FQN, ir.Call)
	cn := fb.g.b.NewNode(ir.Call, calleeName, fb.owner.FQN+".call$"+pos, hash, pos, loc)
	cn.SetAttr("calleeName", calleeName)
	if bp := fb.currentBranchPath(); bp != "" {
		cn.SetAttr("branchPath", bp)
	}
	fb.g.b.AddEdge(fb.owner, cn, ir.Contains, nil)
	fb.g.b.AddEdge(fb.owner, cn, ir.Calls, nil)

	if resolved {
		if target, known := fb.g.funcFQNs[calleeName]; known && target != nil {
			cn.SetAttr("resolved", true)
			cn.SetAttr("calleeFqn", target.FQN)
			fb.g.b.AddEdge(fb.owner, target, ir.Calls, map[string]interface{}{"via": cn.ID})
		} else {
			cn.SetAttr("resolved", false)
		}
	} else {
		cn.SetAttr("resolved", false)
	}

	var argIDs []string
	for _, arg := range ex.Args {
		if id := fb.lowerExpr(arg); id != "" {
			argIDs = append(argIDs, id)
		}
	}

	// Give the call its own node-addressable DFG value: an Expression
	// whose ID *is* the call node's ID (ir/expression.go's Operands
	// contract already allows either Expression or Node IDs), with its
	// argument expressions as operands. This is what lets
	// query/traversal.go's dfgStep walk directly from one Call node to
	// another (spec.md §8 S1/S2's source()->sink() taint queries), since
	// the traversal frontier is always a Node ID.
	fb.g.doc.Expressions = append(fb.g.doc.Expressions, &ir.Expression{
		ID:       cn.ID,
		Op:       ir.OpCall,
		SSAName:  fb.nextSSA(),
		Operands: argIDs,
		Location: loc,
		Attrs:    map[string]interface{}{"calleeName": calleeName},
	})

	return cn.ID
}

// calleeIdentifier extracts a best-effort callee name from a call's
// function expression. resolved reports whether it is a plain
// same-package identifier (a method value / package-qualified call is
// left for the semantic-graph layer's cross-file resolution).
func calleeIdentifier(fun ast.Expr) (string, bool) {
	switch f := fun.(type) {
	case *ast.Ident:
		return f.Name, true
	case *ast.SelectorExpr:
		return exprString(f), false
	}
	return exprString(fun), false
}

func (g *goLowerer) emitUnifiedSymbol(n *ir.Node, fqn string, descKind ir.DescriptorKind, languageKind string) {
	sym := ir.NewUnifiedSymbol("go", "gomod", g.pkgName, "", g.sf.RepoID, g.sf.FilePath, fqn, descKind, fqn, languageKind)
	g.doc.UnifiedSymbols = append(g.doc.UnifiedSymbols, sym)
}

func nonEmpty(ids ...string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

func exprString(e ast.Expr) string {
	switch t := e.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + exprString(t.X)
	case *ast.SelectorExpr:
		return exprString(t.X) + "." + t.Sel.Name
	case *ast.ArrayType:
		return "[]" + exprString(t.Elt)
	case *ast.MapType:
		return "map[" + exprString(t.Key) + "]" + exprString(t.Value)
	case *ast.InterfaceType:
		return "interface{}"
	case *ast.FuncType:
		return "func(...)"
	case *ast.Ellipsis:
		return "..." + exprString(t.Elt)
	}
	return "?"
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func itoaSimple(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}
