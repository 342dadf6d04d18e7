package lower

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codegraphlabs/semcore/ir"
)

// tsText returns the source slice a tree-sitter node spans; nodes only
// carry byte ranges, never text, so every lowerer needs this.
func tsText(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	return string(source[n.StartByte():n.EndByte()])
}

func tsLoc(filePath string, n *sitter.Node) ir.Location {
	if n == nil {
		return ir.Location{FilePath: filePath}
	}
	sp := n.StartPoint()
	ep := n.EndPoint()
	return ir.Location{
		FilePath:  filePath,
		StartByte: int(n.StartByte()),
		EndByte:   int(n.EndByte()),
		StartLine: int(sp.Row) + 1,
		StartCol:  int(sp.Column),
		EndLine:   int(ep.Row) + 1,
		EndCol:    int(ep.Column),
	}
}

// tsFieldText returns the text of a named child field (e.g. "name" on a
// class_declaration), or "" if the grammar has no such field on n.
func tsFieldText(n *sitter.Node, field string, source []byte) string {
	c := n.ChildByFieldName(field)
	if c == nil {
		return ""
	}
	return tsText(c, source)
}

// lastSegment returns the final dotted component of an FQN, used when an
// anonymous construct's generated FQN (e.g. "pkg.lambda$0") needs to be
// turned back into a bare display name.
func lastSegment(fqn string) string {
	for i := len(fqn) - 1; i >= 0; i-- {
		if fqn[i] == '.' {
			return fqn[i+1:]
		}
	}
	return fqn
}

// tsChildren returns every direct child of n as a slice, for lowerers
// that want to range over them rather than index manually.
func tsChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.ChildCount())
	for i := 0; i < int(n.ChildCount()); i++ {
		out = append(out, n.Child(i))
	}
	return out
}
