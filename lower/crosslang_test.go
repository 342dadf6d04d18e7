package lower

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codegraphlabs/semcore/ir"
)

func goDocWithUnresolvedImport(modulePath string) *ir.Document {
	doc := ir.NewDocument("go", "main.go")
	file := &ir.Node{ID: "go-file", Kind: ir.File, Name: "main.go", FQN: "main.go"}
	doc.AddNode(file)
	doc.Imports = append(doc.Imports, &ir.Import{ModulePath: modulePath, Confidence: 0.0})
	return doc
}

func javaDocWithExportedType(pkg, typeName string) *ir.Document {
	doc := ir.NewDocument("java", "Lib.java")
	typeNode := &ir.Node{ID: "java-type", Kind: ir.Class, Name: typeName, FQN: pkg + "." + typeName}
	doc.AddNode(typeNode)
	doc.UnifiedSymbols = append(doc.UnifiedSymbols, ir.NewUnifiedSymbol("java", "maven", pkg, "", "repo", "Lib.java", pkg+"."+typeName, ir.DescriptorType, pkg+"."+typeName, "class"))
	return doc
}

func TestCrossLangPass_EmitsFfiImportAcrossLanguages(t *testing.T) {
	goDoc := goDocWithUnresolvedImport("bridge/nativelib")
	javaDoc := javaDocWithExportedType("nativelib", "Lib")

	pass := NewCrossLangPass(DefaultBridgePolicy())
	pass.Run([]*ir.Document{goDoc, javaDoc})

	var found *ir.Edge
	for _, e := range goDoc.Edges {
		if e.Kind == ir.FfiImport {
			found = e
		}
	}
	require.NotNil(t, found)
	require.Equal(t, "jni", found.Attrs["mechanism"])
}

func TestCrossLangPass_SkipsAlreadyResolvedImports(t *testing.T) {
	goDoc := ir.NewDocument("go", "main.go")
	file := &ir.Node{ID: "go-file", Kind: ir.File, Name: "main.go", FQN: "main.go"}
	goDoc.AddNode(file)
	goDoc.Imports = append(goDoc.Imports, &ir.Import{ModulePath: "fmt", Confidence: 1.0})
	javaDoc := javaDocWithExportedType("fmt", "Lib")

	pass := NewCrossLangPass(DefaultBridgePolicy())
	pass.Run([]*ir.Document{goDoc, javaDoc})

	require.Empty(t, goDoc.Edges)
}
