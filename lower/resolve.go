package lower

import "strings"

// ImportResolver implements spec.md §4.2 Import resolution's three-tier
// confidence policy: known external packages (0.9, external), project-local
// file resolution (1.0), else unresolved (0.5).
type ImportResolver struct {
	ModulePath      string          // this repo's own module path, e.g. "github.com/acme/widget"
	KnownExternal   map[string]bool // policy table of recognized external package prefixes
	LocalModuleHas  func(importPath string) bool // true when importPath resolves to a file in this snapshot
}

// DefaultKnownExternal seeds the standard library plus a handful of
// ubiquitous ecosystem packages — a starting policy table, not an
// exhaustive one; callers extend KnownExternal freely.
func DefaultKnownExternal() map[string]bool {
	prefixes := []string{
		"fmt", "os", "strings", "strconv", "errors", "context", "time",
		"sync", "net", "net/http", "encoding/json", "io", "bytes", "sort",
		"reflect", "path", "path/filepath", "regexp", "bufio",
		"github.com/", "golang.org/", "google.golang.org/", "gopkg.in/",
	}
	m := map[string]bool{}
	for _, p := range prefixes {
		m[p] = true
	}
	return m
}

type ResolvedImport struct {
	IsExternal bool
	Confidence float64
	Target     string
}

func (r *ImportResolver) Resolve(importPath string) ResolvedImport {
	if r.ModulePath != "" && strings.HasPrefix(importPath, r.ModulePath) {
		if r.LocalModuleHas == nil || r.LocalModuleHas(importPath) {
			return ResolvedImport{IsExternal: false, Confidence: 1.0, Target: importPath}
		}
	}
	for prefix := range r.KnownExternal {
		if importPath == prefix || strings.HasPrefix(importPath, prefix) {
			return ResolvedImport{IsExternal: true, Confidence: 0.9, Target: importPath}
		}
	}
	return ResolvedImport{IsExternal: false, Confidence: 0.5, Target: importPath}
}
