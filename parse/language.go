package parse

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Language is one of the grammars this engine can lower to IR.
type Language string

const (
	Go         Language = "go"
	Java       Language = "java"
	JSX        Language = "jsx"
	JavaScript Language = "javascript"
	Unknown    Language = ""
)

var extByLanguage = map[string]Language{
	".go":   Go,
	".java": Java,
	".jsx":  JSX,
	".tsx":  JSX,
	".js":   JavaScript,
	".mjs":  JavaScript,
}

var shebangByInterpreter = map[string]Language{
	"node": JavaScript,
}

// DetectLanguage applies extension-based detection first, falling back to
// shebang sniffing for extensionless scripts (spec.md §4.1: "apply
// language detection by extension and shebang").
func DetectLanguage(path string, content []byte) Language {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := extByLanguage[ext]; ok {
		return lang
	}
	return detectByShebang(content)
}

func detectByShebang(content []byte) Language {
	if !bytes.HasPrefix(content, []byte("#!")) {
		return Unknown
	}
	nl := bytes.IndexByte(content, '\n')
	if nl < 0 {
		nl = len(content)
	}
	line := string(content[2:nl])
	for interpreter, lang := range shebangByInterpreter {
		if strings.Contains(line, interpreter) {
			return lang
		}
	}
	return Unknown
}

// IsBinary performs a cheap heuristic binary-content check (a NUL byte in
// the first 8KB), matching the conventional sniff used by text-processing
// tools to decide whether to skip a file during acquisition.
func IsBinary(content []byte) bool {
	n := len(content)
	if n > 8192 {
		n = 8192
	}
	return bytes.IndexByte(content[:n], 0) >= 0
}
