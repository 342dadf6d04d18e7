package ir

import "strings"

// FQNBuilder constructs fully-qualified names by joining the path from
// the file root through enclosing namespaces/classes/functions, per
// spec.md §4.2 FQN construction. Anonymous constructs receive indexed
// suffixes (e.g. "lambda$0") stable within a structural position.
type FQNBuilder struct {
	segments []string
	anonSeq  map[string]int
}

func NewFQNBuilder(root string) *FQNBuilder {
	b := &FQNBuilder{anonSeq: map[string]int{}}
	if root != "" {
		b.segments = append(b.segments, root)
	}
	return b
}

// Push enters a named scope, returning a child builder that shares the
// anonymous-sequence counters (so "lambda$0", "lambda$1" count across the
// whole file, matching a single structural walk order).
func (b *FQNBuilder) Push(name string) *FQNBuilder {
	child := &FQNBuilder{anonSeq: b.anonSeq}
	child.segments = append(append([]string{}, b.segments...), name)
	return child
}

// PushAnonymous enters an anonymous scope of the given kind (e.g.
// "lambda"), assigning it the next stable index for that kind at this
// structural position.
func (b *FQNBuilder) PushAnonymous(kind string) *FQNBuilder {
	key := b.FQN() + "#" + kind
	idx := b.anonSeq[key]
	b.anonSeq[key] = idx + 1
	return b.Push(kindIndexedName(kind, idx))
}

func kindIndexedName(kind string, idx int) string {
	return kind + "$" + itoa(idx)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// FQN returns the dotted fully-qualified name built so far.
func (b *FQNBuilder) FQN() string {
	return strings.Join(b.segments, ".")
}
