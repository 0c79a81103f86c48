// Package normalize folds customer text into a comparable form for product search
// Pipeline order
// 1 Sanitize and drop invalid UTF-8
// 2 Unicode NFKD decomposition (also splits ligatures and fullwidth forms)
// 3 Remove combining marks
// 4 Case folding
// 5 Drop anything outside ASCII
// 6 Collapse whitespace to single spaces and trim
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// pool of fresh transformer chains, a chain is stateful and not safe to share
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKD,
			runes.Remove(runes.In(unicode.Mn)), // accents
			cases.Fold(),
			runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
		)
	},
}

// Normalize folds v into lower case ASCII without accents
// only string and []byte are text, any other value yields ""
func Normalize(v any) string {
	switch s := v.(type) {
	case string:
		return Fold(s)
	case []byte:
		return Fold(string(s))
	default:
		return ""
	}
}

// Fold is Normalize for callers that already hold a string
func Fold(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToValidUTF8(Sanitize(s), "")

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		return ""
	}

	return strings.Join(strings.Fields(ns), " ")
}

// Terms returns the whitespace separated terms of the folded text in order
// the result is empty when nothing searchable remains
func Terms(s string) []string {
	f := Fold(s)
	if f == "" {
		return nil
	}
	return strings.Split(f, " ")
}
