// Package normalize cleans chat text before moderation and derives campaign codes
// Message pipeline order
// 1 Sanitize drop NUL, controls and invalid UTF-8
// 2 Unicode NFC composition
// 3 Remove format characters (ZWSP, ZWJ, BOM)
// 4 Line breaks become spaces
// 5 Trim
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// pool of fresh transformer chains; chains are stateful
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFC,
			runes.Remove(runes.In(unicode.Cf)),
		)
	},
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Message returns the single-line form of a chat message sent to moderation;
// interior spacing is kept as typed
func Message(s string) string {
	if s == "" {
		return ""
	}
	s = Sanitize(s)

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		ns = s
	}

	return strings.TrimSpace(lineBreaks.Replace(ns))
}
