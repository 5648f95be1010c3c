package normalize

import (
	"strconv"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// UnknownInitial stands in for a title or author without a usable first letter
const UnknownInitial = "U"

// Initial returns the upper-cased first letter or digit of s under NFKC
func Initial(s string) string {
	for _, r := range norm.NFKC.String(s) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			// a Caser holds state, so each call gets its own
			return cases.Upper(language.Und).String(string(r))
		}
	}
	return UnknownInitial
}

// CampaignCode is the base code for an audio: title initial then author initial
func CampaignCode(title, author string) string {
	return Initial(title) + Initial(author)
}

// WithSuffix appends taken when codes sharing base already exist
func WithSuffix(base string, taken int) string {
	if taken <= 0 {
		return base
	}
	return base + strconv.Itoa(taken)
}
