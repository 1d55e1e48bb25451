package projection

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Nicify turns an identifier into a display label: "m_maxHealth" becomes
// "Max Health", "drop_rate" becomes "Drop Rate" and "HTTPPort2" becomes
// "HTTP Port 2".
func Nicify(s string) string {
	s = strings.TrimPrefix(s, "m_")
	s = strings.TrimLeft(s, "_")
	if r := []rune(s); len(r) > 1 && r[0] == 'k' && unicode.IsUpper(r[1]) {
		s = string(r[1:])
	}

	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			b.WriteRune(' ')
			continue
		}
		if i > 0 && wordBreak(runes[i-1], r, next(runes, i)) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	words := strings.Fields(b.String())
	// Casers carry state, so each call gets its own.
	return cases.Title(language.Und, cases.NoLower).String(strings.Join(words, " "))
}

func next(runes []rune, i int) rune {
	if i+1 < len(runes) {
		return runes[i+1]
	}
	return 0
}

func wordBreak(prev, cur, after rune) bool {
	switch {
	case unicode.IsUpper(cur) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
		return true
	case unicode.IsUpper(cur) && unicode.IsUpper(prev) && unicode.IsLower(after):
		return true
	case unicode.IsDigit(cur) && unicode.IsLetter(prev):
		return true
	}
	return false
}
