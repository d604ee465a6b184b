package source

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldName 统一大小写与重音，用于球队和联赛名匹配
func foldName(name string) string {
	name = strings.ToLower(name)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, name); err == nil {
		name = folded
	}

	name = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, name)

	fields := strings.Fields(name)
	kept := fields[:0]
	for _, f := range fields {
		switch f {
		case "fc", "afc", "cf", "sc":
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// sameTeam 折叠后相等，或一方包含另一方
func sameTeam(a, b string) bool {
	fa, fb := foldName(a), foldName(b)
	if fa == "" || fb == "" {
		return false
	}
	return fa == fb || strings.Contains(fa, fb) || strings.Contains(fb, fa)
}
