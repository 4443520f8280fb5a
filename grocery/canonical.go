package grocery

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	parentheticalRE = regexp.MustCompile(`\(.*?\)`)
	prepAdjectiveRE = regexp.MustCompile(`\b(grilled|baked|roasted|steamed|boiled|cooked|plain|fresh)\b`)
	sizeAdjectiveRE = regexp.MustCompile(`\b(large|medium|small)\b`)
	whitespaceRE    = regexp.MustCompile(`\s+`)
)

// synonyms collapses common variants to a base ingredient. Order matters:
// the first substring match wins, so longer or more specific entries come
// before their prefixes.
var synonyms = []struct {
	match, base string
}{
	{"chicken breast", "chicken"},
	{"salmon fillet", "salmon"},
	{"ground beef 90/10", "ground beef"},
	{"ground beef", "ground beef"},
	{"ground turkey 93/7", "ground turkey"},
	{"whole milk", "milk"},
	{"brown rice", "rice"},
	{"white rice", "rice"},
	{"broccoli florets", "broccoli"},
	{"spinach leaves", "spinach"},
	{"bell peppers", "bell pepper"},
	{"sweet potatoes", "sweet potato"},
	{"eggs", "egg"},
	{"greek yogurt", "greek yogurt"},
	{"mixed berries", "berries"},
	{"strawberries", "berries"},
	{"blueberries", "berries"},
	{"raspberries", "berries"},
	// common misspellings
	{"aspargus", "asparagus"},
	{"berrys", "berries"},
}

// CanonicalizeItem reduces duplicate item spellings to one shopping-list
// entry, e.g. "Grilled chicken breast" and "chicken breast (cooked)" both
// become "Chicken".
func CanonicalizeItem(item string) string {
	s := strings.ToLower(strings.TrimSpace(item))
	s = parentheticalRE.ReplaceAllString(s, "")
	s = prepAdjectiveRE.ReplaceAllString(s, "")
	s = sizeAdjectiveRE.ReplaceAllString(s, "")
	s = strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))

	for _, syn := range synonyms {
		if strings.Contains(s, syn.match) {
			s = syn.base
			break
		}
	}

	// Conservative singularization. 'ies' and 'us' endings are protected so
	// 'berries' and 'asparagus' survive intact.
	if len(s) > 3 {
		switch {
		case strings.HasSuffix(s, "ies"), strings.HasSuffix(s, "us"), strings.HasSuffix(s, "ss"):
		case strings.HasSuffix(s, "s"):
			s = s[:len(s)-1]
		}
	}

	return capitalizeWords(s)
}

func capitalizeWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
