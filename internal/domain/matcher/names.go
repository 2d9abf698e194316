package matcher

import "strings"

// NamesMatch reports whether two counterparty names denote the same party
// using the default word-overlap threshold
func NamesMatch(name1, name2 string) bool {
	return namesMatch(name1, name2, DefaultConfig().MinCommonWords)
}

// NamesMatch is the configured variant of the package-level NamesMatch
func (m *Matcher) NamesMatch(name1, name2 string) bool {
	return namesMatch(name1, name2, m.config.MinCommonWords)
}

// namesMatch tries, in order:
//   - exact match (case-insensitive, trimmed)
//   - word subset ("Acme" vs "Acme Corp Ltd")
//   - word overlap of at least minCommon words when both names are multi-word
func namesMatch(name1, name2 string, minCommon int) bool {
	n1 := strings.ToLower(strings.TrimSpace(name1))
	n2 := strings.ToLower(strings.TrimSpace(name2))
	if n1 == "" || n2 == "" {
		return false
	}

	if n1 == n2 {
		return true
	}

	words1 := wordSet(n1)
	words2 := wordSet(n2)

	if isSubset(words1, words2) || isSubset(words2, words1) {
		return true
	}

	// A single shared word such as "the" is not enough
	if len(words1) > 1 && len(words2) > 1 {
		common := 0
		for w := range words1 {
			if words2[w] {
				common++
			}
		}
		if common >= minCommon {
			return true
		}
	}

	return false
}

func wordSet(s string) map[string]bool {
	words := strings.Fields(s)
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func isSubset(sub, super map[string]bool) bool {
	for w := range sub {
		if !super[w] {
			return false
		}
	}
	return true
}
