package normalizer

import (
	"sort"
	"strings"

	"vacuumclean/internal/models"
	"vacuumclean/pkg/utils"
)

// SplitList splits a multi-valued cell on commas and on the list separator of
// the cleaned table, trims each token and drops empty and repeated tokens.
func SplitList(raw string) []string {
	if utils.IsMissing(raw) {
		return nil
	}

	tokens := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || string(r) == models.ListSeparator
	})

	seen := make(map[string]bool, len(tokens))

	var out []string

	for _, tok := range tokens {
		tok = utils.NormalizeWhitespace(tok)
		if tok == "" || seen[tok] {
			continue
		}

		seen[tok] = true
		out = append(out, tok)
	}

	return out
}

// MergeColors reconciles the basic and exact colour descriptions of a row.
// An empty side yields the other; equal sides yield either; otherwise the
// case-sensitive union is returned in alphabetical order.
func MergeColors(basic, exact []string) []string {
	if len(basic) == 0 {
		return exact
	}

	if len(exact) == 0 {
		return basic
	}

	if equalLists(basic, exact) {
		return basic
	}

	seen := make(map[string]bool, len(basic)+len(exact))

	var union []string

	for _, c := range append(append([]string{}, basic...), exact...) {
		if !seen[c] {
			seen[c] = true
			union = append(union, c)
		}
	}

	sort.Strings(union)

	return union
}

func equalLists(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
