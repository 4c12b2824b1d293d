// Package terms derives the auxiliary lookup terms of a food name.
//
// The same terms feed the in-memory index and the "alternatives" field of
// documents pushed to the external full-text cluster, so Alternatives is
// exported on its own rather than hidden inside the index builder.
package terms

import (
	"regexp"
	"strings"

	"github.com/bastiangx/foodserve/internal/utils"
)

// minPartLen is the length a split part or word must exceed to be kept.
const minPartLen = 2

var (
	parenthetical = regexp.MustCompile(`\(([^)]*)\)`)

	// Checked in this order; each one found contributes its own split.
	separators = []string{",", " and ", " & ", " with ", " wa "}

	wordBreaks = strings.NewReplacer(",", " ", "(", " ", ")", " ")
)

// Alternatives returns extra terms a name can be found by, in original case:
//
//  1. the name without its parenthesised parts, if that changes it
//  2. the content of every parenthesised part
//  3. the parts of the name around each separator present in it
//  4. its individual words
//
// Parts and words of two characters or fewer are dropped. Duplicates are
// kept; callers dedupe if they need to.
//
//	terms.Alternatives("Pilau (Spiced Rice)")
//	// ["Pilau", "Spiced Rice", "Pilau", "Spiced", "Rice"]
func Alternatives(name string) []string {
	var alts []string

	simple := strings.TrimSpace(parenthetical.ReplaceAllString(name, ""))
	if simple != name {
		alts = append(alts, simple)
	}

	for _, m := range parenthetical.FindAllStringSubmatch(name, -1) {
		alts = append(alts, strings.TrimSpace(m[1]))
	}

	lower := utils.Lower(name)
	for _, sep := range separators {
		if !strings.Contains(lower, sep) {
			continue
		}
		// the check is case-insensitive but the split is not
		for _, part := range strings.Split(name, sep) {
			part = strings.TrimSpace(part)
			if utils.RuneLen(part) > minPartLen {
				alts = append(alts, part)
			}
		}
	}

	for _, word := range strings.Fields(wordBreaks.Replace(name)) {
		if utils.RuneLen(word) > minPartLen {
			alts = append(alts, word)
		}
	}

	return alts
}
