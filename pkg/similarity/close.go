package similarity

import "sort"

type scored struct {
	score float64
	text  string
}

// CloseMatches returns the candidates whose Ratio(candidate, word) is at
// least cutoff, best first. Equal scores are ordered by candidate text,
// greater first. At most n candidates are returned; a negative n means no
// limit.
func CloseMatches(word string, candidates []string, n int, cutoff float64) []string {
	if n == 0 || len(candidates) == 0 {
		return nil
	}

	m := newMatcher(nil, []rune(word))
	var hits []scored
	for _, c := range candidates {
		m.a = []rune(c)
		if m.realQuickRatio() < cutoff || m.quickRatio() < cutoff {
			continue
		}
		if r := m.ratio(); r >= cutoff {
			hits = append(hits, scored{score: r, text: c})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].text > hits[j].text
	})

	if n > 0 && len(hits) > n {
		hits = hits[:n]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.text
	}
	return out
}
