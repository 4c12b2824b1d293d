/*
Package similarity implements the Ratcliff/Obershelp string similarity used
for fuzzy matching and spelling suggestions.

The ratio of two strings is 2*M/T where T is the total number of code points
in both strings and M the number of code points in matching blocks. Matching
blocks are found by taking the longest common contiguous block and recursing
on the pieces to its left and right.

The block search follows the classic sequence matcher exactly, including its
tie-breaking (earliest block in the first string, then in the second) and the
"popular element" heuristic for long second strings, so scores are stable and
comparable across the engine:

	similarity.Ratio("plaw", "pilau")  // 0.666...
	similarity.Ratio("", "")           // 1.0
*/
package similarity

// Second sequences at least this long drop elements that occur in more than
// 1% of their positions from the block index.
const autojunkMin = 200

// matcher holds the block index for its second sequence so the first one can
// be swapped cheaply when comparing one word against many candidates.
type matcher struct {
	a   []rune
	b   []rune
	b2j map[rune][]int
}

func newMatcher(a, b []rune) *matcher {
	m := &matcher{a: a, b: b, b2j: make(map[rune][]int, len(b))}
	for j, r := range b {
		m.b2j[r] = append(m.b2j[r], j)
	}

	if n := len(b); n >= autojunkMin {
		ntest := n/100 + 1
		for r, idxs := range m.b2j {
			if len(idxs) > ntest {
				delete(m.b2j, r)
			}
		}
	}
	return m
}

// Ratio returns the similarity of a and b in [0, 1].
// Two empty strings are identical and score 1.0.
func Ratio(a, b string) float64 {
	return newMatcher([]rune(a), []rune(b)).ratio()
}

func (m *matcher) ratio() float64 {
	return calculateRatio(m.matches(), len(m.a)+len(m.b))
}

func calculateRatio(matches, length int) float64 {
	if length == 0 {
		return 1.0
	}
	return 2.0 * float64(matches) / float64(length)
}

// findLongestMatch returns the longest block a[i:i+k] == b[j:j+k] inside
// a[alo:ahi] and b[blo:bhi]. Among equally long blocks the one starting
// earliest in a wins, then the one starting earliest in b.
func (m *matcher) findLongestMatch(alo, ahi, blo, bhi int) (int, int, int) {
	besti, bestj, bestsize := alo, blo, 0

	// run[j+1] is the length of the block ending at a[i-1], b[j].
	run := make([]int, len(m.b)+1)
	next := make([]int, len(m.b)+1)
	var touched, nextTouched []int

	for i := alo; i < ahi; i++ {
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := run[j] + 1
			next[j+1] = k
			nextTouched = append(nextTouched, j+1)
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		for _, t := range touched {
			run[t] = 0
		}
		run, next = next, run
		touched, nextTouched = nextTouched, touched[:0]
	}

	// Popular elements are missing from b2j; grow the block over them.
	for besti > alo && bestj > blo && m.a[besti-1] == m.b[bestj-1] {
		besti, bestj, bestsize = besti-1, bestj-1, bestsize+1
	}
	for besti+bestsize < ahi && bestj+bestsize < bhi && m.a[besti+bestsize] == m.b[bestj+bestsize] {
		bestsize++
	}
	return besti, bestj, bestsize
}

// matches sums the sizes of all matching blocks.
func (m *matcher) matches() int {
	total := 0
	queue := [][4]int{{0, len(m.a), 0, len(m.b)}}
	for len(queue) > 0 {
		q := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		alo, ahi, blo, bhi := q[0], q[1], q[2], q[3]

		i, j, k := m.findLongestMatch(alo, ahi, blo, bhi)
		if k == 0 {
			continue
		}
		total += k
		if alo < i && blo < j {
			queue = append(queue, [4]int{alo, i, blo, j})
		}
		if i+k < ahi && j+k < bhi {
			queue = append(queue, [4]int{i + k, ahi, j + k, bhi})
		}
	}
	return total
}

// quickRatio is an upper bound on ratio from shared code point counts.
func (m *matcher) quickRatio() float64 {
	avail := make(map[rune]int, len(m.b))
	for _, r := range m.b {
		avail[r]++
	}
	matches := 0
	for _, r := range m.a {
		if avail[r] > 0 {
			avail[r]--
			matches++
		}
	}
	return calculateRatio(matches, len(m.a)+len(m.b))
}

// realQuickRatio is an upper bound on ratio from lengths alone.
func (m *matcher) realQuickRatio() float64 {
	la, lb := len(m.a), len(m.b)
	return calculateRatio(min(la, lb), la+lb)
}
