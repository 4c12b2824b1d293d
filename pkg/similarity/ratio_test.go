package similarity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	testCases := []struct {
		a, b     string
		expected float64
	}{
		{"", "", 1.0},
		{"", "x", 0.0},
		{"x", "", 0.0},
		{"rice", "rice", 1.0},
		{"plaw", "pilau", 0.6666666666666666},
		{"abcd", "bcde", 0.75},
		{"bread", "bred", 0.8888888888888888},
		{"kitten", "sitting", 0.6153846153846154},
		{"abxcd", "abcd", 0.8888888888888888},
		{"ugli", "ugali", 0.8888888888888888},
		{"xyz123", "ugali", 0.0},
		{"plaw", "pilau (spiced rice)", 0.2608695652173913},
		// code points, not bytes
		{"ñandú", "nandu", 0.6},
	}

	for _, tc := range testCases {
		t.Run(tc.a+"|"+tc.b, func(t *testing.T) {
			assert.Equal(t, tc.expected, Ratio(tc.a, tc.b))
		})
	}
}

// Block tie-breaking makes the ratio order dependent.
func TestRatioOrderDependent(t *testing.T) {
	assert.Equal(t, 0.25, Ratio("tide", "diet"))
	assert.Equal(t, 0.5, Ratio("diet", "tide"))
}

// Long second sequences drop popular elements from the block index.
func TestRatioPopularElements(t *testing.T) {
	a := strings.Repeat("a", 50) + strings.Repeat("b", 160) + "c"
	b := "x" + strings.Repeat("a", 3) + strings.Repeat("b", 200) + "c"

	assert.Equal(t, 0.7884615384615384, Ratio(a, b))
	assert.Equal(t, 0.7740384615384616, Ratio(b, a))
}

func TestRatioBounds(t *testing.T) {
	words := []string{"", "a", "pilau", "Pilau (Spiced Rice)", "ugali", "chapati", "mchuzi wa samaki", "ßüñ"}
	for _, a := range words {
		assert.Equal(t, 1.0, Ratio(a, a), "ratio(%q, %q)", a, a)
		for _, b := range words {
			r := Ratio(a, b)
			assert.GreaterOrEqual(t, r, 0.0)
			assert.LessOrEqual(t, r, 1.0)
		}
	}
}

func TestQuickRatiosBoundRatio(t *testing.T) {
	pairs := [][2]string{{"plaw", "pilau"}, {"tide", "diet"}, {"kitten", "sitting"}, {"", "abc"}}
	for _, p := range pairs {
		m := newMatcher([]rune(p[0]), []rune(p[1]))
		r := m.ratio()
		assert.LessOrEqual(t, r, m.quickRatio())
		assert.LessOrEqual(t, m.quickRatio(), m.realQuickRatio())
	}
}

func TestCloseMatches(t *testing.T) {
	assert.Equal(t, []string{"apple", "ape"}, CloseMatches("appel", []string{"ape", "apple", "peach", "puppy"}, 3, 0.6))

	// equal scores fall back to the greater candidate
	assert.Equal(t, []string{"ab", "xab", "abx", "ba"}, CloseMatches("ab", []string{"ba", "ab", "xab", "abx"}, 4, 0.0))
	assert.Equal(t, []string{"ab", "xab"}, CloseMatches("ab", []string{"ba", "ab", "xab", "abx"}, 2, 0.0))
	assert.Len(t, CloseMatches("ab", []string{"ba", "ab", "xab", "abx"}, -1, 0.0), 4)

	assert.Empty(t, CloseMatches("ab", []string{"ab"}, 0, 0.0))
	assert.Empty(t, CloseMatches("xyz123", []string{"ugali", "pilau (spiced rice)"}, 5, 0.4))
}

func BenchmarkRatio(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Ratio("mchuzi wa samaki", "mchuzi wa kuku")
	}
}
