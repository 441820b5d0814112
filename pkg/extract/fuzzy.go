package extract

import (
	"sort"
	"strings"
)

// closestMatches returns up to max candidates whose similarity to input
// meets cutoff, best first. Similarity is 1 - distance/maxLen, computed
// case-insensitively.
func closestMatches(input string, candidates []string, cutoff float64, max int) []string {
	inputLower := strings.ToLower(input)

	type scored struct {
		name  string
		score float64
	}
	var matches []scored

	for _, c := range candidates {
		score := similarity(inputLower, strings.ToLower(c))
		if score >= cutoff {
			matches = append(matches, scored{c, score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if len(matches) > max {
		matches = matches[:max]
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.name
	}
	return names
}

func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshteinDistance(a, b))/float64(longest)
}

// levenshteinDistance calculates the edit distance between two strings.
// This is used to detect near-misses in function and module names.
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	// Use a single row of the DP table for space efficiency
	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}
			curr[j] = minInt(
				curr[j-1]+1,    // insertion
				prev[j]+1,      // deletion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}

// minInt returns the minimum of three integers.
func minInt(a, b, c int) int {
	if a <= b && a <= c {
		return a
	}
	if b <= c {
		return b
	}
	return c
}
