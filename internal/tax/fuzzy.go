package tax

// Fuzzy matching for bank-feed text. Bank descriptions carry typos and
// abbreviations ("WOOLWRTHS", "BUNNNGS WHS"), so exact substring matching
// alone misses real merchants. partialRatio is a 0-100 similarity score of
// the best window of the longer string against the shorter one, equivalent
// in spirit to fuzzywuzzy's partial_ratio.

// levenshtein returns the edit distance between a and b.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// similarityRatio returns a 0-100 similarity between two strings.
func similarityRatio(a, b string) int {
	if a == b {
		return 100
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 100
	}
	dist := levenshtein(a, b)
	return (longest - dist) * 100 / longest
}

// partialRatio slides a window the length of the shorter string across the
// longer one and returns the best similarityRatio found.
func partialRatio(a, b string) int {
	short, long := a, b
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}
	if len(short) == len(long) {
		return similarityRatio(short, long)
	}
	best := 0
	for i := 0; i+len(short) <= len(long); i++ {
		r := similarityRatio(short, long[i:i+len(short)])
		if r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

func minInt(vals ...int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
