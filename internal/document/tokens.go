package document

// EstimateTokens approximates the token count of s as ceil(len(s)/4).
// This is the system's only notion of tokens. It is never exact, but
// every size estimate must use this same formula so budgets stay
// comparable across components.
func EstimateTokens(s string) int {
	return (len(s) + 3) / 4
}

// CountLines returns the number of physical lines in s. Empty content
// has zero lines.
func CountLines(s string) int {
	if s == "" {
		return 0
	}
	n := 1
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
		}
	}
	return n
}
