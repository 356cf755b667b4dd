package wordembed

import "github.com/unixpickle/essentials"

// TokenCounts keeps track of how many times different
// tokens occurr in some corpus.
type TokenCounts map[string]int

// Add records n more occurrences of a token.
func (t TokenCounts) Add(token string, n int) {
	t[token] += n
}

// Keep removes every token except the n most common ones.
// Ties at the cutoff are broken arbitrarily.
func (t TokenCounts) Keep(n int) {
	if len(t) <= n {
		return
	}
	kept := map[string]bool{}
	for _, tok := range t.MostCommon(n) {
		kept[tok] = true
	}
	for tok := range t {
		if !kept[tok] {
			delete(t, tok)
		}
	}
}

// MostCommon produces the n tokens with the most
// occurrences.
// If there are less than n total tokens, then all tokens
// are returned.
func (t TokenCounts) MostCommon(n int) []string {
	var counts []int
	var tokens []string
	for tok, num := range t {
		tokens = append(tokens, tok)
		counts = append(counts, num)
	}

	if len(tokens) <= n {
		return tokens
	}

	essentials.VoodooSort(counts, func(i, j int) bool {
		return counts[i] > counts[j]
	}, tokens)
	return tokens[:n]
}

// Frequencies produces the frozen frequency vector used to
// build a word2vec.Tree or word2vec.SamplingTable.
//
// Entry i is the count for tokens.Token(i).
// Tokens missing from t get a count of zero.
func (t TokenCounts) Frequencies(tokens TokenSet) []float64 {
	res := make([]float64, len(tokens))
	for i, tok := range tokens {
		res[i] = float64(t[tok])
	}
	return res
}

// Total returns the number of tokens that were counted.
func (t TokenCounts) Total() int {
	var total int
	for _, n := range t {
		total += n
	}
	return total
}
