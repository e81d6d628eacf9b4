package keywords

import (
	"sort"
	"strings"
	"unicode"
)

// MaxCandidates bounds the number of phrases handed to the embedding
// provider in one batch.
const MaxCandidates = 50

const (
	baseKeywordLimit = 5
	maxKeywordLimit  = 15
	wordsPerExtra    = 100
	minTokenLength   = 3
)

// Candidate is a phrase ranked by raw frequency within the source text.
type Candidate struct {
	Phrase string
	Count  int
}

// Normalize lowercases the text, replaces every non-alphanumeric rune with a
// space, and collapses whitespace runs.
func Normalize(text string) string {
	lowered := strings.ToLower(text)
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, lowered)
	return strings.Join(strings.Fields(mapped), " ")
}

// Tokens returns the normalized token sequence of the text.
func Tokens(text string) []string {
	return strings.Fields(Normalize(text))
}

// Limit is the text-length-scaled cap on returned keywords: short notes get
// few suggestions, long documents proportionally more, bounded at 15.
func Limit(text string) int {
	n := baseKeywordLimit + len(Tokens(text))/wordsPerExtra
	if n > maxKeywordLimit {
		return maxKeywordLimit
	}
	return n
}

// Candidates generates all 1-gram and 2-gram phrases over the normalized
// token sequence, drops stopword-only and too-short phrases, and returns the
// survivors ranked by frequency (descending), tie-broken by longer phrase
// first, capped at max.
func Candidates(text string, max int) []Candidate {
	tokens := Tokens(text)
	counts := map[string]int{}

	for i, tok := range tokens {
		if keepUnigram(tok) {
			counts[tok]++
		}
		if i+1 < len(tokens) {
			if keepBigram(tok, tokens[i+1]) {
				counts[tok+" "+tokens[i+1]]++
			}
		}
	}

	out := make([]Candidate, 0, len(counts))
	for phrase, count := range counts {
		out = append(out, Candidate{Phrase: phrase, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if len(out[i].Phrase) != len(out[j].Phrase) {
			return len(out[i].Phrase) > len(out[j].Phrase)
		}
		return out[i].Phrase < out[j].Phrase
	})
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

func keepUnigram(tok string) bool {
	if !hasLetter(tok) {
		return false
	}
	if len([]rune(tok)) < minTokenLength {
		return false
	}
	return !isStopword(tok)
}

func keepBigram(a, b string) bool {
	if !hasLetter(a) && !hasLetter(b) {
		return false
	}
	// A bigram survives unless every token in it is a stopword.
	return !(isStopword(a) && isStopword(b))
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
