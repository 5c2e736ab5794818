// Package fuzzy ranks page titles and block contents against typed queries.
package fuzzy

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	sfuzzy "github.com/sahilm/fuzzy"
)

// Infinite is returned when either the title or the query is empty.
const Infinite = math.MaxInt

// Threshold is the score at and above which a title is not considered a match.
const Threshold = 50

const (
	missPenalty      = 1
	unmatchedPenalty = 10
	firstRunePenalty = 2
)

// Score measures how well query is found as an ordered subsequence of title.
// Lower is better. Both inputs are compared case-insensitively.
//
// The title is scanned left to right; each rune that equals the next unmatched
// query rune advances the query cursor, every other rune costs 1. Query runes
// left unmatched after the scan cost 10 each, and a differing first rune costs 2.
func Score(title, query string) int {
	if title == "" || query == "" {
		return Infinite
	}
	source := []rune(strings.ToLower(title))
	target := []rune(strings.ToLower(query))

	score := 0
	cursor := 0
	for _, r := range source {
		if cursor < len(target) && r == target[cursor] {
			cursor++
			continue
		}
		score += missPenalty
	}
	score += (len(target) - cursor) * unmatchedPenalty
	if source[0] != target[0] {
		score += firstRunePenalty
	}
	return score
}

// Matches reports whether score passes the threshold.
func Matches(score int) bool {
	return score < Threshold
}

// Candidate is one block offered to FindBlocks.
type Candidate struct {
	PageID  string
	BlockID string
	Content string
}

// BlockMatch is a ranked FindBlocks hit. Score is higher-is-better.
type BlockMatch struct {
	Candidate
	Score          int
	MatchedIndexes []int
}

type candidateSource []Candidate

func (s candidateSource) String(i int) string { return s[i].Content }
func (s candidateSource) Len() int            { return len(s) }

// FindBlocks ranks block contents against query, best match first.
// Candidates with empty content never match.
func FindBlocks(query string, candidates []Candidate) []BlockMatch {
	query = strings.TrimSpace(query)
	if query == "" || len(candidates) == 0 {
		return nil
	}
	matches := sfuzzy.FindFrom(query, candidateSource(candidates))
	out := make([]BlockMatch, 0, len(matches))
	for _, m := range matches {
		c := candidates[m.Index]
		if c.Content == "" {
			continue
		}
		out = append(out, BlockMatch{Candidate: c, Score: m.Score, MatchedIndexes: m.MatchedIndexes})
	}
	// FindFrom already sorts by score; keep candidate order on ties.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// Snippet returns up to width runes of content around the first matched index.
func Snippet(content string, matched []int, width int) string {
	if width <= 0 || utf8.RuneCountInString(content) <= width {
		return content
	}
	runes := []rune(content)
	start := 0
	if len(matched) > 0 {
		// MatchedIndexes are byte offsets.
		start = utf8.RuneCountInString(content[:matched[0]]) - width/4
		if start < 0 {
			start = 0
		}
	}
	end := start + width
	if end > len(runes) {
		end = len(runes)
		start = max(0, end-width)
	}
	s := string(runes[start:end])
	if start > 0 {
		s = "…" + s
	}
	if end < len(runes) {
		s += "…"
	}
	return s
}
