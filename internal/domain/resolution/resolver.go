// Package resolution maps a spoken customer name to a customer record.
// It is pure: no storage access, no clock, no side effects. The caller
// supplies the candidate set and acts on the outcome.
package resolution

import (
	"sort"

	"github.com/google/uuid"
)

const (
	// MatchThreshold is the minimum score for a candidate to count as a
	// match. Below it on every candidate, a new customer is synthesized.
	MatchThreshold = 0.8

	// TieMargin is how close to the best score a runner-up must be for
	// the outcome to be ambiguous instead of a confident match.
	TieMargin = 0.03

	// PhoneticMatchScore is the floor a candidate scores when its
	// Soundex code equals the query's. It sits exactly at the match
	// threshold so a pure phonetic hit qualifies but never outranks a
	// closer spelling.
	PhoneticMatchScore = 0.8
)

// Candidate is one existing customer considered for a match
type Candidate struct {
	ID   uuid.UUID
	Name string
}

// ScoredCandidate is a candidate with its similarity score
type ScoredCandidate struct {
	Candidate
	Score float64
}

// OutcomeKind classifies a resolution result
type OutcomeKind string

const (
	// OutcomeCreated means no candidate matched; a new customer should
	// be created for this name
	OutcomeCreated OutcomeKind = "CREATED"
	// OutcomeMatched means exactly one candidate won
	OutcomeMatched OutcomeKind = "MATCHED"
	// OutcomeAmbiguous means several candidates matched too closely to
	// choose; nothing should be written
	OutcomeAmbiguous OutcomeKind = "AMBIGUOUS"
)

// Outcome is the result of resolving a spoken name
type Outcome struct {
	Kind       OutcomeKind
	CustomerID uuid.UUID         // Set when Kind == OutcomeMatched
	Score      float64           // Best score seen, 0 when no candidates scored
	Candidates []ScoredCandidate // Qualifying candidates, descending score; set when ambiguous
}

// Score returns the similarity of a spoken name to a candidate name,
// in [0, 1]. It is the normalized edit-distance similarity of the folded
// names, raised to the phonetic floor when their Soundex codes agree.
func Score(spoken, candidate string) float64 {
	a := Fold(spoken)
	b := Fold(candidate)

	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}

	var sim float64
	if maxLen == 0 {
		sim = 1
	} else {
		sim = 1 - float64(Levenshtein(a, b))/float64(maxLen)
	}

	if codeA := Soundex(a); codeA != "" && codeA == Soundex(b) && sim < PhoneticMatchScore {
		sim = PhoneticMatchScore
	}

	if sim < 0 {
		sim = 0
	}
	return sim
}

// Resolve scores the spoken name against every candidate and decides
// between match, ambiguity, and creation. The empty-name case is the
// caller's problem; validation happens before resolution runs.
func Resolve(name string, candidates []Candidate) Outcome {
	qualifying := make([]ScoredCandidate, 0, len(candidates))
	best := 0.0
	for _, c := range candidates {
		s := Score(name, c.Name)
		if s > best {
			best = s
		}
		if s >= MatchThreshold {
			qualifying = append(qualifying, ScoredCandidate{Candidate: c, Score: s})
		}
	}

	if len(qualifying) == 0 {
		return Outcome{Kind: OutcomeCreated, Score: best}
	}

	sort.SliceStable(qualifying, func(i, j int) bool {
		return qualifying[i].Score > qualifying[j].Score
	})

	if len(qualifying) >= 2 && qualifying[0].Score-qualifying[1].Score < TieMargin {
		return Outcome{
			Kind:       OutcomeAmbiguous,
			Score:      qualifying[0].Score,
			Candidates: withinMargin(qualifying),
		}
	}

	return Outcome{
		Kind:       OutcomeMatched,
		CustomerID: qualifying[0].ID,
		Score:      qualifying[0].Score,
	}
}

// withinMargin keeps the candidates close enough to the best score to be
// genuine alternatives; a distant third qualifier is not worth asking
// the shopkeeper about.
func withinMargin(sorted []ScoredCandidate) []ScoredCandidate {
	out := make([]ScoredCandidate, 0, len(sorted))
	out = append(out, sorted[0])
	for _, c := range sorted[1:] {
		if sorted[0].Score-c.Score < TieMargin {
			out = append(out, c)
		}
	}
	return out
}
