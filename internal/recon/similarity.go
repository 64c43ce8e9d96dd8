package recon

import (
	"strings"
	"unicode"
)

// Scorer computes OCR-aware string similarity. Substitutions and
// transpositions between characters of the same confusion set are charged a
// reduced cost, so "5" misread as "S" barely dents the score. A Scorer is
// immutable after construction and safe for concurrent use.
type Scorer struct {
	classes map[rune]uint32
	cost    float64
}

// NewScorer builds a scorer from confusion sets. Each set is given as a
// string of mutually confusable characters; membership is checked case
// insensitively. cost is the reduced edit cost inside a set.
func NewScorer(sets []string, cost float64) *Scorer {
	classes := make(map[rune]uint32)
	for i, set := range sets {
		for _, r := range strings.ToLower(set) {
			classes[r] |= 1 << uint(i)
		}
	}
	return &Scorer{classes: classes, cost: cost}
}

func (s *Scorer) inClass(r rune) bool {
	return s.classes[unicode.ToLower(r)] != 0
}

// confusable reports whether two distinct characters share a confusion set.
func (s *Scorer) confusable(a, b rune) bool {
	if a == b {
		return false
	}
	return s.classes[unicode.ToLower(a)]&s.classes[unicode.ToLower(b)] != 0
}

// pairMatches reports whether a source/target character pair lines up either
// exactly or through a confusion set.
func (s *Scorer) pairMatches(a, b rune) bool {
	return a == b || s.confusable(a, b)
}

// Similarity returns a score in [0,1]: 1 minus the weighted edit distance
// divided by the longer length, floored at zero. Equal strings score 1 and a
// single empty operand scores 0. The distance is optimal string alignment
// with float costs: insertions and deletions cost 1, substitutions cost 1 or
// the reduced OCR cost inside a confusion set, and an adjacent transposition
// is allowed whenever both crossed pairs line up exactly or confusably, at
// the base transposition cost plus the OCR cost per non-exact pair.
func (s *Scorer) Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 || lb == 0 {
		return 0
	}

	d := make([][]float64, la+1)
	for i := range d {
		d[i] = make([]float64, lb+1)
		d[i][0] = float64(i)
	}
	for j := 1; j <= lb; j++ {
		d[0][j] = float64(j)
	}

	for i := 1; i <= la; i++ {
		for j := 1; j <= lb; j++ {
			sub := 1.0
			switch {
			case ra[i-1] == rb[j-1]:
				sub = 0
			case s.confusable(ra[i-1], rb[j-1]):
				sub = s.cost
			}
			best := d[i-1][j-1] + sub
			if v := d[i-1][j] + 1; v < best {
				best = v
			}
			if v := d[i][j-1] + 1; v < best {
				best = v
			}
			if i > 1 && j > 1 && s.pairMatches(ra[i-1], rb[j-2]) && s.pairMatches(ra[i-2], rb[j-1]) {
				cost := 1.0
				if s.inClass(ra[i-1]) && s.inClass(ra[i-2]) {
					cost = s.cost
				}
				if ra[i-1] != rb[j-2] {
					cost += s.cost
				}
				if ra[i-2] != rb[j-1] {
					cost += s.cost
				}
				if v := d[i-2][j-2] + cost; v < best {
					best = v
				}
			}
			d[i][j] = best
		}
	}

	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	score := 1 - d[la][lb]/float64(maxLen)
	if score < 0 {
		return 0
	}
	return score
}

// Variants generates the OCR misread neighborhood of a plate: every single
// confusion-set substitution, plus each of those followed by one adjacent
// transposition. The input itself is included. Used for exact membership
// lookups against registered plates before falling back to scoring.
func (s *Scorer) Variants(in string) map[string]struct{} {
	out := map[string]struct{}{in: {}}
	r := []rune(in)

	subs := [][]rune{r}
	for i, c := range r {
		mask := s.classes[unicode.ToLower(c)]
		if mask == 0 {
			continue
		}
		for mate, mmask := range s.classes {
			if mate == unicode.ToLower(c) || mmask&mask == 0 {
				continue
			}
			v := make([]rune, len(r))
			copy(v, r)
			if unicode.IsUpper(c) || unicode.IsDigit(c) {
				v[i] = unicode.ToUpper(mate)
			} else {
				v[i] = mate
			}
			out[string(v)] = struct{}{}
			subs = append(subs, v)
		}
	}
	for _, v := range subs {
		for i := 0; i+1 < len(v); i++ {
			if v[i] == v[i+1] {
				continue
			}
			w := make([]rune, len(v))
			copy(w, v)
			w[i], w[i+1] = w[i+1], w[i]
			out[string(w)] = struct{}{}
		}
	}
	return out
}
