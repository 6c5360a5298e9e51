// Package automap proposes source header to target column mappings from
// header text alone.
//
// Headers and target names are compared after normalization (lower case,
// underscores and hyphens read as spaces, whitespace collapsed). A target's
// explicit matcher wins outright, then exact and substring matches, then
// bigram similarity. Assignment is greedy in input order, not globally
// optimal.
package automap

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/JonMunkholm/csvmap/internal/mapping"
)

// DefaultThreshold is the minimum score a suggestion needs.
const DefaultThreshold = 0.8

// Score weights.
const (
	ScoreMatcher   = 1.0
	ScoreExact     = 0.98
	ScoreSubstring = 0.90
	SimilarityBias = 0.85
)

// Matcher decides whether a raw or normalized header names a target.
type Matcher interface {
	Match(header string) bool
}

// MatchFunc adapts a function to Matcher.
type MatchFunc func(header string) bool

// Match calls f.
func (f MatchFunc) Match(header string) bool { return f(header) }

type patternMatcher struct{ re *regexp.Regexp }

func (p patternMatcher) Match(header string) bool { return p.re.MatchString(header) }

func (p patternMatcher) String() string { return p.re.String() }

// Pattern returns a Matcher that accepts headers matching re.
func Pattern(re *regexp.Regexp) Matcher {
	return patternMatcher{re: re}
}

// Candidate is one target column as the auto-mapper sees it.
type Candidate struct {
	Name            string
	Title           string
	Matcher         Matcher
	AllowDuplicates bool
}

// Mode selects which side drives assignment.
type Mode int

const (
	// SourceToTarget walks source headers and picks the best target for each.
	SourceToTarget Mode = iota
	// TargetToSource walks targets and picks the best source header for each.
	TargetToSource
)

func (m Mode) String() string {
	if m == TargetToSource {
		return "target"
	}
	return "source"
}

// ParseMode reads "source" or "target" (the long forms "source-to-target"
// and "target-to-source" are accepted too).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "source", "source-to-target":
		return SourceToTarget, nil
	case "target", "target-to-source":
		return TargetToSource, nil
	default:
		return SourceToTarget, fmt.Errorf("unknown automap mode %q", s)
	}
}

// Options tune Suggest. A zero Threshold means DefaultThreshold.
type Options struct {
	Threshold float64
	Mode      Mode
}

// Match is one scored header/target pair.
type Match struct {
	Header string
	Target string
	Score  float64
}

// Normalize lower-cases s, reads '_' and '-' as spaces, collapses runs of
// whitespace and trims.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// Similarity is the Dice coefficient over the character bigrams of the
// normalized strings, counting repeated bigrams. It is 0 when either side
// is empty and 1 when both are equal.
func Similarity(a, b string) float64 {
	a, b = Normalize(a), Normalize(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	ra, rb := []rune(a), []rune(b)
	if len(ra) < 2 || len(rb) < 2 {
		return 0
	}

	counts := make(map[[2]rune]int, len(ra)-1)
	for i := 0; i+1 < len(ra); i++ {
		counts[[2]rune{ra[i], ra[i+1]}]++
	}

	shared := 0
	for i := 0; i+1 < len(rb); i++ {
		bg := [2]rune{rb[i], rb[i+1]}
		if counts[bg] > 0 {
			counts[bg]--
			shared++
		}
	}

	return 2 * float64(shared) / float64(len(ra)-1+len(rb)-1)
}

// Score rates how well header names candidate c, between 0 and 1.
func Score(header string, c Candidate) float64 {
	nh := Normalize(header)

	if c.Matcher != nil && (safeMatch(c.Matcher, header) || safeMatch(c.Matcher, nh)) {
		return ScoreMatcher
	}
	if nh == "" {
		return 0
	}

	nn, nt := Normalize(c.Name), Normalize(c.Title)
	if nh == nn || (nt != "" && nh == nt) {
		return ScoreExact
	}

	score := 0.0
	if (nn != "" && strings.Contains(nh, nn)) || (nt != "" && strings.Contains(nh, nt)) {
		score = ScoreSubstring
	}
	score = max(score, Similarity(nh, nn)*SimilarityBias, Similarity(nh, nt)*SimilarityBias)
	return score
}

// safeMatch treats a panicking matcher as a non-match.
func safeMatch(m Matcher, header string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	return m.Match(header)
}

// Rank scores header against every candidate, best first. Ties keep
// candidate order.
func Rank(header string, cands []Candidate) []Match {
	out := make([]Match, len(cands))
	for i, c := range cands {
		out[i] = Match{Header: header, Target: c.Name, Score: Score(header, c)}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// Suggest returns existing extended with suggestions for headers. Pairs
// already in existing are kept and never reassigned; existing itself is not
// modified and may be nil.
//
// A target accepts one source unless it allows duplicates. In
// TargetToSource mode every source header is used at most once.
func Suggest(headers []string, cands []Candidate, existing *mapping.Mapping, opts Options) *mapping.Mapping {
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	out := mapping.New()
	if existing != nil {
		out = existing.Clone()
	}
	usage := out.AllTargets()

	if opts.Mode == TargetToSource {
		suggestByTarget(headers, cands, out, usage, threshold)
	} else {
		suggestBySource(headers, cands, out, usage, threshold)
	}
	return out
}

func suggestBySource(headers []string, cands []Candidate, out *mapping.Mapping, usage map[string]int, threshold float64) {
	for _, h := range headers {
		if out.Has(h) {
			continue
		}

		best, bestScore := -1, 0.0
		for i, c := range cands {
			if !c.AllowDuplicates && usage[c.Name] > 0 {
				continue
			}
			if s := Score(h, c); s > bestScore {
				best, bestScore = i, s
			}
		}

		if best >= 0 && bestScore >= threshold {
			out.Add(h, cands[best].Name)
			usage[cands[best].Name]++
		}
	}
}

func suggestByTarget(headers []string, cands []Candidate, out *mapping.Mapping, usage map[string]int, threshold float64) {
	used := make(map[string]bool)
	for _, s := range out.Sources() {
		used[s] = true
	}

	for _, c := range cands {
		if !c.AllowDuplicates && usage[c.Name] > 0 {
			continue
		}

		best, bestScore := "", 0.0
		for _, h := range headers {
			if used[h] {
				continue
			}
			if s := Score(h, c); s > bestScore {
				best, bestScore = h, s
			}
		}

		if best != "" && bestScore >= threshold {
			out.Add(best, c.Name)
			usage[c.Name]++
			used[best] = true
		}
	}
}
