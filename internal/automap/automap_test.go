package automap

import (
	"math"
	"reflect"
	"regexp"
	"testing"

	"github.com/JonMunkholm/csvmap/internal/mapping"
)

// ----------------------------------------------------------------------------
// Normalize / Similarity Tests
// ----------------------------------------------------------------------------

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Full Name", "full name"},
		{"  customer_ID ", "customer id"},
		{"e-mail__address", "e mail address"},
		{"a \t\n b", "a b"},
		{"", ""},
	}
	for _, tt := range tests {
		got := Normalize(tt.in)
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := Normalize(got); again != got {
			t.Errorf("Normalize not idempotent for %q: %q then %q", tt.in, got, again)
		}
	}
}

func TestSimilarity(t *testing.T) {
	for _, s := range []string{"a", "name", "Full Name", "x_y"} {
		if got := Similarity(s, s); got != 1 {
			t.Errorf("Similarity(%q, %q) = %v, want 1", s, s, got)
		}
	}
	for _, s := range []string{"", "name", "  "} {
		if got := Similarity("", s); got != 0 {
			t.Errorf("Similarity(\"\", %q) = %v, want 0", s, got)
		}
	}

	// night/nacht share only "ht": 2*1/(4+4)
	if got := Similarity("night", "nacht"); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("Similarity(night, nacht) = %v, want 0.25", got)
	}
	// repeated bigrams count once per occurrence: "aaaa" has aa x3, "aa" x1
	if got := Similarity("aaaa", "aa"); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Similarity(aaaa, aa) = %v, want 0.5", got)
	}
	if got := Similarity("Customer_Name", "customer name"); got != 1 {
		t.Errorf("Similarity ignores normalization differences: got %v", got)
	}
}

// ----------------------------------------------------------------------------
// Score Tests
// ----------------------------------------------------------------------------

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cand   Candidate
		want   float64
	}{
		{"matcher on raw", "SKU#", Candidate{Name: "sku", Matcher: Pattern(regexp.MustCompile(`^SKU`))}, ScoreMatcher},
		{"matcher on normalized", "Product-Code", Candidate{Name: "sku", Matcher: MatchFunc(func(h string) bool { return h == "product code" })}, ScoreMatcher},
		{"exact name", "E_Mail", Candidate{Name: "e mail"}, ScoreExact},
		{"exact title", "Full Name", Candidate{Name: "name", Title: "Full Name"}, ScoreExact},
		{"substring", "Email Address", Candidate{Name: "email"}, ScoreSubstring},
		{"empty header", "", Candidate{Name: "email"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.header, tt.cand); got != tt.want {
				t.Errorf("Score(%q) = %v, want %v", tt.header, got, tt.want)
			}
		})
	}
}

func TestScore_SimilarityWeighted(t *testing.T) {
	got := Score("night", Candidate{Name: "nacht"})
	if want := 0.25 * SimilarityBias; math.Abs(got-want) > 1e-9 {
		t.Errorf("Score = %v, want %v", got, want)
	}
}

func TestScore_PanickingMatcherIsNonMatch(t *testing.T) {
	c := Candidate{Name: "zzz", Matcher: MatchFunc(func(string) bool { panic("boom") })}
	if got := Score("sku", c); got >= ScoreMatcher {
		t.Errorf("Score with panicking matcher = %v", got)
	}
}

func TestRank(t *testing.T) {
	cands := []Candidate{{Name: "email"}, {Name: "name", Title: "Full Name"}}
	got := Rank("Full Name", cands)
	if got[0].Target != "name" || got[0].Score != ScoreExact {
		t.Errorf("Rank()[0] = %+v", got[0])
	}
	if len(got) != 2 {
		t.Errorf("len(Rank()) = %d", len(got))
	}
}

// ----------------------------------------------------------------------------
// Suggest Tests
// ----------------------------------------------------------------------------

func TestSuggest_FullNameEmail(t *testing.T) {
	headers := []string{"Full Name", "Email Address"}
	cands := []Candidate{{Name: "name", Title: "Full Name"}, {Name: "email"}}

	for _, mode := range []Mode{SourceToTarget, TargetToSource} {
		t.Run(mode.String(), func(t *testing.T) {
			m := Suggest(headers, cands, nil, Options{Threshold: 0.8, Mode: mode})
			want := map[string][]string{"Full Name": {"name"}, "Email Address": {"email"}}
			if got := m.Map(); !reflect.DeepEqual(got, want) {
				t.Errorf("Suggest() = %v, want %v", got, want)
			}
		})
	}
}

func TestSuggest_BelowThresholdUnmapped(t *testing.T) {
	m := Suggest([]string{"Zip"}, []Candidate{{Name: "email"}}, nil, Options{})
	if m.Len() != 0 {
		t.Errorf("Suggest() mapped %v", m.Map())
	}
}

func TestSuggest_TargetCap(t *testing.T) {
	headers := []string{"Email", "email_address"}

	single := Suggest(headers, []Candidate{{Name: "email"}}, nil, Options{})
	if got := single.Sources(); !reflect.DeepEqual(got, []string{"Email"}) {
		t.Errorf("capped target sources = %v, want [Email]", got)
	}

	dup := Suggest(headers, []Candidate{{Name: "email", AllowDuplicates: true}}, nil, Options{})
	if got := dup.SourcesOf("email"); !reflect.DeepEqual(got, []string{"Email", "email_address"}) {
		t.Errorf("duplicate-allowed sources = %v", got)
	}
}

func TestSuggest_AdditiveAndNonDestructive(t *testing.T) {
	existing := mapping.New()
	existing.Set("Contact", "email")

	headers := []string{"Contact", "Email", "Name"}
	cands := []Candidate{{Name: "email"}, {Name: "name"}}

	m := Suggest(headers, cands, existing, Options{})

	if got := m.Targets("Contact"); !reflect.DeepEqual(got, []string{"email"}) {
		t.Errorf("existing pair changed: %v", got)
	}
	if m.Has("Email") {
		t.Errorf("already-used target reassigned to Email: %v", m.Targets("Email"))
	}
	if got := m.Targets("Name"); !reflect.DeepEqual(got, []string{"name"}) {
		t.Errorf("Targets(Name) = %v", got)
	}
	if existing.Len() != 1 {
		t.Errorf("existing mapping modified: %v", existing.Map())
	}

	again := Suggest(headers, cands, m, Options{})
	if !reflect.DeepEqual(again.Map(), m.Map()) {
		t.Errorf("second Suggest changed mapping: %v vs %v", again.Map(), m.Map())
	}
}

func TestSuggest_TargetModeSourceUsedOnce(t *testing.T) {
	headers := []string{"Email"}
	cands := []Candidate{{Name: "email"}, {Name: "e_mail"}}
	m := Suggest(headers, cands, nil, Options{Mode: TargetToSource})
	if got := m.Targets("Email"); !reflect.DeepEqual(got, []string{"email"}) {
		t.Errorf("Targets(Email) = %v, want [email]", got)
	}
}

func TestSuggest_GreedyInInputOrder(t *testing.T) {
	// The first header takes the only slot even though the second is a
	// better match.
	headers := []string{"customer name", "name"}
	m := Suggest(headers, []Candidate{{Name: "name"}}, nil, Options{})
	if got := m.Sources(); !reflect.DeepEqual(got, []string{"customer name"}) {
		t.Errorf("Sources() = %v, want [customer name]", got)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", SourceToTarget, false},
		{"source", SourceToTarget, false},
		{"Target", TargetToSource, false},
		{"target-to-source", TargetToSource, false},
		{"sideways", SourceToTarget, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMode(%q) = (%v, %v)", tt.in, got, err)
		}
	}
}
