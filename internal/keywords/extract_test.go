package keywords

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	got := Normalize("  Trip to Tokyo,   next SPRING!! (booking) ")
	want := "trip to tokyo next spring booking"
	if got != want {
		t.Fatalf("Normalize = %q, want %q", got, want)
	}
}

func TestCandidatesAllStopwords(t *testing.T) {
	if got := Candidates("the the the", MaxCandidates); len(got) != 0 {
		t.Fatalf("expected no candidates for stopword-only text, got %v", got)
	}
}

func TestCandidatesFilters(t *testing.T) {
	cands := Candidates("go go to 1234 5678 tokyo", MaxCandidates)
	for _, c := range cands {
		switch c.Phrase {
		case "go":
			t.Fatalf("single token shorter than 3 chars must be dropped: %v", cands)
		case "to":
			t.Fatalf("single stopword must be dropped: %v", cands)
		case "1234", "5678", "1234 5678":
			t.Fatalf("phrase without letters must be dropped: %v", cands)
		}
	}
	found := false
	for _, c := range cands {
		if c.Phrase == "tokyo" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected tokyo to survive, got %v", cands)
	}
}

func TestCandidatesFrequencyThenLength(t *testing.T) {
	text := "flights flights flights booking hotels booking hotels booking"
	cands := Candidates(text, MaxCandidates)
	if len(cands) == 0 {
		t.Fatal("expected candidates")
	}
	for i := 1; i < len(cands); i++ {
		prev, cur := cands[i-1], cands[i]
		if prev.Count < cur.Count {
			t.Fatalf("candidates not sorted by count: %v", cands)
		}
		if prev.Count == cur.Count && len(prev.Phrase) < len(cur.Phrase) {
			t.Fatalf("ties must prefer longer phrases: %v", cands)
		}
	}
}

func TestCandidatesCap(t *testing.T) {
	words := make([]string, 0, 200)
	for _, base := range []string{"alpha", "bravo", "delta", "omega", "sigma"} {
		for i := 0; i < 40; i++ {
			words = append(words, base+string(rune('a'+i%26))+string(rune('a'+i/26)))
		}
	}
	cands := Candidates(strings.Join(words, " "), MaxCandidates)
	if len(cands) > MaxCandidates {
		t.Fatalf("candidate count %d exceeds cap %d", len(cands), MaxCandidates)
	}
}

func TestLimitScalesWithLength(t *testing.T) {
	short := "quick note about flights"
	if got := Limit(short); got != 5 {
		t.Fatalf("short text limit = %d, want 5", got)
	}
	long := strings.Repeat("word ", 350)
	if got := Limit(long); got != 8 {
		t.Fatalf("350-word text limit = %d, want 8", got)
	}
	huge := strings.Repeat("word ", 5000)
	if got := Limit(huge); got != 15 {
		t.Fatalf("huge text limit = %d, want capped 15", got)
	}
}
