package filter

import (
	"testing"

	"github.com/clubbravado/fightfeed/internal/modules/feed/domain"
)

func TestRelevanceDefaults(t *testing.T) {
	r := NewRelevance(DefaultInclude, DefaultExclude)

	tests := []struct {
		title   string
		summary string
		want    bool
	}{
		{"UFC 300 results", "", true},
		{"Powerball jackpot climbs", "", false},
		{"Powerball winner attends UFC event", "", false},
		{"Stock markets rally", "Tech shares led gains", false},
		{"Brutal KO in the second round", "", true},
		{"Kokomo city council meets", "", false},
		{"Gordon Ryan headlines ADCC", "", true},
		{"Weather update", "Rain expected before the main event at the arena", true},
		{"Rodtang Muay Thai return", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			item := domain.FeedItem{Title: tt.title, Summary: tt.summary}
			if got := r.Accept(item); got != tt.want {
				t.Fatalf("Accept(%q) = %v, want %v", tt.title, got, tt.want)
			}
		})
	}
}

func TestRelevanceShortTokensMatchWholeWords(t *testing.T) {
	r := NewRelevance([]string{"ko"}, nil)

	if !r.Accept(domain.FeedItem{Title: "KO of the year"}) {
		t.Fatal("whole-word short token should match")
	}
	if r.Accept(domain.FeedItem{Title: "Tokyo travel guide"}) {
		t.Fatal("short token must not match inside a word")
	}
}

func TestRelevanceEmptyIncludeRejectsAll(t *testing.T) {
	r := NewRelevance(nil, nil)
	if r.Accept(domain.FeedItem{Title: "UFC 300"}) {
		t.Fatal("default deny expected with no inclusion keywords")
	}
}

func TestApplyKeepsOrder(t *testing.T) {
	r := NewRelevance(DefaultInclude, DefaultExclude)
	items := []domain.FeedItem{
		{Title: "Boxing: Usyk vs Fury"},
		{Title: "Lottery numbers"},
		{Title: "PFL Championship recap"},
	}

	got := r.Apply(items)
	if len(got) != 2 || got[0].Title != "Boxing: Usyk vs Fury" || got[1].Title != "PFL Championship recap" {
		t.Fatalf("Apply() = %+v", got)
	}
}
