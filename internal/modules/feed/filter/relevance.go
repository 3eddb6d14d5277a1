package filter

import (
	"regexp"
	"strings"

	"github.com/clubbravado/fightfeed/internal/modules/feed/domain"
	"github.com/samber/lo"
)

// DefaultInclude lists combat-sports vocabulary: sports, organizations and outcome terms.
var DefaultInclude = []string{
	"mma", "ufc", "bellator", "pfl", "one championship", "one fc", "cage warriors", "rizin",
	"boxing", "boxer", "fight", "fighter", "title fight", "undercard", "main event",
	"muay", "muay thai", "kickboxing", "glory", "bkfc", "bare knuckle",
	"wbc", "wba", "ibf", "wbo", "ring magazine", "matchroom", "top rank",
	"bjj", "jiu-jitsu", "jiu jitsu", "jiujitsu", "grappling", "grappler", "adcc", "ibjjf",
	"wrestling", "wrestler", "freestyle wrestling", "greco-roman",
	"ko", "tko", "knockout", "submission", "weigh-in", "weigh in",
	"heavyweight", "welterweight", "lightweight", "middleweight", "featherweight",
	"bantamweight", "flyweight", "strawweight",
}

// DefaultExclude lists terms that reject an item even when it also mentions a sport.
var DefaultExclude = []string{"powerball", "lottery"}

type matcher func(text string) bool

// Relevance accepts items that match an inclusion keyword and no exclusion keyword.
type Relevance struct {
	include []matcher
	exclude []matcher
}

// NewRelevance compiles keyword lists. Phrases and tokens longer than three
// characters match as substrings; short tokens must match a whole word.
func NewRelevance(include, exclude []string) *Relevance {
	return &Relevance{
		include: compile(include),
		exclude: compile(exclude),
	}
}

func compile(keywords []string) []matcher {
	return lo.FilterMap(keywords, func(keyword string, _ int) (matcher, bool) {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword == "" {
			return nil, false
		}
		if strings.Contains(keyword, " ") || len(keyword) > 3 {
			return func(text string) bool { return strings.Contains(text, keyword) }, true
		}
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\b`)
		return re.MatchString, true
	})
}

func matchesAny(text string, matchers []matcher) bool {
	return lo.SomeBy(matchers, func(m matcher) bool { return m(text) })
}

// Accept reports whether item is relevant.
func (r *Relevance) Accept(item domain.FeedItem) bool {
	text := strings.ToLower(item.Title + " " + item.Summary)
	if matchesAny(text, r.exclude) {
		return false
	}
	return matchesAny(text, r.include)
}

// Apply keeps the relevant items in their original order.
func (r *Relevance) Apply(items []domain.FeedItem) []domain.FeedItem {
	return lo.Filter(items, func(item domain.FeedItem, _ int) bool {
		return r.Accept(item)
	})
}
