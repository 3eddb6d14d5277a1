package domain

var (
	mmaFeeds = []string{
		"https://mmajunkie.usatoday.com/feed",
		"https://www.mmafighting.com/rss/index.xml",
		"https://www.themaclife.com/feed/",
		"https://www.bloodyelbow.com/rss/index.xml",
		"https://www.sherdog.com/rss/news.xml",
	}
	boxingFeeds = []string{
		"https://www.boxingscene.com/rss.php",
		"https://www.badlefthook.com/rss/index.xml",
		"https://www.ringtv.com/feed/",
		"https://www.worldboxingnews.net/feed/",
		"https://fightnews.com/feed/",
		"https://www.boxingnewsonline.net/feed/",
	}
	muayFeeds = []string{
		"https://www.onefc.com/news/feed/",
		"https://www.muaythaicitizen.com/feed/",
		"https://www.wbcmuaythai.com/feed/",
	}
	bjjFeeds = []string{
		"https://www.bjjheroes.com/feed",
		"https://www.jiujitsutimes.com/feed",
		"https://graciemag.com/en/feed/",
		"https://adccnews.com/feed/",
	}
	wrestlingFeeds = []string{
		"https://news.theopenmat.com/feed/",
		"https://www.win-magazine.com/feed/",
		"https://theguillotine.com/feed/",
		"https://intermatwrestle.com/feed",
	}
)

// DefaultCategories is the built-in source list.
func DefaultCategories() map[string][]string {
	all := make([]string, 0, 32)
	for _, group := range [][]string{mmaFeeds, boxingFeeds, muayFeeds, bjjFeeds, wrestlingFeeds} {
		all = append(all, group...)
	}

	return map[string][]string{
		AllCategory: all,
		"mma": {
			"https://mmajunkie.usatoday.com/feed",
			"https://www.mmafighting.com/rss/index.xml",
			"https://www.bloodyelbow.com/rss/index.xml",
			"https://www.sherdog.com/rss/news.xml",
			"https://www.themaclife.com/feed/",
			"https://www.onefc.com/news/feed/",
		},
		"ufc": {
			"https://mmajunkie.usatoday.com/tag/ufc/feed",
			"https://www.mmafighting.com/ufc/rss/index.xml",
			"https://www.themaclife.com/tag/ufc/feed/",
		},
		"boxing":    append([]string(nil), boxingFeeds...),
		"muay":      append([]string(nil), muayFeeds...),
		"bjj":       append([]string(nil), bjjFeeds...),
		"wrestling": append([]string(nil), wrestlingFeeds...),
	}
}
