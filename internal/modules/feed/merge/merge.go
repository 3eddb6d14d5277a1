package merge

import (
	"strings"

	"github.com/clubbravado/fightfeed/internal/modules/feed/domain"
	"github.com/clubbravado/fightfeed/internal/modules/feed/normalize"
)

// Key is the identity used for de-duplication: the normalized link, or the title when there is no link.
func Key(item domain.FeedItem) string {
	if link := strings.TrimSpace(item.Link); link != "" {
		return normalize.URL(link)
	}
	return strings.TrimSpace(item.Title)
}

// Merge flattens lists in order, keeping the first item for each key.
// Items without a key are dropped. Kept items carry their normalized link.
func Merge(lists [][]domain.FeedItem) []domain.FeedItem {
	total := 0
	for _, list := range lists {
		total += len(list)
	}

	seen := make(map[string]struct{}, total)
	merged := make([]domain.FeedItem, 0, total)
	for _, list := range lists {
		for _, item := range list {
			key := Key(item)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			if strings.TrimSpace(item.Link) != "" {
				item.Link = key
			}
			merged = append(merged, item)
		}
	}
	return merged
}

// Dedup removes repeated keys from a single list.
func Dedup(items []domain.FeedItem) []domain.FeedItem {
	return Merge([][]domain.FeedItem{items})
}
