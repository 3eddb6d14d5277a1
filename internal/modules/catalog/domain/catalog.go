package domain

import (
	"slices"
	"sort"
	"strings"

	"github.com/clubbravado/fightfeed/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// AllCategory is the category every unknown tab falls back to.
const AllCategory = "all"

// Catalog maps a category name to its ordered feed URLs. It is immutable once built.
type Catalog struct {
	categories map[string][]string
}

// New validates and copies categories. Names are matched case-insensitively.
func New(categories map[string][]string) (*Catalog, error) {
	normalized := make(map[string][]string, len(categories))
	for name, urls := range categories {
		key := strings.ToLower(strings.TrimSpace(name))
		cleaned := lo.Uniq(lo.FilterMap(urls, func(u string, _ int) (string, bool) {
			u = strings.TrimSpace(u)
			return u, u != ""
		}))
		if len(cleaned) == 0 {
			return nil, oops.With("category", name).Wrap(errors.ErrEmptyCategory)
		}
		normalized[key] = cleaned
	}

	if _, ok := normalized[AllCategory]; !ok {
		return nil, errors.ErrMissingAllCategory
	}

	return &Catalog{categories: normalized}, nil
}

// Resolve returns the effective category name and its URLs. Unknown names resolve to "all".
func (c *Catalog) Resolve(category string) (string, []string) {
	key := strings.ToLower(strings.TrimSpace(category))
	urls, ok := c.categories[key]
	if !ok {
		key = AllCategory
		urls = c.categories[AllCategory]
	}
	return key, slices.Clone(urls)
}

// Categories lists category names with "all" first and the rest sorted.
func (c *Catalog) Categories() []string {
	names := lo.Without(lo.Keys(c.categories), AllCategory)
	sort.Strings(names)
	return append([]string{AllCategory}, names...)
}
