//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// Kind selects which pipeline a listing goes through
// ENUM(all,news,videos)
type Kind string

// ParseKindOrAll resolves s to a Kind, falling back to KindAll for unknown values.
func ParseKindOrAll(s string) Kind {
	kind, err := ParseKind(s)
	if err != nil {
		return KindAll
	}
	return kind
}
