package repository

import (
	"github.com/clubbravado/fightfeed/internal/modules/catalog/domain"
)

// Repository loads the source catalog.
type Repository interface {
	Load() (*domain.Catalog, error)
}

// StaticRepository serves the built-in catalog.
type StaticRepository struct{}

// NewStatic creates a repository backed by the built-in defaults
func NewStatic() Repository {
	return StaticRepository{}
}

func (StaticRepository) Load() (*domain.Catalog, error) {
	return domain.New(domain.DefaultCategories())
}
