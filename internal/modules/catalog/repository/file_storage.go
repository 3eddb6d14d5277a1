package repository

import (
	"os"

	"github.com/clubbravado/fightfeed/internal/modules/catalog/domain"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk layout:
//
//	categories:
//	  all:
//	    - https://...
//	  boxing:
//	    - https://...
type catalogFile struct {
	Categories map[string][]string `yaml:"categories"`
}

// FileStorage reads the catalog from a YAML file.
type FileStorage struct {
	path string
}

// NewFileStorage creates a file-based catalog repository
func NewFileStorage(path string) Repository {
	return &FileStorage{path: path}
}

func (s *FileStorage) Load() (*domain.Catalog, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, oops.With("catalog_path", s.path, "context", "failed to open catalog").Wrap(err)
	}
	defer f.Close()

	var file catalogFile
	if err := yaml.NewDecoder(f).Decode(&file); err != nil {
		return nil, oops.With("catalog_path", s.path, "context", "failed to decode catalog").Wrap(err)
	}

	catalog, err := domain.New(file.Categories)
	if err != nil {
		return nil, oops.With("catalog_path", s.path).Wrap(err)
	}
	return catalog, nil
}
