package store

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/lepinkainen/bookcall/internal/catalog"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// seedFile is the on-disk shape of a seed catalog.
type seedFile struct {
	Books []catalog.Book `yaml:"books"`
}

// LoadSeed decodes a YAML seed catalog. Every book needs an ISBN.
func LoadSeed(r io.Reader) ([]catalog.Book, error) {
	var seed seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		if err == io.EOF {
			return []catalog.Book{}, nil
		}
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}

	seen := make(map[string]struct{}, len(seed.Books))
	for i, b := range seed.Books {
		if b.ISBN == "" {
			return nil, fmt.Errorf("seed entry %d (%q) has no isbn", i, b.Title)
		}
		if _, dup := seen[b.ISBN]; dup {
			return nil, fmt.Errorf("seed entry %d duplicates isbn %s", i, b.ISBN)
		}
		seen[b.ISBN] = struct{}{}
	}
	if seed.Books == nil {
		seed.Books = []catalog.Book{}
	}
	return seed.Books, nil
}

// DefaultSeed returns the built-in catalog.
func DefaultSeed() []catalog.Book {
	books, err := LoadSeed(bytes.NewReader(defaultSeed))
	if err != nil {
		panic(fmt.Sprintf("embedded seed is invalid: %v", err))
	}
	return books
}

// LoadSeedFile reads a seed catalog from path, or the built-in one when path
// is empty.
func LoadSeedFile(path string) ([]catalog.Book, error) {
	if path == "" {
		return DefaultSeed(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return LoadSeed(f)
}

// Seed inserts books into s.
func Seed(ctx context.Context, s Store, books []catalog.Book) error {
	if err := s.InsertBooks(ctx, books); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	return nil
}
