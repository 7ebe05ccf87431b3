package store

import (
	"context"

	"github.com/lepinkainen/bookcall/internal/catalog"
)

// Store defines the book storage behind the fixture catalog server
type Store interface {
	// Connect establishes a connection to the data store
	Connect() error

	// InsertBooks appends books in order
	InsertBooks(ctx context.Context, books []catalog.Book) error

	// AllBooks returns every book in insertion order
	AllBooks(ctx context.Context) (catalog.Books, error)

	// BookByISBN returns the book with the exact ISBN, and whether it exists
	BookByISBN(ctx context.Context, isbn string) (catalog.Book, bool, error)

	// BooksByAuthor returns books whose author contains author, case-insensitively
	BooksByAuthor(ctx context.Context, author string) (catalog.Books, error)

	// BooksByTitle returns books whose title contains title, case-insensitively
	BooksByTitle(ctx context.Context, title string) (catalog.Books, error)

	// Close closes the connection to the data store
	Close() error
}
