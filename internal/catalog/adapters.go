package catalog

import (
	"context"
	"fmt"

	"github.com/lepinkainen/bookcall/internal/errors"
)

// Callback receives the outcome of FetchAllBooksCallback: (nil, books) on
// success, (err, nil) on failure.
type Callback func(err error, books Books)

// FetchAllBooksCallback lists all books and reports through cb.
//
// cb is called exactly once, from a goroutine started here, so it never runs
// on the caller's stack. A failure arrives as a *errors.RequestError whose
// message is the normalized description.
func (c *Client) FetchAllBooksCallback(ctx context.Context, cb Callback) {
	go func() {
		books, err := c.ListBooks(ctx)
		if err != nil {
			cb(errors.Normalize(err), nil)
			return
		}
		cb(nil, books)
	}()
}

// FetchByISBNPromise starts fetching one book and returns its Future.
//
// The future rejects with *errors.NotFoundError when the catalog has nothing
// for isbn, and with a *errors.RequestError for transport, status and decode
// failures. The two carry different messages; tell them apart with
// errors.IsNotFound rather than by text.
func (c *Client) FetchByISBNPromise(ctx context.Context, isbn string) *Future[Book] {
	return Go(func() (Book, error) {
		book, err := c.BookByISBN(ctx, isbn)
		if err == nil {
			return book, nil
		}
		if errors.IsNotFound(err) {
			return Book{}, err
		}
		return Book{}, &errors.RequestError{
			Message: fmt.Sprintf("failed to fetch book with ISBN %s: %s", isbn, errors.Describe(err)),
			Err:     err,
		}
	})
}

// FetchByAuthor returns the books by author. Failures are logged and
// degrade to an empty, non-nil Books so the result is always safe to range
// over.
func (c *Client) FetchByAuthor(ctx context.Context, author string) Books {
	return c.safeSearch(ctx, "author", author, c.BooksByAuthor)
}

// FetchByTitle returns the books matching title, or an empty Books on
// failure (logged, not returned).
func (c *Client) FetchByTitle(ctx context.Context, title string) Books {
	return c.safeSearch(ctx, "title", title, c.BooksByTitle)
}

func (c *Client) safeSearch(ctx context.Context, field, value string, fetch func(context.Context, string) (Books, error)) Books {
	books, err := fetch(ctx, value)
	if err != nil {
		c.logger.Warn("Book search failed, returning no results",
			"by", field,
			"query", value,
			"error", errors.Describe(err))
		return Books{}
	}
	return books
}
