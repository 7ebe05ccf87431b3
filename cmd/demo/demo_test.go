package demo

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lepinkainen/bookcall/cmd/serve"
	"github.com/lepinkainen/bookcall/internal/catalog"
	"github.com/lepinkainen/bookcall/internal/errors"
	"github.com/lepinkainen/bookcall/internal/store"
	"github.com/lepinkainen/bookcall/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	calls  []string
	all    catalog.Books
	allErr error
	book   catalog.Book
	isbnFn func(isbn string) error
	byName map[string]catalog.Books
}

func (f *fakeFetcher) FetchAllBooksCallback(_ context.Context, cb catalog.Callback) {
	f.calls = append(f.calls, "all")
	go func() {
		if f.allErr != nil {
			cb(f.allErr, nil)
			return
		}
		cb(nil, f.all)
	}()
}

func (f *fakeFetcher) FetchByISBNPromise(_ context.Context, isbn string) *catalog.Future[catalog.Book] {
	f.calls = append(f.calls, "isbn:"+isbn)
	return catalog.Go(func() (catalog.Book, error) {
		if f.isbnFn != nil {
			if err := f.isbnFn(isbn); err != nil {
				return catalog.Book{}, err
			}
		}
		return f.book, nil
	})
}

func (f *fakeFetcher) FetchByAuthor(_ context.Context, author string) catalog.Books {
	f.calls = append(f.calls, "author:"+author)
	return f.byName[author]
}

func (f *fakeFetcher) FetchByTitle(_ context.Context, title string) catalog.Books {
	f.calls = append(f.calls, "title:"+title)
	return f.byName[title]
}

func TestRunIssuesCallsInOrderWithDefaults(t *testing.T) {
	f := &fakeFetcher{
		all:  catalog.Books{{ISBN: "1", Title: "Emma", Author: "Jane Austen"}},
		book: catalog.Book{ISBN: DefaultISBN, Title: "The C++ Programming Language", Author: "Bjarne Stroustrup"},
		byName: map[string]catalog.Books{
			DefaultAuthor: {{Title: "Emma", Author: "Jane Austen"}},
		},
	}

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), f, &out, Options{}))

	assert.Equal(t, []string{
		"all",
		"isbn:" + DefaultISBN,
		"author:" + DefaultAuthor,
		"title:" + DefaultTitle,
	}, f.calls)

	text := out.String()
	assert.Contains(t, text, "All books (callback)")
	assert.Contains(t, text, "Emma by Jane Austen (1)")
	assert.Contains(t, text, "The C++ Programming Language by Bjarne Stroustrup")
	assert.Contains(t, text, `Books titled "Gatsby" (await)`)
	assert.Contains(t, text, "(no books)")
}

func TestRunReportsFailures(t *testing.T) {
	f := &fakeFetcher{
		allErr: &errors.RequestError{Message: "network error: connection refused"},
		isbnFn: func(isbn string) error { return errors.NewNotFoundError("ISBN", isbn) },
	}

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), f, &out, Options{ISBN: "000-0000000000", Author: "Nobody", Title: "Nothing"}))

	text := out.String()
	assert.Contains(t, text, "error: network error: connection refused")
	assert.Contains(t, text, "error: no book found with ISBN 000-0000000000")
	assert.Equal(t, 2, strings.Count(text, "(no books)"))
}

func TestRunAgainstFixtureServer(t *testing.T) {
	s := store.NewSQLiteStore(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, s.Connect())
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, store.Seed(context.Background(), s, store.DefaultSeed()))

	server := testutil.NewIPv4TestServer(t, serve.NewRouter(s))
	client := catalog.New(server.URL, catalog.WithHTTPClient(server.Client()))

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), client, &out, Options{}))

	text := out.String()
	assert.Contains(t, text, "Things Fall Apart by Chinua Achebe")
	assert.Contains(t, text, "The C++ Programming Language by Bjarne Stroustrup (978-0321765723)")
	assert.Contains(t, text, "Pride and Prejudice by Jane Austen")
	assert.Contains(t, text, "The Great Gatsby (SparkNotes Literature Guide)")
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := catalog.New(testutil.DeadURL(t))
	var out bytes.Buffer
	err := Run(ctx, client, &out, Options{})

	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, out.String(), "error: ")
}
