// Package demo walks through the catalog client's calling conventions
// against a live catalog.
package demo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/bookcall/internal/catalog"
	"github.com/lepinkainen/bookcall/internal/errors"
)

// Defaults used when Options leaves a query empty.
const (
	DefaultISBN   = "978-0321765723"
	DefaultAuthor = "Austen"
	DefaultTitle  = "Gatsby"
)

// Fetcher is the part of catalog.Client the demo drives.
type Fetcher interface {
	FetchAllBooksCallback(ctx context.Context, cb catalog.Callback)
	FetchByISBNPromise(ctx context.Context, isbn string) *catalog.Future[catalog.Book]
	FetchByAuthor(ctx context.Context, author string) catalog.Books
	FetchByTitle(ctx context.Context, title string) catalog.Books
}

// Options holds the queries used by the demo.
type Options struct {
	ISBN   string
	Author string
	Title  string
}

func (o Options) withDefaults() Options {
	if o.ISBN == "" {
		o.ISBN = DefaultISBN
	}
	if o.Author == "" {
		o.Author = DefaultAuthor
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	return o
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// narrator serializes writes from the callback and promise goroutines.
type narrator struct {
	mu  sync.Mutex
	out io.Writer
}

func (n *narrator) section(heading string, lines ...string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	_, _ = fmt.Fprintln(n.out, headingStyle.Render(heading))
	for _, line := range lines {
		_, _ = fmt.Fprintf(n.out, "  %s\n", line)
	}
}

func (n *narrator) books(heading string, books catalog.Books) {
	if len(books) == 0 {
		n.section(heading, "(no books)")
		return
	}
	lines := make([]string, len(books))
	for i, b := range books {
		lines[i] = formatBook(b)
	}
	n.section(heading, lines...)
}

func (n *narrator) failure(heading string, err error) {
	n.section(heading, failStyle.Render("error: "+err.Error()))
}

func formatBook(b catalog.Book) string {
	if b.ISBN == "" {
		return fmt.Sprintf("%s by %s", b.Title, b.Author)
	}
	return fmt.Sprintf("%s by %s (%s)", b.Title, b.Author, b.ISBN)
}

// Run issues one call per calling convention, in order, and narrates each
// outcome to out. The callback and promise outcomes may be printed after
// the awaited ones. Run returns once every call has settled.
func Run(ctx context.Context, client Fetcher, out io.Writer, opts Options) error {
	opts = opts.withDefaults()
	n := &narrator{out: out}

	var wg sync.WaitGroup

	wg.Add(1)
	slog.Debug("Fetching all books", "style", "callback")
	client.FetchAllBooksCallback(ctx, func(err error, books catalog.Books) {
		defer wg.Done()
		if err != nil {
			slog.Warn("Callback fetch failed", "error", err)
			n.failure("All books (callback)", err)
			return
		}
		n.books("All books (callback)", books)
	})

	slog.Debug("Fetching book by ISBN", "style", "promise", "isbn", opts.ISBN)
	heading := fmt.Sprintf("Book with ISBN %s (promise)", opts.ISBN)
	settled := client.FetchByISBNPromise(ctx, opts.ISBN).Then(
		func(b catalog.Book) { n.section(heading, formatBook(b)) },
		func(err error) {
			if errors.IsNotFound(err) {
				slog.Info("Book not found", "isbn", opts.ISBN)
			} else {
				slog.Warn("Promise fetch failed", "isbn", opts.ISBN, "error", err)
			}
			n.failure(heading, err)
		},
	)

	slog.Debug("Fetching books by author", "style", "await", "author", opts.Author)
	n.books(fmt.Sprintf("Books by %q (await)", opts.Author), client.FetchByAuthor(ctx, opts.Author))

	slog.Debug("Fetching books by title", "style", "await", "title", opts.Title)
	n.books(fmt.Sprintf("Books titled %q (await)", opts.Title), client.FetchByTitle(ctx, opts.Title))

	wg.Wait()
	<-settled
	return ctx.Err()
}
