package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/bookcall/cmd/demo"
	"github.com/lepinkainen/bookcall/cmd/serve"
	"github.com/lepinkainen/bookcall/internal/catalog"
	"github.com/lepinkainen/bookcall/internal/config"
	"github.com/lepinkainen/bookcall/internal/tui"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"
)

var (
	runDemo    = demo.Run
	runServe   = serve.Run
	selectBook = tui.SelectBook
)

var stdout io.Writer = os.Stdout

const infoMessage = `bookcall talks to a book catalog REST API at %s.

The walkthrough is not run by default. To enable it:

  bookcall serve   start the local fixture catalog
  bookcall demo    call it using a callback, a promise and a blocking call

Single lookups are available under "bookcall books".
`

// CLI represents the complete command structure for the bookcall application
type CLI struct {
	// Global flags
	BaseURL   string        `help:"Catalog API base URL (defaults to catalog.baseurl in config)"`
	Timeout   time.Duration `help:"Per-request timeout (defaults to catalog.timeout in config)"`
	RateLimit int           `help:"Maximum catalog requests per second (defaults to catalog.ratelimit in config)"`
	Debug     bool          `help:"Enable debug logging"`

	Info  InfoCmd  `cmd:"" default:"1" help:"Explain how to run the walkthrough (default)"`
	Demo  DemoCmd  `cmd:"" help:"Run the calling-convention walkthrough against the catalog"`
	Books BooksCmd `cmd:"" help:"Query the catalog and print JSON"`
	Serve ServeCmd `cmd:"" help:"Run a local fixture catalog backed by SQLite"`
}

// InfoCmd prints usage guidance without touching the network
type InfoCmd struct{}

// DemoCmd represents the demo command
type DemoCmd struct {
	ISBN   string `help:"ISBN for the promise lookup" default:"978-0321765723"`
	Author string `help:"Author for the blocking author search" default:"Austen"`
	Title  string `help:"Title for the blocking title search" default:"Gatsby"`
}

// BooksCmd represents the books command and its subcommands
type BooksCmd struct {
	List   ListCmd   `cmd:"" help:"List every book"`
	ISBN   ISBNCmd   `cmd:"" name:"isbn" help:"Look up one book by ISBN"`
	Author AuthorCmd `cmd:"" help:"Search books by author"`
	Title  TitleCmd  `cmd:"" help:"Search books by title"`
}

// ListCmd represents the books list command
type ListCmd struct{}

// ISBNCmd represents the books isbn command
type ISBNCmd struct {
	ISBN string `arg:"" help:"ISBN to look up"`
}

// AuthorCmd represents the books author command
type AuthorCmd struct {
	Name string `arg:"" help:"Author name or part of it"`
	Pick bool   `help:"Choose one result interactively"`
}

// TitleCmd represents the books title command
type TitleCmd struct {
	Title string `arg:"" help:"Title or part of it"`
	Pick  bool   `help:"Choose one result interactively"`
}

// ServeCmd represents the serve command
type ServeCmd struct {
	Addr string `help:"Listen address (defaults to serve.addr in config)"`
	DB   string `help:"SQLite database file (defaults to an in-memory database)"`
	Seed string `help:"YAML seed file replacing the built-in catalog"`
}

// Execute runs the Kong-based CLI
func Execute() {
	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("bookcall"),
		kong.Description("A demonstration client for a book catalog REST API."),
		kong.UsageOnError(),
	)

	initLogging(cli.Debug)
	if err := initConfig(); err != nil {
		slog.Error("Fatal error config file", "error", err)
		os.Exit(1)
	}
	updateGlobalConfig(&cli)

	if err := ctx.Run(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	// stdout carries command output, so logs go to stderr
	handler := humanlog.NewHandler(os.Stderr, &humanlog.Options{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func initConfig() error {
	config.LoadDotEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		slog.Debug("Config file not found, using defaults")
	}

	config.InitConfig()
	return nil
}

func updateGlobalConfig(cli *CLI) {
	// Zero flag values keep whatever config and environment provided
	config.SetBaseURL(cli.BaseURL)
	if cli.Timeout > 0 {
		config.SetTimeout(cli.Timeout)
	}
	if cli.RateLimit > 0 {
		config.SetRateLimit(cli.RateLimit)
	}
}

func newClient() *catalog.Client {
	return catalog.New(config.BaseURL,
		catalog.WithTimeout(config.Timeout),
		catalog.WithRateLimit(config.RateLimit),
	)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Run methods for each command

func (i *InfoCmd) Run() error {
	_, err := fmt.Fprintf(stdout, infoMessage, config.BaseURL)
	return err
}

func (d *DemoCmd) Run() error {
	ctx, stop := signalContext()
	defer stop()

	slog.Info("Running walkthrough", "baseURL", config.BaseURL)
	return runDemo(ctx, newClient(), stdout, demo.Options{
		ISBN:   d.ISBN,
		Author: d.Author,
		Title:  d.Title,
	})
}

func (l *ListCmd) Run() error {
	ctx, stop := signalContext()
	defer stop()

	books, err := newClient().ListBooks(ctx)
	if err != nil {
		return err
	}
	return writeJSON(books)
}

func (i *ISBNCmd) Run() error {
	ctx, stop := signalContext()
	defer stop()

	book, err := newClient().BookByISBN(ctx, i.ISBN)
	if err != nil {
		return err
	}
	return writeJSON(book)
}

func (a *AuthorCmd) Run() error {
	ctx, stop := signalContext()
	defer stop()

	books, err := newClient().BooksByAuthor(ctx, a.Name)
	if err != nil {
		return err
	}
	return printSearch(a.Name, books, a.Pick)
}

func (t *TitleCmd) Run() error {
	ctx, stop := signalContext()
	defer stop()

	books, err := newClient().BooksByTitle(ctx, t.Title)
	if err != nil {
		return err
	}
	return printSearch(t.Title, books, t.Pick)
}

func (s *ServeCmd) Run() error {
	ctx, stop := signalContext()
	defer stop()

	opts := serve.Options{
		Addr:     s.Addr,
		DBFile:   s.DB,
		SeedFile: s.Seed,
	}
	if opts.Addr == "" {
		opts.Addr = config.ServeAddr
	}
	if opts.DBFile == "" {
		opts.DBFile = config.ServeDB
	}
	if opts.SeedFile == "" {
		opts.SeedFile = config.SeedFile
	}
	return runServe(ctx, opts)
}

func printSearch(query string, books catalog.Books, pick bool) error {
	if !pick {
		return writeJSON(books)
	}

	result, err := selectBook(query, books)
	if err != nil {
		return fmt.Errorf("book picker failed: %w", err)
	}
	if result.Action != tui.ActionSelected {
		slog.Info("No book selected", "query", query, "results", len(books))
		return nil
	}
	return writeJSON(result.Selection)
}

func writeJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
