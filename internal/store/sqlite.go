package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/lepinkainen/bookcall/internal/catalog"
	_ "modernc.org/sqlite"
)

// BooksSchema is the table the fixture catalog serves from.
const BooksSchema = `CREATE TABLE IF NOT EXISTS books (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	isbn   TEXT NOT NULL UNIQUE,
	title  TEXT NOT NULL,
	author TEXT NOT NULL
)`

const selectBooks = `SELECT isbn, title, author FROM books`

// SQLiteStore implements Store on a local SQLite database
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLiteStore instance
func NewSQLiteStore(dbPath string) *SQLiteStore {
	return &SQLiteStore{
		dbPath: dbPath,
	}
}

// Connect opens the database and makes sure the books table exists
func (s *SQLiteStore) Connect() error {
	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if strings.Contains(s.dbPath, ":memory:") {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}
	s.db = db
	return s.CreateTable(BooksSchema)
}

// CreateTable runs a CREATE TABLE statement
func (s *SQLiteStore) CreateTable(schema string) error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// BatchInsert inserts records into table inside one transaction.
// Columns are taken from the first record, sorted for a stable statement.
func (s *SQLiteStore) BatchInsert(ctx context.Context, table string, records []map[string]any) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// no-op after a successful commit
		_ = tx.Rollback()
	}()

	columns := make([]string, 0, len(records[0]))
	for col := range records[0] {
		columns = append(columns, col)
	}
	slices.Sort(columns)

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(columns, ", "),
		placeholders,
	)

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, record := range records {
		values := make([]any, len(columns))
		for i, col := range columns {
			values[i] = record[col]
		}
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// InsertBooks appends books to the books table in order
func (s *SQLiteStore) InsertBooks(ctx context.Context, books []catalog.Book) error {
	records := make([]map[string]any, len(books))
	for i, b := range books {
		records[i] = map[string]any{
			"isbn":   b.ISBN,
			"title":  b.Title,
			"author": b.Author,
		}
	}
	return s.BatchInsert(ctx, "books", records)
}

// AllBooks returns every book in insertion order
func (s *SQLiteStore) AllBooks(ctx context.Context) (catalog.Books, error) {
	return s.query(ctx, selectBooks+` ORDER BY id`)
}

// BookByISBN looks up one book by exact ISBN
func (s *SQLiteStore) BookByISBN(ctx context.Context, isbn string) (catalog.Book, bool, error) {
	var b catalog.Book
	err := s.db.QueryRowContext(ctx, selectBooks+` WHERE isbn = ?`, isbn).Scan(&b.ISBN, &b.Title, &b.Author)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Book{}, false, nil
	}
	if err != nil {
		return catalog.Book{}, false, fmt.Errorf("failed to query book %s: %w", isbn, err)
	}
	return b, true, nil
}

// BooksByAuthor matches a case-insensitive substring of the author
func (s *SQLiteStore) BooksByAuthor(ctx context.Context, author string) (catalog.Books, error) {
	return s.query(ctx, selectBooks+` WHERE author LIKE ? ESCAPE '\' ORDER BY id`, likePattern(author))
}

// BooksByTitle matches a case-insensitive substring of the title
func (s *SQLiteStore) BooksByTitle(ctx context.Context, title string) (catalog.Books, error) {
	return s.query(ctx, selectBooks+` WHERE title LIKE ? ESCAPE '\' ORDER BY id`, likePattern(title))
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) (catalog.Books, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer func() { _ = rows.Close() }()

	books := catalog.Books{}
	for rows.Next() {
		var b catalog.Book
		if err := rows.Scan(&b.ISBN, &b.Title, &b.Author); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// likePattern wraps value in % after escaping LIKE wildcards.
func likePattern(value string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(value) + "%"
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
