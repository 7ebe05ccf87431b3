package store

import (
	"context"
	"strings"
	"testing"

	"github.com/lepinkainen/bookcall/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestDefaultSeed(t *testing.T) {
	books := DefaultSeed()
	require.NotEmpty(t, books)

	var isbn, gatsby, austen int
	for _, b := range books {
		if b.ISBN == "978-0321765723" {
			isbn++
		}
		if strings.Contains(b.Title, "Gatsby") {
			gatsby++
		}
		if strings.Contains(b.Author, "Austen") {
			austen++
		}
	}
	require.Equal(t, 1, isbn)
	require.Equal(t, 2, gatsby)
	require.Equal(t, 2, austen)
}

func TestLoadSeed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr string
	}{
		{name: "valid", input: "books:\n  - isbn: '1'\n    title: A\n    author: B\n", want: 1},
		{name: "empty document", input: "", want: 0},
		{name: "missing isbn", input: "books:\n  - title: A\n", wantErr: "has no isbn"},
		{name: "duplicate isbn", input: "books:\n  - isbn: '1'\n  - isbn: '1'\n", wantErr: "duplicates isbn 1"},
		{name: "unknown field", input: "books:\n  - isbn: '1'\n    rating: 5\n", wantErr: "failed to parse seed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, err := LoadSeed(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, books, tt.want)
		})
	}
}

func TestLoadSeedFileAndSeed(t *testing.T) {
	env := testutil.NewTestEnv(t)
	path := env.WriteFileString("seed.yaml", "books:\n  - isbn: '42'\n    title: Answers\n    author: Deep Thought\n")

	books, err := LoadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, books, 1)

	s := NewSQLiteStore(env.Path("books.db"))
	require.NoError(t, s.Connect())
	defer func() { _ = s.Close() }()
	require.NoError(t, Seed(context.Background(), s, books))

	got, ok, err := s.BookByISBN(context.Background(), "42")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Deep Thought", got.Author)

	_, err = LoadSeedFile(env.Path("missing.yaml"))
	require.ErrorContains(t, err, "failed to open seed file")

	defaults, err := LoadSeedFile("")
	require.NoError(t, err)
	require.Equal(t, DefaultSeed(), defaults)
}
