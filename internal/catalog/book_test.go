package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBooksUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Books
		wantErr bool
	}{
		{
			name:  "array keeps server order",
			input: `[{"title":"B","author":"x"},{"title":"A","author":"y"}]`,
			want:  Books{{Title: "B", Author: "x"}, {Title: "A", Author: "y"}},
		},
		{
			name:  "keyed object sorted numerically",
			input: `{"10":{"title":"Ten"},"2":{"title":"Two"},"1":{"title":"One"}}`,
			want:  Books{{Title: "One"}, {Title: "Two"}, {Title: "Ten"}},
		},
		{
			name:  "keyed object with isbn keys",
			input: `{"978-b":{"title":"B"},"978-a":{"title":"A"}}`,
			want:  Books{{Title: "A"}, {Title: "B"}},
		},
		{
			name:  "null is empty",
			input: `null`,
			want:  Books{},
		},
		{
			name:  "empty array",
			input: `[]`,
			want:  Books{},
		},
		{
			name:    "scalar is rejected",
			input:   `"nope"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Books
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, got)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCompareKeysNumbersFirst(t *testing.T) {
	require.Negative(t, compareKeys("2", "10"))
	require.Negative(t, compareKeys("9", "a"))
	require.Positive(t, compareKeys("b", "a"))
	require.Zero(t, compareKeys("x", "x"))
}

func TestEmptyPayload(t *testing.T) {
	for _, body := range []string{"", "  \n", "null", "false", "0", `""`, "{}"} {
		require.True(t, emptyPayload([]byte(body)), "body %q", body)
	}
	for _, body := range []string{`{"title":"x"}`, `[]`, `1`} {
		require.False(t, emptyPayload([]byte(body)), "body %q", body)
	}
}

func TestBookIsZero(t *testing.T) {
	require.True(t, Book{}.IsZero())
	require.False(t, Book{Title: "Emma"}.IsZero())
}
