package catalog

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
)

// Book is a catalog entry. The client treats it as opaque and keeps
// whatever values the API sends.
type Book struct {
	ISBN   string `json:"isbn,omitempty" yaml:"isbn"`
	Title  string `json:"title" yaml:"title"`
	Author string `json:"author" yaml:"author"`
}

// IsZero reports whether every field is empty.
func (b Book) IsZero() bool {
	return b == Book{}
}

// Books is an ordered collection of books.
//
// It decodes from a JSON array (order kept) or from an object keyed by id,
// which is what the classic simulated catalog serves for /books. Keyed
// entries are ordered by key, numerically when keys are numbers.
type Books []Book

// UnmarshalJSON implements json.Unmarshaler.
func (b *Books) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*b = Books{}
		return nil
	case data[0] == '[':
		var list []Book
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		if list == nil {
			list = []Book{}
		}
		*b = list
		return nil
	case data[0] == '{':
		var keyed map[string]Book
		if err := json.Unmarshal(data, &keyed); err != nil {
			return err
		}
		keys := make([]string, 0, len(keyed))
		for k := range keyed {
			keys = append(keys, k)
		}
		slices.SortFunc(keys, compareKeys)

		out := make(Books, 0, len(keys))
		for _, k := range keys {
			out = append(out, keyed[k])
		}
		*b = out
		return nil
	default:
		return fmt.Errorf("books: expected JSON array or object, got %q", truncate(data, 32))
	}
}

// compareKeys orders numeric keys numerically and everything else lexically,
// numbers first.
func compareKeys(a, b string) int {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return cmp.Compare(ai, bi)
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	}
	return cmp.Compare(a, b)
}

// emptyPayload reports whether a single-book response carries nothing:
// no body, null, false, 0, an empty string or an empty object.
func emptyPayload(data []byte) bool {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "", "null", "false", "0", `""`, "{}":
		return true
	}
	return false
}

func truncate(data []byte, n int) string {
	if len(data) <= n {
		return string(data)
	}
	return string(data[:n]) + "..."
}
