package serve

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lepinkainen/bookcall/internal/store"
)

type handler struct {
	store store.Store
}

// NewRouter serves the catalog routes from s.
func NewRouter(s store.Store) http.Handler {
	h := &handler{store: s}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(accessLog)

	r.Get("/books", h.listBooks)
	r.Get("/books/isbn/{isbn}", h.bookByISBN)
	r.Get("/books/author/{author}", h.booksByAuthor)
	r.Get("/books/title/{title}", h.booksByTitle)
	return r
}

func (h *handler) listBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.store.AllBooks(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, books)
}

func (h *handler) bookByISBN(w http.ResponseWriter, r *http.Request) {
	isbn := pathParam(r, "isbn")
	book, ok, err := h.store.BookByISBN(r.Context(), isbn)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "no book with ISBN "+isbn)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *handler) booksByAuthor(w http.ResponseWriter, r *http.Request) {
	books, err := h.store.BooksByAuthor(r.Context(), pathParam(r, "author"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, books)
}

func (h *handler) booksByTitle(w http.ResponseWriter, r *http.Request) {
	books, err := h.store.BooksByTitle(r.Context(), pathParam(r, "title"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, books)
}

// pathParam returns the decoded URL parameter. chi hands back the raw
// segment when the request path carried escapes such as %2F.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Debug("Catalog request served",
			"method", r.Method,
			"path", r.URL.EscapedPath(),
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}
