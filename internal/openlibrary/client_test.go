package openlibrary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(server.URL, "https://covers.openlibrary.org", 5*time.Second, 100)
	return client, server
}

func TestFetchByTitle(t *testing.T) {
	ctx := context.Background()

	t.Run("Maps the best match", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/search.json", r.URL.Path)
			assert.Equal(t, "The Left Hand of Darkness", r.URL.Query().Get("title"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"docs":[
				{"title":"The Left Hand of Darkness","author_name":["Ursula K. Le Guin"],
				 "number_of_pages_median":304,"cover_i":12345,"key":"/works/OL59801W","first_publish_year":1969},
				{"title":"Another Edition","author_name":["Someone Else"]}
			]}`))
		})
		defer server.Close()

		info, err := client.FetchByTitle(ctx, "The Left Hand of Darkness")
		assert.NoError(t, err)
		assert.Equal(t, "The Left Hand of Darkness", info.Title)
		assert.Equal(t, "Ursula K. Le Guin", info.Author)
		assert.Equal(t, int32(304), info.Pages)
		assert.Equal(t, "OL59801W", info.OLID)
		assert.Equal(t, "https://covers.openlibrary.org/b/id/12345-L.jpg", info.CoverURL)
		if assert.NotNil(t, info.FirstPublishYear) {
			assert.Equal(t, int32(1969), *info.FirstPublishYear)
		}
	})

	t.Run("Joins multiple authors", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"docs":[{"title":"Good Omens","author_name":["Terry Pratchett","Neil Gaiman"]}]}`))
		})
		defer server.Close()

		info, err := client.FetchByTitle(ctx, "Good Omens")
		assert.NoError(t, err)
		assert.Equal(t, "Terry Pratchett, Neil Gaiman", info.Author)
	})

	t.Run("Fills defaults for sparse documents", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"docs":[{}]}`))
		})
		defer server.Close()

		info, err := client.FetchByTitle(ctx, "Obscure Pamphlet")
		assert.NoError(t, err)
		assert.Equal(t, "Obscure Pamphlet", info.Title, "falls back to the requested title")
		assert.Equal(t, "Unknown", info.Author)
		assert.Empty(t, info.CoverURL)
		assert.Nil(t, info.FirstPublishYear)
	})

	t.Run("Empty result set is a clean miss", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"docs":[]}`))
		})
		defer server.Close()

		info, err := client.FetchByTitle(ctx, "No Such Book")
		assert.NoError(t, err)
		assert.Nil(t, info)
	})

	t.Run("Non-200 status is an error", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		defer server.Close()

		_, err := client.FetchByTitle(ctx, "Dune")
		assert.ErrorContains(t, err, "status 503")
	})

	t.Run("Malformed body is an error", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"docs": [`))
		})
		defer server.Close()

		_, err := client.FetchByTitle(ctx, "Dune")
		assert.Error(t, err)
	})

	t.Run("Unreachable server is an error", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {})
		server.Close()

		_, err := client.FetchByTitle(ctx, "Dune")
		assert.Error(t, err)
	})
}

func TestFetchByTitle_RespectsRateLimit(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"docs":[]}`))
	})
	defer server.Close()
	// Burst of one at 20 rps: the second call must wait ~50ms.
	client.limiter.SetLimit(20)

	start := time.Now()
	for i := 0; i < 2; i++ {
		_, err := client.FetchByTitle(context.Background(), "Dune")
		assert.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}
