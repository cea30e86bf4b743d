// Package openlibrary fetches book metadata from the OpenLibrary search API.
// It is best-effort: callers treat any failure as "book not found".
package openlibrary

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"

	"github.com/AnkitDhruva08/bookrent/internal/domain"
	"github.com/AnkitDhruva08/bookrent/internal/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Client struct {
	httpClient *http.Client
	baseURL    string
	coversURL  string
	limiter    *rate.Limiter
}

// NewClient builds a client against the given API and covers base URLs.
// maxRPS caps outbound request rate so bulk lookups do not hammer the API.
func NewClient(baseURL, coversURL string, timeout time.Duration, maxRPS float64) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		coversURL:  strings.TrimRight(coversURL, "/"),
		limiter:    rate.NewLimiter(rate.Limit(maxRPS), 1),
	}
}

type searchResponse struct {
	Docs []searchDoc `json:"docs"`
}

type searchDoc struct {
	Title               string   `json:"title"`
	AuthorName          []string `json:"author_name"`
	NumberOfPagesMedian int32    `json:"number_of_pages_median"`
	CoverID             int64    `json:"cover_i"`
	Key                 string   `json:"key"`
	FirstPublishYear    *int32   `json:"first_publish_year"`
}

// FetchByTitle looks up a title and returns metadata for the best match.
// A clean miss returns (nil, nil); a non-nil error means the API could not
// be consulted at all.
func (c *Client) FetchByTitle(ctx context.Context, title string) (*domain.BookInfo, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/search.json?title=%s", c.baseURL, url.QueryEscape(title))
	logger.ExternalServiceCall("openlibrary", "search", "title", title)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.ExternalServiceResult("openlibrary", "search", err, "title", title)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("openlibrary search returned status %d", resp.StatusCode)
		logger.ExternalServiceResult("openlibrary", "search", err, "title", title)
		return nil, err
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		logger.ExternalServiceResult("openlibrary", "search", err, "title", title)
		return nil, err
	}

	logger.ExternalServiceResult("openlibrary", "search", nil, "title", title, "docs", len(sr.Docs))
	if len(sr.Docs) == 0 {
		return nil, nil
	}

	return c.toBookInfo(title, sr.Docs[0]), nil
}

func (c *Client) toBookInfo(requestedTitle string, doc searchDoc) *domain.BookInfo {
	info := &domain.BookInfo{
		Title:            doc.Title,
		Author:           "Unknown",
		Pages:            doc.NumberOfPagesMedian,
		OLID:             strings.TrimPrefix(doc.Key, "/works/"),
		FirstPublishYear: doc.FirstPublishYear,
	}
	if info.Title == "" {
		info.Title = requestedTitle
	}
	if len(doc.AuthorName) > 0 {
		info.Author = strings.Join(doc.AuthorName, ", ")
	}
	if doc.CoverID != 0 {
		info.CoverURL = fmt.Sprintf("%s/b/id/%d-L.jpg", c.coversURL, doc.CoverID)
	}
	return info
}
