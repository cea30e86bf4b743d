package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AnkitDhruva08/bookrent/internal/domain"
	"github.com/AnkitDhruva08/bookrent/internal/logger"
	"github.com/AnkitDhruva08/bookrent/internal/metrics"
	"github.com/AnkitDhruva08/bookrent/internal/repository"
)

type catalogService struct {
	bookRepo repository.BookRepository
	cache    BookLookupCache
	remote   RemoteCatalog
}

func NewCatalogService(bookRepo repository.BookRepository, cache BookLookupCache, remote RemoteCatalog) CatalogService {
	return &catalogService{
		bookRepo: bookRepo,
		cache:    cache,
		remote:   remote,
	}
}

func (s *catalogService) Search(ctx context.Context, title string) ([]BookResult, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}

	books, err := s.bookRepo.SearchByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	if len(books) > 0 {
		results := make([]BookResult, 0, len(books))
		for _, b := range books {
			results = append(results, bookToResult(b))
		}
		return results, nil
	}

	// Nothing local. Try the remote catalog but never surface its failures;
	// an unreachable catalog just means no results.
	info := s.lookupRemote(ctx, title)
	if info == nil {
		return []BookResult{}, nil
	}
	return []BookResult{infoToResult(info)}, nil
}

func (s *catalogService) FindOrFetch(ctx context.Context, title string) (*domain.Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}

	book, err := s.bookRepo.GetByTitle(ctx, title)
	if err == nil {
		return book, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	info := s.lookupRemote(ctx, title)
	if info == nil {
		return nil, fmt.Errorf("%w: book %q not found in catalog", domain.ErrNotFound, title)
	}

	book = &domain.Book{
		Title:            info.Title,
		Author:           info.Author,
		Pages:            info.Pages,
		CoverURL:         info.CoverURL,
		OLID:             info.OLID,
		FirstPublishYear: info.FirstPublishYear,
	}
	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// lookupRemote consults the cache, then OpenLibrary. Returns nil for both a
// clean miss and a remote failure.
func (s *catalogService) lookupRemote(ctx context.Context, title string) *domain.BookInfo {
	if info, ok := s.cache.Get(ctx, title); ok {
		return info
	}

	info, err := s.remote.FetchByTitle(ctx, title)
	if err != nil {
		metrics.CatalogRemoteLookupsTotal.WithLabelValues("error").Inc()
		logger.Warn("Remote catalog lookup failed, treating as not found", "title", title, "error", err)
		return nil
	}
	if info == nil {
		metrics.CatalogRemoteLookupsTotal.WithLabelValues("miss").Inc()
		return nil
	}

	metrics.CatalogRemoteLookupsTotal.WithLabelValues("hit").Inc()
	s.cache.Set(ctx, title, info)
	return info
}

func bookToResult(b domain.Book) BookResult {
	return BookResult{
		Title:            b.Title,
		Author:           b.Author,
		Pages:            b.Pages,
		CoverURL:         b.CoverURL,
		OLID:             b.OLID,
		FirstPublishYear: b.FirstPublishYear,
	}
}

func infoToResult(info *domain.BookInfo) BookResult {
	return BookResult{
		Title:            info.Title,
		Author:           info.Author,
		Pages:            info.Pages,
		CoverURL:         info.CoverURL,
		OLID:             info.OLID,
		FirstPublishYear: info.FirstPublishYear,
	}
}
