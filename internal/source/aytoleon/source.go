package aytoleon

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"

	"aytoleon_scraper/internal/domain"
)

const (
	SourceID   = "aytoleon"
	SourceName = "Ayuntamiento de León"
)

// Config holds source configuration.
type Config struct {
	BaseURL string
	// Paths overrides DefaultPaths per content type.
	Paths map[domain.ContentType]string
}

// Source scrapes the listing pages of the city council website.
type Source struct {
	fetcher Fetcher
	baseURL *url.URL
	paths   map[domain.ContentType]string
	now     func() time.Time
	logger  *slog.Logger
}

// New creates a new source over the given fetcher.
func New(cfg Config, fetcher Fetcher, logger *slog.Logger) (*Source, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("base url %q is not absolute", cfg.BaseURL)
	}

	paths := make(map[domain.ContentType]string, len(DefaultPaths))
	for ct, p := range DefaultPaths {
		paths[ct] = p
	}
	for ct, p := range cfg.Paths {
		paths[ct] = p
	}

	return &Source{
		fetcher: fetcher,
		baseURL: base,
		paths:   paths,
		now:     time.Now,
		logger:  logger.With("source", SourceID),
	}, nil
}

// ID returns the source identifier.
func (s *Source) ID() string {
	return SourceID
}

// Name returns human-readable name.
func (s *Source) Name() string {
	return SourceName
}

// ScrapeEvents fetches the eventos or agenda listing.
func (s *Source) ScrapeEvents(ctx context.Context, ct domain.ContentType) ([]domain.EventRecord, error) {
	if ct != domain.ContentEvents && ct != domain.ContentAgenda {
		return nil, fmt.Errorf("%w: %q has no event listing", domain.ErrUnknownContentType, ct)
	}

	doc, pageURL, err := s.fetchListing(ctx, ct)
	if err != nil {
		return nil, err
	}

	events := EventsFromItems(ParseListing(doc, pageURL), s.now())
	s.logger.Info("scraped listing", "content_type", ct, "rows", len(events))

	return events, nil
}

// ScrapeNotices fetches the avisos listing. Content is not fetched here.
func (s *Source) ScrapeNotices(ctx context.Context) ([]domain.NoticeRecord, error) {
	doc, pageURL, err := s.fetchListing(ctx, domain.ContentNotices)
	if err != nil {
		return nil, err
	}

	notices := NoticesFromItems(ParseListing(doc, pageURL))
	s.logger.Info("scraped listing", "content_type", domain.ContentNotices, "rows", len(notices))

	return notices, nil
}

// ScrapeNews fetches the noticias listing.
func (s *Source) ScrapeNews(ctx context.Context) ([]domain.NewsRecord, error) {
	doc, pageURL, err := s.fetchListing(ctx, domain.ContentNews)
	if err != nil {
		return nil, err
	}

	news := ParseNews(doc, pageURL)
	s.logger.Info("scraped listing", "content_type", domain.ContentNews, "rows", len(news))

	return news, nil
}

// NoticeContent fetches a notice detail page and returns its body as
// markdown, or nil if the page has no recognizable body.
func (s *Source) NoticeContent(ctx context.Context, link string) (*string, error) {
	doc, err := s.fetchDocument(ctx, link)
	if err != nil {
		return nil, err
	}

	content, err := ExtractContent(doc)
	if err != nil {
		return nil, fmt.Errorf("extract content: %w", err)
	}

	return content, nil
}

func (s *Source) fetchListing(ctx context.Context, ct domain.ContentType) (*goquery.Document, *url.URL, error) {
	path, ok := s.paths[ct]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrUnknownContentType, ct)
	}

	ref, err := url.Parse(path)
	if err != nil {
		return nil, nil, fmt.Errorf("parse listing path: %w", err)
	}
	pageURL := s.baseURL.ResolveReference(ref)

	doc, err := s.fetchDocument(ctx, pageURL.String())
	if err != nil {
		return nil, nil, err
	}

	return doc, pageURL, nil
}

func (s *Source) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	s.logger.Debug("fetching page", "url", pageURL)

	body, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	return doc, nil
}
