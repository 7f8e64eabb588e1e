package scraper

import (
	"context"
	"net/url"
	"strings"

	"emotescraper/internal/downloader"
	"emotescraper/pkg/config"
	errs "emotescraper/pkg/errors"
	"emotescraper/pkg/extractor"
	"emotescraper/pkg/fetcher"
	"emotescraper/pkg/logger"
	"emotescraper/pkg/models"
	"emotescraper/pkg/ratelimit"
	"emotescraper/pkg/storage"
)

const (
	phaseDetail   = "detail"
	phaseDownload = "download"
)

// Scraper orchestrates the index, detail and download phases of a run
type Scraper struct {
	client    Fetcher
	config    *config.Config
	logger    logger.Logger
	progress  Progress
	outputDir string
}

// New creates a Scraper wired to the real HTTP client and file storage.
// The output root is resolved once here; if no root can be found the
// scraper still runs and every download fails with ErrDestinationUnavailable.
func New(cfg *config.Config, log logger.Logger) *Scraper {
	if log == nil {
		log = logger.GetLogger()
	}

	root, err := storage.ResolveRoot(cfg.Output.BaseDirectory)
	if err != nil {
		log.WithError(err).Warn("No output directory available")
		root = ""
	}
	store := storage.NewManager(root, cfg.Output.SubDirectory)

	limiter := ratelimit.New(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.BurstSize)
	client := fetcher.NewClient(cfg.Download.RequestTimeout, store, limiter, log)
	if cfg.Site.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.Site.UserAgent)
	}

	s := NewWithClient(cfg, client, log)
	s.outputDir = store.Dir()
	return s
}

// NewWithClient creates a Scraper around an existing Fetcher
func NewWithClient(cfg *config.Config, client Fetcher, log logger.Logger) *Scraper {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Scraper{
		client:   client,
		config:   cfg,
		logger:   log,
		progress: nopProgress{},
	}
}

// SetProgress sets the receiver of progress markers. nil disables them.
func (s *Scraper) SetProgress(p Progress) {
	if p == nil {
		p = nopProgress{}
	}
	s.progress = p
}

// OutputDir returns the directory files are written to, or "" if unknown
func (s *Scraper) OutputDir() string {
	return s.outputDir
}

// Run scrapes every emote linked from indexURL. The returned error is
// non-nil only for failures that abort the run: an unusable index URL, an
// index page that cannot be fetched, or cancellation of ctx. Item failures
// are recorded in the Outcome.
func (s *Scraper) Run(ctx context.Context, indexURL string) (*Outcome, error) {
	indexURL = NormalizeURL(indexURL)
	origin, err := s.origin(indexURL)
	if err != nil {
		return nil, err
	}

	links, err := s.DetailLinks(ctx, indexURL)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{Links: len(links)}
	infos := s.fetchInfos(ctx, origin, links, outcome)
	s.downloadAll(ctx, infos, outcome)

	logger.LogSummary(s.logger, outcome.Links, outcome.Downloaded, len(outcome.failures))

	if err := ctx.Err(); err != nil {
		return outcome, errs.Wrap(errs.ErrorTypeUnknown, err, "run interrupted")
	}
	return outcome, nil
}

// DetailLinks fetches the index page and returns its detail links in
// document order
func (s *Scraper) DetailLinks(ctx context.Context, indexURL string) ([]string, error) {
	s.progress.FetchingIndex(indexURL)
	s.logger.InfoWithFields("Fetching index", map[string]interface{}{
		"url": indexURL,
	})

	doc, err := s.client.FetchDocument(ctx, indexURL)
	if err != nil {
		s.logger.WithError(err).WithField("url", indexURL).Error("Failed to fetch index page")
		return nil, err
	}

	links := extractor.DetailLinks(doc)
	s.progress.FoundLinks(len(links))
	s.logger.InfoWithFields("Found detail links", map[string]interface{}{
		"count": len(links),
	})
	return links, nil
}

// ImageInfo fetches one detail page and extracts its emote
func (s *Scraper) ImageInfo(ctx context.Context, detailURL string) (models.ImageInfo, error) {
	doc, err := s.client.FetchDocument(ctx, detailURL)
	if err != nil {
		return models.ImageInfo{}, err
	}
	return extractor.ImageInfo(doc)
}

// fetchInfos runs the detail phase. The result holds the successfully
// extracted items in link order.
func (s *Scraper) fetchInfos(ctx context.Context, origin *url.URL, links []string, outcome *Outcome) []models.ImageInfo {
	extracted := make([]models.ImageInfo, len(links))
	jobs := make([]downloader.Job, len(links))
	for i, link := range links {
		jobs[i] = downloader.Job{
			Index: i,
			Key:   link,
			Run: func(ctx context.Context) error {
				s.progress.FetchingDetail(link)
				detailURL, err := resolve(origin, link)
				if err != nil {
					return err
				}
				info, err := s.ImageInfo(ctx, detailURL)
				if err != nil {
					return err
				}
				extracted[i] = info
				return nil
			},
		}
	}

	var infos []models.ImageInfo
	for _, result := range downloader.RunOrdered(ctx, s.workers(), jobs, s.logger) {
		if result.Error != nil {
			logger.LogFailure(s.logger, phaseDetail, result.Job.Key, result.Error)
			outcome.record(result.Job.Key, result.Error)
			continue
		}
		infos = append(infos, extracted[result.Job.Index])
	}
	return infos
}

// downloadAll runs the download phase
func (s *Scraper) downloadAll(ctx context.Context, infos []models.ImageInfo, outcome *Outcome) {
	jobs := make([]downloader.Job, len(infos))
	for i, info := range infos {
		jobs[i] = downloader.Job{
			Index: i,
			Key:   info.Name,
			Run: func(ctx context.Context) error {
				s.progress.Downloading(info.Name)
				_, err := s.client.FetchAndSave(ctx, info)
				return err
			},
		}
	}

	for _, result := range downloader.RunOrdered(ctx, s.workers(), jobs, s.logger) {
		if result.Error != nil {
			logger.LogFailure(s.logger, phaseDownload, result.Job.Key, result.Error)
			outcome.record(result.Job.Key, result.Error)
			continue
		}
		outcome.Downloaded++
	}
}

func (s *Scraper) workers() int {
	if s.config.Download.ConcurrentDownloads < 1 {
		return 1
	}
	return s.config.Download.ConcurrentDownloads
}

// origin returns the base detail links are resolved against
func (s *Scraper) origin(indexURL string) (*url.URL, error) {
	raw := indexURL
	if s.config.Site.BaseURL != "" {
		raw = s.config.Site.BaseURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeParsing, err, "invalid URL "+raw)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errs.New(errs.ErrorTypeParsing, "URL must be absolute: "+raw)
	}
	if s.config.Site.BaseURL != "" {
		return u, nil
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host}, nil
}

func resolve(origin *url.URL, link string) (string, error) {
	ref, err := url.Parse(link)
	if err != nil {
		return "", errs.Wrap(errs.ErrorTypeParsing, err, "invalid detail link")
	}
	return origin.ResolveReference(ref).String(), nil
}

// NormalizeURL trims whitespace and adds https:// to a bare host
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw != "" && !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	return raw
}
