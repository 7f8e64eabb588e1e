package fetcher

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
	"golang.org/x/net/publicsuffix"

	"emotescraper/pkg/config"
	errs "emotescraper/pkg/errors"
	"emotescraper/pkg/logger"
	"emotescraper/pkg/models"
	"emotescraper/pkg/ratelimit"
)

// FileStore persists a downloaded image and reports where it went
type FileStore interface {
	Save(r io.Reader, name, contentType string) (string, error)
}

// Client fetches pages and images from the emote site
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	limiter    ratelimit.Limiter
	store      FileStore
	logger     logger.Logger
}

// NewClient creates a client whose every request is bounded by timeout
func NewClient(timeout time.Duration, store FileStore, limiter ratelimit.Limiter, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if limiter == nil {
		limiter = ratelimit.Unlimited()
	}

	// Cookies the site sets on the index page are replayed on detail pages.
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		headers: map[string]string{
			"User-Agent":      config.DefaultUserAgent,
			"Accept":          "text/html,application/xhtml+xml,image/avif,image/webp,image/png,image/gif,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
		},
		limiter: limiter,
		store:   store,
		logger:  log,
	}
}

// SetHeader sets a custom header sent with every request
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// Get performs a GET request. Any non-2xx response is returned as an
// http_status error with the body already closed.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errs.FromTransport(err, url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeUnknown, err, "failed to create request")
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"url": url,
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.WithError(err).DebugWithFields("HTTP request failed", map[string]interface{}{
			"url":      url,
			"duration": duration,
		})
		return nil, errs.FromTransport(err, url)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":      url,
		"status":   resp.StatusCode,
		"duration": duration,
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, errs.Status(resp.StatusCode, url)
	}

	return resp, nil
}

// FetchDocument fetches url and parses the body as HTML, decoding it from
// the charset the server declares.
func (c *Client) FetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.FromTransport(err, url)
	}

	utf8Body, err := charset.NewReader(bytes.NewReader(body), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeParsing, err, "unsupported page encoding")
	}

	doc, err := goquery.NewDocumentFromReader(utf8Body)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeParsing, err, "failed to parse HTML")
	}
	doc.Url = resp.Request.URL

	return doc, nil
}

// FetchAndSave downloads the emote image and writes it through the store.
// It returns the path written.
func (c *Client) FetchAndSave(ctx context.Context, info models.ImageInfo) (string, error) {
	resp, err := c.Get(ctx, info.URL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	path, err := c.store.Save(resp.Body, info.Name, contentType)
	if err != nil {
		return "", err
	}

	c.logger.DebugWithFields("emote saved", map[string]interface{}{
		"name":         info.Name,
		"content_type": contentType,
		"path":         path,
	})

	return path, nil
}
