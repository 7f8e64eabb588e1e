package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "emotescraper/pkg/errors"
	"emotescraper/pkg/logger"
	"emotescraper/pkg/models"
	"emotescraper/pkg/ratelimit"
	"emotescraper/pkg/storage"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/index", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><body><a href="/channels/1/emotes/kappa">Kappa</a></body></html>`))
	})
	mux.HandleFunc("/latin1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.Write([]byte("<html><body><h2>caf\xe9</h2></body></html>"))
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/echo-agent", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<p>" + r.Header.Get("User-Agent") + "</p>"))
	})
	mux.HandleFunc("/set-cookie", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
		w.Write([]byte("<p>ok</p>"))
	})
	mux.HandleFunc("/echo-cookie", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("session")
		if err != nil {
			w.Write([]byte("<p>none</p>"))
			return
		}
		w.Write([]byte("<p>" + c.Value + "</p>"))
	})
	mux.HandleFunc("/img/png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("\x89PNG fake"))
	})
	mux.HandleFunc("/img/unknown", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte("bytes"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, timeout time.Duration) (*Client, *storage.Manager) {
	t.Helper()
	store := storage.NewManager(t.TempDir(), "emotes")
	return NewClient(timeout, store, nil, logger.NewNopLogger()), store
}

func TestFetchDocument(t *testing.T) {
	server := newTestServer(t)
	client, _ := newTestClient(t, time.Second)

	doc, err := client.FetchDocument(context.Background(), server.URL+"/index")
	require.NoError(t, err)

	href, ok := doc.Find("a").Attr("href")
	assert.True(t, ok)
	assert.Equal(t, "/channels/1/emotes/kappa", href)
	assert.Equal(t, server.URL+"/index", doc.Url.String())
}

func TestFetchDocumentDecodesDeclaredCharset(t *testing.T) {
	server := newTestServer(t)
	client, _ := newTestClient(t, time.Second)

	doc, err := client.FetchDocument(context.Background(), server.URL+"/latin1")
	require.NoError(t, err)
	assert.Equal(t, "café", doc.Find("h2").Text())
}

func TestFetchDocumentSendsHeaders(t *testing.T) {
	server := newTestServer(t)
	client, _ := newTestClient(t, time.Second)
	client.SetHeader("User-Agent", "emotescraper-test/1.0")

	doc, err := client.FetchDocument(context.Background(), server.URL+"/echo-agent")
	require.NoError(t, err)
	assert.Equal(t, "emotescraper-test/1.0", doc.Find("p").Text())
}

func TestGetErrors(t *testing.T) {
	server := newTestServer(t)
	client, _ := newTestClient(t, 100*time.Millisecond)

	tests := []struct {
		name     string
		url      string
		wantType errs.ErrorType
	}{
		{"not found", server.URL + "/missing", errs.ErrorTypeHTTPStatus},
		{"timeout", server.URL + "/slow", errs.ErrorTypeTimeout},
		{"connection refused", "http://127.0.0.1:1/index", errs.ErrorTypeNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.FetchDocument(context.Background(), tt.url)
			require.Error(t, err)
			assert.Equal(t, tt.wantType, errs.TypeOf(err))
			assert.True(t, errs.IsTransport(err))
		})
	}
}

func TestGetStatusCarriesCode(t *testing.T) {
	server := newTestServer(t)
	client, _ := newTestClient(t, time.Second)

	_, err := client.Get(context.Background(), server.URL+"/missing")

	var apiErr *errs.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Code)
}

func TestGetHonoursRateLimiter(t *testing.T) {
	server := newTestServer(t)
	limiter := ratelimit.NewTokenBucket(1, 1)
	client := NewClient(time.Second, nil, limiter, logger.NewNopLogger())

	_, err := client.FetchDocument(context.Background(), server.URL+"/index")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.FetchDocument(ctx, server.URL+"/index")
	assert.Error(t, err)
}

func TestFetchAndSave(t *testing.T) {
	server := newTestServer(t)
	client, store := newTestClient(t, time.Second)

	path, err := client.FetchAndSave(context.Background(), models.ImageInfo{Name: "PogChamp", URL: server.URL + "/img/png"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store.Dir(), "pogchamp.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG fake", string(data))
}

func TestFetchAndSaveUnknownContentType(t *testing.T) {
	server := newTestServer(t)
	client, store := newTestClient(t, time.Second)

	path, err := client.FetchAndSave(context.Background(), models.ImageInfo{Name: "Kappa", URL: server.URL + "/img/unknown"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store.Dir(), "kappa"), path)
}

func TestFetchAndSaveFailureWritesNothing(t *testing.T) {
	server := newTestServer(t)
	client, store := newTestClient(t, time.Second)

	_, err := client.FetchAndSave(context.Background(), models.ImageInfo{Name: "Kappa", URL: server.URL + "/missing"})
	require.Error(t, err)

	_, statErr := os.Stat(store.Dir())
	assert.True(t, os.IsNotExist(statErr))
}

func TestCookiesPersistAcrossRequests(t *testing.T) {
	server := newTestServer(t)
	client, _ := newTestClient(t, time.Second)

	_, err := client.FetchDocument(context.Background(), server.URL+"/set-cookie")
	require.NoError(t, err)

	doc, err := client.FetchDocument(context.Background(), server.URL+"/echo-cookie")
	require.NoError(t, err)
	assert.Equal(t, "abc", doc.Find("p").Text())
}
