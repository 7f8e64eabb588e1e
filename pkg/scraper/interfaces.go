package scraper

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"emotescraper/pkg/models"
)

// Fetcher defines the network operations the scraper depends on
type Fetcher interface {
	FetchDocument(ctx context.Context, url string) (*goquery.Document, error)
	FetchAndSave(ctx context.Context, info models.ImageInfo) (string, error)
}

// Progress receives a marker as each stage of a run begins. Calls may come
// from several goroutines when downloads run concurrently.
type Progress interface {
	FetchingIndex(url string)
	FoundLinks(count int)
	FetchingDetail(link string)
	Downloading(name string)
}

type nopProgress struct{}

func (nopProgress) FetchingIndex(string)  {}
func (nopProgress) FoundLinks(int)        {}
func (nopProgress) FetchingDetail(string) {}
func (nopProgress) Downloading(string)    {}
