// Package extractor pulls emote detail links and image information out of
// parsed twitchemotes pages. It performs no I/O.
package extractor

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"

	errs "emotescraper/pkg/errors"
	"emotescraper/pkg/models"
)

const (
	nameSelector = ".card-header h2"
)

var (
	detailLinkPattern = regexp.MustCompile(`^/channels/\d+/emotes/[a-z0-9_]+$`)
	imageURLPattern   = regexp.MustCompile(`https://static-cdn\.jtvnw\.net/emoticons/v2/[a-z0-9_]+/(animated|static)/light/3\.0`)
)

// DetailLinks returns the href of every anchor that points at an emote
// detail page, in document order. Duplicates are kept.
func DetailLinks(doc *goquery.Document) []string {
	links := []string{}
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if IsDetailLink(href) {
			links = append(links, href)
		}
	})
	return links
}

// IsDetailLink reports whether href has the shape of an emote detail path.
func IsDetailLink(href string) bool {
	return detailLinkPattern.MatchString(href)
}

// ImageInfo reads the display name and CDN image URL from a detail page.
func ImageInfo(doc *goquery.Document) (models.ImageInfo, error) {
	heading := doc.Find(nameSelector).First()
	if heading.Length() == 0 {
		return models.ImageInfo{}, errs.ErrMissingName
	}

	var src string
	doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("src")
		if imageURLPattern.MatchString(v) {
			src = v
			return false
		}
		return true
	})
	if src == "" {
		return models.ImageInfo{}, errs.ErrMissingImage
	}

	return models.ImageInfo{Name: heading.Text(), URL: src}, nil
}
