package models

// ImageInfo identifies one emote image scraped from a detail page.
type ImageInfo struct {
	// Name is the display name exactly as it appears on the page.
	Name string `json:"name"`
	// URL is the absolute image URL on the CDN.
	URL string `json:"url"`
}

// Failure records one item that did not make it to disk.
type Failure struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (f Failure) String() string {
	return f.Name + ": " + f.Message
}
