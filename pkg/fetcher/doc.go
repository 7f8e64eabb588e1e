// Package fetcher is the HTTP side of the scraper: it turns URLs into parsed
// HTML documents and image URLs into files on disk.
//
// Every request honours the client's timeout and the shared rate limiter,
// and non-2xx responses are reported as typed http_status errors.
package fetcher
