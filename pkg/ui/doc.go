// Package ui renders scraper progress for humans.
//
// Console prints line-oriented progress markers and the final report.
// The tui sub-package offers a full-screen live view of the same events.
package ui
