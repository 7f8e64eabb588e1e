package scraper

import "emotescraper/pkg/models"

// Outcome aggregates the failures of one batch run. Failures appear with
// every detail-phase failure first, then every download-phase failure, each
// group in link discovery order.
type Outcome struct {
	// Links is the number of detail links found on the index page.
	Links int
	// Downloaded is the number of files written.
	Downloaded int

	failures []models.Failure
}

func (o *Outcome) record(name string, err error) {
	o.failures = append(o.failures, models.Failure{Name: name, Message: err.Error()})
}

// HasFailures reports whether any item failed
func (o *Outcome) HasFailures() bool {
	return len(o.failures) > 0
}

// Failures returns a copy of the recorded failures
func (o *Outcome) Failures() []models.Failure {
	out := make([]models.Failure, len(o.failures))
	copy(out, o.failures)
	return out
}
