// Package scraper runs a batch scrape of one channel's emotes.
//
// A run has three phases:
//
//  1. Index: fetch the index page and collect detail links. Any failure here
//     aborts the run.
//  2. Detail: fetch each detail page and extract its name and image URL.
//  3. Download: fetch each image and write it to the output directory.
//
// Failures in the detail and download phases never abort the run. They are
// recorded in the Outcome, keyed by the unresolved link or by the emote name
// respectively, and reported in link discovery order regardless of how many
// workers ran.
//
// Usage:
//
//	s := scraper.New(cfg, log)
//	outcome, err := s.Run(ctx, "https://twitchemotes.com/channels/12345")
//	if err != nil {
//	    return err
//	}
//	for _, f := range outcome.Failures() {
//	    fmt.Println(f)
//	}
package scraper
