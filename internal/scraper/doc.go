// Package scraper fetches Statsguru result pages and hands them to the stats extractor.
//
// The scraper issues a single GET per call with a browser User-Agent, since the site
// refuses obvious bots. Transport failures and non-2xx responses are reported as a
// *NetworkError; nothing is retried.
package scraper
