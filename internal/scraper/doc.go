// Package scraper fetches JRA pages and parses them into goquery documents.
//
// Every request carries a desktop browser User-Agent, since the site serves
// race cards only to browsers. Responses are decoded to UTF-8 before parsing,
// using the charset the server declares or, failing that, the one sniffed
// from the document (JRA pages are Shift_JIS). Requests pass through a rate
// limiter so that brute-force address probing stays polite.
package scraper
