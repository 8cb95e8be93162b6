// Package extract reads JRA race card pages.
//
// Race card pages are loosely structured: the entrant table has no stable id,
// its column order varies, and header wording differs between page variants
// (騎手 vs 騎手名, 馬番 vs 馬番号). The package therefore finds the table by
// its header labels rather than by selector, maps the semantic columns it
// needs (number, horse, jockey) to physical positions, and mines the page's
// free text for the race date, venue and race number.
//
// Validate decides whether a fetched document is a race card at all. It is the
// check the address resolver runs on every candidate page, so a miss is a
// plain false and never an error.
package extract
