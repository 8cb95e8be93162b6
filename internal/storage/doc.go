// Package storage provides JSON-based persistence for race card addresses and
// card snapshots.
//
// Race card addresses cannot be derived, so once one is found it is worth
// keeping: addresses.json maps each race key (YYYYMMDD_<venue code>_<race>)
// to the address that resolved it, and the next lookup for the same race
// tries it before any guessing. The last card extracted for each race is kept
// in card_<key>.json so that scratches and jockey changes can be reported on
// the next fetch. The default storage location is ~/.local/share/racecard/.
package storage
