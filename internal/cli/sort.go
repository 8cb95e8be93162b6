package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pfrederiksen/racecard/internal/race"
)

// SortOrder represents the available sorting options for printed entrants
type SortOrder string

const (
	SortByCard   SortOrder = "card"
	SortByNumber SortOrder = "number"
	SortByName   SortOrder = "name"
	SortByJockey SortOrder = "jockey"
)

func parseSortOrder(s string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	switch order {
	case "":
		return SortByCard, nil
	case SortByCard, SortByNumber, SortByName, SortByJockey:
		return order, nil
	}
	return "", fmt.Errorf("invalid sort order: %s (must be card, number, name or jockey)", s)
}

// sortEntrants returns a sorted copy of entrants. Card order is the order of
// the page and is returned unchanged.
func sortEntrants(entrants []race.Entrant, order SortOrder) []race.Entrant {
	out := make([]race.Entrant, len(entrants))
	copy(out, entrants)

	switch order {
	case SortByNumber:
		sort.SliceStable(out, func(i, j int) bool {
			return compareByNumber(out[i], out[j])
		})
	case SortByName:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Name < out[j].Name
		})
	case SortByJockey:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Jockey != out[j].Jockey {
				return out[i].Jockey < out[j].Jockey
			}
			// If jockeys are equal, sort by number
			return compareByNumber(out[i], out[j])
		})
	}
	return out
}

// compareByNumber orders entrants by horse number, with unnumbered entrants
// last in their original order.
func compareByNumber(i, j race.Entrant) bool {
	ni, errI := strconv.Atoi(i.Number)
	nj, errJ := strconv.Atoi(j.Number)

	if errI == nil && errJ == nil {
		return ni < nj
	}
	return errI == nil && errJ != nil
}
