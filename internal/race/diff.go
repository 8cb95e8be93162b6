package race

// ChangeType classifies a difference between two cards of the same race
type ChangeType string

const (
	ChangeAdded     ChangeType = "added"
	ChangeScratched ChangeType = "scratched"
	ChangeJockey    ChangeType = "jockey"
	ChangeNumber    ChangeType = "number"
)

// EntrantChange is a single difference between two cards
type EntrantChange struct {
	Type     ChangeType `json:"type"`
	Name     string     `json:"name"`
	OldValue string     `json:"old_value,omitempty"`
	NewValue string     `json:"new_value,omitempty"`
}

// DiffCards compares the entrants of a previously stored card with a freshly
// resolved one. Entrants are matched by horse name. Changes are listed in
// current card order, followed by scratched entrants in previous card order.
// A nil previous card yields no changes.
func DiffCards(previous, current *Card) []*EntrantChange {
	if previous == nil || current == nil {
		return nil
	}

	prevByName := make(map[string]Entrant, len(previous.Entrants))
	for _, e := range previous.Entrants {
		prevByName[e.Name] = e
	}

	var changes []*EntrantChange
	seen := make(map[string]bool, len(current.Entrants))
	for _, cur := range current.Entrants {
		seen[cur.Name] = true

		prev, exists := prevByName[cur.Name]
		if !exists {
			changes = append(changes, &EntrantChange{
				Type:     ChangeAdded,
				Name:     cur.Name,
				NewValue: cur.Jockey,
			})
			continue
		}

		if prev.Jockey != cur.Jockey {
			changes = append(changes, &EntrantChange{
				Type:     ChangeJockey,
				Name:     cur.Name,
				OldValue: prev.Jockey,
				NewValue: cur.Jockey,
			})
		}

		if prev.Number != "" && cur.Number != "" && prev.Number != cur.Number {
			changes = append(changes, &EntrantChange{
				Type:     ChangeNumber,
				Name:     cur.Name,
				OldValue: prev.Number,
				NewValue: cur.Number,
			})
		}
	}

	for _, prev := range previous.Entrants {
		if !seen[prev.Name] {
			changes = append(changes, &EntrantChange{
				Type:     ChangeScratched,
				Name:     prev.Name,
				OldValue: prev.Jockey,
			})
		}
	}

	return changes
}
