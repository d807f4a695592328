package listings

import (
	"sort"
	"strings"

	"github.com/communitree/backend/internal/models"
)

// SortKey selects the ordering of the volunteer-facing board.
type SortKey string

const (
	// SortRecent orders by descending creation time (the default).
	SortRecent SortKey = "recent"
	// SortNeed orders by descending needed volunteers.
	SortNeed SortKey = "need"
	// SortHave orders by descending current volunteers.
	SortHave SortKey = "have"
)

// ParseSortKey maps a query parameter to a SortKey, defaulting to recent.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortNeed:
		return SortNeed
	case SortHave:
		return SortHave
	default:
		return SortRecent
	}
}

// Search keeps listings whose org name, description, or joined types contain
// the query, case-insensitively. An empty query matches everything.
func Search(items []models.Listing, q string) []models.Listing {
	if q == "" {
		return items
	}
	needle := strings.ToLower(q)
	var out []models.Listing
	for _, l := range items {
		hay := strings.ToLower(l.OrgName + " " + l.Description + " " + joinTypes(l.Types))
		if strings.Contains(hay, needle) {
			out = append(out, l)
		}
	}
	return out
}

// FilterByTypes keeps listings whose types intersect the selection. An empty
// selection applies no filter.
func FilterByTypes(items []models.Listing, selected []models.Category) []models.Listing {
	if len(selected) == 0 {
		return items
	}
	want := make(map[models.Category]struct{}, len(selected))
	for _, t := range selected {
		want[t] = struct{}{}
	}
	var out []models.Listing
	for _, l := range items {
		for _, t := range l.Types {
			if _, ok := want[t]; ok {
				out = append(out, l)
				break
			}
		}
	}
	return out
}

// FilterNeeding keeps listings with open capacity when onlyNeeding is set;
// otherwise it is a no-op.
func FilterNeeding(items []models.Listing, onlyNeeding bool) []models.Listing {
	if !onlyNeeding {
		return items
	}
	var out []models.Listing
	for _, l := range items {
		if l.NeedVolunteers > 0 {
			out = append(out, l)
		}
	}
	return out
}

// SortBy returns a new slice ordered by the given key. All keys sort
// descending; ties keep store order (stable sort, and the store is already
// most-recent-first).
func SortBy(items []models.Listing, key SortKey) []models.Listing {
	out := append([]models.Listing(nil), items...)
	switch key {
	case SortNeed:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].NeedVolunteers > out[j].NeedVolunteers
		})
	case SortHave:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].HaveVolunteers > out[j].HaveVolunteers
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt > out[j].CreatedAt
		})
	}
	return out
}

// ApplyView composes the volunteer board pipeline in its fixed order:
// search, then type filter, then need filter, then sort. The order is part
// of the board's contract.
func ApplyView(items []models.Listing, q string, selected []models.Category, onlyNeeding bool, key SortKey) []models.Listing {
	out := Search(items, q)
	out = FilterByTypes(out, selected)
	out = FilterNeeding(out, onlyNeeding)
	return SortBy(out, key)
}

func joinTypes(types []models.Category) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, " ")
}
