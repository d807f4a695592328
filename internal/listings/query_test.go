package listings

import (
	"testing"

	"github.com/communitree/backend/internal/models"
)

func board() []models.Listing {
	return []models.Listing{
		{ID: "a", OrgName: "Green Roots", Description: "tree planting drive", Types: []models.Category{models.CategoryEnvironment}, NeedVolunteers: 5, HaveVolunteers: 2, CreatedAt: 300},
		{ID: "b", OrgName: "Shiksha Setu", Description: "weekend teaching", Types: []models.Category{models.CategoryEducation, models.CategoryStudentWelfare}, NeedVolunteers: 1, HaveVolunteers: 8, CreatedAt: 200},
		{ID: "c", OrgName: "Paws Trust", Description: "shelter cleanup", Types: []models.Category{models.CategoryAnimalWelfare}, NeedVolunteers: 9, HaveVolunteers: 0, CreatedAt: 100},
	}
}

func ids(items []models.Listing) []string {
	out := make([]string, len(items))
	for i, l := range items {
		out[i] = l.ID
	}
	return out
}

func equalIDs(a []string, b ...string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name string
		q    string
		want []string
	}{
		{"empty query is identity", "", []string{"a", "b", "c"}},
		{"matches org name", "paws", []string{"c"}},
		{"matches description", "TEACHING", []string{"b"}},
		{"matches category text", "environment", []string{"a"}},
		{"no hits", "blockchain", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Search(board(), tt.q))
			if !equalIDs(got, tt.want...) {
				t.Fatalf("Search(%q) = %v, want %v", tt.q, got, tt.want)
			}
		})
	}
}

func TestFilterByTypes(t *testing.T) {
	if got := ids(FilterByTypes(board(), nil)); !equalIDs(got, "a", "b", "c") {
		t.Fatalf("empty selection = %v", got)
	}
	got := ids(FilterByTypes(board(), []models.Category{models.CategoryEducation, models.CategoryAnimalWelfare}))
	if !equalIDs(got, "b", "c") {
		t.Fatalf("selection = %v", got)
	}
}

func TestFilterNeeding(t *testing.T) {
	items := board()
	items[1].NeedVolunteers = 0
	if got := ids(FilterNeeding(items, false)); !equalIDs(got, "a", "b", "c") {
		t.Fatalf("off = %v", got)
	}
	if got := ids(FilterNeeding(items, true)); !equalIDs(got, "a", "c") {
		t.Fatalf("on = %v", got)
	}
}

func TestSortByDescending(t *testing.T) {
	tests := []struct {
		key  SortKey
		want []string
	}{
		{SortRecent, []string{"a", "b", "c"}}, // 300, 200, 100
		{SortNeed, []string{"c", "a", "b"}},   // 9, 5, 1
		{SortHave, []string{"b", "a", "c"}},   // 8, 2, 0
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			got := ids(SortBy(board(), tt.key))
			if !equalIDs(got, tt.want...) {
				t.Fatalf("SortBy(%s) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestSortByIsStableOnTies(t *testing.T) {
	items := []models.Listing{
		{ID: "x", NeedVolunteers: 4},
		{ID: "y", NeedVolunteers: 4},
		{ID: "z", NeedVolunteers: 4},
	}
	if got := ids(SortBy(items, SortNeed)); !equalIDs(got, "x", "y", "z") {
		t.Fatalf("tied sort reordered: %v", got)
	}
}

func TestApplyViewComposesInOrder(t *testing.T) {
	// search narrows to education-ish rows first, then the need filter and
	// sort run on the remainder only.
	items := board()
	got := ids(ApplyView(items, "e", []models.Category{models.CategoryEnvironment, models.CategoryEducation}, true, SortNeed))
	if !equalIDs(got, "a", "b") {
		t.Fatalf("ApplyView = %v, want [a b]", got)
	}
}

func TestParseSortKey(t *testing.T) {
	if ParseSortKey("need") != SortNeed || ParseSortKey("have") != SortHave {
		t.Fatal("known keys not parsed")
	}
	if ParseSortKey("") != SortRecent || ParseSortKey("bogus") != SortRecent {
		t.Fatal("unknown keys should default to recent")
	}
}
