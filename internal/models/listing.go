package models

import (
	"strconv"
	"strings"
)

// Category is a listing cause area. The set is closed and validated at
// publish time.
type Category string

const (
	CategoryAnimalWelfare        Category = "Animal Welfare"
	CategoryChildWelfare         Category = "Child Welfare"
	CategoryCommunityDevelopment Category = "Community Development"
	CategoryDisasterRelief       Category = "Disaster Relief"
	CategoryEducation            Category = "Education"
	CategoryEnvironment          Category = "Environment"
	CategoryHealthcare           Category = "Healthcare"
	CategoryWomenEmpowerment     Category = "Women Empowerment"
	CategoryStudentWelfare       Category = "Student Welfare"
	CategoryGeneral              Category = "General"
)

// Categories lists every valid listing category.
var Categories = []Category{
	CategoryAnimalWelfare,
	CategoryChildWelfare,
	CategoryCommunityDevelopment,
	CategoryDisasterRelief,
	CategoryEducation,
	CategoryEnvironment,
	CategoryHealthcare,
	CategoryWomenEmpowerment,
	CategoryStudentWelfare,
	CategoryGeneral,
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c Category) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Count is a non-negative volunteer counter. Stored documents may carry the
// value as a JSON number, a numeric string, or garbage from hand-edited
// storage; decoding normalizes all of those to a clamped integer instead of
// failing (non-numeric and negative input both become 0).
type Count int

// UnmarshalJSON never returns an error; malformed input decodes as 0.
func (c *Count) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(b)), `"`))
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		*c = 0
		return nil
	}
	*c = Count(n)
	return nil
}

// Listing is an NGO's posted need for volunteers.
type Listing struct {
	ID             string     `json:"id"`
	OwnerRole      Role       `json:"ownerRole"`
	OrgName        string     `json:"orgName"`
	OrgEmail       string     `json:"orgEmail"`
	Types          []Category `json:"types"`
	HaveVolunteers Count      `json:"haveVolunteers"`
	NeedVolunteers Count      `json:"needVolunteers"`
	Description    string     `json:"description"`
	CreatedAt      int64      `json:"createdAt"` // unix milliseconds
}
