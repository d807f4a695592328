package models

// Participation records that a specific volunteer committed to a specific
// listing. Exactly one exists per (volunteerEmail, listingId) pair and
// records are never deleted (there is no unvolunteer operation).
type Participation struct {
	ID             string `json:"id"`
	VolunteerEmail string `json:"volunteerEmail"`
	ListingID      string `json:"listingId"`
	OrgName        string `json:"orgName"`
	ProgramTitle   string `json:"programTitle"`
	VolunteeredAt  int64  `json:"volunteeredAt"` // unix milliseconds
}
