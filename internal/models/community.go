package models

// Pulse grades how active a community is.
type Pulse string

const (
	PulseNew    Pulse = "New"
	PulseMedium Pulse = "Medium"
	PulseHigh   Pulse = "High"
)

// CommunityCreator identifies who created a community.
type CommunityCreator struct {
	Type Role   `json:"type"`
	Name string `json:"name"`
}

// Meetup is an optional upcoming community gathering.
type Meetup struct {
	Date  string `json:"date"`
	Time  string `json:"time"`
	Venue string `json:"venue"`
}

// Community is a user-created group profile, shared globally across both
// roles. There is no update or delete operation.
type Community struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Mission    string           `json:"mission"`
	Members    int              `json:"members"`
	Pulse      Pulse            `json:"pulse"`
	CreatedBy  CommunityCreator `json:"createdBy"`
	Activities []string         `json:"activities"`
	NextMeetup *Meetup          `json:"nextMeetup,omitempty"`
	CreatedAt  int64            `json:"createdAt"` // unix milliseconds
}
