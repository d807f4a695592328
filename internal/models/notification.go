package models

// Notification is one entry in the append-only confirmation log written by
// the background worker after a successful commit.
type Notification struct {
	ID              string `json:"id"`
	ParticipationID string `json:"participationId"`
	ListingID       string `json:"listingId"`
	RecipientEmail  string `json:"recipientEmail"`
	Subject         string `json:"subject"`
	Body            string `json:"body"`
	Status          string `json:"status"` // "logged" until a real mail sender exists
	CreatedAt       int64  `json:"createdAt"`
}
