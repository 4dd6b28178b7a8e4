package domain

// Review is a single visitor review of a tour location. CreatedAt is epoch
// milliseconds so stored documents stay readable by the mobile client.
type Review struct {
	ID         string `json:"id"`
	LocationID string `json:"locationId"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
	CreatedAt  int64  `json:"createdAt"`
}

// ReviewCollection maps a location id to its reviews. Order inside a slice
// is not significant.
type ReviewCollection map[string][]Review

// DeletionLedger counts deletions per calendar day.
type DeletionLedger map[string]int
