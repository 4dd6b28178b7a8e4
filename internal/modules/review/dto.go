package review

import "botanicaltour/internal/domain"

type SubmitReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"required,max=2000"`
}

type ContentCheckRequest struct {
	Text string `json:"text"`
}

type ContentCheckResponse struct {
	Forbidden bool   `json:"forbidden"`
	Masked    string `json:"masked"`
}

type LocationReviewsResponse struct {
	LocationID    string          `json:"location_id"`
	AverageRating float64         `json:"average_rating"`
	Count         int             `json:"count"`
	Reviews       []domain.Review `json:"reviews"`
}

type SubmitCheckResponse struct {
	Allowed       bool   `json:"allowed"`
	RemainingMs   int64  `json:"remaining_ms"`
	RemainingText string `json:"remaining_text,omitempty"`
}

type DeleteCheckResponse struct {
	Allowed bool       `json:"allowed"`
	Reason  DenyReason `json:"reason,omitempty"`
	Message string     `json:"message,omitempty"`
}

type DeletionStatsResponse struct {
	DeletionsToday     int `json:"deletions_today"`
	RemainingDeletions int `json:"remaining_deletions"`
	MaxPerDay          int `json:"max_per_day"`
}

func toSubmitCheckResponse(c SubmitCheck) SubmitCheckResponse {
	out := SubmitCheckResponse{Allowed: c.Allowed, RemainingMs: c.Remaining.Milliseconds()}
	if !c.Allowed {
		out.RemainingText = FormatRemaining(c.Remaining)
	}
	return out
}
