package catalog

import "botanicaltour/internal/domain"

type LocationResponse struct {
	domain.Location
	Directions []domain.Direction `json:"available_directions"`
}

func toResponse(l domain.Location) LocationResponse {
	return LocationResponse{Location: l, Directions: l.Directions()}
}
