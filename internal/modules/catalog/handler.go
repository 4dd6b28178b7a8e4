package catalog

import (
	"errors"
	"net/http"

	"botanicaltour/internal/domain"
	"botanicaltour/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/locations", h.List)
	r.GET("/locations/:id", h.Get)
	r.GET("/locations/:id/neighbors/:direction", h.Neighbor)
}

// List handles GET /api/v1/locations
func (h *Handler) List(c *gin.Context) {
	locations := h.service.List()
	items := make([]LocationResponse, 0, len(locations))
	for _, l := range locations {
		items = append(items, toResponse(l))
	}
	response.Success(c, http.StatusOK, gin.H{
		"start_point": h.service.StartPoint(),
		"locations":   items,
	})
}

// Get handles GET /api/v1/locations/:id
func (h *Handler) Get(c *gin.Context) {
	l, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "LOCATION_NOT_FOUND", "Location not found")
		return
	}
	response.Success(c, http.StatusOK, toResponse(*l))
}

// Neighbor handles GET /api/v1/locations/:id/neighbors/:direction
func (h *Handler) Neighbor(c *gin.Context) {
	l, err := h.service.Neighbor(c.Param("id"), domain.Direction(c.Param("direction")))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDirection):
			response.Error(c, http.StatusBadRequest, "INVALID_DIRECTION", "Direction must be one of left, right, up, down")
		case errors.Is(err, ErrNoConnection):
			response.Error(c, http.StatusNotFound, "NO_CONNECTION", "No location in that direction")
		default:
			response.Error(c, http.StatusNotFound, "LOCATION_NOT_FOUND", "Location not found")
		}
		return
	}
	response.Success(c, http.StatusOK, toResponse(*l))
}
