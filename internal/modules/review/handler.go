package review

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"botanicaltour/internal/pkg/response"
	"botanicaltour/internal/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// ContentFilter screens review comments before they are stored.
type ContentFilter interface {
	IsForbidden(text string) bool
	Mask(text string) string
}

// LocationCatalog answers whether a tour location exists.
type LocationCatalog interface {
	Exists(id string) bool
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	svc       *Service
	filter    ContentFilter
	locations LocationCatalog
	hub       *Hub
}

func NewHandler(svc *Service, filter ContentFilter, locations LocationCatalog, hub *Hub) *Handler {
	return &Handler{svc: svc, filter: filter, locations: locations, hub: hub}
}

func (h *Handler) RegisterRoutes(public, admin *gin.RouterGroup) {
	if public != nil {
		public.GET("/locations/:id/reviews", h.List)
		public.GET("/locations/:id/rating", h.Rating)
		public.POST("/locations/:id/reviews", h.Submit)
		public.DELETE("/locations/:id/reviews/:reviewId", h.Delete)

		public.GET("/reviews/eligibility", h.Eligibility)
		public.GET("/reviews/deletions", h.Deletions)
		public.GET("/reviews/feed", h.Feed)
		public.GET("/reviews/:reviewId/deletable", h.Deletable)

		public.POST("/content/check", h.CheckContent)
	}

	if admin != nil {
		admin.DELETE("/reviews", h.ClearAll)
	}
}

// List handles GET /locations/:id/reviews
func (h *Handler) List(c *gin.Context) {
	locationID := c.Param("id")
	if !h.locations.Exists(locationID) {
		response.Error(c, http.StatusNotFound, "LOCATION_NOT_FOUND", "Location not found")
		return
	}

	items := h.svc.ListReviews(c.Request.Context(), locationID)
	response.Success(c, http.StatusOK, LocationReviewsResponse{
		LocationID:    locationID,
		AverageRating: averageOf(items),
		Count:         len(items),
		Reviews:       items,
	})
}

// Rating handles GET /locations/:id/rating
func (h *Handler) Rating(c *gin.Context) {
	locationID := c.Param("id")
	if !h.locations.Exists(locationID) {
		response.Error(c, http.StatusNotFound, "LOCATION_NOT_FOUND", "Location not found")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"location_id":    locationID,
		"average_rating": h.svc.AverageRating(c.Request.Context(), locationID),
	})
}

// Submit handles POST /locations/:id/reviews
func (h *Handler) Submit(c *gin.Context) {
	locationID := c.Param("id")
	if !h.locations.Exists(locationID) {
		response.Error(c, http.StatusNotFound, "LOCATION_NOT_FOUND", "Location not found")
		return
	}

	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	req.Comment = strings.TrimSpace(req.Comment)

	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Rating and comment are required", errs)
		return
	}

	if h.filter.IsForbidden(req.Comment) {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "FORBIDDEN_CONTENT",
			"Comment contains forbidden words", gin.H{"masked": h.filter.Mask(req.Comment)})
		return
	}

	id, err := h.svc.Submit(c.Request.Context(), locationID, req.Rating, req.Comment)
	if err != nil {
		var limited *RateLimitedError
		if errors.As(err, &limited) {
			response.ErrorWithDetails(c, http.StatusTooManyRequests, "RATE_LIMITED",
				"Only one review per day is allowed", gin.H{
					"remaining_ms":   limited.RemainingMs(),
					"remaining_text": FormatRemaining(limited.Remaining),
				})
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}

	h.hub.Broadcast(Event{Type: EventReviewCreated, LocationID: locationID, ReviewID: id})
	response.Success(c, http.StatusCreated, gin.H{"id": id})
}

// Delete handles DELETE /locations/:id/reviews/:reviewId
func (h *Handler) Delete(c *gin.Context) {
	locationID := c.Param("id")
	reviewID := c.Param("reviewId")

	err := h.svc.Delete(c.Request.Context(), locationID, reviewID)
	if err != nil {
		var denied *DeleteDeniedError
		switch {
		case errors.As(err, &denied):
			response.ErrorWithDetails(c, http.StatusForbidden, "DELETE_DENIED", denied.Message,
				gin.H{"reason": denied.Reason})
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Review not found")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		}
		return
	}

	h.hub.Broadcast(Event{Type: EventReviewDeleted, LocationID: locationID, ReviewID: reviewID})
	response.Success(c, http.StatusOK, h.deletionStats(c))
}

// Eligibility handles GET /reviews/eligibility
func (h *Handler) Eligibility(c *gin.Context) {
	response.Success(c, http.StatusOK, toSubmitCheckResponse(h.svc.CanSubmit(c.Request.Context())))
}

// Deletable handles GET /reviews/:reviewId/deletable
func (h *Handler) Deletable(c *gin.Context) {
	check := h.svc.CanDelete(c.Request.Context(), c.Param("reviewId"))
	response.Success(c, http.StatusOK, DeleteCheckResponse{
		Allowed: check.Allowed,
		Reason:  check.Reason,
		Message: check.Message,
	})
}

// Deletions handles GET /reviews/deletions
func (h *Handler) Deletions(c *gin.Context) {
	response.Success(c, http.StatusOK, h.deletionStats(c))
}

func (h *Handler) deletionStats(c *gin.Context) DeletionStatsResponse {
	stats := h.svc.DeletionStats(c.Request.Context())
	return DeletionStatsResponse{
		DeletionsToday:     stats.DeletionsToday,
		RemainingDeletions: stats.RemainingDeletions,
		MaxPerDay:          h.svc.Policy().MaxDeletionsPerDay,
	}
}

// CheckContent handles POST /content/check
func (h *Handler) CheckContent(c *gin.Context) {
	var req ContentCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	response.Success(c, http.StatusOK, ContentCheckResponse{
		Forbidden: h.filter.IsForbidden(req.Text),
		Masked:    h.filter.Mask(req.Text),
	})
}

// ClearAll handles DELETE /admin/reviews
func (h *Handler) ClearAll(c *gin.Context) {
	if err := h.svc.ClearAll(c.Request.Context()); err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}

	h.hub.Broadcast(Event{Type: EventReviewsCleared})
	response.Success(c, http.StatusOK, gin.H{"cleared": true})
}

// Feed handles GET /reviews/feed and streams review events over a websocket.
func (h *Handler) Feed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("review_feed_upgrade_failed error=%v", err)
		return
	}

	id := h.hub.Register(conn)
	log.Printf("review_feed_connected subscriber_id=%s", id)
	defer func() {
		h.hub.Unregister(id)
		log.Printf("review_feed_disconnected subscriber_id=%s", id)
	}()

	h.hub.Send(id, Event{Type: EventFeedReady})

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	})
	go pingLoop(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("review_feed_read_error subscriber_id=%s error=%v", id, err)
			}
			return
		}
	}
}

func pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
			return
		}
	}
}
