package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"botanicaltour/internal/domain"

	"github.com/google/uuid"
)

// Storage keys, shared with the mobile client's local storage layout.
const (
	ReviewsKey        = "@botanical_garden_reviews"
	LastReviewTimeKey = "@botanical_garden_last_review_time"
	DeletionsKey      = "@botanical_garden_deleted_reviews_count"
)

var errCorruptDocument = errors.New("corrupt document")

// Storage is an opaque string key-value store.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

type SubmitCheck struct {
	Allowed   bool
	Remaining time.Duration
}

type DeleteCheck struct {
	Allowed bool
	Reason  DenyReason
	Message string
}

type DeletionStats struct {
	DeletionsToday     int
	RemainingDeletions int
}

// Service owns the persisted reviews and enforces the submission cooldown,
// the deletion window and the daily deletion quota.
type Service struct {
	store  Storage
	policy Policy

	now   func() time.Time
	newID func() string

	// mu serializes read-modify-persist sequences on the stored documents.
	mu sync.Mutex
}

func NewService(store Storage, policy Policy) *Service {
	return &Service{
		store:  store,
		policy: policy.withDefaults(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (s *Service) Policy() Policy {
	return s.policy
}

// ListReviews returns the location's reviews, newest first. Storage errors
// and unreadable documents yield an empty list.
func (s *Service) ListReviews(ctx context.Context, locationID string) []domain.Review {
	reviews, err := s.loadReviews(ctx)
	if err != nil {
		log.Printf("review_list_failed location_id=%s error=%v", locationID, err)
		return []domain.Review{}
	}

	items := append([]domain.Review{}, reviews[locationID]...)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt > items[j].CreatedAt
	})
	return items
}

// AverageRating returns the mean rating of the location, or 0 without reviews.
func (s *Service) AverageRating(ctx context.Context, locationID string) float64 {
	reviews, err := s.loadReviews(ctx)
	if err != nil {
		log.Printf("review_average_failed location_id=%s error=%v", locationID, err)
		return 0
	}
	return averageOf(reviews[locationID])
}

func averageOf(items []domain.Review) float64 {
	if len(items) == 0 {
		return 0
	}
	sum := 0
	for _, r := range items {
		sum += r.Rating
	}
	return float64(sum) / float64(len(items))
}

// CanSubmit reports whether the global cooldown has elapsed.
func (s *Service) CanSubmit(ctx context.Context) SubmitCheck {
	last, ok, err := s.loadLastReviewTime(ctx)
	if err != nil {
		log.Printf("review_can_submit_failed error=%v", err)
		return SubmitCheck{Allowed: true}
	}
	return s.submitCheck(last, ok, s.now())
}

func (s *Service) submitCheck(lastMs int64, exists bool, now time.Time) SubmitCheck {
	if !exists {
		return SubmitCheck{Allowed: true}
	}

	elapsed := now.UnixMilli() - lastMs
	cooldown := s.policy.SubmitCooldown.Milliseconds()
	if elapsed >= cooldown {
		return SubmitCheck{Allowed: true}
	}
	return SubmitCheck{Remaining: time.Duration(cooldown-elapsed) * time.Millisecond}
}

// Submit stores a new review and starts the cooldown. Rating range and
// comment content are checked by the caller.
func (s *Service) Submit(ctx context.Context, locationID string, rating int, comment string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	last, ok, err := s.loadLastReviewTime(ctx)
	if err != nil {
		return "", fmt.Errorf("review.Submit: read last review time: %w", err)
	}
	if check := s.submitCheck(last, ok, now); !check.Allowed {
		return "", &RateLimitedError{Remaining: check.Remaining}
	}

	reviews, err := s.loadReviews(ctx)
	if err != nil {
		return "", fmt.Errorf("review.Submit: read reviews: %w", err)
	}

	rv := domain.Review{
		ID:         s.newID(),
		LocationID: locationID,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  now.UnixMilli(),
	}
	reviews[locationID] = append(reviews[locationID], rv)

	if err := s.saveJSON(ctx, ReviewsKey, reviews); err != nil {
		return "", fmt.Errorf("review.Submit: write reviews: %w", err)
	}
	if err := s.store.Set(ctx, LastReviewTimeKey, strconv.FormatInt(rv.CreatedAt, 10)); err != nil {
		return "", fmt.Errorf("review.Submit: write last review time: %w", err)
	}

	log.Printf("review_submitted id=%s location_id=%s rating=%d", rv.ID, locationID, rating)
	return rv.ID, nil
}

// CanDelete reports whether the review may be deleted now.
func (s *Service) CanDelete(ctx context.Context, reviewID string) DeleteCheck {
	reviews, err := s.loadReviews(ctx)
	if err != nil {
		log.Printf("review_can_delete_failed review_id=%s error=%v", reviewID, err)
		reviews = domain.ReviewCollection{}
	}
	ledger, err := s.loadLedger(ctx)
	if err != nil {
		log.Printf("review_can_delete_failed review_id=%s error=%v", reviewID, err)
		ledger = domain.DeletionLedger{}
	}
	return s.deleteCheck(reviews, ledger, reviewID, s.now())
}

func (s *Service) deleteCheck(reviews domain.ReviewCollection, ledger domain.DeletionLedger, reviewID string, now time.Time) DeleteCheck {
	rv, ok := findReview(reviews, reviewID)
	if !ok {
		return DeleteCheck{Reason: DenyNotFound, Message: "Review not found"}
	}

	if now.UnixMilli()-rv.CreatedAt >= s.policy.DeleteWindow.Milliseconds() {
		return DeleteCheck{
			Reason:  DenyTimeWindowExpired,
			Message: fmt.Sprintf("A review can only be deleted within %s of posting", formatWindow(s.policy.DeleteWindow)),
		}
	}

	if ledger[s.policy.dayKey(now)] >= s.policy.MaxDeletionsPerDay {
		return DeleteCheck{
			Reason:  DenyQuotaExceeded,
			Message: fmt.Sprintf("You have already deleted the maximum number of reviews today (%d)", s.policy.MaxDeletionsPerDay),
		}
	}

	return DeleteCheck{Allowed: true}
}

func findReview(reviews domain.ReviewCollection, reviewID string) (domain.Review, bool) {
	for _, items := range reviews {
		for _, rv := range items {
			if rv.ID == reviewID {
				return rv, true
			}
		}
	}
	return domain.Review{}, false
}

// Delete removes a review from the location and counts it against today's quota.
func (s *Service) Delete(ctx context.Context, locationID, reviewID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	reviews, err := s.loadReviews(ctx)
	if err != nil {
		return fmt.Errorf("review.Delete: read reviews: %w", err)
	}
	ledger, err := s.loadLedger(ctx)
	if err != nil {
		return fmt.Errorf("review.Delete: read deletions: %w", err)
	}

	if check := s.deleteCheck(reviews, ledger, reviewID, now); !check.Allowed {
		return &DeleteDeniedError{Reason: check.Reason, Message: check.Message}
	}

	items, ok := reviews[locationID]
	if !ok {
		return ErrNotFound
	}
	kept := make([]domain.Review, 0, len(items))
	for _, rv := range items {
		if rv.ID != reviewID {
			kept = append(kept, rv)
		}
	}
	if len(kept) == len(items) {
		return ErrNotFound
	}

	day := s.policy.dayKey(now)
	ledger[day]++
	if err := s.saveJSON(ctx, DeletionsKey, ledger); err != nil {
		return fmt.Errorf("review.Delete: write deletions: %w", err)
	}

	reviews[locationID] = kept
	if err := s.saveJSON(ctx, ReviewsKey, reviews); err != nil {
		return fmt.Errorf("review.Delete: write reviews: %w", err)
	}

	log.Printf("review_deleted id=%s location_id=%s deletions_today=%d", reviewID, locationID, ledger[day])
	return nil
}

func (s *Service) DeletionStats(ctx context.Context) DeletionStats {
	ledger, err := s.loadLedger(ctx)
	if err != nil {
		log.Printf("review_deletion_stats_failed error=%v", err)
		ledger = domain.DeletionLedger{}
	}

	today := ledger[s.policy.dayKey(s.now())]
	remaining := s.policy.MaxDeletionsPerDay - today
	if remaining < 0 {
		remaining = 0
	}
	return DeletionStats{DeletionsToday: today, RemainingDeletions: remaining}
}

// ClearAll erases every review, the cooldown timestamp and the deletion ledger.
func (s *Service) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, key := range []string{ReviewsKey, LastReviewTimeKey, DeletionsKey} {
		if err := s.store.Remove(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", key, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("review.ClearAll: %w", err)
	}

	log.Printf("reviews_cleared")
	return nil
}

// FormatRemaining renders d as whole hours and minutes, truncating.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int64(d / time.Hour)
	minutes := int64((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%d hours %d minutes", hours, minutes)
}

func formatWindow(d time.Duration) string {
	if d%time.Hour == 0 {
		return fmt.Sprintf("%d hours", int64(d/time.Hour))
	}
	return FormatRemaining(d)
}

// loadReviews returns storage errors; an unreadable document counts as empty.
func (s *Service) loadReviews(ctx context.Context) (domain.ReviewCollection, error) {
	var reviews domain.ReviewCollection
	err := s.loadJSON(ctx, ReviewsKey, &reviews)
	if errors.Is(err, errCorruptDocument) {
		return domain.ReviewCollection{}, nil
	}
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = domain.ReviewCollection{}
	}
	return reviews, nil
}

func (s *Service) loadLedger(ctx context.Context) (domain.DeletionLedger, error) {
	var ledger domain.DeletionLedger
	err := s.loadJSON(ctx, DeletionsKey, &ledger)
	if errors.Is(err, errCorruptDocument) {
		return domain.DeletionLedger{}, nil
	}
	if err != nil {
		return nil, err
	}
	if ledger == nil {
		ledger = domain.DeletionLedger{}
	}
	return ledger, nil
}

func (s *Service) loadLastReviewTime(ctx context.Context) (int64, bool, error) {
	raw, ok, err := s.store.Get(ctx, LastReviewTimeKey)
	if err != nil {
		return 0, false, err
	}
	if !ok {
		return 0, false, nil
	}

	ms, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		log.Printf("review_store_corrupt key=%s error=%v", LastReviewTimeKey, err)
		return 0, false, nil
	}
	return ms, true, nil
}

func (s *Service) loadJSON(ctx context.Context, key string, dst any) error {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		log.Printf("review_store_corrupt key=%s error=%v", key, err)
		return errCorruptDocument
	}
	return nil
}

func (s *Service) saveJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, key, string(data))
}
