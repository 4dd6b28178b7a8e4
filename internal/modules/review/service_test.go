package review

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"botanicaltour/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockStorage) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockStorage) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// 10:00 local time keeps every test step on the same calendar day.
var baseTime = time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *fakeClock, *repository.MemoryKV) {
	t.Helper()

	store := repository.NewMemoryKV()
	clock := &fakeClock{now: baseTime}
	svc := NewService(store, Policy{Location: time.UTC})
	svc.now = clock.Now

	seq := 0
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("r%d", seq)
	}
	return svc, clock, store
}

func TestService_CanSubmit_NoPriorSubmission(t *testing.T) {
	svc, _, _ := newTestService(t)

	check := svc.CanSubmit(context.Background())
	assert.True(t, check.Allowed)
	assert.Zero(t, check.Remaining)
}

func TestService_Submit_Cooldown(t *testing.T) {
	ctx := context.Background()
	svc, clock, store := newTestService(t)

	id, err := svc.Submit(ctx, "entrance", 5, "Чудово")
	require.NoError(t, err)
	assert.Equal(t, "r1", id)

	raw, ok, err := store.Get(ctx, LastReviewTimeKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, fmt.Sprint(baseTime.UnixMilli()), raw)

	clock.Advance(90 * time.Minute)

	check := svc.CanSubmit(ctx)
	assert.False(t, check.Allowed)
	assert.Equal(t, 24*time.Hour-90*time.Minute, check.Remaining)

	// cooldown is global, not per location
	_, err = svc.Submit(ctx, "lilac", 4, "Гарно")
	var limited *RateLimitedError
	require.ErrorAs(t, err, &limited)
	assert.Equal(t, 24*time.Hour-90*time.Minute, limited.Remaining)
	assert.Equal(t, (24*time.Hour - 90*time.Minute).Milliseconds(), limited.RemainingMs())

	clock.Advance(24*time.Hour - 90*time.Minute - time.Millisecond)
	_, err = svc.Submit(ctx, "lilac", 4, "Гарно")
	require.ErrorAs(t, err, &limited)
	assert.Equal(t, time.Millisecond, limited.Remaining)

	clock.Advance(time.Millisecond)
	assert.True(t, svc.CanSubmit(ctx).Allowed)
	id, err = svc.Submit(ctx, "lilac", 4, "Гарно")
	require.NoError(t, err)
	assert.Equal(t, "r2", id)
}

func TestService_ListReviews_NewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, clock, _ := newTestService(t)

	for i := 1; i <= 3; i++ {
		_, err := svc.Submit(ctx, "orangery", i, fmt.Sprintf("comment %d", i))
		require.NoError(t, err)
		clock.Advance(24 * time.Hour)
	}

	items := svc.ListReviews(ctx, "orangery")
	require.Len(t, items, 3)
	assert.Equal(t, []string{"r3", "r2", "r1"}, []string{items[0].ID, items[1].ID, items[2].ID})
	assert.Equal(t, "orangery", items[0].LocationID)
	assert.Equal(t, baseTime.Add(48*time.Hour).UnixMilli(), items[0].CreatedAt)
}

func TestService_AverageRating(t *testing.T) {
	ctx := context.Background()
	svc, clock, _ := newTestService(t)

	assert.Equal(t, 0.0, svc.AverageRating(ctx, "korean"))

	for _, rating := range []int{5, 3, 4} {
		_, err := svc.Submit(ctx, "korean", rating, "ok")
		require.NoError(t, err)
		clock.Advance(24 * time.Hour)
	}

	assert.InDelta(t, 4.0, svc.AverageRating(ctx, "korean"), 1e-9)
}

func TestService_EmptyLocationStaysEmpty(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	assert.Equal(t, 0, len(svc.ListReviews(ctx, "birch")))
	assert.NotNil(t, svc.ListReviews(ctx, "birch"))
	assert.Equal(t, 0.0, svc.AverageRating(ctx, "birch"))

	_, err := svc.Submit(ctx, "conifer", 5, "ok")
	require.NoError(t, err)

	assert.Empty(t, svc.ListReviews(ctx, "birch"))
	assert.Equal(t, 0.0, svc.AverageRating(ctx, "birch"))
}

func TestService_CorruptDocumentsReadAsEmpty(t *testing.T) {
	ctx := context.Background()
	svc, _, store := newTestService(t)

	require.NoError(t, store.Set(ctx, ReviewsKey, "{not json"))
	require.NoError(t, store.Set(ctx, DeletionsKey, "[1,2"))
	require.NoError(t, store.Set(ctx, LastReviewTimeKey, "yesterday"))

	assert.Empty(t, svc.ListReviews(ctx, "entrance"))
	assert.Equal(t, 0.0, svc.AverageRating(ctx, "entrance"))
	assert.True(t, svc.CanSubmit(ctx).Allowed)
	assert.Equal(t, DeletionStats{DeletionsToday: 0, RemainingDeletions: 3}, svc.DeletionStats(ctx))

	_, err := svc.Submit(ctx, "entrance", 5, "ok")
	require.NoError(t, err)
	assert.Len(t, svc.ListReviews(ctx, "entrance"), 1)
}

func TestService_CanDelete(t *testing.T) {
	ctx := context.Background()
	svc, clock, _ := newTestService(t)

	check := svc.CanDelete(ctx, "missing")
	assert.False(t, check.Allowed)
	assert.Equal(t, DenyNotFound, check.Reason)

	id, err := svc.Submit(ctx, "monastery", 4, "ok")
	require.NoError(t, err)

	assert.True(t, svc.CanDelete(ctx, id).Allowed)

	clock.Advance(24*time.Hour - time.Millisecond)
	assert.True(t, svc.CanDelete(ctx, id).Allowed)

	clock.Advance(time.Millisecond)
	check = svc.CanDelete(ctx, id)
	assert.False(t, check.Allowed)
	assert.Equal(t, DenyTimeWindowExpired, check.Reason)
	assert.Contains(t, check.Message, "24 hours")

	err = svc.Delete(ctx, "monastery", id)
	var denied *DeleteDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, DenyTimeWindowExpired, denied.Reason)
	assert.Len(t, svc.ListReviews(ctx, "monastery"), 1)
}

func TestService_Delete_QuotaPerCalendarDay(t *testing.T) {
	ctx := context.Background()
	svc, clock, store := newTestService(t)

	// reviews written directly so the cooldown does not get in the way
	now := baseTime.UnixMilli()
	require.NoError(t, store.Set(ctx, ReviewsKey, fmt.Sprintf(`{"garden":[
		{"id":"a","locationId":"garden","rating":5,"comment":"1","createdAt":%[1]d},
		{"id":"b","locationId":"garden","rating":4,"comment":"2","createdAt":%[1]d},
		{"id":"c","locationId":"garden","rating":3,"comment":"3","createdAt":%[1]d},
		{"id":"d","locationId":"garden","rating":2,"comment":"4","createdAt":%[1]d}
	]}`, now)))

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, svc.Delete(ctx, "garden", id))
		stats := svc.DeletionStats(ctx)
		assert.Equal(t, i+1, stats.DeletionsToday)
		assert.Equal(t, 2-i, stats.RemainingDeletions)
	}

	check := svc.CanDelete(ctx, "d")
	assert.False(t, check.Allowed)
	assert.Equal(t, DenyQuotaExceeded, check.Reason)

	err := svc.Delete(ctx, "garden", "d")
	var denied *DeleteDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, DenyQuotaExceeded, denied.Reason)

	raw, _, err := store.Get(ctx, DeletionsKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Tue Mar 10 2026":3}`, raw)

	// 14:00 later is the next calendar day and still inside the review's window
	clock.Advance(14 * time.Hour)
	assert.Equal(t, DeletionStats{DeletionsToday: 0, RemainingDeletions: 3}, svc.DeletionStats(ctx))
	require.NoError(t, svc.Delete(ctx, "garden", "d"))
	assert.Empty(t, svc.ListReviews(ctx, "garden"))
}

func TestService_Delete_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	err := svc.Delete(ctx, "entrance", "nope")
	var denied *DeleteDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, DenyNotFound, denied.Reason)

	id, err := svc.Submit(ctx, "entrance", 5, "ok")
	require.NoError(t, err)

	// location without any stored reviews
	assert.ErrorIs(t, svc.Delete(ctx, "lilac", id), ErrNotFound)
	assert.Equal(t, 0, svc.DeletionStats(ctx).DeletionsToday)
	assert.Len(t, svc.ListReviews(ctx, "entrance"), 1)
}

func TestService_ConcurrentSubmit(t *testing.T) {
	ctx := context.Background()
	svc, clock, _ := newTestService(t)

	_, err := svc.Submit(ctx, "entrance", 5, "first")
	require.NoError(t, err)
	clock.Advance(24 * time.Hour)

	var (
		wg        sync.WaitGroup
		successes int
		limited   int
		mu        sync.Mutex
	)
	start := make(chan struct{})
	for _, loc := range []string{"birch", "lilac"} {
		wg.Add(1)
		go func(loc string) {
			defer wg.Done()
			<-start
			_, err := svc.Submit(ctx, loc, 4, "race")

			mu.Lock()
			defer mu.Unlock()
			var rl *RateLimitedError
			switch {
			case err == nil:
				successes++
			case errors.As(err, &rl):
				limited++
			}
		}(loc)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, limited)
	assert.Equal(t, 1, len(svc.ListReviews(ctx, "birch"))+len(svc.ListReviews(ctx, "lilac")))
}

func TestService_ClearAll(t *testing.T) {
	ctx := context.Background()
	svc, _, store := newTestService(t)

	id, err := svc.Submit(ctx, "entrance", 5, "ok")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "entrance", id))

	require.NoError(t, svc.ClearAll(ctx))

	for _, key := range []string{ReviewsKey, LastReviewTimeKey, DeletionsKey} {
		_, ok, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}
	assert.True(t, svc.CanSubmit(ctx).Allowed)
	assert.Equal(t, 0, svc.DeletionStats(ctx).DeletionsToday)
}

func TestService_StorageFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")

	t.Run("reads fail soft", func(t *testing.T) {
		store := new(MockStorage)
		store.On("Get", mock.Anything, mock.Anything).Return("", false, boom)
		svc := NewService(store, DefaultPolicy())

		assert.Empty(t, svc.ListReviews(ctx, "entrance"))
		assert.Equal(t, 0.0, svc.AverageRating(ctx, "entrance"))
		assert.True(t, svc.CanSubmit(ctx).Allowed)
		assert.Equal(t, DenyNotFound, svc.CanDelete(ctx, "x").Reason)
		assert.Equal(t, DeletionStats{RemainingDeletions: 3}, svc.DeletionStats(ctx))
	})

	t.Run("submit propagates write errors", func(t *testing.T) {
		store := new(MockStorage)
		store.On("Get", mock.Anything, mock.Anything).Return("", false, nil)
		store.On("Set", mock.Anything, ReviewsKey, mock.Anything).Return(boom)
		svc := NewService(store, DefaultPolicy())

		_, err := svc.Submit(ctx, "entrance", 5, "ok")
		assert.ErrorIs(t, err, boom)
		store.AssertNotCalled(t, "Set", mock.Anything, LastReviewTimeKey, mock.Anything)
	})

	t.Run("submit propagates read errors", func(t *testing.T) {
		store := new(MockStorage)
		store.On("Get", mock.Anything, LastReviewTimeKey).Return("", false, boom)
		svc := NewService(store, DefaultPolicy())

		_, err := svc.Submit(ctx, "entrance", 5, "ok")
		assert.ErrorIs(t, err, boom)
		store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("clear all reports every failed key", func(t *testing.T) {
		store := new(MockStorage)
		store.On("Remove", mock.Anything, mock.Anything).Return(boom)
		svc := NewService(store, DefaultPolicy())

		err := svc.ClearAll(ctx)
		assert.ErrorIs(t, err, boom)
		store.AssertNumberOfCalls(t, "Remove", 3)
	})
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0 hours 0 minutes"},
		{59 * time.Second, "0 hours 0 minutes"},
		{90 * time.Minute, "1 hours 30 minutes"},
		{23*time.Hour + 59*time.Minute + 59*time.Second, "23 hours 59 minutes"},
		{-time.Minute, "0 hours 0 minutes"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRemaining(tt.in))
	}
}

func TestPolicy_Defaults(t *testing.T) {
	p := Policy{}.withDefaults()
	assert.Equal(t, 24*time.Hour, p.SubmitCooldown)
	assert.Equal(t, 24*time.Hour, p.DeleteWindow)
	assert.Equal(t, 3, p.MaxDeletionsPerDay)
	assert.NotNil(t, p.Location)

	custom := Policy{SubmitCooldown: time.Hour, DeleteWindow: 2 * time.Hour, MaxDeletionsPerDay: 1, Location: time.UTC}.withDefaults()
	assert.Equal(t, time.Hour, custom.SubmitCooldown)
	assert.Equal(t, 2*time.Hour, custom.DeleteWindow)
	assert.Equal(t, 1, custom.MaxDeletionsPerDay)

	assert.Equal(t, "Thu Oct 01 2026", custom.dayKey(time.Date(2026, 10, 1, 23, 0, 0, 0, time.UTC)))
}
