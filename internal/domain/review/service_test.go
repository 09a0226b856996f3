package review

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReviewRepo struct {
	reviews   []Review
	names     map[string]string
	skipProbe bool
	listErr   error
}

func (r *fakeReviewRepo) Create(ctx context.Context, review *Review) error {
	for _, existing := range r.reviews {
		if existing.UserID == review.UserID {
			return ErrAlreadyReviewed
		}
	}
	r.reviews = append(r.reviews, *review)
	return nil
}

func (r *fakeReviewRepo) HasReviewed(ctx context.Context, userID string) (bool, error) {
	if r.skipProbe {
		return false, nil
	}
	for _, existing := range r.reviews {
		if existing.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReviewRepo) ListWithNames(ctx context.Context) ([]WithName, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []WithName
	for i := len(r.reviews) - 1; i >= 0; i-- {
		out = append(out, WithName{Review: r.reviews[i], FullName: r.names[r.reviews[i].UserID]})
	}
	return out, nil
}

func TestAverage(t *testing.T) {
	assert.Equal(t, "0.0", Average(nil))
	assert.Equal(t, "4.0", Average([]int{5, 3, 4}))
	assert.Equal(t, "4.5", Average([]int{5, 4}))
	assert.Equal(t, "3.7", Average([]int{5, 5, 1}))
}

func TestSubmitValidatesRating(t *testing.T) {
	svc := NewService(&fakeReviewRepo{})
	ctx := context.Background()

	for _, rating := range []int{0, -1, 6} {
		_, err := svc.Submit(ctx, "user-1", rating, "")
		assert.ErrorIs(t, err, ErrInvalidRating)
	}

	_, err := svc.Submit(ctx, "", 5, "")
	assert.ErrorIs(t, err, ErrUserRequired)
}

func TestSubmitTrimsComment(t *testing.T) {
	svc := NewService(&fakeReviewRepo{})
	ctx := context.Background()

	created, err := svc.Submit(ctx, "user-1", 4, "  great daal  ")
	require.NoError(t, err)
	require.NotNil(t, created.Comment)
	assert.Equal(t, "great daal", *created.Comment)
	assert.NotEmpty(t, created.ID)

	created, err = svc.Submit(ctx, "user-2", 3, "   ")
	require.NoError(t, err)
	assert.Nil(t, created.Comment)
}

func TestSubmitOncePerAccount(t *testing.T) {
	repo := &fakeReviewRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "user-1", 5, "")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, "user-1", 1, "changed my mind")
	assert.ErrorIs(t, err, ErrAlreadyReviewed)

	// The store constraint still holds when the probe misses.
	repo.skipProbe = true
	_, err = svc.Submit(ctx, "user-1", 1, "")
	assert.ErrorIs(t, err, ErrAlreadyReviewed)

	assert.Len(t, repo.reviews, 1)
}

func TestSummary(t *testing.T) {
	repo := &fakeReviewRepo{names: map[string]string{"user-1": "Ali", "user-2": "Sara", "user-3": "Omar"}}
	svc := NewService(repo)
	ctx := context.Background()

	for userID, rating := range map[string]int{"user-1": 5, "user-2": 3} {
		_, err := svc.Submit(ctx, userID, rating, "")
		require.NoError(t, err)
	}
	_, err := svc.Submit(ctx, "user-3", 4, "")
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, "user-2")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, "4.0", summary.Average)
	assert.True(t, summary.HasReviewed)
	assert.Equal(t, "Omar", summary.Reviews[0].FullName)

	summary, err = svc.Summary(ctx, "user-9")
	require.NoError(t, err)
	assert.False(t, summary.HasReviewed)
}

func TestSummaryEmpty(t *testing.T) {
	summary, err := NewService(&fakeReviewRepo{}).Summary(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "0.0", summary.Average)
	assert.NotNil(t, summary.Reviews)
	assert.Zero(t, summary.Count)
}

func TestListPropagatesStoreError(t *testing.T) {
	boom := errors.New("connection refused")
	_, err := NewService(&fakeReviewRepo{listErr: boom}).List(context.Background())
	assert.ErrorIs(t, err, boom)
}
