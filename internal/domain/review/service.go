package review

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Submit stores the account's single review. The existence probe is only a
// fast path; the unique index on user_id is what actually rejects a second
// review.
func (s *Service) Submit(ctx context.Context, userID string, rating int, comment string) (*Review, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUserRequired
	}
	if rating < MinRating || rating > MaxRating {
		return nil, ErrInvalidRating
	}

	reviewed, err := s.repo.HasReviewed(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check review: %w", err)
	}
	if reviewed {
		return nil, ErrAlreadyReviewed
	}

	review := Review{
		ID:        uuid.NewString(),
		UserID:    userID,
		Rating:    rating,
		Comment:   normalizeComment(comment),
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *Service) List(ctx context.Context) ([]WithName, error) {
	reviews, err := s.repo.ListWithNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	if reviews == nil {
		return []WithName{}, nil
	}
	return reviews, nil
}

func (s *Service) Summary(ctx context.Context, userID string) (Summary, error) {
	reviews, err := s.List(ctx)
	if err != nil {
		return Summary{}, err
	}

	ratings := make([]int, 0, len(reviews))
	hasReviewed := false
	for _, item := range reviews {
		ratings = append(ratings, item.Rating)
		if item.UserID == userID {
			hasReviewed = true
		}
	}

	return Summary{
		Reviews:     reviews,
		Count:       len(reviews),
		Average:     Average(ratings),
		HasReviewed: hasReviewed,
	}, nil
}

// Average is the mean rating formatted with one decimal, "0.0" when empty.
func Average(ratings []int) string {
	if len(ratings) == 0 {
		return "0.0"
	}
	sum := 0
	for _, rating := range ratings {
		sum += rating
	}
	return strconv.FormatFloat(float64(sum)/float64(len(ratings)), 'f', 1, 64)
}

func normalizeComment(comment string) *string {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil
	}
	return &comment
}
