package menu

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

type Service struct {
	repo     Repository
	cache    Cache
	cacheTTL time.Duration
}

func NewService(repo Repository, cache Cache, cacheTTL time.Duration) *Service {
	if cache == nil || cacheTTL <= 0 {
		cache = noopCache{}
	}
	return &Service{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// List returns the week in Monday..Sunday order whatever order the store
// hands rows back in.
func (s *Service) List(ctx context.Context) ([]Day, error) {
	if days, ok := s.cache.Get(); ok {
		return days, nil
	}

	generation := s.cache.Generation()
	days, err := s.repo.ListDays(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	SortDays(days)

	s.cache.Set(days, s.cacheTTL, generation)
	return days, nil
}

// Update applies rows one at a time in the given order. The first failure
// stops the loop; rows already written stay written. Meal text is stored
// exactly as sent.
func (s *Service) Update(ctx context.Context, rows []UpdateInput) error {
	s.cache.Delete()
	defer s.cache.Delete()

	for _, row := range rows {
		row.ID = strings.TrimSpace(row.ID)
		if row.ID == "" {
			return ErrMenuDayRequired
		}

		if err := s.repo.UpdateDay(ctx, row); err != nil {
			return fmt.Errorf("update menu day %s: %w", row.ID, err)
		}
	}
	return nil
}

func SortDays(days []Day) {
	sort.SliceStable(days, func(i, j int) bool {
		return dayIndex(days[i].DayOfWeek) < dayIndex(days[j].DayOfWeek)
	})
}

// dayIndex puts unknown names after Sunday.
func dayIndex(day string) int {
	for i, name := range DaysOrder {
		if strings.EqualFold(name, day) {
			return i
		}
	}
	return len(DaysOrder)
}
