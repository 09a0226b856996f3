package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo   Repository
	policy Policy
	now    func() time.Time
}

func NewService(repo Repository, policy Policy) *Service {
	return &Service{
		repo:   repo,
		policy: policy,
		now:    time.Now,
	}
}

func (s *Service) Policy() Policy {
	return s.policy
}

// Window resolves the cutoff against the current wall clock.
func (s *Service) Window() Window {
	return s.policy.Resolve(s.now())
}

func (s *Service) Today() time.Time {
	return s.policy.Today(s.now())
}

// GetStatus returns nil when the student has no record for the date.
func (s *Service) GetStatus(ctx context.Context, userID string, date time.Time) (*bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUserRequired
	}

	record, err := s.repo.GetRecord(ctx, userID, date)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get attendance %s: %w", FormatDate(date), err)
	}

	isIn := record.IsIn
	return &isIn, nil
}

func (s *Service) Dashboard(ctx context.Context, userID string) (Dashboard, error) {
	window := s.Window()

	today, err := s.GetStatus(ctx, userID, window.Today)
	if err != nil {
		return Dashboard{}, err
	}
	tomorrow, err := s.GetStatus(ctx, userID, window.Tomorrow)
	if err != nil {
		return Dashboard{}, err
	}
	totals, err := s.GetTotals(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}

	return Dashboard{
		BeforeCutoff: window.BeforeCutoff,
		TargetDate:   window.Target,
		Today: DayStatus{
			Date:   window.Today,
			IsIn:   today != nil && *today,
			Locked: !window.BeforeCutoff,
		},
		Tomorrow: TomorrowStatus{
			Date: window.Tomorrow,
			IsIn: tomorrow,
		},
		Totals: totals,
	}, nil
}

// SetStatus applies the student's own change to the day picked by the cutoff
// policy and returns the refreshed totals.
func (s *Service) SetStatus(ctx context.Context, userID string, isIn bool) (Mark, error) {
	window := s.Window()

	if err := s.SetStatusForDate(ctx, userID, window.Target, isIn); err != nil {
		return Mark{}, err
	}

	totals, err := s.GetTotals(ctx, userID)
	if err != nil {
		return Mark{}, err
	}

	return Mark{
		Date:         window.Target,
		IsIn:         isIn,
		AppliesToday: window.BeforeCutoff,
		Totals:       totals,
	}, nil
}

// SetStatusForDate writes the flag for an arbitrary day without consulting
// the cutoff policy. Only the admin gateway calls it directly.
func (s *Service) SetStatusForDate(ctx context.Context, userID string, date time.Time, isIn bool) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrUserRequired
	}
	if date.IsZero() {
		return fmt.Errorf("%w: zero date", ErrInvalidDate)
	}

	record := Record{
		ID:       uuid.NewString(),
		UserID:   userID,
		Date:     civilDate(date),
		IsIn:     isIn,
		MarkedAt: s.now().UTC(),
	}
	if err := s.repo.Upsert(ctx, &record); err != nil {
		return fmt.Errorf("upsert attendance %s: %w", FormatDate(record.Date), err)
	}
	return nil
}

func (s *Service) GetTotals(ctx context.Context, userID string) (Totals, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Totals{}, ErrUserRequired
	}

	days, err := s.repo.CountIn(ctx, userID)
	if err != nil {
		return Totals{}, fmt.Errorf("count attendance: %w", err)
	}
	return totalsFor(days), nil
}
