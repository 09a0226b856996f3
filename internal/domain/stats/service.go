package stats

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mess-app-go/internal/domain/account"
	"mess-app-go/internal/domain/attendance"
)

type Service struct {
	repo   Repository
	policy attendance.Policy
	rules  account.EmailRules
	now    func() time.Time
}

func NewService(repo Repository, policy attendance.Policy, rules account.EmailRules) *Service {
	return &Service{
		repo:   repo,
		policy: policy,
		rules:  rules,
		now:    time.Now,
	}
}

func (s *Service) PeriodStats(ctx context.Context, from, to time.Time) (PeriodStats, error) {
	if from.After(to) {
		return PeriodStats{}, ErrInvalidRange
	}

	total, err := s.repo.CountStudents(ctx)
	if err != nil {
		return PeriodStats{}, fmt.Errorf("count students: %w", err)
	}
	counts, err := s.repo.PeriodCounts(ctx, from, to)
	if err != nil {
		return PeriodStats{}, fmt.Errorf("period counts: %w", err)
	}

	return PeriodStats{
		From:          from,
		To:            to,
		TotalStudents: total,
		StudentsIn:    counts.DistinctIn,
		StudentsOut:   nonNegative(total - counts.DistinctIn),
		TotalRevenue:  attendance.Amount(counts.InRecords),
	}, nil
}

func (s *Service) Weekly(ctx context.Context) (PeriodStats, error) {
	from, to := weekBounds(s.policy.Today(s.now()))
	return s.PeriodStats(ctx, from, to)
}

func (s *Service) Monthly(ctx context.Context) (PeriodStats, error) {
	from, to := monthBounds(s.policy.Today(s.now()))
	return s.PeriodStats(ctx, from, to)
}

func (s *Service) ForPeriod(ctx context.Context, period string) (PeriodStats, error) {
	switch strings.ToLower(strings.TrimSpace(period)) {
	case "", PeriodWeek:
		return s.Weekly(ctx)
	case PeriodMonth:
		return s.Monthly(ctx)
	default:
		return PeriodStats{}, ErrInvalidPeriod
	}
}

// Daily builds the chart series for a window. The week window is the seven
// days of the current week; the month window is the trailing 30 days ending
// today. Days without IN records are zero-filled.
func (s *Service) Daily(ctx context.Context, window string) ([]DailyPoint, error) {
	today := s.policy.Today(s.now())

	var (
		from, to time.Time
		label    func(time.Time) string
	)
	switch strings.ToLower(strings.TrimSpace(window)) {
	case "", PeriodWeek:
		from, to = weekBounds(today)
		label = func(day time.Time) string { return day.Format("Mon") }
	case PeriodMonth:
		from, to = today.AddDate(0, 0, -(MonthWindowDays-1)), today
		label = func(day time.Time) string { return strconv.Itoa(day.Day()) }
	default:
		return nil, ErrInvalidPeriod
	}

	total, err := s.repo.CountStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}
	counts, err := s.repo.DailyInCounts(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily counts: %w", err)
	}

	byDate := make(map[string]int64, len(counts))
	for _, count := range counts {
		byDate[attendance.FormatDate(count.Date)] = count.InCount
	}

	points := make([]DailyPoint, 0, MonthWindowDays)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		in := byDate[attendance.FormatDate(day)]
		points = append(points, DailyPoint{
			Date:     day,
			Day:      label(day),
			InCount:  in,
			OutCount: nonNegative(total - in),
			Revenue:  attendance.Amount(in),
		})
	}
	return points, nil
}

func (s *Service) Students(ctx context.Context, search string) ([]StudentSummary, error) {
	rows, err := s.repo.ListStudents(ctx, s.policy.Today(s.now()), strings.TrimSpace(search))
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	summaries := make([]StudentSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, summarize(row))
	}
	return summaries, nil
}

func (s *Service) LookupByRegNumber(ctx context.Context, regNumber string) (StudentSummary, error) {
	email, err := s.rules.EmailForRegNumber(regNumber)
	if err != nil {
		return StudentSummary{}, err
	}

	row, err := s.repo.GetStudentByEmail(ctx, email, s.policy.Today(s.now()))
	if err != nil {
		return StudentSummary{}, err
	}
	return summarize(*row), nil
}

func (s *Service) Overview(ctx context.Context) (Overview, error) {
	today := s.policy.Today(s.now())

	stats, err := s.PeriodStats(ctx, today, today)
	if err != nil {
		return Overview{}, err
	}

	return Overview{
		Date:             today,
		TotalStudents:    stats.TotalStudents,
		StudentsInToday:  stats.StudentsIn,
		StudentsOutToday: stats.StudentsOut,
		RevenueToday:     stats.TotalRevenue,
	}, nil
}

func summarize(row StudentRow) StudentSummary {
	return StudentSummary{
		UserID:      row.UserID,
		Email:       row.Email,
		FullName:    row.FullName,
		IsInToday:   row.IsInToday,
		TotalDays:   row.TotalDays,
		TotalAmount: attendance.Amount(row.TotalDays),
	}
}

// weekBounds returns Monday and Sunday of the week containing day.
func weekBounds(day time.Time) (time.Time, time.Time) {
	offset := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -offset)
	return monday, monday.AddDate(0, 0, 6)
}

func monthBounds(day time.Time) (time.Time, time.Time) {
	first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

func nonNegative(value int64) int64 {
	if value < 0 {
		return 0
	}
	return value
}
