package stats

import "time"

const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// MonthWindowDays is the length of the trailing daily chart window.
const MonthWindowDays = 30

type PeriodStats struct {
	From          time.Time
	To            time.Time
	TotalStudents int64
	StudentsIn    int64
	StudentsOut   int64
	TotalRevenue  int64
}

// PeriodCounts is what the store reports for an inclusive date range.
type PeriodCounts struct {
	DistinctIn int64
	InRecords  int64
}

type DayCount struct {
	Date    time.Time
	InCount int64
}

type DailyPoint struct {
	Date     time.Time
	Day      string
	InCount  int64
	OutCount int64
	Revenue  int64
}

// StudentRow is one student as read from the store; billing is applied by
// the service.
type StudentRow struct {
	UserID    string
	Email     string
	FullName  string
	IsInToday bool
	TotalDays int64
}

type StudentSummary struct {
	UserID      string
	Email       string
	FullName    string
	IsInToday   bool
	TotalDays   int64
	TotalAmount int64
}

type Overview struct {
	Date             time.Time
	TotalStudents    int64
	StudentsInToday  int64
	StudentsOutToday int64
	RevenueToday     int64
}
