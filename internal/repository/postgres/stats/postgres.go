package stats

import (
	"context"
	"strings"
	"time"

	accountdomain "mess-app-go/internal/domain/account"
	attendancedomain "mess-app-go/internal/domain/attendance"
	statsdomain "mess-app-go/internal/domain/stats"

	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CountStudents(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&accountdomain.UserRole{}).
		Where("role = ?", accountdomain.RoleStudent).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// studentInRecords selects IN records of student accounts between two dates
// inclusive.
func (r *PostgresRepository) studentInRecords(ctx context.Context, from, to time.Time) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("daily_attendance AS a").
		Joins("JOIN user_roles ur ON ur.user_id = a.user_id AND ur.role = ?", accountdomain.RoleStudent).
		Where("a.is_in = ? AND a.date BETWEEN ? AND ?", true,
			attendancedomain.FormatDate(from), attendancedomain.FormatDate(to))
}

func (r *PostgresRepository) PeriodCounts(ctx context.Context, from, to time.Time) (statsdomain.PeriodCounts, error) {
	var row struct {
		DistinctIn int64
		InRecords  int64
	}
	if err := r.studentInRecords(ctx, from, to).
		Select("COUNT(DISTINCT a.user_id) AS distinct_in, COUNT(*) AS in_records").
		Scan(&row).Error; err != nil {
		return statsdomain.PeriodCounts{}, err
	}
	return statsdomain.PeriodCounts{DistinctIn: row.DistinctIn, InRecords: row.InRecords}, nil
}

func (r *PostgresRepository) DailyInCounts(ctx context.Context, from, to time.Time) ([]statsdomain.DayCount, error) {
	var rows []struct {
		Date    time.Time
		InCount int64
	}
	if err := r.studentInRecords(ctx, from, to).
		Select("a.date AS date, COUNT(*) AS in_count").
		Group("a.date").
		Order("a.date").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make([]statsdomain.DayCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, statsdomain.DayCount{
			Date:    time.Date(row.Date.Year(), row.Date.Month(), row.Date.Day(), 0, 0, 0, 0, time.UTC),
			InCount: row.InCount,
		})
	}
	return counts, nil
}

func (r *PostgresRepository) students(ctx context.Context, today time.Time) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("profiles AS p").
		Select(`p.id AS user_id, p.email, p.full_name,
			COALESCE(BOOL_OR(a.is_in) FILTER (WHERE a.date = ?), false) AS is_in_today,
			COUNT(a.id) FILTER (WHERE a.is_in) AS total_days`, attendancedomain.FormatDate(today)).
		Joins("JOIN user_roles ur ON ur.user_id = p.id AND ur.role = ?", accountdomain.RoleStudent).
		Joins("LEFT JOIN daily_attendance a ON a.user_id = p.id").
		Group("p.id, p.email, p.full_name")
}

func (r *PostgresRepository) ListStudents(ctx context.Context, today time.Time, search string) ([]statsdomain.StudentRow, error) {
	query := r.students(ctx, today)
	if search != "" {
		pattern := containsPattern(search)
		query = query.Where(`p.full_name ILIKE ? ESCAPE '\' OR p.email ILIKE ? ESCAPE '\'`, pattern, pattern)
	}

	var rows []statsdomain.StudentRow
	if err := query.Order("p.full_name ASC, p.email ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) GetStudentByEmail(ctx context.Context, email string, today time.Time) (*statsdomain.StudentRow, error) {
	var rows []statsdomain.StudentRow
	if err := r.students(ctx, today).
		Where("p.email = ?", email).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, statsdomain.ErrStudentNotFound
	}
	return &rows[0], nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern matches search literally anywhere in the column.
func containsPattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}
