package attendance

import (
	"context"
	"errors"
	"time"

	attendancedomain "mess-app-go/internal/domain/attendance"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetRecord(ctx context.Context, userID string, date time.Time) (*attendancedomain.Record, error) {
	var record attendancedomain.Record
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, attendancedomain.FormatDate(date)).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendancedomain.ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

// Upsert relies on the (user_id, date) unique index so concurrent writers for
// the same day converge on one row.
func (r *PostgresRepository) Upsert(ctx context.Context, record *attendancedomain.Record) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"is_in":     record.IsIn,
				"marked_at": record.MarkedAt,
			}),
		}).
		Create(record).Error
}

func (r *PostgresRepository) CountIn(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&attendancedomain.Record{}).
		Where("user_id = ? AND is_in = ?", userID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
