package admin

import (
	"context"

	accountdomain "mess-app-go/internal/domain/account"
	admindomain "mess-app-go/internal/domain/admin"
	attendancedomain "mess-app-go/internal/domain/attendance"
	reviewdomain "mess-app-go/internal/domain/review"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(admindomain.Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ProfileExists(ctx context.Context, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&accountdomain.Profile{}).
		Where("id = ?", userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) DeleteAttendance(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&attendancedomain.Record{})
	return result.RowsAffected, result.Error
}

func (r *PostgresRepository) DeleteReviews(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&reviewdomain.Review{})
	return result.RowsAffected, result.Error
}

func (r *PostgresRepository) DeleteRole(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&accountdomain.UserRole{}).Error
}

func (r *PostgresRepository) DeleteProfile(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("id = ?", userID).Delete(&accountdomain.Profile{}).Error
}

func (r *PostgresRepository) MarkDeleted(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&accountdomain.DeletedAccount{UserID: userID}).Error
}
