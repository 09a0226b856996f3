package menu

import (
	"context"

	menudomain "mess-app-go/internal/domain/menu"

	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListDays(ctx context.Context) ([]menudomain.Day, error) {
	var days []menudomain.Day
	if err := r.db.WithContext(ctx).Find(&days).Error; err != nil {
		return nil, err
	}
	return days, nil
}

func (r *PostgresRepository) UpdateDay(ctx context.Context, input menudomain.UpdateInput) error {
	result := r.db.WithContext(ctx).
		Model(&menudomain.Day{}).
		Where("id = ?", input.ID).
		Updates(map[string]interface{}{
			"breakfast": input.Breakfast,
			"lunch":     input.Lunch,
			"dinner":    input.Dinner,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return menudomain.ErrMenuDayNotFound
	}
	return nil
}
