package review

import (
	"context"
	"errors"
	"time"

	reviewdomain "mess-app-go/internal/domain/review"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, review *reviewdomain.Review) error {
	err := r.db.WithContext(ctx).Create(review).Error
	if isUniqueViolation(err) {
		return reviewdomain.ErrAlreadyReviewed
	}
	return err
}

func (r *PostgresRepository) HasReviewed(ctx context.Context, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&reviewdomain.Review{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

type reviewRow struct {
	ID        string
	UserID    string
	Rating    int
	Comment   *string
	CreatedAt time.Time
	FullName  string
}

func (r *PostgresRepository) ListWithNames(ctx context.Context) ([]reviewdomain.WithName, error) {
	var rows []reviewRow
	if err := r.db.WithContext(ctx).
		Table("reviews AS r").
		Select("r.id, r.user_id, r.rating, r.comment, r.created_at, COALESCE(p.full_name, '') AS full_name").
		Joins("LEFT JOIN profiles p ON p.id = r.user_id").
		Order("r.created_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	reviews := make([]reviewdomain.WithName, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, reviewdomain.WithName{
			Review: reviewdomain.Review{
				ID:        row.ID,
				UserID:    row.UserID,
				Rating:    row.Rating,
				Comment:   row.Comment,
				CreatedAt: row.CreatedAt,
			},
			FullName: row.FullName,
		})
	}
	return reviews, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
