package account

import (
	"context"
	"errors"
	"time"

	accountdomain "mess-app-go/internal/domain/account"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(accountdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetProfile(ctx context.Context, userID string) (*accountdomain.Profile, error) {
	var profile accountdomain.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, accountdomain.ErrAccountNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *PostgresRepository) GetProfileByEmail(ctx context.Context, email string) (*accountdomain.Profile, error) {
	var profile accountdomain.Profile
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, accountdomain.ErrAccountNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// UpsertProfile keeps an existing full name when the provider sends none.
func (r *PostgresRepository) UpsertProfile(ctx context.Context, profile *accountdomain.Profile) error {
	updates := map[string]interface{}{
		"email":      profile.Email,
		"updated_at": time.Now().UTC(),
	}
	if profile.FullName != "" {
		updates["full_name"] = profile.FullName
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(updates),
		}).
		Create(profile).Error
	if isUniqueViolation(err) {
		return accountdomain.ErrAlreadyRegistered
	}
	return err
}

func (r *PostgresRepository) EnsureRole(ctx context.Context, userID, role string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&accountdomain.UserRole{UserID: userID, Role: role}).Error
}

func (r *PostgresRepository) SetRole(ctx context.Context, userID, role string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"role": role}),
		}).
		Create(&accountdomain.UserRole{UserID: userID, Role: role}).Error
}

func (r *PostgresRepository) GetRole(ctx context.Context, userID string) (string, error) {
	var role accountdomain.UserRole
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", accountdomain.ErrAccountNotFound
		}
		return "", err
	}
	return role.Role, nil
}

func (r *PostgresRepository) IsDeleted(ctx context.Context, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&accountdomain.DeletedAccount{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
