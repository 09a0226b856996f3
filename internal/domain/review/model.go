package review

import "time"

type Review struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:reviews_user_id_key"`
	Rating    int       `gorm:"not null"`
	Comment   *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Review) TableName() string {
	return "reviews"
}

// WithName is a review joined with the submitter's display name.
type WithName struct {
	Review
	FullName string
}

type Summary struct {
	Reviews     []WithName
	Count       int
	Average     string
	HasReviewed bool
}

const (
	MinRating = 1
	MaxRating = 5
)
