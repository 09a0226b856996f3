package attendance

import "time"

// Record is one student's IN/OUT flag for one calendar day. A missing record
// means OUT for billing.
type Record struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:daily_attendance_user_id_date_key"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:daily_attendance_user_id_date_key"`
	IsIn      bool      `gorm:"not null;default:false"`
	MarkedAt  time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Record) TableName() string {
	return "daily_attendance"
}

type Totals struct {
	Days   int64
	Amount int64
}

type DayStatus struct {
	Date   time.Time
	IsIn   bool
	Locked bool
}

// TomorrowStatus keeps IsIn nil until the student decides, so "not decided"
// stays distinct from an explicit OUT.
type TomorrowStatus struct {
	Date time.Time
	IsIn *bool
}

type Dashboard struct {
	BeforeCutoff bool
	TargetDate   time.Time
	Today        DayStatus
	Tomorrow     TomorrowStatus
	Totals       Totals
}

type Mark struct {
	Date         time.Time
	IsIn         bool
	AppliesToday bool
	Totals       Totals
}
