package common

import (
	"time"

	"mess-app-go/internal/domain/attendance"
)

func FormatDate(date time.Time) string {
	return attendance.FormatDate(date)
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
