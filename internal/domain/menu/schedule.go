package menu

import "time"

type servingWindow struct {
	meal  Meal
	start time.Duration
	end   time.Duration
}

// Serving windows are half-open: [start, end).
var servingWindows = []servingWindow{
	{meal: MealBreakfast, start: 7 * time.Hour, end: 9 * time.Hour},
	{meal: MealLunch, start: 12*time.Hour + 30*time.Minute, end: 14*time.Hour + 30*time.Minute},
	{meal: MealDinner, start: 19 * time.Hour, end: 21 * time.Hour},
}

// CurrentSlot reports the weekday and the meal being served at now in the
// given location.
func CurrentSlot(now time.Time, location *time.Location) Slot {
	if location != nil {
		now = now.In(location)
	}
	hour, minute, second := now.Clock()
	sinceMidnight := time.Duration(hour)*time.Hour +
		time.Duration(minute)*time.Minute +
		time.Duration(second)*time.Second

	slot := Slot{DayOfWeek: now.Weekday().String()}
	for _, window := range servingWindows {
		if sinceMidnight >= window.start && sinceMidnight < window.end {
			slot.Meal = window.meal
			break
		}
	}
	return slot
}

// Highlight decides how one menu cell is shown: only the cell matching the
// current day and meal is marked, green when the viewer is IN and red
// otherwise.
func Highlight(dayOfWeek string, meal Meal, slot Slot, userIsIn bool) string {
	if !slot.Active() || slot.DayOfWeek != dayOfWeek || slot.Meal != meal {
		return HighlightNone
	}
	if userIsIn {
		return HighlightIn
	}
	return HighlightOut
}
