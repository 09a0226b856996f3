package menu

import "time"

type Day struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	DayOfWeek string    `gorm:"column:day_of_week;uniqueIndex;not null"`
	Breakfast string    `gorm:"not null;default:''"`
	Lunch     string    `gorm:"not null;default:''"`
	Dinner    string    `gorm:"not null;default:''"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Day) TableName() string {
	return "mess_menu"
}

type Meal string

const (
	MealBreakfast Meal = "breakfast"
	MealLunch     Meal = "lunch"
	MealDinner    Meal = "dinner"
)

var Meals = []Meal{MealBreakfast, MealLunch, MealDinner}

// Highlight values attached to each menu cell for the current viewer.
const (
	HighlightNone = "none"
	HighlightIn   = "in"
	HighlightOut  = "out"
)

// DaysOrder is the display order of the weekly menu.
var DaysOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

type UpdateInput struct {
	ID        string
	Breakfast string
	Lunch     string
	Dinner    string
}

// Slot is the meal being served right now. Meal is empty outside serving hours.
type Slot struct {
	DayOfWeek string
	Meal      Meal
}

func (s Slot) Active() bool {
	return s.Meal != ""
}
