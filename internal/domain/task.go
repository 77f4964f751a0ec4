package domain

import (
	"strconv"
	"time"
)

// TitleMaxLength is the longest task title accepted, counted in characters.
const TitleMaxLength = 200

// DateLayout is the wire format of a task's scheduled day.
const DateLayout = "2006-01-02"

// Task is a dated to-do item owned by exactly one user.
type Task struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	Date      time.Time `db:"date" json:"date"`
	IsDone    bool      `db:"is_done" json:"is_done"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TaskCounts is the {total, completed} pair used by stats and the profile page.
type TaskCounts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// PercentageCompleted returns completed/total*100 rounded to one decimal, or
// 0 when there are no tasks. Rounding is done on the exact binary value of the
// percentage, so 28.749999... stays 28.7 and an exact 6.25 goes to even.
func (c TaskCounts) PercentageCompleted() float64 {
	if c.Total <= 0 {
		return 0
	}
	p := float64(c.Completed) / float64(c.Total) * 100
	v, _ := strconv.ParseFloat(strconv.FormatFloat(p, 'f', 1, 64), 64)
	return v
}

// DateOf truncates t to its calendar day in t's location and returns that
// day as midnight UTC, the representation stored in the DATE column.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a day value.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// MonthWindow returns [first day of month, first day of next month) in loc.
func MonthWindow(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}
