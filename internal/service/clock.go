package service

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Clock - "сейчас" в часовом поясе сервиса. Все даты считаются только через него
type Clock struct {
	loc *time.Location
	now func() time.Time
}

func NewClock(loc *time.Location, now func() time.Time) Clock {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return Clock{loc: loc, now: now}
}

func (c Clock) Location() *time.Location { return c.loc }

func (c Clock) Now() time.Time { return c.now().In(c.loc) }

func (c Clock) Today() string { return c.Now().Format(DateLayout) }

func (c Clock) Yesterday() string { return c.Now().AddDate(0, 0, -1).Format(DateLayout) }

// DaysAgo - дата n дней назад, для диапазонов графиков
func (c Clock) DaysAgo(n int) string { return c.Now().AddDate(0, 0, -n).Format(DateLayout) }

// HourRange - полуинтервал [date fromHour:00, date (toHour+1):00) по местному времени
func (c Clock) HourRange(date string, fromHour, toHour int) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, date, c.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	from := time.Date(day.Year(), day.Month(), day.Day(), fromHour, 0, 0, 0, c.loc)
	to := time.Date(day.Year(), day.Month(), day.Day(), toHour+1, 0, 0, 0, c.loc)
	return from, to, nil
}

// ValidDate проверяет формат YYYY-MM-DD
func ValidDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}
