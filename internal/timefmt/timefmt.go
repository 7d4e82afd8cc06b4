// Package timefmt форматирует даты для карточек комментариев и гостевой книги.
package timefmt

import (
	"time"

	"github.com/dustin/go-humanize"
)

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
)

// shortMagnitudes — "5m ago", "3h ago" и т.д.; старше месяца Ago показывает дату
var shortMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Minute, Format: "just now", DivBy: time.Second},
	{D: time.Hour, Format: "%dm %s", DivBy: time.Minute},
	{D: day, Format: "%dh %s", DivBy: time.Hour},
	{D: week, Format: "%dd %s", DivBy: day},
	{D: month, Format: "%dw %s", DivBy: week},
}

// Ago возвращает относительное время: "just now", "5m ago", "3h ago", "2d ago", "1w ago".
// Для дат старше 30 дней — короткая дата ("Jan 2", с годом если он не текущий).
func Ago(t, now time.Time) string {
	if now.Sub(t) >= month {
		if t.Year() != now.Year() {
			return t.Format("Jan 2, 2006")
		}
		return t.Format("Jan 2")
	}
	if t.After(now) {
		return "just now"
	}
	return humanize.CustomRelTime(t, now, "ago", "from now", shortMagnitudes)
}

// Full возвращает полную дату для title/tooltip: "January 2, 2006 at 3:04 PM"
func Full(t time.Time) string {
	return t.Format("January 2, 2006 at 3:04 PM")
}
