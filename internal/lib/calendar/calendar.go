// Package calendar содержит расчёты календарных границ, используемые квотой и подписками.
package calendar

import "time"

// DayBounds возвращает полуинтервал [начало дня, начало следующего дня) для t в часовом поясе loc.
// Границы считаются через календарь, а не через 24h, поэтому дни перехода на летнее время корректны.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// PreviousDay возвращает границы календарного дня, предшествующего t.
func PreviousDay(t time.Time, loc *time.Location) (time.Time, time.Time) {
	start, _ := DayBounds(t, loc)
	return start.AddDate(0, 0, -1), start
}

// Window возвращает окно [now, now+days дней).
func Window(now time.Time, days int) (time.Time, time.Time) {
	return now, now.AddDate(0, 0, days)
}

// LoadLocation разбирает IANA-имя пояса; пустая строка и "Local" означают пояс сервера.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}
