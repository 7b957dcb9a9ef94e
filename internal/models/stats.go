package models

import "time"

// DailyStats содержит сводку генераций за календарный день.
type DailyStats struct {
	Day         time.Time `json:"day"`
	ActiveUsers int       `json:"activeUsers"`
	Generations int       `json:"generations"`
}
