package utils

import (
	"sync"
	"time"
)

var (
	taipeiOnce sync.Once
	taipeiLoc  *time.Location
)

// GetTaipeiTimeLocation returns the exchange time zone, falling back to a fixed UTC+8 zone
// when the tz database is unavailable.
func GetTaipeiTimeLocation() *time.Location {
	taipeiOnce.Do(func() {
		loc, err := time.LoadLocation("Asia/Taipei")
		if err != nil {
			loc = time.FixedZone("CST", 8*60*60)
		}
		taipeiLoc = loc
	})
	return taipeiLoc
}

func TimeNowTaipei() time.Time {
	return time.Now().In(GetTaipeiTimeLocation())
}

func PrettyDate(t time.Time) string {
	return t.In(GetTaipeiTimeLocation()).Format("02 Jan 2006 15:04 MST")
}

// MonthsBetween lists the first day of every month from `from` through `to`, inclusive.
func MonthsBetween(from, to time.Time) []time.Time {
	if from.After(to) {
		return nil
	}
	cursor := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, from.Location())
	end := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, from.Location())
	var months []time.Time
	for !cursor.After(end) {
		months = append(months, cursor)
		cursor = cursor.AddDate(0, 1, 0)
	}
	return months
}
